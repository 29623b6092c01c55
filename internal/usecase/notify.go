package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/league-engine/internal/domain/changefeed"
	"github.com/riskibarqy/league-engine/internal/platform/logging"
)

// notifier publishes change notices after commit. Delivery is best effort: a failed
// publish is logged and never fails the write that produced it.
type notifier struct {
	publisher changefeed.Publisher
	logger    *logging.Logger
	now       func() time.Time
}

func newNotifier(publisher changefeed.Publisher, logger *logging.Logger) notifier {
	if publisher == nil {
		publisher = changefeed.NopPublisher{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return notifier{publisher: publisher, logger: logger, now: time.Now}
}

func (n notifier) notify(ctx context.Context, kind changefeed.Kind, leagueID, matchID string, eventIDs ...string) {
	notice := changefeed.Notice{
		Kind:       kind,
		LeagueID:   leagueID,
		MatchID:    matchID,
		EventIDs:   eventIDs,
		OccurredAt: n.now().UTC(),
	}
	if err := n.publisher.Publish(ctx, notice); err != nil {
		n.logger.WarnContext(ctx, "publish change notice failed",
			"kind", string(kind),
			"league_id", leagueID,
			"match_id", matchID,
			"error", err,
		)
	}
}
