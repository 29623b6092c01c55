package changefeed

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/nats-io/nats.go"
	"github.com/riskibarqy/league-engine/internal/domain/changefeed"
	"github.com/riskibarqy/league-engine/internal/platform/logging"
	"github.com/riskibarqy/league-engine/internal/platform/resilience"
)

type msgPublisher interface {
	PublishMsg(msg *nats.Msg) error
}

// PublishRecorder observes publish outcomes.
type PublishRecorder interface {
	ObservePublish(kind string, success bool)
}

type nopPublishRecorder struct{}

func (nopPublishRecorder) ObservePublish(string, bool) {}

// NATSPublisher implements changefeed.Publisher over core NATS. Notices are at most once;
// consumers must tolerate gaps.
type NATSPublisher struct {
	conn     msgPublisher
	prefix   string
	breaker  *resilience.CircuitBreaker
	recorder PublishRecorder
	logger   *logging.Logger
}

var _ changefeed.Publisher = (*NATSPublisher)(nil)

func NewNATSPublisher(conn *nats.Conn, prefix string, breaker *resilience.CircuitBreaker, recorder PublishRecorder, logger *logging.Logger) *NATSPublisher {
	return newNATSPublisher(conn, prefix, breaker, recorder, logger)
}

func newNATSPublisher(conn msgPublisher, prefix string, breaker *resilience.CircuitBreaker, recorder PublishRecorder, logger *logging.Logger) *NATSPublisher {
	if recorder == nil {
		recorder = nopPublishRecorder{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &NATSPublisher{
		conn:     conn,
		prefix:   normalizePrefix(prefix),
		breaker:  breaker,
		recorder: recorder,
		logger:   logger,
	}
}

func (p *NATSPublisher) Publish(ctx context.Context, notice changefeed.Notice) error {
	ctx, span := startSpan(ctx, "changefeed.NATSPublisher.Publish", notice)
	defer span.End()

	data, err := encodeNotice(notice)
	if err != nil {
		span.RecordError(err)
		return err
	}
	msg := &nats.Msg{
		Subject: Subject(p.prefix, notice.LeagueID),
		Data:    data,
		Header: nats.Header{
			headerKind:     []string{string(notice.Kind)},
			headerLeagueID: []string{notice.LeagueID},
		},
	}

	err = p.breaker.Execute(ctx, func(context.Context) error {
		return p.conn.PublishMsg(msg)
	})
	p.recorder.ObservePublish(string(notice.Kind), err == nil)
	if err != nil {
		span.RecordError(err)
		if crerr.Is(err, resilience.ErrCircuitOpen) {
			return crerr.Wrapf(err, "publish %s skipped", msg.Subject)
		}
		return crerr.Wrapf(err, "publish %s", msg.Subject)
	}

	p.logger.DebugContext(ctx, "change notice published",
		"subject", msg.Subject,
		"kind", string(notice.Kind),
		"bytes", len(data),
	)
	return nil
}
