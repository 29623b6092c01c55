package changefeed

import (
	"context"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/nats-io/nats.go"
	"github.com/riskibarqy/league-engine/internal/domain/changefeed"
	"github.com/riskibarqy/league-engine/internal/platform/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	headerKind     = "Notice-Kind"
	headerLeagueID = "League-ID"
	subjectSuffix  = "match_events"
)

var tracer = otel.Tracer("league-engine/internal/infrastructure/changefeed")

type Config struct {
	URL           string
	SubjectPrefix string
	MaxReconnects int
	ReconnectWait time.Duration
}

// Connect dials NATS and logs connection state changes.
func Connect(cfg Config, logger *logging.Logger) (*nats.Conn, error) {
	if logger == nil {
		logger = logging.Default()
	}
	url := strings.TrimSpace(cfg.URL)
	if url == "" {
		url = nats.DefaultURL
	}
	reconnectWait := cfg.ReconnectWait
	if reconnectWait <= 0 {
		reconnectWait = 2 * time.Second
	}

	conn, err := nats.Connect(url,
		nats.Name("league-engine"),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(reconnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ErrorHandler(func(_ *nats.Conn, sub *nats.Subscription, err error) {
			subject := ""
			if sub != nil {
				subject = sub.Subject
			}
			logger.Error("nats async error", "subject", subject, "error", err)
		}),
	)
	if err != nil {
		return nil, crerr.Wrapf(err, "connect nats url=%s", url)
	}
	return conn, nil
}

// Subject is the subject notices of one league are published on. Characters with a
// meaning in NATS subjects are replaced in the league id.
func Subject(prefix, leagueID string) string {
	return normalizePrefix(prefix) + ".league." + subjectToken(leagueID) + "." + subjectSuffix
}

// WildcardSubject matches the notices of every league.
func WildcardSubject(prefix string) string {
	return normalizePrefix(prefix) + ".league.*." + subjectSuffix
}

func normalizePrefix(prefix string) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), ".")
	if prefix == "" {
		return "league-engine"
	}
	return prefix
}

func subjectToken(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "_"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ', '\t', '\n', '\r':
			return '_'
		default:
			return r
		}
	}, value)
}

func encodeNotice(notice changefeed.Notice) ([]byte, error) {
	data, err := sonic.Marshal(notice)
	if err != nil {
		return nil, crerr.Wrap(err, "encode change notice")
	}
	return data, nil
}

func decodeNotice(data []byte) (changefeed.Notice, error) {
	var notice changefeed.Notice
	if err := sonic.Unmarshal(data, &notice); err != nil {
		return changefeed.Notice{}, crerr.Wrap(err, "decode change notice")
	}
	if notice.LeagueID == "" {
		return changefeed.Notice{}, crerr.New("change notice without league id")
	}
	return notice, nil
}

func startSpan(ctx context.Context, name string, notice changefeed.Notice) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("league_id", notice.LeagueID),
		attribute.String("notice_kind", string(notice.Kind)),
	))
}

