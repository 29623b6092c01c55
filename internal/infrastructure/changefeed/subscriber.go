package changefeed

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/nats-io/nats.go"
	"github.com/riskibarqy/league-engine/internal/domain/changefeed"
	"github.com/riskibarqy/league-engine/internal/platform/logging"
)

type msgSubscriber interface {
	Subscribe(subject string, cb nats.MsgHandler) (*nats.Subscription, error)
}

// Listener delivers decoded notices of every league to a handler.
type Listener struct {
	conn   msgSubscriber
	prefix string
	logger *logging.Logger
}

func NewListener(conn *nats.Conn, prefix string, logger *logging.Logger) *Listener {
	return newListener(conn, prefix, logger)
}

func newListener(conn msgSubscriber, prefix string, logger *logging.Logger) *Listener {
	if logger == nil {
		logger = logging.Default()
	}
	return &Listener{conn: conn, prefix: normalizePrefix(prefix), logger: logger}
}

// Listen subscribes and blocks until ctx is done. Malformed messages are logged and
// dropped.
func (l *Listener) Listen(ctx context.Context, handle func(context.Context, changefeed.Notice)) error {
	subject := WildcardSubject(l.prefix)
	sub, err := l.conn.Subscribe(subject, l.handler(ctx, handle))
	if err != nil {
		return crerr.Wrapf(err, "subscribe %s", subject)
	}
	l.logger.Info("listening for change notices", "subject", subject)

	<-ctx.Done()
	if sub != nil {
		if err := sub.Unsubscribe(); err != nil && !crerr.Is(err, nats.ErrConnectionClosed) {
			l.logger.Warn("unsubscribe change notices failed", "subject", subject, "error", err)
		}
	}
	return nil
}

func (l *Listener) handler(ctx context.Context, handle func(context.Context, changefeed.Notice)) nats.MsgHandler {
	return func(msg *nats.Msg) {
		notice, err := decodeNotice(msg.Data)
		if err != nil {
			l.logger.Warn("drop malformed change notice", "subject", msg.Subject, "error", err)
			return
		}
		noticeCtx, span := startSpan(ctx, "changefeed.Listener.Handle", notice)
		defer span.End()
		handle(noticeCtx, notice)
	}
}
