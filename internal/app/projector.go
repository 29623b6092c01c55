package app

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/riskibarqy/league-engine/internal/domain/changefeed"
	"github.com/riskibarqy/league-engine/internal/platform/logging"
	"github.com/riskibarqy/league-engine/internal/usecase"
)

const (
	TriggerStartup  = "startup"
	TriggerInterval = "interval"
	TriggerNotice   = "notice"

	defaultNoticeDebounce = 500 * time.Millisecond
	noticeBufferSize      = 256
)

type snapshotRecomputer interface {
	RecomputeLeagues(ctx context.Context, leagueIDs []string) (usecase.ProjectionResult, error)
}

type standingsInvalidator interface {
	Invalidate(leagueID string)
}

type noticeSource interface {
	Listen(ctx context.Context, handle func(context.Context, changefeed.Notice)) error
}

// TriggerRecorder counts what caused a recompute.
type TriggerRecorder interface {
	ObserveTrigger(source string)
}

type nopTriggerRecorder struct{}

func (nopTriggerRecorder) ObserveTrigger(string) {}

type ProjectorConfig struct {
	Interval time.Duration
	// LeagueIDs limits the projector to these leagues; empty means every active league.
	LeagueIDs []string
	Debounce  time.Duration
}

// Projector keeps standings snapshots fresh. It recomputes on a fixed interval and,
// when a notice source is present, shortly after change notices for a league arrive.
// Notices are coalesced per league while the debounce window is open.
type Projector struct {
	projection  snapshotRecomputer
	invalidator standingsInvalidator
	source      noticeSource
	recorder    TriggerRecorder
	cfg         ProjectorConfig
	allowed     map[string]struct{}
	logger      *logging.Logger
}

// NewProjector wires a projector to the engine. The NATS listener is used when present.
func NewProjector(engine *Engine, cfg ProjectorConfig, logger *logging.Logger) *Projector {
	var source noticeSource
	if engine.Listener != nil {
		source = engine.Listener
	}
	var recorder TriggerRecorder = nopTriggerRecorder{}
	if engine.Metrics != nil {
		recorder = engine.Metrics
	}
	return newProjector(engine.Projection, engine.Standings, source, recorder, cfg, logger)
}

func newProjector(
	projection snapshotRecomputer,
	invalidator standingsInvalidator,
	source noticeSource,
	recorder TriggerRecorder,
	cfg ProjectorConfig,
	logger *logging.Logger,
) *Projector {
	if recorder == nil {
		recorder = nopTriggerRecorder{}
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = defaultNoticeDebounce
	}
	if logger == nil {
		logger = logging.Default()
	}

	allowed := make(map[string]struct{}, len(cfg.LeagueIDs))
	for _, id := range cfg.LeagueIDs {
		if id = strings.TrimSpace(id); id != "" {
			allowed[id] = struct{}{}
		}
	}

	return &Projector{
		projection:  projection,
		invalidator: invalidator,
		source:      source,
		recorder:    recorder,
		cfg:         cfg,
		allowed:     allowed,
		logger:      logger,
	}
}

// Run blocks until ctx is done or the notice source fails.
func (p *Projector) Run(ctx context.Context) error {
	notices := make(chan string, noticeBufferSize)
	var listenErr chan error
	if p.source != nil {
		listenErr = make(chan error, 1)
		go func() {
			listenErr <- p.source.Listen(ctx, func(_ context.Context, notice changefeed.Notice) {
				select {
				case notices <- notice.LeagueID:
				default:
					p.logger.Warn("change notice buffer full, league left to the next interval",
						"league_id", notice.LeagueID,
						"kind", string(notice.Kind),
					)
				}
			})
		}()
	}

	p.logger.Info("projector started",
		"interval", p.cfg.Interval,
		"debounce", p.cfg.Debounce,
		"leagues", p.cfg.LeagueIDs,
		"notices", p.source != nil,
	)
	p.recompute(ctx, TriggerStartup, p.cfg.LeagueIDs)

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	pending := make(map[string]struct{})
	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("projector stopped")
			return nil
		case err := <-listenErr:
			if err != nil && ctx.Err() == nil {
				return err
			}
			listenErr = nil
		case <-ticker.C:
			p.recompute(ctx, TriggerInterval, p.cfg.LeagueIDs)
		case leagueID := <-notices:
			if !p.tracks(leagueID) {
				continue
			}
			if p.invalidator != nil {
				p.invalidator.Invalidate(leagueID)
			}
			pending[leagueID] = struct{}{}
			if debounce == nil {
				debounce = time.After(p.cfg.Debounce)
			}
		case <-debounce:
			debounce = nil
			leagueIDs := make([]string, 0, len(pending))
			for id := range pending {
				leagueIDs = append(leagueIDs, id)
			}
			clear(pending)
			slices.Sort(leagueIDs)
			p.recompute(ctx, TriggerNotice, leagueIDs)
		}
	}
}

func (p *Projector) tracks(leagueID string) bool {
	if strings.TrimSpace(leagueID) == "" {
		return false
	}
	if len(p.allowed) == 0 {
		return true
	}
	_, ok := p.allowed[leagueID]
	return ok
}

func (p *Projector) recompute(ctx context.Context, trigger string, leagueIDs []string) {
	p.recorder.ObserveTrigger(trigger)
	result, err := p.projection.RecomputeLeagues(ctx, leagueIDs)
	if err != nil {
		p.logger.ErrorContext(ctx, "recompute standings snapshots failed", "trigger", trigger, "error", err)
		return
	}
	p.logger.DebugContext(ctx, "recompute standings snapshots done",
		"trigger", trigger,
		"leagues", result.LeagueCount,
		"failed", result.FailedCount,
	)
}
