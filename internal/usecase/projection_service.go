package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/league-engine/internal/domain/league"
	"github.com/riskibarqy/league-engine/internal/domain/leaguestanding"
	"github.com/riskibarqy/league-engine/internal/platform/logging"
)

const (
	projectionStatusSuccess = "success"
	projectionStatusFailed  = "failed"
)

// ProjectionRecorder observes snapshot recomputations; implemented by the projector's
// prometheus metrics.
type ProjectionRecorder interface {
	ObserveRecompute(leagueID string, success bool, duration time.Duration)
}

type nopProjectionRecorder struct{}

func (nopProjectionRecorder) ObserveRecompute(string, bool, time.Duration) {}

type ProjectionTaskResult struct {
	LeagueID   string
	Status     string
	Rows       int
	Message    string
	DurationMs int64
}

type ProjectionResult struct {
	LeagueCount  int
	WorkerCount  int
	SuccessCount int
	FailedCount  int
	Tasks        []ProjectionTaskResult
}

// ProjectionService stores standings snapshots for read-heavy consumers. Snapshots are a
// cache of StandingsService output and may lag the event log.
type ProjectionService struct {
	leagueRepo   league.Repository
	standingRepo leaguestanding.Repository
	standings    *StandingsService
	recorder     ProjectionRecorder
	maxWorkers   int
	logger       *logging.Logger
	now          func() time.Time
}

func NewProjectionService(
	leagueRepo league.Repository,
	standingRepo leaguestanding.Repository,
	standings *StandingsService,
	recorder ProjectionRecorder,
	maxWorkers int,
	logger *logging.Logger,
) *ProjectionService {
	if recorder == nil {
		recorder = nopProjectionRecorder{}
	}
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ProjectionService{
		leagueRepo:   leagueRepo,
		standingRepo: standingRepo,
		standings:    standings,
		recorder:     recorder,
		maxWorkers:   maxWorkers,
		logger:       logger,
		now:          time.Now,
	}
}

// RecomputeLeagues refreshes the snapshots of the given leagues, or of every active
// league when none are given. A failing league does not stop the others.
func (s *ProjectionService) RecomputeLeagues(ctx context.Context, leagueIDs []string) (ProjectionResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProjectionService.RecomputeLeagues")
	defer span.End()

	targets, err := s.resolveTargets(ctx, leagueIDs)
	if err != nil {
		return ProjectionResult{}, err
	}

	workerCount := min(s.maxWorkers, max(len(targets), 1))
	result := ProjectionResult{
		LeagueCount: len(targets),
		WorkerCount: workerCount,
		Tasks:       make([]ProjectionTaskResult, 0, len(targets)),
	}
	if len(targets) == 0 {
		return result, nil
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return ProjectionResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan ProjectionTaskResult, len(targets))
	var successCount atomic.Int32
	var failedCount atomic.Int32

	var workers sync.WaitGroup
	for _, leagueID := range targets {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			rows, err := s.recomputeLeague(ctx, leagueID)
			elapsed := time.Since(start)
			s.recorder.ObserveRecompute(leagueID, err == nil, elapsed)

			row := ProjectionTaskResult{
				LeagueID:   leagueID,
				Rows:       rows,
				DurationMs: elapsed.Milliseconds(),
			}
			if err != nil {
				row.Status = projectionStatusFailed
				row.Message = err.Error()
				failedCount.Add(1)
				s.logger.WarnContext(ctx, "standings snapshot failed", "league_id", leagueID, "error", err)
			} else {
				row.Status = projectionStatusSuccess
				successCount.Add(1)
			}
			results <- row
		}); err != nil {
			workers.Done()
			return ProjectionResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	for row := range results {
		result.Tasks = append(result.Tasks, row)
	}
	sort.SliceStable(result.Tasks, func(i, j int) bool {
		return result.Tasks[i].LeagueID < result.Tasks[j].LeagueID
	})

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())
	s.logger.InfoContext(ctx, "standings snapshots recomputed",
		"leagues", result.LeagueCount,
		"success", result.SuccessCount,
		"failed", result.FailedCount,
	)
	return result, nil
}

// ListSnapshot returns the last stored table of a league.
func (s *ProjectionService) ListSnapshot(ctx context.Context, leagueID string) ([]leaguestanding.Standing, error) {
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	_, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	items, err := s.standingRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list league standings: %w", err)
	}
	return items, nil
}

func (s *ProjectionService) recomputeLeague(ctx context.Context, leagueID string) (int, error) {
	table, err := s.standings.ComputeStandings(ctx, leagueID)
	if err != nil {
		return 0, err
	}

	computedAt := s.now().UTC()
	for idx := range table {
		table[idx].ComputedAt = &computedAt
	}
	if err := s.standingRepo.ReplaceByLeague(ctx, leagueID, table); err != nil {
		return 0, fmt.Errorf("replace league standings: %w", err)
	}
	return len(table), nil
}

func (s *ProjectionService) resolveTargets(ctx context.Context, leagueIDs []string) ([]string, error) {
	requested := make([]string, 0, len(leagueIDs))
	for _, value := range leagueIDs {
		if value = strings.TrimSpace(value); value != "" {
			requested = append(requested, value)
		}
	}
	if len(requested) > 0 {
		return uniqueStrings(requested), nil
	}

	leagues, err := s.leagueRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}
	out := make([]string, 0, len(leagues))
	for _, item := range leagues {
		if item.Status == league.StatusActive {
			out = append(out, item.ID)
		}
	}
	sort.Strings(out)
	return out, nil
}
