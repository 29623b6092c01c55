package app

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/league-engine/internal/domain/changefeed"
	"github.com/riskibarqy/league-engine/internal/platform/logging"
	"github.com/riskibarqy/league-engine/internal/usecase"
	"github.com/stretchr/testify/require"
)

type recordingRecomputer struct {
	mu    sync.Mutex
	calls [][]string
}

func (r *recordingRecomputer) RecomputeLeagues(_ context.Context, leagueIDs []string) (usecase.ProjectionResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, slices.Clone(leagueIDs))
	return usecase.ProjectionResult{LeagueCount: len(leagueIDs)}, nil
}

func (r *recordingRecomputer) snapshot() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.calls)
}

type recordingInvalidator struct {
	mu  sync.Mutex
	ids []string
}

func (r *recordingInvalidator) Invalidate(leagueID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, leagueID)
}

func (r *recordingInvalidator) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.ids)
}

type recordingTriggers struct {
	mu     sync.Mutex
	counts map[string]int
}

func (r *recordingTriggers) ObserveTrigger(source string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.counts == nil {
		r.counts = make(map[string]int)
	}
	r.counts[source]++
}

func (r *recordingTriggers) count(source string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[source]
}

type scriptedSource struct {
	notices []changefeed.Notice
	err     error
}

func (s scriptedSource) Listen(ctx context.Context, handle func(context.Context, changefeed.Notice)) error {
	if s.err != nil {
		return s.err
	}
	for _, notice := range s.notices {
		handle(ctx, notice)
	}
	<-ctx.Done()
	return nil
}

func runProjector(t *testing.T, p *Projector) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()
	t.Cleanup(cancel)
	return cancel, done
}

func TestProjector_CoalescesNoticesPerLeague(t *testing.T) {
	recomputer := &recordingRecomputer{}
	invalidator := &recordingInvalidator{}
	triggers := &recordingTriggers{}
	source := scriptedSource{notices: []changefeed.Notice{
		{Kind: changefeed.KindEventAppended, LeagueID: "league-b"},
		{Kind: changefeed.KindEventAppended, LeagueID: "league-a"},
		{Kind: changefeed.KindEventRemoved, LeagueID: "league-b"},
		{Kind: changefeed.KindMatchUpdated, LeagueID: ""},
	}}

	p := newProjector(recomputer, invalidator, source, triggers, ProjectorConfig{
		Interval: time.Hour,
		Debounce: 20 * time.Millisecond,
	}, logging.NewNop())
	cancel, done := runProjector(t, p)

	require.Eventually(t, func() bool {
		return len(recomputer.snapshot()) == 2
	}, 2*time.Second, 10*time.Millisecond)

	calls := recomputer.snapshot()
	require.Nil(t, calls[0])
	require.Equal(t, []string{"league-a", "league-b"}, calls[1])
	require.Equal(t, []string{"league-b", "league-a", "league-b"}, invalidator.snapshot())
	require.Equal(t, 1, triggers.count(TriggerStartup))
	require.Equal(t, 1, triggers.count(TriggerNotice))

	cancel()
	require.NoError(t, <-done)
}

func TestProjector_IgnoresNoticesOutsideConfiguredLeagues(t *testing.T) {
	recomputer := &recordingRecomputer{}
	source := scriptedSource{notices: []changefeed.Notice{
		{Kind: changefeed.KindEventAppended, LeagueID: "league-x"},
		{Kind: changefeed.KindEventAppended, LeagueID: "league-a"},
	}}

	p := newProjector(recomputer, nil, source, nil, ProjectorConfig{
		Interval:  time.Hour,
		Debounce:  10 * time.Millisecond,
		LeagueIDs: []string{"league-a"},
	}, logging.NewNop())
	cancel, done := runProjector(t, p)

	require.Eventually(t, func() bool {
		return len(recomputer.snapshot()) == 2
	}, 2*time.Second, 10*time.Millisecond)

	calls := recomputer.snapshot()
	require.Equal(t, []string{"league-a"}, calls[0])
	require.Equal(t, []string{"league-a"}, calls[1])

	cancel()
	require.NoError(t, <-done)
}

func TestProjector_IntervalWithoutNoticeSource(t *testing.T) {
	recomputer := &recordingRecomputer{}
	triggers := &recordingTriggers{}

	p := newProjector(recomputer, nil, nil, triggers, ProjectorConfig{Interval: 15 * time.Millisecond}, logging.NewNop())
	cancel, done := runProjector(t, p)

	require.Eventually(t, func() bool {
		return triggers.count(TriggerInterval) >= 2
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestProjector_ReturnsListenerError(t *testing.T) {
	listenErr := errors.New("subscribe failed")
	p := newProjector(&recordingRecomputer{}, nil, scriptedSource{err: listenErr}, nil, ProjectorConfig{
		Interval: time.Hour,
	}, logging.NewNop())
	_, done := runProjector(t, p)

	select {
	case err := <-done:
		require.ErrorIs(t, err, listenErr)
	case <-time.After(2 * time.Second):
		t.Fatalf("projector did not stop after listener error")
	}
}
