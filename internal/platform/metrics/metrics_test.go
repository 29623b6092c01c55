package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_ObserveRecompute(t *testing.T) {
	t.Parallel()

	r := New()
	r.ObserveRecompute("league-1", true, 20*time.Millisecond)
	r.ObserveRecompute("league-2", false, time.Second)
	r.ObserveRecompute("league-3", true, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.recomputeTotal.WithLabelValues(resultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.recomputeTotal.WithLabelValues(resultFailure)))
	assert.Positive(t, testutil.ToFloat64(r.lastRecomputeUnix))
}

func TestRecorder_PublishAndTriggers(t *testing.T) {
	t.Parallel()

	r := New()
	r.ObservePublish("event_appended", true)
	r.ObservePublish("event_appended", false)
	r.ObserveTrigger("notice")

	assert.Equal(t, 1.0, testutil.ToFloat64(r.publishTotal.WithLabelValues("event_appended", resultFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.triggersTotal.WithLabelValues("notice")))
}

func TestRecorder_NilIsNoop(t *testing.T) {
	t.Parallel()

	var r *Recorder
	r.ObserveRecompute("league-1", true, time.Second)
	r.ObservePublish("match_updated", true)
	r.ObserveTrigger("ticker")
	r.ObserveBreakerState("nats", "open")
}

func TestRecorder_ObserveBreakerState(t *testing.T) {
	t.Parallel()

	r := New()
	r.ObserveBreakerState("nats", "open")
	assert.Equal(t, 2.0, testutil.ToFloat64(r.breakerState.WithLabelValues("nats")))

	r.ObserveBreakerState("nats", "half_open")
	assert.Equal(t, 1.0, testutil.ToFloat64(r.breakerState.WithLabelValues("nats")))

	r.ObserveBreakerState("nats", "closed")
	assert.Equal(t, 0.0, testutil.ToFloat64(r.breakerState.WithLabelValues("nats")))
}

func TestRecorder_Handler(t *testing.T) {
	t.Parallel()

	r := New()
	r.ObserveTrigger("ticker")

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `league_engine_projection_triggers_total{source="ticker"} 1`), body)
}
