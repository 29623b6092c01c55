package logging

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_WritesKeyValueFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := FromZap(zap.New(core))

	logger.With("component", "eventlog").InfoContext(context.Background(), "event appended",
		"match_id", "m1",
		"error", errors.New("boom"),
		"dangling",
	)
	logger.Debug("filtered out")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.Equal(t, "eventlog", fields["component"])
	require.Equal(t, "m1", fields["match_id"])
	require.Equal(t, "boom", fields["error"])
	require.Contains(t, fields, "dangling")
}

func TestLogger_NilReceiverFallsBackToDefault(t *testing.T) {
	var logger *Logger
	require.NotPanics(t, func() {
		logger.Info("no logger configured", "key", "value")
	})
}

func TestLogger_TeeWritesToBothCores(t *testing.T) {
	base, baseLogs := observer.New(zap.InfoLevel)
	extra, extraLogs := observer.New(zap.WarnLevel)
	logger := FromZap(zap.New(base)).Tee(extra)

	logger.Info("standings replaced", "league_id", "l1")
	logger.Warn("assist dropped", "match_id", "m1")

	require.Equal(t, 2, baseLogs.Len())
	require.Equal(t, 1, extraLogs.Len())
	require.Equal(t, "assist dropped", extraLogs.All()[0].Message)
	require.Same(t, logger, logger.Tee(nil))
}
