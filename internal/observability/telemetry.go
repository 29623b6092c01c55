// Package observability wires tracing, log shipping and continuous profiling for the
// league engine binaries.
package observability

import (
	"context"
	"errors"
	"runtime"
	"strings"

	"github.com/grafana/pyroscope-go"
	"github.com/riskibarqy/league-engine/internal/config"
	"github.com/riskibarqy/league-engine/internal/platform/logging"
	"github.com/uptrace/uptrace-go/uptrace"
)

// mutexProfileFraction samples one in five mutex contention events while profiling runs.
const mutexProfileFraction = 5

var profileTypes = []pyroscope.ProfileType{
	pyroscope.ProfileCPU,
	pyroscope.ProfileAllocObjects,
	pyroscope.ProfileAllocSpace,
	pyroscope.ProfileInuseSpace,
	pyroscope.ProfileGoroutines,
	pyroscope.ProfileMutexCount,
	pyroscope.ProfileMutexDuration,
}

// Telemetry holds what Setup started. Shutdown stops the profiler before flushing
// traces so the final profile upload is not cut off by the exporter shutdown.
type Telemetry struct {
	// Logger also ships entries to Uptrace when UPTRACE_LOGS_ENABLED is set.
	Logger *logging.Logger

	stopProfiler func() error
	flushTracing func(context.Context) error
}

func Setup(cfg config.Config, logger *logging.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = logging.Default()
	}
	t := &Telemetry{Logger: logger}

	if cfg.UptraceEnabled && strings.TrimSpace(cfg.UptraceDSN) != "" {
		t.Logger = configureUptrace(cfg, logger)
		t.flushTracing = uptrace.Shutdown
	} else {
		logger.Info("uptrace disabled")
	}

	if cfg.PyroscopeEnabled {
		stop, err := startProfiler(cfg)
		if err != nil {
			return nil, err
		}
		t.stopProfiler = stop
		t.Logger.Info("pyroscope enabled",
			"server_address", cfg.PyroscopeServerAddress,
			"application", cfg.PyroscopeAppName,
		)
	} else {
		logger.Info("pyroscope disabled")
	}
	return t, nil
}

func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	if t.stopProfiler != nil {
		errs = append(errs, t.stopProfiler())
	}
	if t.flushTracing != nil {
		errs = append(errs, t.flushTracing(ctx))
	}
	return errors.Join(errs...)
}

func configureUptrace(cfg config.Config, logger *logging.Logger) *logging.Logger {
	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
		uptrace.WithLoggingEnabled(cfg.UptraceLogsEnabled),
	)
	if cfg.UptraceLogsEnabled {
		logger = logger.Tee(newOTelLogCore(cfg.ServiceVersion, cfg.LogLevel))
	}
	logger.Info("uptrace enabled",
		"service_name", cfg.ServiceName,
		"service_version", cfg.ServiceVersion,
		"environment", cfg.AppEnv,
		"logs_enabled", cfg.UptraceLogsEnabled,
	)
	return logger
}

func startProfiler(cfg config.Config) (func() error, error) {
	previous := runtime.SetMutexProfileFraction(mutexProfileFraction)
	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: cfg.PyroscopeAppName,
		ServerAddress:   cfg.PyroscopeServerAddress,
		AuthToken:       cfg.PyroscopeAuthToken,
		UploadRate:      cfg.PyroscopeUploadRate,
		Tags: map[string]string{
			"env":     cfg.AppEnv,
			"service": cfg.ServiceName,
			"version": cfg.ServiceVersion,
		},
		ProfileTypes: profileTypes,
	})
	if err != nil {
		runtime.SetMutexProfileFraction(previous)
		return nil, err
	}
	return func() error {
		defer runtime.SetMutexProfileFraction(previous)
		return profiler.Stop()
	}, nil
}
