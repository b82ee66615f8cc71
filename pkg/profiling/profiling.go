package profiling

import (
	"fmt"
	"strings"
	"time"

	"github.com/aureeture/aureeture-api/config"
	"github.com/aureeture/aureeture-api/pkg/logger"
	"github.com/grafana/pyroscope-go"
	"go.uber.org/zap"
)

// sampleTypes maps O11Y_PROFILING_SAMPLE_TYPES entries to pyroscope profile
// types. Mutex and block each expand to their count+duration pair.
var sampleTypes = map[string][]pyroscope.ProfileType{
	"cpu":           {pyroscope.ProfileCPU},
	"alloc_space":   {pyroscope.ProfileAllocSpace},
	"alloc_objects": {pyroscope.ProfileAllocObjects},
	"goroutines":    {pyroscope.ProfileGoroutines},
	"mutex":         {pyroscope.ProfileMutexCount, pyroscope.ProfileMutexDuration},
	"block":         {pyroscope.ProfileBlockCount, pyroscope.ProfileBlockDuration},
}

var allSampleTypes = []pyroscope.ProfileType{
	pyroscope.ProfileCPU,
	pyroscope.ProfileAllocSpace,
	pyroscope.ProfileAllocObjects,
	pyroscope.ProfileGoroutines,
	pyroscope.ProfileMutexCount,
	pyroscope.ProfileMutexDuration,
	pyroscope.ProfileBlockCount,
	pyroscope.ProfileBlockDuration,
}

// InitProfiler starts continuous profiling against the configured pyroscope
// endpoint and returns a stop function. When profiling is disabled the stop
// function is a no-op.
func InitProfiler(cfg config.ProfilingConfig, serviceName, namespace, version, instanceID, environment string) (func(), error) {
	if !cfg.Enabled {
		logger.Info("Continuous profiling disabled")
		return func() {}, nil
	}

	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("profiling endpoint is required when profiling is enabled")
	}

	types, err := resolveSampleTypes(cfg.SampleTypes)
	if err != nil {
		return nil, err
	}

	uploadInterval := time.Duration(cfg.UploadIntervalSeconds) * time.Second
	if uploadInterval <= 0 {
		uploadInterval = 15 * time.Second
	}

	appName := strings.TrimSpace(cfg.AppName)
	if appName == "" {
		appName = "aureeture-api"
	}
	appName = fmt.Sprintf("%s{service_name=%s,namespace=%s,environment=%s,service_version=%s,instance=%s}",
		appName, serviceName, namespace, environment, version, instanceID)

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: appName,
		ServerAddress:   endpoint,
		UploadRate:      uploadInterval,
		ProfileTypes:    types,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start profiler: %w", err)
	}

	logger.Info("Continuous profiling initialized",
		zap.String("application_name", appName),
		zap.String("endpoint", endpoint),
		zap.String("sample_types", cfg.SampleTypes),
		zap.Duration("upload_interval", uploadInterval),
	)

	return func() {
		if err := profiler.Stop(); err != nil {
			logger.Error("Failed to stop profiler", zap.Error(err))
		}
	}, nil
}

// resolveSampleTypes parses a comma-separated sample type list. Empty input
// selects every supported profile type.
func resolveSampleTypes(value string) ([]pyroscope.ProfileType, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return allSampleTypes, nil
	}

	var types []pyroscope.ProfileType
	seen := make(map[pyroscope.ProfileType]bool, len(allSampleTypes))
	for _, raw := range strings.Split(value, ",") {
		key := strings.ToLower(strings.TrimSpace(raw))
		mapped, ok := sampleTypes[key]
		if !ok {
			return nil, fmt.Errorf("unsupported O11Y_PROFILING_SAMPLE_TYPES value: %q", key)
		}
		for _, t := range mapped {
			if !seen[t] {
				types = append(types, t)
				seen[t] = true
			}
		}
	}

	if len(types) == 0 {
		return allSampleTypes, nil
	}
	return types, nil
}
