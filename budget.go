package ocrkit

import (
	"fmt"
	"os"
	"strconv"
)

// ThreadLimitEnv is the environment variable Tesseract's OpenMP runtime
// honors. When an operator sets it, that value is adopted verbatim as the
// thread budget and never recomputed.
const ThreadLimitEnv = "OMP_THREAD_LIMIT"

// maxEngineThreads caps the per-invocation thread budget. Three threads is
// the most effective on commodity 4 core / 8 thread hardware; beyond that
// returns diminish. An empirical tuning value, not derived from detected
// cores.
const maxEngineThreads = 3

// ConfigurationError reports an invalid configuration value. It is fatal
// at startup: a bad explicit setting must never be silently replaced with
// a default.
type ConfigurationError struct {
	Name   string
	Value  string
	Reason string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration %s=%q: %s", e.Name, e.Value, e.Reason)
}

// ComputeThreadBudget decides, once per run, how many internal threads
// each engine invocation may use.
//
// The engine is internally multi-threaded and the pipeline also
// parallelizes across pages, so uncoordinated they oversubscribe the
// machine. With many pages the workers already saturate the cores and
// each invocation is forced single-threaded; with few pages each worker
// may grant the engine up to maxEngineThreads, targeting
// workers * budget <= available cores.
//
// An operator override in ThreadLimitEnv takes precedence verbatim. An
// override that is present but not a valid non-negative integer is a
// *ConfigurationError.
func ComputeThreadBudget(workers, pageCount int) (int, error) {
	if raw, ok := os.LookupEnv(ThreadLimitEnv); ok && raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return 0, &ConfigurationError{
				Name:   ThreadLimitEnv,
				Value:  raw,
				Reason: "must be a non-negative integer",
			}
		}
		return n, nil
	}

	if pageCount < 1 {
		pageCount = 1
	}
	return clamp(workers/pageCount, 1, maxEngineThreads), nil
}

// clamp bounds n to [lo, hi].
func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
