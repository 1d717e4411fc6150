package intern

import (
	"log/slog"
	"math"
)

// defaultWarnThreshold is the fill ratio at which a table logs a warning.
const defaultWarnThreshold = 0.9

type settings struct {
	logger        *slog.Logger
	warnThreshold float64
}

func defaultSettings() settings {
	return settings{warnThreshold: defaultWarnThreshold}
}

// Option configures a Registry or a standalone Interner.
type Option func(*settings)

// WithLogger sets the logger tables report to. Defaults to slog.Default() at
// the time a table is created.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithWarnThreshold sets the fill ratio (0, 1] at which a table logs a single
// capacity warning. Values outside that range disable the warning.
func WithWarnThreshold(ratio float64) Option {
	return func(s *settings) {
		s.warnThreshold = ratio
	}
}

func (s settings) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}

	return slog.Default()
}

// warnAt returns the entry count that triggers the capacity warning, or 0
// when the warning is disabled.
func (s settings) warnAt(capacity int) int {
	if s.warnThreshold <= 0 || s.warnThreshold > 1 {
		return 0
	}

	return max(int(math.Ceil(float64(capacity)*s.warnThreshold)), 1)
}
