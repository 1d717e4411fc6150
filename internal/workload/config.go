// Package workload drives concurrent interning traffic against a registry.
// The bench command uses it to measure contention and to exercise the
// exhaustion and metrics paths of the interning tables.
package workload

import (
	"errors"
	"fmt"

	"github.com/purpl3F0x/typst/pkg/vpath"
)

// ErrInvalidConfig is returned by Run for unusable settings.
var ErrInvalidConfig = errors.New("invalid workload config")

const defaultBatchSize = 256

// Config describes one workload run.
type Config struct {
	// Root is the sandbox the generated file paths live in.
	Root vpath.VirtualRoot

	// Workers is the number of concurrent goroutines.
	Workers int

	// Values is the number of distinct values in each table.
	Values int

	// Repeat is how many passes every worker makes over the value set.
	Repeat int

	// UniqueRatio is the fraction of calls that use InternUnique.
	UniqueRatio float64

	// BatchSize is the number of operations recorded per metrics batch.
	// Zero means 256.
	BatchSize int

	// Seed makes the choice between Intern and InternUnique reproducible.
	Seed uint64
}

func (c Config) validate() error {
	switch {
	case c.Workers <= 0:
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidConfig, c.Workers)
	case c.Values <= 0:
		return fmt.Errorf("%w: values must be positive, got %d", ErrInvalidConfig, c.Values)
	case c.Repeat <= 0:
		return fmt.Errorf("%w: repeat must be positive, got %d", ErrInvalidConfig, c.Repeat)
	case c.UniqueRatio < 0 || c.UniqueRatio > 1:
		return fmt.Errorf("%w: unique ratio must be within [0, 1], got %g", ErrInvalidConfig, c.UniqueRatio)
	case c.BatchSize < 0:
		return fmt.Errorf("%w: batch size must not be negative, got %d", ErrInvalidConfig, c.BatchSize)
	}

	return nil
}

func (c Config) batchSize() int {
	if c.BatchSize == 0 {
		return defaultBatchSize
	}

	return c.BatchSize
}

// Calls returns the number of intern calls the run makes per table.
func (c Config) Calls() int {
	return c.Workers * c.Values * c.Repeat
}
