package terasort

import (
	"fmt"

	"github.com/hupe1980/terasort/record"
)

// DefaultSampleSize is the global number of samples when Config.SampleSize is zero.
const DefaultSampleSize = 1000

// Config describes one sort. Every rank must use the same Config.
type Config struct {
	// InputPath names the input in the blob store (a file path by default).
	InputPath string
	// OutputPath is the output file. Rank 0 truncates it at the start of a run.
	OutputPath string
	// SampleSize is the global number of pivot candidates.
	SampleSize int64
	// Format is the record layout. The zero value means record.TeraGen.
	Format record.Format
}

func (c *Config) setDefaults() {
	if c.Format == (record.Format{}) {
		c.Format = record.TeraGen
	}
	if c.SampleSize == 0 {
		c.SampleSize = DefaultSampleSize
	}
}

// Validate fills in defaults and checks the config.
func (c *Config) Validate() error {
	c.setDefaults()
	if c.InputPath == "" {
		return fmt.Errorf("%w: empty input path", ErrInvalidConfig)
	}
	if c.OutputPath == "" {
		return fmt.Errorf("%w: empty output path", ErrInvalidConfig)
	}
	if c.SampleSize < 0 {
		return fmt.Errorf("%w: negative sample size %d", ErrInvalidConfig, c.SampleSize)
	}
	if err := c.Format.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
