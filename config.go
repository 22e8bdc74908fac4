package strtree

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Packing selects how leaves are ordered before they are grouped into nodes.
type Packing string

const (
	// PackSTR is Sort-Tile-Recursive: slice on x, then group on y, per level.
	PackSTR Packing = "str"
	// PackHilbert orders leaves along a Hilbert curve and groups consecutive runs.
	PackHilbert Packing = "hilbert"
)

// Config for building a Tree.
type Config struct {
	// Upper bound of children per node. Minimum 2.
	MaxChildren int `yaml:"max_children"`
	// Lower bound of children per non-root node. At most MaxChildren/2.
	MinChildren int `yaml:"min_children"`
	// How leaves are ordered before grouping.
	Packing Packing `yaml:"packing"`
	// Number of goroutines packing a level. Zero means GOMAXPROCS.
	Parallelism int `yaml:"parallelism"`
	// Levels with fewer entries than this are packed on the calling goroutine.
	ParallelThreshold int `yaml:"parallel_threshold"`
}

// DefaultConfig is used for any field a config file leaves out.
var DefaultConfig = Config{
	MaxChildren:       16,
	MinChildren:       4,
	Packing:           PackSTR,
	Parallelism:       0,
	ParallelThreshold: 4096,
}

// LoadConfig reads a YAML config file on top of DefaultConfig.
// A missing file is not an error.
func LoadConfig(filename string) (*Config, error) {
	c := DefaultConfig
	b, err := os.ReadFile(filename)
	if os.IsNotExist(err) {
		return &c, nil
	}
	if err != nil {
		return nil, err
	}
	if err = yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	if err = c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Save writes the config as YAML.
func (c *Config) Save(filename string) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0640)
}

// Validate checks the node size parameters and packing name.
func (c *Config) Validate() error {
	if c.MaxChildren < 2 {
		return fmt.Errorf("%w: max children must be at least 2, got %d", ErrInvalidConfig, c.MaxChildren)
	}
	if c.MinChildren < 1 {
		return fmt.Errorf("%w: min children must be at least 1, got %d", ErrInvalidConfig, c.MinChildren)
	}
	if c.MinChildren > c.MaxChildren/2 {
		return fmt.Errorf("%w: min children must be less than or equal to half of the max children", ErrInvalidConfig)
	}
	switch c.Packing {
	case PackSTR, PackHilbert:
	default:
		return fmt.Errorf("%w: unknown packing %q", ErrInvalidConfig, c.Packing)
	}
	if c.Parallelism < 0 {
		return fmt.Errorf("%w: negative parallelism", ErrInvalidConfig)
	}
	return nil
}
