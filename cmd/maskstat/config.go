package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/kelseyhightower/envconfig"

	"github.com/gogpu/bitmask"
)

// Config holds the maskstat settings. Environment variables prefixed with
// MASKSTAT_ provide the defaults; command-line flags override them.
type Config struct {
	MinSize   int    `envconfig:"MIN_SIZE" default:"0"`
	Step      int    `envconfig:"STEP" default:"1"`
	Workers   int    `envconfig:"WORKERS" default:"0"`
	Format    string `envconfig:"FORMAT" default:"text"`
	Color     string `envconfig:"COLOR" default:"auto"`
	MaxPixels int    `envconfig:"MAX_PIXELS" default:"268435456"`
	Preview   int    `envconfig:"PREVIEW" default:"48"`
	Verbose   bool   `envconfig:"VERBOSE" default:"false"`

	// Files are the positional arguments.
	Files []string `ignored:"true"`
}

var errUsage = errors.New("usage")

// loadConfig reads the environment, then parses args on top of it.
func loadConfig(args []string, stderr io.Writer) (*Config, error) {
	var cfg Config
	if err := envconfig.Process("maskstat", &cfg); err != nil {
		return nil, err
	}

	fs := flag.NewFlagSet("maskstat", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: maskstat [flags] file...")
		fmt.Fprintln(fs.Output(), "Files ending in .pbm are read as PBM, anything else as ASCII art.")
		fs.PrintDefaults()
	}
	fs.IntVar(&cfg.MinSize, "min", cfg.MinSize, "minimum component size in pixels")
	fs.IntVar(&cfg.Step, "step", cfg.Step, "keep every Nth outline point")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "files analyzed concurrently (0 = GOMAXPROCS)")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "output format: text or json")
	fs.StringVar(&cfg.Color, "color", cfg.Color, "styled text output: auto, always or never")
	fs.IntVar(&cfg.MaxPixels, "max-pixels", cfg.MaxPixels, "largest mask accepted, in pixels")
	fs.IntVar(&cfg.Preview, "preview", cfg.Preview, "preview width in columns (0 disables)")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "debug logging")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg.Files = fs.Args()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case len(c.Files) == 0:
		return fmt.Errorf("no input files: %w", errUsage)
	case c.MinSize < 0:
		return fmt.Errorf("min size %d is negative: %w", c.MinSize, errUsage)
	case c.Step < 1:
		return fmt.Errorf("step %d is below 1: %w", c.Step, errUsage)
	case c.MaxPixels < 1:
		return fmt.Errorf("max pixels %d is below 1: %w", c.MaxPixels, errUsage)
	case c.Preview < 0:
		return fmt.Errorf("preview width %d is negative: %w", c.Preview, errUsage)
	case c.Format != "text" && c.Format != "json":
		return fmt.Errorf("unknown format %q: %w", c.Format, errUsage)
	case c.Color != "auto" && c.Color != "always" && c.Color != "never":
		return fmt.Errorf("unknown color mode %q: %w", c.Color, errUsage)
	}
	return nil
}

// analyzer builds the library Analyzer for this configuration.
func (c *Config) analyzer(opts ...bitmask.Option) *bitmask.Analyzer {
	return bitmask.NewAnalyzer(append([]bitmask.Option{bitmask.WithMaxPixels(c.MaxPixels)}, opts...)...)
}
