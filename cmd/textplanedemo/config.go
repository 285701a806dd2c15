package main

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// envPrefix prefixes every environment variable, as in TEXTPLANE_WIDTH.
const envPrefix = "textplane"

const defaultText = `The quick brown fox jumps over the lazy dog\n` +
	`fi fl ffi: ligatures and kerning (AV, To)\n` +
	`abc שלום def: mixed direction`

// Config holds the demo settings. Environment variables set the defaults;
// command-line flags override them.
type Config struct {
	Width     int     `envconfig:"WIDTH" default:"640"`
	Height    int     `envconfig:"HEIGHT" default:"120"`
	Scale     float64 `envconfig:"SCALE" default:"2"`
	FontSize  float64 `envconfig:"FONT_SIZE" default:"16"`
	AtlasSize int     `envconfig:"ATLAS_SIZE" default:"1024"`
	Backend   string  `envconfig:"BACKEND" default:"software"`
	Output    string  `envconfig:"OUTPUT" default:"textplane.png"`
	Text      string  `envconfig:"TEXT"`
	Logical   bool    `envconfig:"LOGICAL"`
	Verbose   bool    `envconfig:"VERBOSE"`
}

// loadConfig reads the environment and then parses args.
func loadConfig(args []string) (Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("environment: %w", err)
	}
	if cfg.Text == "" {
		cfg.Text = defaultText
	}

	fs := flag.NewFlagSet("textplanedemo", flag.ContinueOnError)
	fs.IntVar(&cfg.Width, "width", cfg.Width, "logical width")
	fs.IntVar(&cfg.Height, "height", cfg.Height, "logical height")
	fs.Float64Var(&cfg.Scale, "scale", cfg.Scale, "DPI scale")
	fs.Float64Var(&cfg.FontSize, "size", cfg.FontSize, "font size in logical pixels")
	fs.IntVar(&cfg.AtlasSize, "atlas", cfg.AtlasSize, "glyph atlas size in pixels")
	fs.StringVar(&cfg.Backend, "backend", cfg.Backend, "renderer backend")
	fs.StringVar(&cfg.Output, "output", cfg.Output, "output PNG file")
	fs.StringVar(&cfg.Text, "text", cfg.Text, `text to draw, lines separated by \n`)
	fs.BoolVar(&cfg.Logical, "logical", cfg.Logical, "downsample the output to logical size")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "log debug output")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("invalid size %dx%d", c.Width, c.Height)
	case !(c.Scale > 0):
		return fmt.Errorf("invalid scale %v", c.Scale)
	case !(c.FontSize > 0):
		return fmt.Errorf("invalid font size %v", c.FontSize)
	case c.Output == "":
		return errors.New("no output file")
	}
	return nil
}

// Lines returns the text split into lines. The two-character sequence \n
// separates lines too, so multi-line text fits in one flag or variable.
func (c *Config) Lines() []string {
	return strings.Split(strings.ReplaceAll(c.Text, `\n`, "\n"), "\n")
}
