package frame

import (
	"log/slog"

	"github.com/gogpu/textplane/atlas"
)

// Option configures a Renderer during creation.
//
// Example:
//
//	r, err := frame.New(b, rasterizer,
//		frame.WithAtlasConfig(atlas.Config{Width: 2048, Height: 2048}),
//		frame.WithLogger(slog.Default()),
//	)
type Option func(*options)

// options holds optional configuration for Renderer creation.
type options struct {
	atlas  atlas.Config
	logger *slog.Logger
}

// defaultOptions returns the default renderer options.
func defaultOptions() options {
	return options{
		atlas:  atlas.DefaultConfig(),
		logger: nil, // textplane.Logger() at creation time
	}
}

// WithAtlasConfig sets the glyph atlas size and padding.
func WithAtlasConfig(c atlas.Config) Option {
	return func(o *options) {
		o.atlas = c
	}
}

// WithLogger sets the logger for skipped frames, flushes and
// non-renderable glyphs. By default the package logger
// textplane.Logger() is used.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
