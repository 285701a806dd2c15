package display

import (
	"log/slog"
	"time"
)

// Option configures a Layer.
type Option func(*options)

type options struct {
	logger    *slog.Logger
	now       func() time.Time
	fpsWindow int
}

func defaultOptions() options {
	return options{fpsWindow: DefaultFPSWindow}
}

// WithLogger sets the layer logger. By default textplane.Logger() is used.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithClock sets the clock used for frame rate measurement.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithFPSWindow sets how many frame intervals the frame rate averages.
func WithFPSWindow(n int) Option {
	return func(o *options) {
		o.fpsWindow = n
	}
}
