package wgpu

import "log/slog"

// Option configures a Backend during creation.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

func defaultOptions() options {
	return options{}
}

// WithLogger sets the logger for GPU wait failures.
// By default textplane.Logger() is used.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
