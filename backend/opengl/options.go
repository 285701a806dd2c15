package opengl

import "log/slog"

// Option configures a Backend during creation.
type Option func(*options)

type options struct {
	logger *slog.Logger
	swap   func()
}

func defaultOptions() options {
	return options{}
}

// WithLogger sets the logger for GL failures.
// By default textplane.Logger() is used.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithSwap sets the function that presents the default framebuffer, such as
// a GLFW window's SwapBuffers. It runs on the main thread at the end of
// every frame. Without it frames are flushed but not presented.
func WithSwap(swap func()) Option {
	return func(o *options) {
		o.swap = swap
	}
}
