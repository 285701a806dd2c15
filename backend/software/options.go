package software

// Option configures a Backend during creation.
type Option func(*options)

type options struct {
	buffers int
}

func defaultOptions() options {
	return options{buffers: 2}
}

// WithBuffers sets the swap chain length. Values below 1 are raised to 1.
// Default: 2
func WithBuffers(n int) Option {
	return func(o *options) {
		o.buffers = max(n, 1)
	}
}
