package raster

// DefaultSize is the default font size in logical pixels per em.
const DefaultSize = 14

// Option configures a Rasterizer.
type Option func(*options)

type options struct {
	size float32
}

func defaultOptions() options {
	return options{size: DefaultSize}
}

// WithSize sets the font size in logical pixels per em. Non-positive sizes
// are ignored.
func WithSize(size float32) Option {
	return func(o *options) {
		if size > 0 {
			o.size = size
		}
	}
}
