package layout

// DefaultCacheSize is the default number of shaped lines kept by a Shaper.
const DefaultCacheSize = 512

// Option configures a Shaper.
type Option func(*options)

type options struct {
	cacheSize int
}

func defaultOptions() options {
	return options{cacheSize: DefaultCacheSize}
}

// WithCacheSize sets how many shaped lines are cached. Zero disables the
// cache.
func WithCacheSize(n int) Option {
	return func(o *options) {
		o.cacheSize = max(n, 0)
	}
}
