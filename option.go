package jobpipe

import (
	"log/slog"
	"time"
)

type Options struct {
	Observer        Observer
	Verbose         bool
	Logger          *slog.Logger
	Clock           func() time.Time
	PersistPath     string
	PersistDebounce *time.Duration
}

func DefaultOptions() *Options {
	return &Options{
		Logger: slog.Default(),
		Clock:  time.Now,
	}
}

type Option func(*Options)

func WithOptions(opts Options) Option {
	return func(o *Options) {
		*o = opts
	}
}

// WithObserver sets the observer notified on every accepted transition
func WithObserver(observer Observer) Option {
	return func(o *Options) {
		o.Observer = observer
	}
}

// WithVerbose turns transition diagnostics on or off
func WithVerbose(verbose bool) Option {
	return func(o *Options) {
		o.Verbose = verbose
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithClock sets the time source used for the last update timestamp
func WithClock(clock func() time.Time) Option {
	return func(o *Options) {
		o.Clock = clock
	}
}

// WithPersistPath makes a Registry write a JSON status report to path
func WithPersistPath(path string) Option {
	return func(o *Options) {
		o.PersistPath = path
	}
}

func WithPersistDebounce(debounce time.Duration) Option {
	return func(o *Options) {
		o.PersistDebounce = &debounce
	}
}

func buildOptions(opts []Option) *Options {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	if options.Clock == nil {
		options.Clock = time.Now
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	return options
}
