package di

import (
	"context"

	"github.com/fsulib/run-remote-script/internal/config"
)

// Option is a function that configures the dependency injection container.
type Option func(*options)

// WithContext sets the context handed to providers. Defaults to context.Background.
func WithContext(ctx context.Context) Option {
	return func(opts *options) {
		opts.ctx = ctx
	}
}

// WithEnviron sets the environment snapshot handed to providers. Defaults to
// the process environment.
func WithEnviron(environ config.Environ) Option {
	return func(opts *options) {
		opts.environ = environ
	}
}

// WithProviders adds constructor functions to the dependency injection container.
// Each provider should be a constructor function that returns one or more values.
// Providers can declare dependencies as function parameters, which will be
// automatically resolved by the container.
//
// Example:
//
//	WithProviders(
//	    func() *Database { return &Database{} },
//	    func(db *Database) *Service { return &Service{DB: db} },
//	)
func WithProviders(providers ...any) Option {
	return func(opts *options) {
		opts.providers = append(opts.providers, providers...)
	}
}

// WithoutCore skips the AWS-backed core providers. Used in tests that wire
// their own fakes.
func WithoutCore() Option {
	return func(opts *options) {
		opts.skipCore = true
	}
}

type options struct {
	ctx       context.Context
	environ   config.Environ
	providers []any
	skipCore  bool
}
