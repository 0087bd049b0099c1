// Package di provides a lightweight wrapper around uber's dig dependency injection framework.
// It simplifies container setup and provides type-safe dependency retrieval with generics.
package di

import (
	"context"

	"github.com/fsulib/run-remote-script/internal/config"
	"go.uber.org/dig"
)

// Container defines a dependency injection container based on uber's dig.
// This interface allows for easy testing and mocking of the DI container.
type Container interface {
	// Invoke executes a function, injecting its dependencies from the container.
	Invoke(function any, opts ...dig.InvokeOption) error

	// Provide registers a constructor function in the container.
	Provide(constructor any, opts ...dig.ProvideOption) error

	// Scope creates a scoped sub-container with its own set of values.
	Scope(name string, opts ...dig.ScopeOption) *dig.Scope
}

// MustGet returns an instance constructed via dependency injection or panics.
// This is a convenience function for retrieving a dependency from the container
// when you're certain it exists. If the dependency cannot be resolved, it will panic.
//
// Example:
//
//	d := MustGet[*dispatcher.Dispatcher](container)
func MustGet[T any](container Container) (want T) {
	callback := func(got T) {
		want = got
	}
	if err := container.Invoke(callback); err != nil {
		panic(err)
	}
	return want
}

// Get is MustGet returning the resolution error instead of panicking.
func Get[T any](container Container) (want T, err error) {
	err = container.Invoke(func(got T) {
		want = got
	})
	return want, err
}

// New creates a new dependency injection container. The context and the
// environment snapshot are registered so providers can take them as
// parameters.
//
// Example:
//
//	container, err := New(
//	    WithContext(ctx),
//	    WithProviders(
//	        func(d *dispatcher.Dispatcher) *Handler { return &Handler{dispatcher: d} },
//	    ),
//	)
func New(opts ...Option) (Container, error) {
	o := options{ctx: context.Background()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.environ == nil {
		o.environ = config.OSEnviron()
	}

	container := dig.New()
	if err := container.Provide(func() context.Context { return o.ctx }); err != nil {
		return nil, err
	}
	if err := container.Provide(func() config.Environ { return o.environ }); err != nil {
		return nil, err
	}

	if !o.skipCore {
		for _, provider := range core {
			if err := container.Provide(provider); err != nil {
				return nil, err
			}
		}
	}

	for _, provider := range o.providers {
		if err := container.Provide(provider); err != nil {
			return nil, err
		}
	}

	return container, nil
}

var core = []any{
	ProvideAWSConfig,
	ProvideSSMClient,
	ProvideS3Client,
	ProvideParameterStore,
	ProvideDispatcher,
	ProvideBucketService,
	ProvideCommandStatusService,
	ProvidePreflight,
}
