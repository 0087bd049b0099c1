package di

import (
	"context"
	"testing"

	"github.com/fsulib/run-remote-script/internal/config"
	"github.com/fsulib/run-remote-script/internal/dispatcher"
	"github.com/fsulib/run-remote-script/internal/preflight"
	"github.com/fsulib/run-remote-script/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test types for dependency injection
type Database struct {
	Name string
}

type Logger struct {
	Level string
}

type ctxKey struct{}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		wantErr bool
	}{
		{
			name: "creates container with no providers",
			opts: []Option{WithoutCore()},
		},
		{
			name: "creates container with single provider",
			opts: []Option{
				WithoutCore(),
				WithProviders(func() *Database {
					return &Database{Name: "test-db"}
				}),
			},
		},
		{
			name: "creates container with core providers",
			opts: []Option{WithEnviron(config.Environ{})},
		},
		{
			name: "rejects duplicate providers",
			opts: []Option{
				WithoutCore(),
				WithProviders(
					func() *Database { return &Database{Name: "db1"} },
					func() *Database { return &Database{Name: "db2"} },
				),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			container, err := New(tt.opts...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, container)
		})
	}
}

func TestNew_ProvidesContextAndEnviron(t *testing.T) {
	ctx := context.WithValue(context.Background(), ctxKey{}, "marker")
	environ := config.Environ{"appEnv": "test"}

	container, err := New(WithoutCore(), WithContext(ctx), WithEnviron(environ))
	require.NoError(t, err)

	gotCtx := MustGet[context.Context](container)
	assert.Equal(t, "marker", gotCtx.Value(ctxKey{}))

	gotEnviron := MustGet[config.Environ](container)
	assert.Equal(t, "test", gotEnviron["appEnv"])
}

func TestMustGet(t *testing.T) {
	t.Run("successfully retrieves dependency", func(t *testing.T) {
		container, err := New(
			WithoutCore(),
			WithProviders(func() *Database {
				return &Database{Name: "test-db"}
			}),
		)
		require.NoError(t, err)

		db := MustGet[*Database](container)
		require.NotNil(t, db)
		assert.Equal(t, "test-db", db.Name)
	})

	t.Run("panics when dependency not found", func(t *testing.T) {
		container, err := New(WithoutCore())
		require.NoError(t, err)

		assert.Panics(t, func() {
			_ = MustGet[*Database](container)
		})
	})
}

func TestGet(t *testing.T) {
	container, err := New(WithoutCore())
	require.NoError(t, err)

	_, err = Get[*Database](container)
	assert.Error(t, err)
}

func TestWithProviders(t *testing.T) {
	container, err := New(
		WithoutCore(),
		WithProviders(func() *Database {
			return &Database{Name: "test-db"}
		}),
		WithProviders(func(db *Database) *Logger {
			return &Logger{Level: "debug-" + db.Name}
		}),
	)
	require.NoError(t, err)

	logger := MustGet[*Logger](container)
	assert.Equal(t, "debug-test-db", logger.Level)
}

func TestCoreProviders(t *testing.T) {
	t.Setenv("AWS_REGION", "us-east-1")
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")

	container, err := New(WithEnviron(config.Environ{
		"DISABLE_SSM":   "true",
		"PATH_TO_TOKEN": "local",
	}))
	require.NoError(t, err)

	store := MustGet[services.ParameterStore](container)
	_, isEnv := store.(*services.EnvParameterStore)
	assert.True(t, isEnv)

	value, err := store.GetParameter(context.Background(), "/path/to/token")
	require.NoError(t, err)
	assert.Equal(t, "local", value)

	assert.NotNil(t, MustGet[*dispatcher.Dispatcher](container))
	assert.NotNil(t, MustGet[*preflight.Verifier](container))
	assert.NotNil(t, MustGet[*services.CommandStatusService](container))
}

func TestCoreProviders_SSMParameterStore(t *testing.T) {
	t.Setenv("AWS_REGION", "us-east-1")

	container, err := New(WithEnviron(config.Environ{}))
	require.NoError(t, err)

	store := MustGet[services.ParameterStore](container)
	_, isSSM := store.(*services.SSMParameterStore)
	assert.True(t, isSSM)
}
