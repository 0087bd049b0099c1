// Package config loads handler configuration from the process environment.
// Configuration is re-read on every invocation; nothing is cached.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	apperrors "github.com/fsulib/run-remote-script/internal/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBucket  = "va-backups.lib.fsu.edu"
	DefaultTagKey  = "Name"
	DefaultGHOwner = "fsulib"
	DefaultGHRepo  = "remote-scripts"
)

// Environ is a snapshot of environment variables keyed by name.
type Environ map[string]string

// Config holds the values that shape a single SendCommand request.
type Config struct {
	Bucket    string `env:"bucket"`
	TarPaths  string `env:"tarPaths"`
	TagKey    string `env:"tagKey"`
	TagValue  string `env:"tagValue"`
	AppEnv    string `env:"appEnv"`
	TokenInfo string `env:"tokenInfo"`
	GHOwner   string `env:"ghOwner"`
	GHRepo    string `env:"ghRepo"`
	GHPath    string `env:"ghPath"`
}

// defaults apply only to unset variables. A variable set to the empty string
// is used as given.
var defaults = Environ{
	"bucket":  DefaultBucket,
	"tagKey":  DefaultTagKey,
	"ghOwner": DefaultGHOwner,
	"ghRepo":  DefaultGHRepo,
}

type requirement struct {
	name   string
	reason string
}

// required lists the mandatory variables in the order they are checked.
var required = []requirement{
	{name: "appEnv", reason: "no app environment provided"},
	{name: "tokenInfo", reason: "no GitHub token parameter provided"},
	{name: "ghPath", reason: "no GitHub script path provided"},
	{name: "tarPaths", reason: "nothing to archive"},
}

// OSEnviron captures the current process environment.
func OSEnviron() Environ {
	return Environ(env.ToMap(os.Environ()))
}

// Load validates that every required variable is present in environ and then
// parses the full configuration, applying defaults to unset variables. The
// first missing variable aborts with a *errors.ConfigurationError.
func Load(environ Environ) (Config, error) {
	for _, r := range required {
		if _, ok := environ[r.name]; !ok {
			return Config{}, &apperrors.ConfigurationError{Variable: r.name, Reason: r.reason}
		}
	}

	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: defaults.Overlay(environ)}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Overlay returns a copy of environ with values replaced by those in other.
func (e Environ) Overlay(other Environ) Environ {
	merged := make(Environ, len(e)+len(other))
	for k, v := range e {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}
	return merged
}

var redacted = map[string]bool{
	"AWS_SECRET_ACCESS_KEY": true,
	"AWS_SESSION_TOKEN":     true,
	"AWS_SECURITY_TOKEN":    true,
}

// Redacted returns a copy of environ safe to write to logs: AWS credential
// values are masked.
func (e Environ) Redacted() Environ {
	out := make(Environ, len(e))
	for k, v := range e {
		if redacted[k] && v != "" {
			v = "********"
		}
		out[k] = v
	}
	return out
}

// ReadYAML loads a flat YAML mapping of variable names to values.
//
//	appEnv: prod
//	tokenInfo: /github/token
//	ghPath: scripts/tar-and-store.sh
//	tarPaths: /var/lib/mysql-backups
func ReadYAML(path string) (Environ, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var values map[string]string
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return Environ(values), nil
}
