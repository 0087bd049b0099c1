package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// ParameterGetter abstracts the SSM GetParameter operation for testing
type ParameterGetter interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// ParameterStore defines the interface for resolving secure parameters
type ParameterStore interface {
	// GetParameter retrieves a single decrypted parameter by name
	GetParameter(ctx context.Context, name string) (string, error)
}

// SSMParameterStore implements ParameterStore using AWS Systems Manager Parameter Store
type SSMParameterStore struct {
	client ParameterGetter
	mu     sync.RWMutex
	cache  map[string]string
}

// NewSSMParameterStore creates a new SSM-backed parameter store
func NewSSMParameterStore(client ParameterGetter) *SSMParameterStore {
	return &SSMParameterStore{
		client: client,
		cache:  make(map[string]string),
	}
}

// GetParameter retrieves a single parameter from SSM Parameter Store
func (s *SSMParameterStore) GetParameter(ctx context.Context, name string) (string, error) {
	s.mu.RLock()
	if value, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return value, nil
	}
	s.mu.RUnlock()

	result, err := s.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           &name,
		WithDecryption: boolPtr(true),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get parameter %s: %w", name, err)
	}

	if result.Parameter == nil || result.Parameter.Value == nil {
		return "", fmt.Errorf("parameter %s not found", name)
	}

	value := *result.Parameter.Value

	s.mu.Lock()
	s.cache[name] = value
	s.mu.Unlock()

	return value, nil
}

// EnvParameterStore implements ParameterStore using environment variables.
// It is used for local development without an AWS connection.
type EnvParameterStore struct {
	values map[string]string
}

// NewEnvParameterStore creates a new environment variable-backed parameter store
func NewEnvParameterStore(values map[string]string) *EnvParameterStore {
	return &EnvParameterStore{
		values: values,
	}
}

// GetParameter looks up the environment variable derived from the parameter
// path, e.g. /github/remote-scripts/token reads GITHUB_REMOTE_SCRIPTS_TOKEN.
func (e *EnvParameterStore) GetParameter(ctx context.Context, name string) (string, error) {
	key := EnvKey(name)
	value, ok := e.values[key]
	if !ok {
		return "", fmt.Errorf("parameter %s not found: %s is not set", name, key)
	}
	return value, nil
}

// EnvKey converts a parameter path into an environment variable name.
func EnvKey(name string) string {
	key := strings.Trim(name, "/")
	key = strings.NewReplacer("/", "_", "-", "_", ".", "_").Replace(key)
	return strings.ToUpper(key)
}

func boolPtr(b bool) *bool {
	return &b
}
