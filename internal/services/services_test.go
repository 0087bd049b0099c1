package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/aws/smithy-go"
	apperrors "github.com/fsulib/run-remote-script/internal/errors"
	"github.com/google/go-github/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSSMClient struct {
	getParameterFunc           func(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
	listCommandInvocationsFunc func(ctx context.Context, params *ssm.ListCommandInvocationsInput, optFns ...func(*ssm.Options)) (*ssm.ListCommandInvocationsOutput, error)
}

func (m *mockSSMClient) GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	if m.getParameterFunc != nil {
		return m.getParameterFunc(ctx, params, optFns...)
	}
	return nil, errors.New("getParameterFunc not set")
}

func (m *mockSSMClient) ListCommandInvocations(ctx context.Context, params *ssm.ListCommandInvocationsInput, optFns ...func(*ssm.Options)) (*ssm.ListCommandInvocationsOutput, error) {
	if m.listCommandInvocationsFunc != nil {
		return m.listCommandInvocationsFunc(ctx, params, optFns...)
	}
	return nil, errors.New("listCommandInvocationsFunc not set")
}

type mockS3Client struct {
	headBucketFunc func(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

func (m *mockS3Client) HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return m.headBucketFunc(ctx, params, optFns...)
}

func TestSSMParameterStore_GetParameter(t *testing.T) {
	calls := 0
	client := &mockSSMClient{
		getParameterFunc: func(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
			calls++
			assert.Equal(t, "/github/token", aws.ToString(params.Name))
			assert.True(t, aws.ToBool(params.WithDecryption))
			return &ssm.GetParameterOutput{
				Parameter: &types.Parameter{Value: aws.String("ghp_secret")},
			}, nil
		},
	}

	store := NewSSMParameterStore(client)
	ctx := context.Background()

	value, err := store.GetParameter(ctx, "/github/token")
	require.NoError(t, err)
	assert.Equal(t, "ghp_secret", value)

	// second lookup is served from cache
	value, err = store.GetParameter(ctx, "/github/token")
	require.NoError(t, err)
	assert.Equal(t, "ghp_secret", value)
	assert.Equal(t, 1, calls)
}

func TestSSMParameterStore_Errors(t *testing.T) {
	ctx := context.Background()

	failing := NewSSMParameterStore(&mockSSMClient{
		getParameterFunc: func(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
			return nil, &smithy.GenericAPIError{Code: "ParameterNotFound"}
		},
	})
	_, err := failing.GetParameter(ctx, "/missing")
	assert.Error(t, err)

	empty := NewSSMParameterStore(&mockSSMClient{
		getParameterFunc: func(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
			return &ssm.GetParameterOutput{}, nil
		},
	})
	_, err = empty.GetParameter(ctx, "/empty")
	assert.ErrorContains(t, err, "not found")
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{name: "/path/to/token", want: "PATH_TO_TOKEN"},
		{name: "/github/remote-scripts/token", want: "GITHUB_REMOTE_SCRIPTS_TOKEN"},
		{name: "plain", want: "PLAIN"},
		{name: "/lib.fsu.edu/token/", want: "LIB_FSU_EDU_TOKEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EnvKey(tt.name))
		})
	}
}

func TestEnvParameterStore(t *testing.T) {
	store := NewEnvParameterStore(map[string]string{"PATH_TO_TOKEN": "local-token"})

	value, err := store.GetParameter(context.Background(), "/path/to/token")
	require.NoError(t, err)
	assert.Equal(t, "local-token", value)

	_, err = store.GetParameter(context.Background(), "/other")
	assert.ErrorContains(t, err, "OTHER is not set")
}

func newTestGitHub(t *testing.T, handler http.HandlerFunc) *GitHubService {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := github.NewClient(nil)
	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	client.BaseURL = baseURL

	return NewGitHubService(client)
}

func TestGitHubService_GetScript(t *testing.T) {
	svc := newTestGitHub(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/fsulib/remote-scripts/contents/scripts/backup.sh":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"type":"file","name":"backup.sh","path":"scripts/backup.sh","sha":"3d21ec53","size":512}`)
		case "/repos/fsulib/remote-scripts/contents/scripts":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `[{"type":"file","name":"backup.sh","path":"scripts/backup.sh"}]`)
		case "/repos/fsulib/remote-scripts/contents/scripts/broken.sh":
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"message":"server error"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message":"Not Found"}`)
		}
	})
	ctx := context.Background()

	script, err := svc.GetScript(ctx, "fsulib", "remote-scripts", "scripts/backup.sh")
	require.NoError(t, err)
	assert.Equal(t, "scripts/backup.sh", script.Path)
	assert.Equal(t, "3d21ec53", script.SHA)
	assert.Equal(t, 512, script.Size)

	_, err = svc.GetScript(ctx, "fsulib", "remote-scripts", "scripts/missing.sh")
	assert.ErrorIs(t, err, ErrScriptNotFound)

	_, err = svc.GetScript(ctx, "fsulib", "remote-scripts", "scripts")
	assert.ErrorIs(t, err, ErrScriptNotFound)
	assert.ErrorContains(t, err, "directory")

	_, err = svc.GetScript(ctx, "fsulib", "remote-scripts", "scripts/broken.sh")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrScriptNotFound)
}

func TestBucketService_CheckBucket(t *testing.T) {
	ok := NewBucketService(&mockS3Client{
		headBucketFunc: func(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
			assert.Equal(t, "va-backups.lib.fsu.edu", aws.ToString(params.Bucket))
			return &s3.HeadBucketOutput{}, nil
		},
	})
	assert.NoError(t, ok.CheckBucket(context.Background(), "va-backups.lib.fsu.edu"))

	missing := NewBucketService(&mockS3Client{
		headBucketFunc: func(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
			return nil, &smithy.GenericAPIError{Code: "NotFound", Message: "not found"}
		},
	})
	err := missing.CheckBucket(context.Background(), "nope")
	assert.ErrorContains(t, err, "NotFound")

	broken := NewBucketService(&mockS3Client{
		headBucketFunc: func(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
			return nil, errors.New("dial tcp: timeout")
		},
	})
	assert.ErrorContains(t, broken.CheckBucket(context.Background(), "x"), "timeout")
}

func TestCommandStatusService_ListInvocations(t *testing.T) {
	requested := time.Date(2026, 10, 1, 3, 0, 0, 0, time.UTC)
	var tokens []string
	client := &mockSSMClient{
		listCommandInvocationsFunc: func(ctx context.Context, params *ssm.ListCommandInvocationsInput, optFns ...func(*ssm.Options)) (*ssm.ListCommandInvocationsOutput, error) {
			assert.Equal(t, "cmd-1", aws.ToString(params.CommandId))
			tokens = append(tokens, aws.ToString(params.NextToken))

			if params.NextToken == nil {
				return &ssm.ListCommandInvocationsOutput{
					CommandInvocations: []types.CommandInvocation{
						{
							InstanceId:        aws.String("i-0aaa"),
							InstanceName:      aws.String("db1"),
							Status:            types.CommandInvocationStatusSuccess,
							StatusDetails:     aws.String("Success"),
							RequestedDateTime: aws.Time(requested),
						},
					},
					NextToken: aws.String("page-2"),
				}, nil
			}
			return &ssm.ListCommandInvocationsOutput{
				CommandInvocations: []types.CommandInvocation{
					{
						InstanceId:    aws.String("i-0bbb"),
						Status:        types.CommandInvocationStatusFailed,
						StatusDetails: aws.String("Failed"),
					},
				},
			}, nil
		},
	}

	invocations, err := NewCommandStatusService(client).ListInvocations(context.Background(), "cmd-1")
	require.NoError(t, err)
	require.Len(t, invocations, 2)
	assert.Equal(t, []string{"", "page-2"}, tokens)

	assert.Equal(t, "i-0aaa", invocations[0].InstanceID)
	assert.Equal(t, "db1", invocations[0].InstanceName)
	assert.Equal(t, "Success", invocations[0].Status)
	assert.Equal(t, requested, invocations[0].RequestedAt)
	assert.Equal(t, "i-0bbb", invocations[1].InstanceID)
	assert.Equal(t, "Failed", invocations[1].Status)
}

func TestCommandStatusService_Errors(t *testing.T) {
	svc := NewCommandStatusService(&mockSSMClient{})

	_, err := svc.ListInvocations(context.Background(), "")
	assert.ErrorIs(t, err, apperrors.ErrMissingCommandID)

	_, err = svc.ListInvocations(context.Background(), "cmd-1")
	assert.Error(t, err)
}
