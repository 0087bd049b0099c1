package di

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/fsulib/run-remote-script/internal/dispatcher"
	"github.com/fsulib/run-remote-script/internal/preflight"
	"github.com/fsulib/run-remote-script/internal/services"
)

func ProvideAWSConfig(ctx context.Context) (aws.Config, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return cfg, nil
}

func ProvideS3Client(config aws.Config) *s3.Client {
	return s3.NewFromConfig(config)
}

// ProvideSSMClient provides the SSM client used for SendCommand, parameter
// lookups, and command status.
func ProvideSSMClient(config aws.Config) *ssm.Client {
	return ssm.NewFromConfig(config)
}

func ProvideDispatcher(client *ssm.Client) *dispatcher.Dispatcher {
	return dispatcher.New(client)
}

func ProvideBucketService(client *s3.Client) *services.BucketService {
	return services.NewBucketService(client)
}

func ProvideCommandStatusService(client *ssm.Client) *services.CommandStatusService {
	return services.NewCommandStatusService(client)
}

func ProvidePreflight(params services.ParameterStore, buckets *services.BucketService) *preflight.Verifier {
	return preflight.New(params, preflight.GitHubScripts{}, buckets)
}
