package di

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/fsulib/run-remote-script/internal/config"
	"github.com/fsulib/run-remote-script/internal/services"
	"github.com/rs/zerolog"
)

// ProvideParameterStore provides a ParameterStore implementation
// Uses SSM Parameter Store in AWS, falls back to environment variables when
// DISABLE_SSM=true (local development)
func ProvideParameterStore(ctx context.Context, ssmClient *ssm.Client, environ config.Environ) services.ParameterStore {
	logger := zerolog.Ctx(ctx)

	if environ["DISABLE_SSM"] == "true" {
		logger.Info().Msg("Using environment variables for parameters (SSM disabled)")
		return services.NewEnvParameterStore(environ)
	}

	logger.Info().Msg("Using AWS Systems Manager Parameter Store for parameters")
	return services.NewSSMParameterStore(ssmClient)
}
