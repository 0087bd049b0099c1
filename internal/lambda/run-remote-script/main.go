package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/fsulib/run-remote-script/internal/config"
	"github.com/fsulib/run-remote-script/internal/di"
	"github.com/fsulib/run-remote-script/internal/dispatcher"
	apperrors "github.com/fsulib/run-remote-script/internal/errors"
	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"
	"github.com/urfave/cli/v2"
)

var loadConfig = config.Load

// Handler is the target of the scheduled backup rule. Each invocation re-reads
// the environment and issues at most one SendCommand call.
type Handler struct {
	dispatcher *dispatcher.Dispatcher
	environ    func() config.Environ
}

func NewHandler(d *dispatcher.Dispatcher, environ func() config.Environ) *Handler {
	return &Handler{
		dispatcher: d,
		environ:    environ,
	}
}

// Handle validates configuration and dispatches the remote command. The event
// is only logged. Missing configuration returns *errors.ConfigurationError
// before any request is built; anything else returns *errors.DispatchError.
func (h *Handler) Handle(ctx context.Context, event json.RawMessage) error {
	logger := zerolog.Ctx(ctx).With().Str("request_id", requestID(ctx)).Logger()
	ctx = logger.WithContext(ctx)

	logger.Info().Msg("Starting")
	if json.Valid(event) {
		logger.Info().RawJSON("event", event).Msg("Event")
	} else {
		logger.Info().Str("event", string(event)).Msg("Event")
	}

	environ := h.environ()
	logger.Info().Interface("environment", environ.Redacted()).Msg("Environment")

	cfg, err := loadConfig(environ)
	if err != nil {
		logger.Error().Err(err).Msg("Invalid configuration")
		if apperrors.IsConfigurationError(err) {
			return err
		}
		return &apperrors.DispatchError{Cause: err}
	}

	commandID, err := h.dispatcher.Dispatch(ctx, cfg)
	if err != nil {
		return err
	}

	logger.Info().
		Str("command_id", commandID).
		Str("app_env", cfg.AppEnv).
		Str("tag_value", cfg.TagValue).
		Msg("Remote script dispatched")
	return nil
}

func requestID(ctx context.Context) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return lc.AwsRequestID
	}
	return ksuid.New().String()
}

func main() {
	logger := di.ProvideLogger().With().Str("lambda", "run-remote-script").Logger()
	ctx := logger.WithContext(context.Background())

	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" {
		// Lambda mode
		container, err := di.New(di.WithContext(ctx))
		if err != nil {
			logger.Error().Err(err).Msg("Failed to create container")
			os.Exit(1)
		}

		handler := NewHandler(di.MustGet[*dispatcher.Dispatcher](container), config.OSEnviron)

		// Wrap handler to inject logger into context
		wrappedHandler := func(ctx context.Context, event json.RawMessage) error {
			ctx = logger.WithContext(ctx)
			return handler.Handle(ctx, event)
		}
		lambda.Start(wrappedHandler)
		return
	}

	// CLI mode
	app := &cli.App{
		Name:  "run-remote-script",
		Usage: "Send AWS-RunRemoteScript to tagged instances once, as the scheduled Lambda would",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "YAML file of variables overlaid on the environment",
			},
			&cli.StringFlag{
				Name:  "event",
				Usage: "JSON event to log",
				Value: "{}",
			},
		},
		Action: func(c *cli.Context) error {
			environ := config.OSEnviron()
			if path := c.String("config"); path != "" {
				overlay, err := config.ReadYAML(path)
				if err != nil {
					return err
				}
				environ = environ.Overlay(overlay)
			}

			container, err := di.New(di.WithContext(c.Context), di.WithEnviron(environ))
			if err != nil {
				return fmt.Errorf("failed to create container: %w", err)
			}
			d, err := di.Get[*dispatcher.Dispatcher](container)
			if err != nil {
				return fmt.Errorf("failed to create dispatcher: %w", err)
			}

			handler := NewHandler(d, func() config.Environ { return environ })
			return handler.Handle(c.Context, json.RawMessage(c.String("event")))
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		logger.Error().Err(err).Msg("Application error")
		os.Exit(1)
	}
}
