// Package dispatcher builds and submits the SSM SendCommand request that asks
// tagged instances to run a backup script fetched from GitHub.
package dispatcher

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/smithy-go"
	"github.com/fsulib/run-remote-script/internal/config"
	apperrors "github.com/fsulib/run-remote-script/internal/errors"
	"github.com/rs/zerolog"
)

// CommandSender abstracts the SSM SendCommand operation for testing
type CommandSender interface {
	SendCommand(ctx context.Context, params *ssm.SendCommandInput, optFns ...func(*ssm.Options)) (*ssm.SendCommandOutput, error)
}

// Dispatcher submits one SendCommand request per call. It holds no state
// beyond the client.
type Dispatcher struct {
	client CommandSender
}

// New creates a new Dispatcher
func New(client CommandSender) *Dispatcher {
	return &Dispatcher{client: client}
}

// Dispatch builds the request for cfg and sends it. cfg must come from
// config.Load. Every failure is returned as *errors.DispatchError. The
// returned string is the SSM command id when the backend reports one.
func (d *Dispatcher) Dispatch(ctx context.Context, cfg config.Config) (commandID string, err error) {
	logger := zerolog.Ctx(ctx)

	defer func() {
		if r := recover(); r != nil {
			commandID = ""
			err = &apperrors.DispatchError{Cause: fmt.Errorf("unexpected panic: %v", r)}
		}
	}()

	if d.client == nil {
		return "", &apperrors.DispatchError{Cause: apperrors.ErrMissingBackendClient}
	}

	req, err := BuildRequest(cfg)
	if err != nil {
		return "", &apperrors.DispatchError{Cause: err}
	}

	logger.Info().
		Str("command_line", req.Parameters.CommandLine[0]).
		Msg("Built command line")
	logger.Info().
		RawJSON("source_info", []byte(req.Parameters.SourceInfo[0])).
		Msg("Built source info")
	logger.Info().
		Interface("parameters", req).
		Msg("Sending command")

	result, err := d.client.SendCommand(ctx, req.Input())
	if err != nil {
		dispatchErr := &apperrors.DispatchError{Cause: err}

		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			dispatchErr.Code = apiErr.ErrorCode()
		}

		logger.Error().
			Err(err).
			Str("error_code", dispatchErr.Code).
			Str("document", req.DocumentName).
			Msg("SendCommand failed")
		return "", dispatchErr
	}

	if result != nil && result.Command != nil {
		commandID = aws.ToString(result.Command.CommandId)
	}

	logger.Info().
		Str("command_id", commandID).
		Str("document", req.DocumentName).
		Str("target", req.Targets[0].Key).
		Msg("Command sent")

	return commandID, nil
}
