package commands

import (
	"encoding/json"
	"fmt"

	"github.com/fsulib/run-remote-script/internal/config"
	"github.com/fsulib/run-remote-script/internal/dispatcher"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

// RenderCommand prints the SendCommand request without sending it
func RenderCommand(logger *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:    "render",
		Aliases: []string{"r"},
		Usage:   "Print the SendCommand request a configuration produces",
		Description: `Builds the AWS-RunRemoteScript request exactly as the Lambda would and
prints it as JSON. Nothing is sent.

Examples:
  # Render from the current environment
  remote-script render

  # Render from a config file with an override
  remote-script render --config backup.yaml --set tagValue=db2`,
		Flags: environFlags(),
		Action: func(c *cli.Context) error {
			return renderAction(c, logger)
		},
	}
}

func renderAction(c *cli.Context, logger *zerolog.Logger) error {
	environ, err := loadEnviron(c)
	if err != nil {
		return err
	}

	cfg, err := config.Load(environ)
	if err != nil {
		return err
	}

	req, err := dispatcher.BuildRequest(cfg)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	logger.Debug().Str("app_env", cfg.AppEnv).Msg("Rendered request")
	fmt.Fprintln(c.App.Writer, string(data))
	return nil
}
