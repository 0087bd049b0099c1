package main

import (
	"context"
	"os"

	"github.com/fsulib/run-remote-script/cmd/remote-script/commands"
	"github.com/fsulib/run-remote-script/internal/di"
	"github.com/urfave/cli/v2"
)

func main() {
	logger := di.ProvideLogger()
	ctx := logger.WithContext(context.Background())

	app := &cli.App{
		Name:  "remote-script",
		Usage: "Operate the scheduled AWS-RunRemoteScript backup dispatch",
		Description: `Operator tooling for the run-remote-script Lambda.

This tool provides commands for:
  - Rendering the SendCommand request a configuration produces
  - Verifying the token parameter, GitHub script, and S3 bucket are reachable
  - Dispatching the command once, outside the schedule
  - Reporting per-instance status of a dispatched command`,
		Commands: []*cli.Command{
			commands.RenderCommand(&logger),
			commands.VerifyCommand(&logger),
			commands.DispatchCommand(&logger),
			commands.StatusCommand(&logger),
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		logger.Error().Err(err).Msg("Application error")
		os.Exit(1)
	}
}
