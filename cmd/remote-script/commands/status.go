package commands

import (
	"fmt"
	"time"

	"github.com/fsulib/run-remote-script/internal/di"
	"github.com/fsulib/run-remote-script/internal/services"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

// StatusCommand reports per-instance progress of a dispatched command
func StatusCommand(logger *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:    "status",
		Aliases: []string{"st"},
		Usage:   "Show per-instance status of a dispatched command",
		Description: `Lists every instance invocation of an SSM command id, as printed by
dispatch or logged by the Lambda.

Examples:
  remote-script status --command-id 0b1c2d3e-4f50-6172-8394-a5b6c7d8e9f0`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "command-id",
				Aliases:  []string{"id"},
				Usage:    "SSM command id",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			return statusAction(c, logger)
		},
	}
}

func statusAction(c *cli.Context, logger *zerolog.Logger) error {
	ctx := logger.WithContext(c.Context)
	commandID := c.String("command-id")

	container, err := di.New(di.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to create container: %w", err)
	}
	svc, err := di.Get[*services.CommandStatusService](container)
	if err != nil {
		return fmt.Errorf("failed to create status service: %w", err)
	}

	invocations, err := svc.ListInvocations(ctx, commandID)
	if err != nil {
		return err
	}

	printInvocations(c, commandID, invocations)
	return nil
}

func printInvocations(c *cli.Context, commandID string, invocations []services.Invocation) {
	if len(invocations) == 0 {
		fmt.Fprintf(c.App.Writer, "No invocations found for command %s\n", commandID)
		return
	}

	for _, inv := range invocations {
		name := inv.InstanceName
		if name == "" {
			name = "-"
		}
		requested := "-"
		if !inv.RequestedAt.IsZero() {
			requested = inv.RequestedAt.UTC().Format(time.RFC3339)
		}
		fmt.Fprintf(c.App.Writer, "%-20s  %-24s  %-12s  %-20s  %s\n",
			inv.InstanceID, name, inv.Status, requested, inv.StatusDetails)
	}
}
