package commands

import (
	"fmt"

	"github.com/fsulib/run-remote-script/internal/config"
	"github.com/fsulib/run-remote-script/internal/di"
	"github.com/fsulib/run-remote-script/internal/dispatcher"
	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"
	"github.com/urfave/cli/v2"
)

// DispatchCommand sends the command once, as a scheduled invocation would
func DispatchCommand(logger *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:    "dispatch",
		Aliases: []string{"d"},
		Usage:   "Send AWS-RunRemoteScript to the tagged instances now",
		Description: `Runs one out-of-schedule backup: validates configuration and issues a
single SendCommand call. The command id is printed on success.

Examples:
  remote-script dispatch --config prod-db.yaml
  remote-script dispatch --config prod-db.yaml --set tarPaths="/var/lib/mysql /etc/mysql"`,
		Flags: environFlags(),
		Action: func(c *cli.Context) error {
			return dispatchAction(c, logger)
		},
	}
}

func dispatchAction(c *cli.Context, logger *zerolog.Logger) error {
	environ, err := loadEnviron(c)
	if err != nil {
		return err
	}

	cfg, err := config.Load(environ)
	if err != nil {
		return err
	}

	log := logger.With().Str("invocation_id", ksuid.New().String()).Logger()
	ctx := log.WithContext(c.Context)

	container, err := di.New(di.WithContext(ctx), di.WithEnviron(environ))
	if err != nil {
		return fmt.Errorf("failed to create container: %w", err)
	}
	d, err := di.Get[*dispatcher.Dispatcher](container)
	if err != nil {
		return fmt.Errorf("failed to create dispatcher: %w", err)
	}

	commandID, err := d.Dispatch(ctx, cfg)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.App.Writer, commandID)
	return nil
}
