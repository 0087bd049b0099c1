package commands

import (
	"fmt"

	"github.com/fsulib/run-remote-script/internal/config"
	"github.com/fsulib/run-remote-script/internal/di"
	"github.com/fsulib/run-remote-script/internal/preflight"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

// VerifyCommand checks the collaborators a configuration depends on
func VerifyCommand(logger *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:    "verify",
		Aliases: []string{"v"},
		Usage:   "Check the token parameter, GitHub script, and S3 bucket",
		Description: `Runs preflight checks for a configuration:
  1. token  - tokenInfo resolves in Parameter Store (decrypted)
  2. script - ghOwner/ghRepo/ghPath exists in GitHub, using that token
  3. bucket - the archive bucket exists and is accessible

Set DISABLE_SSM=true to read the token from the environment instead
(/path/to/token is read from PATH_TO_TOKEN).

Examples:
  remote-script verify --config prod-db.yaml`,
		Flags: environFlags(),
		Action: func(c *cli.Context) error {
			return verifyAction(c, logger)
		},
	}
}

func verifyAction(c *cli.Context, logger *zerolog.Logger) error {
	environ, err := loadEnviron(c)
	if err != nil {
		return err
	}

	cfg, err := config.Load(environ)
	if err != nil {
		return err
	}

	ctx := logger.WithContext(c.Context)
	container, err := di.New(di.WithContext(ctx), di.WithEnviron(environ))
	if err != nil {
		return fmt.Errorf("failed to create container: %w", err)
	}
	verifier, err := di.Get[*preflight.Verifier](container)
	if err != nil {
		return fmt.Errorf("failed to create verifier: %w", err)
	}

	report := verifier.Verify(ctx, cfg)
	printReport(c, report)
	return report.Err()
}

func printReport(c *cli.Context, report preflight.Report) {
	for _, check := range report.Checks {
		status := "ok"
		detail := check.Detail
		if !check.OK() {
			status = "FAIL"
			detail = check.Err.Error()
		}
		fmt.Fprintf(c.App.Writer, "%-6s  %-4s  %s", check.Name, status, check.Target)
		if detail != "" {
			fmt.Fprintf(c.App.Writer, "  (%s)", detail)
		}
		fmt.Fprintln(c.App.Writer)
	}
}
