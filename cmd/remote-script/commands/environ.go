package commands

import (
	"fmt"
	"strings"

	"github.com/fsulib/run-remote-script/internal/config"
	"github.com/urfave/cli/v2"
)

// environFlags are shared by every command that reads handler configuration.
func environFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML file of variables (appEnv, tokenInfo, ghPath, tarPaths, ...) overlaid on the environment",
		},
		&cli.StringSliceFlag{
			Name:    "set",
			Aliases: []string{"s"},
			Usage:   "Override a variable as name=value (can be specified multiple times)",
		},
	}
}

// loadEnviron builds the environment snapshot the handler would see:
// process environment, then the --config file, then --set overrides.
func loadEnviron(c *cli.Context) (config.Environ, error) {
	environ := config.OSEnviron()

	if path := c.String("config"); path != "" {
		overlay, err := config.ReadYAML(path)
		if err != nil {
			return nil, err
		}
		environ = environ.Overlay(overlay)
	}

	overrides, err := parseAssignments(c.StringSlice("set"))
	if err != nil {
		return nil, err
	}
	return environ.Overlay(overrides), nil
}

func parseAssignments(values []string) (config.Environ, error) {
	out := make(config.Environ, len(values))
	for _, v := range values {
		name, value, ok := strings.Cut(v, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --set %q: expected name=value", v)
		}
		out[name] = value
	}
	return out, nil
}
