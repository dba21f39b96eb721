package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/byte4ever/steady"
)

// Version is set at build time.
var Version = "dev"

var globalFlags = []cli.Flag{
	&cli.BoolFlag{
		Name:    "verbose",
		Usage:   "Log every wait and retry",
		EnvVars: []string{"STEADY_VERBOSE"},
	},
	&cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable ANSI colors",
	},
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "steady",
		Usage:   "Probe web elements through stale-tolerant handles",
		Version: Version,
		Flags:   globalFlags,
		Before: func(c *cli.Context) error {
			if c.Bool("no-color") {
				color.NoColor = true
			}

			return nil
		},
		Commands: []*cli.Command{
			probeCommand,
			configCommand,
		},
	}
}

// newLogger returns the logger handed to the handles. Diagnostics go to
// the error stream so that probe results stay clean on stdout.
func newLogger(c *cli.Context) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(c.App.ErrWriter)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		ForceColors:      !color.NoColor,
	})

	if c.Bool("verbose") {
		l.SetLevel(logrus.DebugLevel)
	}

	return l
}

// loadOptions returns the driver options from --config, or the defaults.
func loadOptions(c *cli.Context) ([]steady.Option, error) {
	path := c.String("config")
	if path == "" {
		cfg := steady.DefaultDriverConfig()
		cfg.Verbose = c.Bool("verbose")

		return []steady.Option{steady.WithRetryConfig(cfg)}, nil
	}

	cfg, err := steady.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	return cfg.DriverOptions(), nil
}

func writer(c *cli.Context) io.Writer {
	if c.App.Writer != nil {
		return c.App.Writer
	}

	return io.Discard
}

var configCommand = &cli.Command{
	Name:  "config",
	Usage: "Inspect configuration files",
	Subcommands: []*cli.Command{
		{
			Name:      "check",
			Usage:     "Validate a JSON or YAML configuration file",
			ArgsUsage: "FILE",
			Action:    checkConfig,
		},
	},
}

func checkConfig(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("config check takes exactly one FILE argument")
	}

	cfg, err := steady.LoadConfig(c.Args().First())
	if err != nil {
		return err
	}

	w := writer(c)
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(w, "%s %s\n", color.GreenString("valid"), c.Args().First())
	fmt.Fprintf(w, "  %s %s\n", bold("element:"), describe(cfg.Element))
	fmt.Fprintf(w, "  %s %s\n", bold("driver: "), describe(cfg.Driver))

	return nil
}

func describe(cfg steady.RetryConfig) string {
	return fmt.Sprintf(
		"max_attempts=%d delay=%s verbose=%t",
		cfg.MaxAttempts,
		cfg.Delay,
		cfg.Verbose,
	)
}
