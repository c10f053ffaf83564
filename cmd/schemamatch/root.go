package main

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/reoring/schemamatch/i18n"
	"github.com/reoring/schemamatch/internal/config"
	"github.com/reoring/schemamatch/internal/logger"
)

// errValidationFailed is returned by check when at least one document was
// rejected. The report has already been printed.
var errValidationFailed = errors.New("validation failed")

// globalFlags are available on all commands.
var globalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "config",
		Usage: "Config file (JSON or YAML). Defaults to schemamatch.{json,yaml,yml} in the working directory.",
	},
	&cli.StringFlag{
		Name:  "log-level",
		Usage: "Set the log level.  One of: debug, info, warn, error.",
	},
	&cli.StringFlag{
		Name:  "log-format",
		Usage: "Log format.  One of: auto, dev, text, json.",
	},
	&cli.StringFlag{
		Name:  "lang",
		Usage: "Language of issue messages (en, ja).",
	},
	&cli.BoolFlag{
		Name:  "fail-fast",
		Usage: "Stop at the first issue in each document.",
	},
}

func newApp(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "schemamatch",
		Usage:     "Validate JSON and YAML documents against JSON Schema",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     globalFlags,
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			wd, _ := os.Getwd()
			cfg, err := config.Load(cmd.String("config"), wd)
			if err != nil {
				return ctx, err
			}
			cfg.ApplyFlags(cmd)
			i18n.SetLanguage(cfg.Lang)

			log := logger.New(stderr, cfg.LogLevel, cfg.LogFormat)
			if cfg.File != "" {
				log.Debug("using config", "file", cfg.File)
			}
			ctx = config.WithContext(ctx, cfg)
			return logger.WithContext(ctx, log), nil
		},
		Commands: []*cli.Command{
			checkCommand(),
			schemaCommand(),
			genCommand(),
		},
	}
}
