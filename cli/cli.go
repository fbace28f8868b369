package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

const AppName = "atgo"

type App struct {
	logger zerolog.Logger
	cli    *cli.App
}

func New() *App {

	// Set default log level to info
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	logger :=
		log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339Nano,
		})

	runFlags := []cli.Flag{
		&cli.StringFlag{
			Name:  "build-top",
			Usage: "Repository root (defaults to $ANDROID_BUILD_TOP, then the git top level)",
		},
		&cli.StringFlag{
			Name:    "group",
			Aliases: []string{"g"},
			Usage:   "TEST_MAPPING group to expand when no references are given",
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "Resolve and print build targets and run commands without executing anything",
		},
		&cli.BoolFlag{
			Name:  "no-build",
			Usage: "Skip the build step and dispatch directly",
		},
		&cli.BoolFlag{
			Name:  "no-prompt",
			Usage: "Fail on ambiguous references instead of prompting",
		},
	}
	app := &App{
		logger: logger,
		cli: &cli.App{
			Name:      AppName,
			Usage:     "Resolve test references and dispatch them to their execution backend",
			ArgsUsage: "[REFERENCE...] [-- HARNESS_ARGS...]",
			Flags: append([]cli.Flag{
				&cli.BoolFlag{
					Name:  "verbose",
					Usage: "Enable verbose (debug) logging",
				},
			}, runFlags...),
			Before: func(ctx *cli.Context) error {
				if ctx.Bool("verbose") {
					zerolog.SetGlobalLevel(zerolog.DebugLevel)
				}
				return nil
			},
		},
	}
	// Bare references run directly: "atgo FooTests" is "atgo run FooTests".
	app.cli.Action = app.run
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:      "run",
		Usage:     "Resolve references, build their targets and run the tests",
		ArgsUsage: "[REFERENCE...] [-- HARNESS_ARGS...]",
		Action:    app.run,
		Flags:     runFlags,
		Description: `Resolve each REFERENCE to a runnable test and dispatch it.

References may be:
  ModuleName                 a module from the build graph
  Class or a.b.Class         a test class, located by searching the tree
  Module:Class  Module:pkg   a class or package scoped to a module
  some/path  ./relative      a source file or directory
  config-name                an integration config or suite tag

A '#method[,method...]' suffix narrows a class reference to methods.
With no REFERENCE, the TEST_MAPPING group for the working directory is
expanded instead.`,
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:      "targets",
		Usage:     "Resolve references and print the descriptors and build targets",
		ArgsUsage: "[REFERENCE...]",
		Action:    app.targets,
		Flags:     runFlags,
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "list",
		Usage:  "List previous invocations",
		Action: app.list,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "build-top",
				Usage: "Repository root (defaults to $ANDROID_BUILD_TOP, then the git top level)",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Limit number of results (default: 20)",
				Value:   20,
			},
		},
	})
	return app
}

func (a *App) Run(args []string) error {
	return a.cli.Run(args)
}

// SetVersion sets the version information for the CLI application
func (a *App) SetVersion(version, commit, date string) {
	a.cli.Version = version
	if commit != "none" && commit != "" {
		a.cli.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit[:8], date)
	}
}
