// Command autem runs an Autem devnet and offers offline trust tooling.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
	_ "go.uber.org/automaxprocs"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	configFlag = &cli.StringFlag{
		Name:    "config",
		Usage:   "TOML or YAML configuration file",
		EnvVars: []string{"AUTEM_CONFIG"},
	}
	verbosityFlag = &cli.IntFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity: 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=trace",
		Value: 3,
	}
	logFormatFlag = &cli.StringFlag{
		Name:  "log.format",
		Usage: "Log format: terminal or json",
		Value: "terminal",
	}
	logFileFlag = &cli.StringFlag{
		Name:  "log.file",
		Usage: "Write logs to a rotated file instead of stderr",
	}
	logMaxSizeFlag = &cli.IntFlag{
		Name:  "log.maxsize",
		Usage: "Maximum size in megabytes of the log file before it is rotated",
		Value: 100,
	}
)

func newApp() *cli.App {
	return &cli.App{
		Name:  "autem",
		Usage: "dead man's switch trusts",
		Flags: []cli.Flag{verbosityFlag, logFormatFlag, logFileFlag, logMaxSizeFlag},
		Before: func(c *cli.Context) error {
			return setupLogging(logSettings{
				verbosity: c.Int(verbosityFlag.Name),
				format:    c.String(logFormatFlag.Name),
				file:      c.String(logFileFlag.Name),
				maxSize:   c.Int(logMaxSizeFlag.Name),
			})
		},
		Commands: []*cli.Command{
			devnetCommand,
			predictCommand,
			windowCommand,
			versionCommand,
		},
	}
}

type logSettings struct {
	verbosity int
	format    string
	file      string
	maxSize   int
}

func setupLogging(s logSettings) error {
	level := log.FromLegacyLevel(s.verbosity)
	var (
		output   io.Writer = os.Stderr
		useColor           = false
	)
	if s.file != "" {
		output = &lumberjack.Logger{
			Filename: s.file,
			MaxSize:  s.maxSize,
			Compress: true,
		}
	} else if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		output = colorable.NewColorableStderr()
		useColor = os.Getenv("TERM") != "dumb"
	}

	var handler slog.Handler
	switch s.format {
	case "terminal":
		handler = log.NewTerminalHandlerWithLevel(output, level, useColor)
	case "json":
		handler = log.JSONHandlerWithLevel(output, level)
	default:
		return fmt.Errorf("unknown log format %q", s.format)
	}
	log.SetDefault(log.NewLogger(handler))
	return nil
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
