package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/mwantia/sizefs/config"
	"github.com/mwantia/sizefs/log"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.App{
		Name:    "sizefs",
		Usage:   "a read-only filesystem of synthetic files named by their size",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the YAML configuration",
				EnvVars: []string{"SIZEFS_CONFIG"},
			},
		},
		Before: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return cli.Exit(err, 1)
			}
			c.App.Metadata = map[string]any{"config": cfg}
			return nil
		},
		Commands: []*cli.Command{
			routedCommand("ls", "list a directory", "[-l] [--json] [path]"),
			routedCommand("stat", "show file information", "[--json] <path>"),
			routedCommand("cat", "write file content to stdout", "[--offset n] [--length n] <path>"),
			routedCommand("size", "parse size tokens", "[--units jedec|si] <token>..."),
			parseCommand(),
			serveCommand(),
			exportCommand(),
			browseCommand(),
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(c *cli.Context) *config.Config {
	if cfg, ok := c.App.Metadata["config"].(*config.Config); ok {
		return cfg
	}
	return config.DefaultConfig()
}

// newLogger keeps stdout free for command output unless a log file is
// configured without terminal output.
func newLogger(cfg *config.Config) *log.Logger {
	if cfg.Log.File != "" && cfg.Log.NoTerminal {
		return log.NewLogger("sizefs", cfg.Log.Level, cfg.Log.File, true)
	}
	return log.NewWithWriter("sizefs", cfg.Log.Level, os.Stderr)
}
