package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/mwantia/sizefs"
	"github.com/mwantia/sizefs/cli/tui"
	"github.com/mwantia/sizefs/config"
	"github.com/mwantia/sizefs/export"
	"github.com/mwantia/sizefs/log"
	"github.com/mwantia/sizefs/metrics"
	"github.com/mwantia/sizefs/webdav"
)

const shutdownTimeout = 10 * time.Second

func newFileSystem(cfg *config.Config, logger *log.Logger, extra ...sizefs.FileSystemOption) (sizefs.FileSystem, error) {
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	opts = append(opts, sizefs.WithLogger(logger))
	opts = append(opts, extra...)

	return sizefs.New(opts...)
}

// routedCommand hands its arguments to the builtin command of the same name.
func routedCommand(name, usage, argsUsage string) *cli.Command {
	return &cli.Command{
		Name:            name,
		Usage:           usage,
		ArgsUsage:       argsUsage,
		SkipFlagParsing: true,
		Action: func(c *cli.Context) error {
			cfg := loadConfig(c)
			fs, err := newFileSystem(cfg, newLogger(cfg))
			if err != nil {
				return cli.Exit(err, 1)
			}
			defer fs.Shutdown(context.Background())

			args := append([]string{name}, c.Args().Slice()...)
			code, err := fs.Execute(c.Context, os.Stdout, args...)
			if err != nil {
				return cli.Exit(err, code)
			}
			if code != 0 {
				return cli.Exit("", code)
			}
			return nil
		},
	}
}

func parseCommand() *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "resolve paths to their length and content pattern",
		ArgsUsage: "<path>...",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.Exit("parse requires at least one path", 2)
			}

			cfg := loadConfig(c)
			fs, err := newFileSystem(cfg, newLogger(cfg))
			if err != nil {
				return cli.Exit(err, 1)
			}
			defer fs.Shutdown(context.Background())

			tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			failed := false
			for _, p := range c.Args().Slice() {
				file, err := fs.Resolve(c.Context, p)
				if err != nil {
					fmt.Fprintf(tw, "%s\terror: %v\n", p, err)
					failed = true
					continue
				}
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", file.Path, file.Length, file.Spec, file.Pattern)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if failed {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "serve the filesystem over WebDAV",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "WebDAV listen address"},
			&cli.StringFlag{Name: "metrics-addr", Usage: "metrics listen address, empty to disable"},
		},
		Action: func(c *cli.Context) error {
			cfg := loadConfig(c)
			if c.IsSet("addr") {
				cfg.Server.WebDAVAddr = c.String("addr")
			}
			if c.IsSet("metrics-addr") {
				cfg.Server.MetricsAddr = c.String("metrics-addr")
			}

			logger := log.NewLogger("sizefs", cfg.Log.Level, cfg.Log.File, cfg.Log.NoTerminal)

			reg := prometheus.NewRegistry()
			fs, err := newFileSystem(cfg, logger, sizefs.WithMetrics(metrics.New(reg)))
			if err != nil {
				return cli.Exit(err, 1)
			}

			dav := webdav.NewServer(fs, logger)
			handler := webdav.NewAuthMiddleware(dav.Handler(), cfg.Server.Auth.Username, cfg.Server.Auth.Password, logger)

			var metricsServer *metrics.Server
			if cfg.Server.MetricsAddr != "" {
				metricsServer = metrics.NewServer(cfg.Server.MetricsAddr, reg, logger)
			}

			g, ctx := errgroup.WithContext(c.Context)
			g.Go(func() error {
				return dav.Start(cfg.Server.WebDAVAddr, handler)
			})
			if metricsServer != nil {
				g.Go(metricsServer.Start)
			}
			g.Go(func() error {
				<-ctx.Done()
				logger.Info("Shutting down")

				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()

				errs := []error{dav.Shutdown(shutdownCtx)}
				if metricsServer != nil {
					errs = append(errs, metricsServer.Shutdown(shutdownCtx))
				}
				errs = append(errs, fs.Shutdown(shutdownCtx))
				return errors.Join(errs...)
			})

			if err := g.Wait(); err != nil {
				return cli.Exit(err, 1)
			}
			return nil
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "write virtual files into a bucket or directory",
		ArgsUsage: "<path>...",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "s3", Usage: "export into the configured S3 bucket"},
			&cli.StringFlag{Name: "dir", Usage: "export into a local directory"},
			&cli.StringFlag{Name: "prefix", Usage: "key prefix for exported files"},
			&cli.IntFlag{Name: "concurrency", Usage: "exports in flight, defaults to the configured value"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.Exit("export requires at least one path", 2)
			}
			if c.Bool("s3") == (c.String("dir") != "") {
				return cli.Exit("export requires exactly one of --s3 or --dir", 2)
			}

			cfg := loadConfig(c)
			logger := newLogger(cfg)

			var exp export.Exporter
			if c.Bool("s3") {
				s3 := cfg.Export.S3
				e, err := export.NewS3Exporter(export.S3Options{
					Endpoint:  s3.Endpoint,
					Bucket:    s3.Bucket,
					Region:    s3.Region,
					AccessKey: s3.AccessKey,
					SecretKey: s3.SecretKey,
					UseSSL:    s3.UseSSL,
				})
				if err != nil {
					return cli.Exit(err, 1)
				}
				exp = e
			} else {
				exp = export.NewDirExporter(c.String("dir"))
			}

			fs, err := newFileSystem(cfg, logger)
			if err != nil {
				return cli.Exit(err, 1)
			}
			defer fs.Shutdown(context.Background())

			limit := cfg.Export.Concurrency
			if c.IsSet("concurrency") {
				limit = c.Int("concurrency")
			}

			jobs := export.Jobs(c.String("prefix"), c.Args().Slice()...)
			result, err := export.Run(c.Context, fs, exp, jobs, limit, logger)
			if err != nil {
				return cli.Exit(err, 1)
			}

			fmt.Printf("Exported %d files (%d bytes) in %s\n", result.Files, result.Bytes, result.Duration.Round(time.Millisecond))
			return nil
		},
	}
}

func browseCommand() *cli.Command {
	return &cli.Command{
		Name:  "browse",
		Usage: "browse the filesystem interactively",
		Action: func(c *cli.Context) error {
			cfg := loadConfig(c)

			// The terminal belongs to the browser.
			logger := log.Discard()
			if cfg.Log.File != "" {
				logger = log.NewLogger("sizefs", cfg.Log.Level, cfg.Log.File, true)
			}

			fs, err := newFileSystem(cfg, logger)
			if err != nil {
				return cli.Exit(err, 1)
			}
			defer fs.Shutdown(context.Background())

			model := tui.NewModel(tui.NewFSAdapter(c.Context, fs), logger)
			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(c.Context))
			if _, err := p.Run(); err != nil {
				return cli.Exit(fmt.Errorf("browser failed: %w", err), 1)
			}
			return nil
		},
	}
}
