package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robbyt/go-supervisor/supervisor"
	"github.com/urfave/cli/v3"

	"github.com/brushlab/psmcp/internal/config"
	"github.com/brushlab/psmcp/internal/logging"
	"github.com/brushlab/psmcp/internal/logging/writers"
	"github.com/brushlab/psmcp/internal/server"
)

var serveCmd = &cli.Command{
	Name:  "serve",
	Usage: "Start the psmcp server",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Usage:   "Path to TOML configuration file",
			Aliases: []string{"c"},
		},
		&cli.StringFlag{
			Name:    "transport",
			Usage:   "MCP transport to expose (stdio or http)",
			Aliases: []string{"t"},
		},
		&cli.StringFlag{
			Name:    "listen",
			Usage:   "Address to bind the http transport (host:port)",
			Aliases: []string{"l"},
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log verbosity (trace, debug, info, warn, error)",
		},
		&cli.StringFlag{
			Name:  "ps-version",
			Usage: "Photoshop release to target (2025, 2024, ... cs6)",
		},
	},
	Action: serveAction,
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.NewConfig(cmd.String("config"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	applyServeFlags(cfg, serveFlags{
		transport: cmd.String("transport"),
		listen:    cmd.String("listen"),
		logLevel:  cmd.String("log-level"),
		psVersion: cmd.String("ps-version"),
	})

	// The file was validated on load; flag overrides need their own pass.
	if err := cfg.Validate(); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	handler, err := buildLogHandler(cfg)
	if err != nil {
		return cli.Exit(fmt.Errorf("failed to set up logging: %w", err), 1)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	return runServer(ctx, logger, cfg, cmd.Root().Version)
}

// serveFlags carries the command-line values layered over the loaded config.
type serveFlags struct {
	transport string
	listen    string
	logLevel  string
	psVersion string
}

// applyServeFlags copies non-empty flag values into the config. Values are
// not checked here; the caller re-validates so bad flags surface the same
// errors as bad file values.
func applyServeFlags(cfg *config.Config, flags serveFlags) {
	if flags.transport != "" {
		cfg.Server.Transport = config.Transport(flags.transport)
	}
	if flags.listen != "" {
		cfg.Server.Listen = flags.listen
	}
	if flags.logLevel != "" {
		cfg.Logging.Level = config.LogLevel(flags.logLevel)
	}
	if flags.psVersion != "" {
		cfg.Photoshop.Version = flags.psVersion
	}
}

func buildLogHandler(cfg *config.Config) (slog.Handler, error) {
	writer, err := writers.CreateWriter(cfg.Logging.Output)
	if err != nil {
		return nil, err
	}
	return logging.SetupHandler(
		cfg.Logging.Level.String(),
		cfg.Logging.Format.String(),
		writer,
	), nil
}

// runServer assembles the MCP server from the config and runs its transport
// runnable under a supervisor until the context ends or a signal arrives.
func runServer(ctx context.Context, logger *slog.Logger, cfg *config.Config, version string) error {
	logHandler := logger.Handler()

	srv, err := server.New(cfg,
		server.WithLogHandler(logHandler),
		server.WithVersion(version),
	)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	runner, err := srv.Runnable()
	if err != nil {
		return fmt.Errorf("failed to create transport runnable: %w", err)
	}

	super, err := supervisor.New(
		supervisor.WithContext(ctx),
		supervisor.WithLogHandler(logHandler),
		supervisor.WithRunnables(runner),
	)
	if err != nil {
		return fmt.Errorf("failed to create supervisor: %w", err)
	}
	if err := super.Run(); err != nil {
		return fmt.Errorf("failed to run server: %w", err)
	}

	logger.Info("Server shutdown complete")
	return nil
}
