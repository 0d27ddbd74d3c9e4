// Package server assembles the MCP server from configuration: registry,
// tools, resources, and the Photoshop session, plus the transport runnables
// that expose it over stdio or HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/robbyt/go-supervisor/supervisor"

	"github.com/brushlab/psmcp/internal/config"
	"github.com/brushlab/psmcp/internal/preview"
	"github.com/brushlab/psmcp/internal/ps"
	"github.com/brushlab/psmcp/internal/registry"
	"github.com/brushlab/psmcp/internal/resources"
	"github.com/brushlab/psmcp/internal/tools"
)

// Server owns the assembled MCP server and its Photoshop client. Build one
// with New, then hand Runnable() to a supervisor.
type Server struct {
	cfg     *config.Config
	version string
	logger  *slog.Logger

	client ps.Client
	// ownsClient marks a session built here from config. Injected clients
	// belong to the caller and are never closed by the runnables.
	ownsClient bool

	store    *preview.Store
	registry *registry.Registry
	mcp      *mcp.Server
}

// Option configures a Server.
type Option func(*Server)

// WithLogHandler sets the slog handler used for server logging.
func WithLogHandler(handler slog.Handler) Option {
	return func(s *Server) {
		if handler != nil {
			s.logger = slog.New(handler).WithGroup("server")
		}
	}
}

// WithLogger sets the logger used for server logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClient injects a Photoshop client instead of building a COM session
// from the config. The caller keeps ownership and closes it.
func WithClient(client ps.Client) Option {
	return func(s *Server) {
		s.client = client
	}
}

// WithVersion sets the version string reported to MCP clients.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// New wires the full MCP surface: a Photoshop client (from config unless
// injected), the preview store, every tool and resource, and the SDK server
// they are applied to.
func New(cfg *config.Config, opts ...Option) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	s := &Server{
		cfg:     cfg,
		version: "dev",
		logger:  slog.Default().WithGroup("server"),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.client == nil {
		session, err := sessionFromConfig(cfg.Photoshop, s.logger)
		if err != nil {
			return nil, fmt.Errorf("create photoshop session: %w", err)
		}
		s.client = session
		s.ownsClient = true
	}

	s.store = preview.NewStore(
		cfg.Preview.MaxDimension,
		preview.WithLogger(s.logger.WithGroup("preview")),
	)

	s.registry = registry.New(registry.WithLogger(s.logger.WithGroup("registry")))

	toolset := tools.New(s.client, tools.WithPreviewStore(s.store))
	if err := toolset.Register(s.registry); err != nil {
		return nil, fmt.Errorf("register tools: %w", err)
	}

	catalog := resources.New(s.client, resources.WithPreviewStore(s.store))
	if err := catalog.Register(s.registry); err != nil {
		return nil, fmt.Errorf("register resources: %w", err)
	}

	s.mcp = mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Server.Name,
		Version: s.version,
	}, nil)
	s.registry.Apply(s.mcp)

	s.logger.Debug("server assembled",
		"name", cfg.Server.Name,
		"transport", cfg.Server.Transport,
		"tools", len(s.registry.Tools()),
		"resources", len(s.registry.Resources()))
	return s, nil
}

// sessionFromConfig translates the photoshop config block into session
// options. Validation has already vetted the strings, but the parsers still
// return errors so a Server can be built from an unvalidated Config.
func sessionFromConfig(cfg config.PhotoshopConfig, logger *slog.Logger) (*ps.Session, error) {
	progID, err := ps.ProgIDForVersion(cfg.Version)
	if err != nil {
		return nil, err
	}
	dialogs, err := ps.ParseDialogModes(cfg.DisplayDialogs)
	if err != nil {
		return nil, err
	}
	units, err := ps.ParseUnits(cfg.RulerUnits)
	if err != nil {
		return nil, err
	}

	return ps.NewSession(ps.SessionOptions{
		ProgID:      progID,
		DialogModes: dialogs,
		RulerUnits:  units,
		Retry: ps.RetryPolicy{
			Attempts:       cfg.Retry.Attempts,
			InitialBackoff: cfg.Retry.InitialBackoff.AsDuration(),
			MaxBackoff:     cfg.Retry.MaxBackoff.AsDuration(),
		},
	}, ps.WithLogger(logger.WithGroup("ps.Session")))
}

// MCP returns the assembled SDK server.
func (s *Server) MCP() *mcp.Server {
	return s.mcp
}

// Registry returns the tool and resource registry.
func (s *Server) Registry() *registry.Registry {
	return s.registry
}

// Client returns the Photoshop client the server was assembled around.
func (s *Server) Client() ps.Client {
	return s.client
}

// Runner is the lifecycle contract every transport runnable satisfies.
type Runner interface {
	supervisor.Runnable
	supervisor.Stateable
}

// Runnable builds the transport runnable selected by the config.
func (s *Server) Runnable() (Runner, error) {
	switch s.cfg.Server.Transport {
	case config.TransportUnspecified, config.TransportStdio:
		return NewStdioRunner(s)
	case config.TransportHTTP:
		return NewHTTPRunner(s)
	default:
		return nil, fmt.Errorf("unknown transport %q", s.cfg.Server.Transport)
	}
}

// boot runs the startup work shared by both transports. With warm_connect
// set, an unreachable Photoshop fails startup instead of the first call.
func (s *Server) boot(ctx context.Context) error {
	if !s.cfg.Photoshop.WarmConnect {
		return nil
	}
	if err := s.client.Connect(ctx); err != nil {
		return fmt.Errorf("warm connect: %w", err)
	}
	s.logger.Info("photoshop session established")
	return nil
}

// shutdown releases the session when the server built it.
func (s *Server) shutdown(ctx context.Context) {
	if !s.ownsClient {
		return
	}
	if err := s.client.Close(ctx); err != nil {
		s.logger.Warn("closing photoshop session", "error", err)
	}
}
