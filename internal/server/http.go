package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/robbyt/go-supervisor/runnables/httpserver"
	"github.com/robbyt/go-supervisor/supervisor"
)

var (
	_ supervisor.Runnable  = (*HTTPRunner)(nil)
	_ supervisor.Stateable = (*HTTPRunner)(nil)
)

// MCPEndpoint is the path the streamable HTTP transport is mounted on.
const MCPEndpoint = "/mcp"

// HTTP timeouts. The write timeout and idle timeout are generous because a
// tool call blocks on a COM round-trip that can sit behind a Photoshop
// modal dialog for minutes.
const (
	httpReadTimeout  = 30 * time.Second
	httpWriteTimeout = 5 * time.Minute
	httpIdleTimeout  = 5 * time.Minute
	httpDrainTimeout = 10 * time.Second
)

// HTTPRunner serves the MCP streamable HTTP transport. The heavy lifting is
// delegated to the go-supervisor httpserver runnable; this wrapper binds it
// to the assembled MCP server and the configured listen address.
type HTTPRunner struct {
	server *Server
	inner  *httpserver.Runner
	logger *slog.Logger
}

// NewHTTPRunner creates the HTTP transport runnable listening on the
// config's server.listen address.
func NewHTTPRunner(server *Server) (*HTTPRunner, error) {
	r := &HTTPRunner{
		server: server,
		logger: server.logger.WithGroup("http"),
	}

	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server.MCP()
	}, nil)

	route, err := httpserver.NewRouteFromHandlerFunc("mcp", MCPEndpoint, handler.ServeHTTP)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp route: %w", err)
	}
	routes := []httpserver.Route{*route}

	listen := server.cfg.Server.Listen
	configCallback := func() (*httpserver.Config, error) {
		return httpserver.NewConfig(listen, routes,
			httpserver.WithReadTimeout(httpReadTimeout),
			httpserver.WithWriteTimeout(httpWriteTimeout),
			httpserver.WithIdleTimeout(httpIdleTimeout),
			httpserver.WithDrainTimeout(httpDrainTimeout),
		)
	}

	inner, err := httpserver.NewRunner(
		httpserver.WithConfigCallback(configCallback),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http server runner: %w", err)
	}
	r.inner = inner

	return r, nil
}

// String implements the supervisor.Runnable interface.
func (r *HTTPRunner) String() string {
	return fmt.Sprintf("server.HTTPRunner[%s]", r.server.cfg.Server.Listen)
}

// Run starts the listener and blocks until shutdown.
func (r *HTTPRunner) Run(ctx context.Context) error {
	if err := r.server.boot(ctx); err != nil {
		return err
	}

	r.logger.Info("serving MCP over http",
		"listen", r.server.cfg.Server.Listen, "endpoint", MCPEndpoint)
	err := r.inner.Run(ctx)

	closeCtx, closeCancel := context.WithTimeout(context.Background(), closeTimeout)
	defer closeCancel()
	r.server.shutdown(closeCtx)

	return err
}

// Stop implements the supervisor.Runnable interface.
func (r *HTTPRunner) Stop() {
	r.logger.Debug("Stopping http runner")
	r.inner.Stop()
}

// GetState returns the listener's lifecycle state.
func (r *HTTPRunner) GetState() string {
	return r.inner.GetState()
}

// GetStateChan returns a channel emitting state changes until ctx is done.
func (r *HTTPRunner) GetStateChan(ctx context.Context) <-chan string {
	return r.inner.GetStateChan(ctx)
}

// IsRunning reports whether the listener is accepting connections.
func (r *HTTPRunner) IsRunning() bool {
	return r.inner.IsRunning()
}
