// Package client inspects a running MCP server over the streamable HTTP
// transport. It is the read side of the CLI: it connects, performs the
// MCP handshake, and reports the tools and resources the server publishes.
package client

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// DefaultEndpointPath is appended to addresses that do not name a path.
	DefaultEndpointPath = "/mcp"

	// DefaultTimeout bounds the handshake plus both listing calls.
	DefaultTimeout = 30 * time.Second

	clientName = "psmcp-cli"
)

// Client represents a psmcp client that can inspect a running server
type Client struct {
	logger     *slog.Logger
	serverAddr string
	timeout    time.Duration
	version    string
}

// Config holds configuration options for creating a Client
type Config struct {
	Logger     *slog.Logger
	ServerAddr string
	Timeout    time.Duration
	Version    string
}

// New creates a new client instance
func New(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	return &Client{
		logger:     logger,
		serverAddr: cfg.ServerAddr,
		timeout:    timeout,
		version:    version,
	}
}

// ListSurface connects to the server and returns its published surface.
// The connection is closed before returning.
func (c *Client) ListSurface(ctx context.Context) (*Surface, error) {
	endpoint, err := Endpoint(c.serverAddr)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	c.logger.Debug("Connecting to server", "endpoint", endpoint)

	mcpClient := mcpsdk.NewClient(&mcpsdk.Implementation{
		Name:    clientName,
		Version: c.version,
	}, nil)

	session, err := mcpClient.Connect(ctx, &mcpsdk.StreamableClientTransport{
		Endpoint: endpoint,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			c.logger.Error("Failed to close session", "error", err)
		}
	}()

	surface := &Surface{}
	if init := session.InitializeResult(); init != nil && init.ServerInfo != nil {
		surface.ServerName = init.ServerInfo.Name
		surface.ServerVersion = init.ServerInfo.Version
	}

	toolsResult, err := session.ListTools(ctx, &mcpsdk.ListToolsParams{})
	if err != nil {
		return nil, fmt.Errorf("list tools: %w", err)
	}
	for _, tool := range toolsResult.Tools {
		surface.Tools = append(surface.Tools, ToolInfo{
			Name:        tool.Name,
			Description: tool.Description,
		})
	}

	resourcesResult, err := session.ListResources(ctx, &mcpsdk.ListResourcesParams{})
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	for _, res := range resourcesResult.Resources {
		surface.Resources = append(surface.Resources, ResourceInfo{
			URI:         res.URI,
			Name:        res.Name,
			Description: res.Description,
			MIMEType:    res.MIMEType,
		})
	}

	c.logger.Debug("Listed server surface",
		"server", surface.ServerName,
		"tools", len(surface.Tools),
		"resources", len(surface.Resources))

	return surface, nil
}

// Endpoint converts a server address into the full URL of the MCP
// endpoint. A bare host:port gains an http scheme, and a URL without
// a path gains the default endpoint path.
func Endpoint(addr string) (string, error) {
	if addr == "" {
		return "", ErrNoServerAddress
	}

	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}

	u, err := url.Parse(addr)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidAddressFormat, addr)
	}

	switch u.Scheme {
	case "http", "https":
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedScheme, u.Scheme)
	}

	if u.Host == "" {
		return "", fmt.Errorf("%w: %s", ErrInvalidAddressFormat, addr)
	}

	if u.Path == "" || u.Path == "/" {
		u.Path = DefaultEndpointPath
	}

	return u.String(), nil
}
