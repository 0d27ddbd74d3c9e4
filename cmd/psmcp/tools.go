package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/brushlab/psmcp/internal/client"
	"github.com/brushlab/psmcp/internal/config"
	"github.com/brushlab/psmcp/internal/server"
)

var toolsCmd = &cli.Command{
	Name:  "tools",
	Usage: "List the tools and resources the server publishes",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Usage:   "Address of a running server (host:port). Lists locally when omitted.",
			Aliases: []string{"s"},
		},
		&cli.StringFlag{
			Name:    "config",
			Usage:   "Path to TOML configuration file for the local listing",
			Aliases: []string{"c"},
		},
		&cli.IntFlag{
			Name:    "timeout",
			Usage:   "Timeout for the remote listing in seconds",
			Aliases: []string{"t"},
			Value:   30,
		},
	},
	Action: toolsAction,
}

func toolsAction(ctx context.Context, cmd *cli.Command) error {
	version := cmd.Root().Version

	if serverAddr := cmd.String("server"); serverAddr != "" {
		timeout := time.Duration(cmd.Int("timeout")) * time.Second
		return listRemote(ctx, serverAddr, timeout, version)
	}

	return listLocal(cmd.String("config"), version)
}

// listRemote asks a running server for its surface over MCP.
func listRemote(ctx context.Context, serverAddr string, timeout time.Duration, version string) error {
	psmcpClient := client.New(client.Config{
		Logger:     slog.Default(),
		ServerAddr: serverAddr,
		Timeout:    timeout,
		Version:    version,
	})

	surface, err := psmcpClient.ListSurface(ctx)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	fmt.Println(surface)
	return nil
}

// listLocal assembles the server from the config without starting a
// transport and renders the registry contents. No Photoshop connection
// is made.
func listLocal(configPath string, version string) error {
	cfg, err := config.NewConfig(configPath)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	srv, err := server.New(cfg, server.WithVersion(version))
	if err != nil {
		return cli.Exit(fmt.Errorf("failed to assemble server: %w", err), 1)
	}

	surface := &client.Surface{
		ServerName:    cfg.Server.Name,
		ServerVersion: version,
	}
	for _, t := range srv.Registry().Tools() {
		surface.Tools = append(surface.Tools, client.ToolInfo{
			Name:        t.Name,
			Description: t.Description,
		})
	}
	for _, res := range srv.Registry().Resources() {
		surface.Resources = append(surface.Resources, client.ResourceInfo{
			URI:         res.URI,
			Name:        res.Name,
			Description: res.Description,
			MIMEType:    res.MIMEType,
		})
	}

	fmt.Println(surface)
	return nil
}
