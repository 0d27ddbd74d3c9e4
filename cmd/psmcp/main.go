package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:    "psmcp",
		Version: resolveVersion(),
		Usage:   "MCP automation bridge for Adobe Photoshop",
		Commands: []*cli.Command{
			serveCmd,
			toolsCmd,
			validateCmd,
			versionCmd,
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
