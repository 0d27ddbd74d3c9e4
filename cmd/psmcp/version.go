package main

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/urfave/cli/v3"
)

// Version is set during build using ldflags
var Version = "dev"

var versionCmd = &cli.Command{
	Name:  "version",
	Usage: "Print the version information",
	Action: func(ctx context.Context, cmd *cli.Command) error {
		fmt.Printf("psmcp version %s\n", cmd.Root().Version)
		return nil
	},
}

// resolveVersion prefers the ldflags-injected value and falls back to the
// module version recorded in the build info, so `go install`ed binaries
// still report something useful.
func resolveVersion() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	return Version
}
