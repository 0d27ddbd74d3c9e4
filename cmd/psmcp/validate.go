package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/brushlab/psmcp/internal/config"
)

var validateCmd = &cli.Command{
	Name:    "validate",
	Aliases: []string{"lint"},
	Usage:   "Validate a configuration file",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "tree",
			Aliases: []string{"t"},
			Usage:   "Show detailed tree view of the validated configuration",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to the configuration file",
		},
	},
	Suggest: true,
	Action:  validateAction,
}

func validateAction(_ context.Context, cmd *cli.Command) error {
	// Check for config flag first
	configPath := cmd.String("config")

	// If no config flag, check for positional argument
	if configPath == "" {
		if cmd.Args().Len() < 1 {
			return fmt.Errorf(
				"config file path required (use the --config flag, or provide the config file as positional argument)",
			)
		}
		configPath = cmd.Args().Get(0)
	}

	// Loading runs interpolation and validation in one pass.
	cfg, err := config.NewConfig(configPath)
	if err != nil {
		return err
	}

	fmt.Printf("Configuration file %s is valid\n", configPath)

	if cmd.Bool("tree") {
		// Use the Stringer interface to print the config in a fancy tree format
		fmt.Println(cfg)
		return nil
	}

	fmt.Println(renderConfigSummary(configPath, cfg))
	return nil
}

// renderConfigSummary creates a formatted summary string for the configuration
func renderConfigSummary(path string, cfg *config.Config) string {
	var summary strings.Builder

	summary.WriteString("\nConfig Summary:\n")
	summary.WriteString(fmt.Sprintf("- Path: %s\n", path))
	summary.WriteString(fmt.Sprintf("- Version: %s\n", cfg.Version))
	summary.WriteString(fmt.Sprintf("- Server: %s\n", cfg.Server.Name))
	summary.WriteString(fmt.Sprintf("- Transport: %s\n", cfg.Server.Transport))
	summary.WriteString(fmt.Sprintf("- Log level: %s\n", cfg.Logging.Level))
	summary.WriteString("\nUse --tree for a more detailed view of the config.")

	return summary.String()
}
