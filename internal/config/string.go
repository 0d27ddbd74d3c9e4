package config

import (
	"fmt"

	"github.com/brushlab/psmcp/internal/fancy"
	"github.com/brushlab/psmcp/internal/ps"
)

// String returns a pretty-printed tree representation of the config
func (c *Config) String() string {
	return ConfigTree(c)
}

// ConfigTree converts a Config struct into a rendered tree string
func ConfigTree(cfg *Config) string {
	// Set up the root node with the config version
	t := fancy.Tree()
	t.Root(fancy.RootStyle.Render(fmt.Sprintf("psmcp Config (%s)", cfg.Version)))

	// Add server section
	serverTree := fancy.SectionNode("Server")
	serverTree.Child(fmt.Sprintf("Name: %s", cfg.Server.Name))
	serverTree.Child(fmt.Sprintf("Transport: %s", effectiveTransport(cfg.Server.Transport)))
	if cfg.Server.Transport == TransportHTTP {
		serverTree.Child(fmt.Sprintf("Listen: %s", cfg.Server.Listen))
	}
	t.Child(serverTree)

	// Add photoshop section
	psTree := fancy.SectionNode("Photoshop")
	psTree.Child(fmt.Sprintf("ProgID: %s", progIDLabel(cfg.Photoshop.Version)))
	psTree.Child(fmt.Sprintf("Warm connect: %t", cfg.Photoshop.WarmConnect))
	psTree.Child(fmt.Sprintf("Display dialogs: %s", cfg.Photoshop.DisplayDialogs))
	psTree.Child(fmt.Sprintf("Ruler units: %s", cfg.Photoshop.RulerUnits))

	retryTree := fancy.SectionNode("Retry")
	retryTree.Child(fmt.Sprintf("Attempts: %d", cfg.Photoshop.Retry.Attempts))
	retryTree.Child(fmt.Sprintf("Initial backoff: %s", cfg.Photoshop.Retry.InitialBackoff))
	retryTree.Child(fmt.Sprintf("Max backoff: %s", cfg.Photoshop.Retry.MaxBackoff))
	psTree.Child(retryTree)
	t.Child(psTree)

	// Add logging section
	loggingTree := fancy.SectionNode("Logging")
	loggingTree.Child(fmt.Sprintf("Level: %s", cfg.Logging.Level))
	loggingTree.Child(fmt.Sprintf("Format: %s", cfg.Logging.Format))
	loggingTree.Child(fmt.Sprintf("Output: %s", cfg.Logging.Output))
	t.Child(loggingTree)

	// Add preview section
	previewTree := fancy.SectionNode("Preview")
	previewTree.Child(fmt.Sprintf("Max dimension: %d", cfg.Preview.MaxDimension))
	t.Child(previewTree)

	// Render the tree to string
	return t.String()
}

func effectiveTransport(tr Transport) string {
	if tr == TransportUnspecified {
		return fmt.Sprintf("%s (default)", TransportStdio)
	}
	return tr.String()
}

func progIDLabel(version string) string {
	progID, err := ps.ProgIDForVersion(version)
	if err != nil {
		return fmt.Sprintf("unknown version %q", version)
	}
	if version == "" {
		return progID
	}
	return fmt.Sprintf("%s (%s)", progID, version)
}
