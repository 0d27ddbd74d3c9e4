package client

import (
	"fmt"

	"github.com/brushlab/psmcp/internal/fancy"
)

// String returns a pretty-printed tree representation of the surface
func (s *Surface) String() string {
	return SurfaceTree(s)
}

// SurfaceTree converts a Surface into a rendered tree string
func SurfaceTree(s *Surface) string {
	// Set up the root node with the server identity
	t := fancy.Tree()
	name := s.ServerName
	if name == "" {
		name = "unknown server"
	}
	if s.ServerVersion != "" {
		name = fmt.Sprintf("%s (%s)", name, s.ServerVersion)
	}
	t.Root(fancy.RootStyle.Render(name))

	// Add tools section
	toolsTree := fancy.BranchNode("Tools", fmt.Sprintf("(%d)", len(s.Tools)))
	for _, tool := range s.Tools {
		label := fancy.ToolText(tool.Name)
		if desc := fancy.TruncateString(tool.Description, 60); desc != "" {
			label = fmt.Sprintf("%s %s", label, fancy.InfoStyle.Render(desc))
		}
		toolsTree.Child(label)
	}
	t.Child(toolsTree)

	// Add resources section
	resourcesTree := fancy.BranchNode("Resources", fmt.Sprintf("(%d)", len(s.Resources)))
	for _, res := range s.Resources {
		label := fancy.ResourceText(res.URI)
		if res.MIMEType != "" {
			label = fmt.Sprintf("%s %s", label, fancy.MIMEText(res.MIMEType))
		}
		if desc := fancy.TruncateString(res.Description, 60); desc != "" {
			label = fmt.Sprintf("%s %s", label, fancy.InfoStyle.Render(desc))
		}
		resourcesTree.Child(label)
	}
	t.Child(resourcesTree)

	// Render the tree to string
	return t.String()
}
