package client

// ToolInfo describes one tool published by the server.
type ToolInfo struct {
	Name        string
	Description string
}

// ResourceInfo describes one resource published by the server.
type ResourceInfo struct {
	URI         string
	Name        string
	Description string
	MIMEType    string
}

// Surface is the set of tools and resources a server publishes, along
// with the server identity reported during the MCP handshake.
type Surface struct {
	ServerName    string
	ServerVersion string
	Tools         []ToolInfo
	Resources     []ResourceInfo
}
