// Package model holds the proxy's core data model: the shapes shared between
// the config layer, the backend session manager, and the group router.
// These are deliberately decoupled from the wire types of whichever MCP
// client/server library is in use, the same separation toolhive draws
// between its own vmcp.Tool/Resource/Prompt types and mcp-go's.
package model

// Tool is an MCP tool as discovered from (or overridden for) a backend.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	InputSchema map[string]any `json:"inputSchema"`
}

// Resource is an MCP resource or resource template.
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// Prompt is an MCP prompt.
type Prompt struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Arguments   []PromptArgument `json:"arguments,omitempty"`
}

// PromptArgument describes one named argument a Prompt accepts.
type PromptArgument struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

// Catalog is a backend's current set of discovered capabilities.
type Catalog struct {
	Tools     []Tool
	Resources []Resource
	Prompts   []Prompt
}
