package model

import "github.com/hughescr/mcp-proxy-processor/internal/argmap"

// BackendServerConfig describes how to launch one backend.
type BackendServerConfig struct {
	Command string            `json:"command"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
	Cwd     string            `json:"cwd,omitempty"`
}

// BackendServersFile is the on-disk shape of backend-servers.json.
type BackendServersFile struct {
	MCPServers map[string]BackendServerConfig `json:"mcpServers"`
}

// ToolOverride attaches a backend tool to a group, optionally rewriting its
// client-visible fields.
type ToolOverride struct {
	ServerName      string                  `json:"serverName"`
	OriginalName    string                  `json:"originalName"`
	Name            string                  `json:"name,omitempty"`
	Description     string                  `json:"description,omitempty"`
	InputSchema     map[string]any          `json:"inputSchema,omitempty"`
	ArgumentMapping *argmap.ArgumentMapping `json:"argumentMapping,omitempty"`
}

// ClientName returns the client-visible tool name: the override's Name if
// set, else the backend's OriginalName.
func (t ToolOverride) ClientName() string {
	if t.Name != "" {
		return t.Name
	}
	return t.OriginalName
}

// ResourceRef attaches a backend resource to a group.
type ResourceRef struct {
	ServerName  string `json:"serverName"`
	URI         string `json:"uri"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// PromptRef attaches a backend prompt to a group.
type PromptRef struct {
	ServerName  string           `json:"serverName"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Arguments   []PromptArgument `json:"arguments,omitempty"`
}

// GroupConfig is a named, priority-ordered composition of backend items.
type GroupConfig struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Tools       []ToolOverride `json:"tools,omitempty"`
	Resources   []ResourceRef  `json:"resources,omitempty"`
	Prompts     []PromptRef    `json:"prompts,omitempty"`
}

// GroupsFile is the on-disk shape of groups.json.
type GroupsFile struct {
	Groups map[string]GroupConfig `json:"groups"`
}
