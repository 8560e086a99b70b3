package mcpio

import (
	"context"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/mark3labs/mcp-go/mcp"
)

// ToolHandler answers a tools/call request already routed to a backend.
type ToolHandler func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)

// ResourceHandler answers a resources/read request for one concrete URI or
// URI template.
type ResourceHandler func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error)

// PromptHandler answers a prompts/get request.
type PromptHandler func(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error)

// VirtualServer wraps mark3labs/mcp-go's server.MCPServer, presenting the
// router's composed catalog over stdio to the single connected client. It
// mirrors cmd/thv/app/mcp_serve.go's server.NewMCPServer/AddTool
// registration style, adapted to stdio.
type VirtualServer struct {
	inner *mcpserver.MCPServer
}

// NewVirtualServer builds an un-started MCP server advertising name/version
// to the client during the initialize handshake.
func NewVirtualServer(name, version string) *VirtualServer {
	s := mcpserver.NewMCPServer(name, version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(true, true),
		mcpserver.WithPromptCapabilities(true),
	)
	return &VirtualServer{inner: s}
}

// AddTool registers one client-visible tool and its call handler.
func (v *VirtualServer) AddTool(t mcp.Tool, h ToolHandler) {
	v.inner.AddTool(t, mcpserver.ToolHandlerFunc(h))
}

// AddResource registers one client-visible exact resource and its read
// handler.
func (v *VirtualServer) AddResource(r mcp.Resource, h ResourceHandler) {
	v.inner.AddResource(r, mcpserver.ResourceHandlerFunc(h))
}

// AddResourceTemplate registers one client-visible resource template and
// its read handler.
func (v *VirtualServer) AddResourceTemplate(rt mcp.ResourceTemplate, h ResourceHandler) {
	v.inner.AddResourceTemplate(rt, mcpserver.ResourceTemplateHandlerFunc(h))
}

// AddPrompt registers one client-visible prompt and its get handler.
func (v *VirtualServer) AddPrompt(p mcp.Prompt, h PromptHandler) {
	v.inner.AddPrompt(p, mcpserver.PromptHandlerFunc(h))
}

// ServeStdio blocks, serving the virtual catalog over stdio until the
// client disconnects or ctx is cancelled.
func (v *VirtualServer) ServeStdio(ctx context.Context) error {
	return mcpserver.ServeStdio(v.inner, mcpserver.WithStdioContextFunc(func(c context.Context) context.Context {
		return ctx
	}))
}
