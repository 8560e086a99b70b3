// Package mcpio wraps github.com/mark3labs/mcp-go's client and server
// packages with the thin conversions the rest of the proxy needs: launching
// a stdio backend, converting its wire types to internal/model, and driving
// a virtual server over stdio towards the single connected client.
package mcpio

import (
	"context"
	"fmt"
	"io"
	"os/exec"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hughescr/mcp-proxy-processor/internal/model"
)

// BackendClient is the subset of mark3labs/mcp-go's client.MCPClient this
// proxy depends on, named so the backend package can be tested against a
// fake without spawning real subprocesses.
type BackendClient interface {
	Initialize(ctx context.Context, req mcp.InitializeRequest) (*mcp.InitializeResult, error)
	ListTools(ctx context.Context, req mcp.ListToolsRequest) (*mcp.ListToolsResult, error)
	ListResources(ctx context.Context, req mcp.ListResourcesRequest) (*mcp.ListResourcesResult, error)
	ListPrompts(ctx context.Context, req mcp.ListPromptsRequest) (*mcp.ListPromptsResult, error)
	CallTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
	ReadResource(ctx context.Context, req mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error)
	GetPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error)
	Close() error
}

// StdioSpawnOptions configures a child process launch. The proxy owns the
// exec.Cmd directly (rather than using mcp-go's NewStdioMCPClient
// convenience constructor) so it can set Cwd and tag Stderr per server.
type StdioSpawnOptions struct {
	Command string
	Args    []string
	// Env is already filtered to the proxy's environment whitelist plus the
	// server's own env, as "K=V" entries.
	Env []string
	Cwd string
	// Stderr, if non-nil, receives the child's stderr stream, tagged by the
	// caller (internal/logging.ForServer).
	Stderr io.Writer
}

// SpawnedClient pairs an un-initialized MCP client with the underlying
// process handle, so the caller can wait on / kill the child directly.
type SpawnedClient struct {
	BackendClient
	Cmd *exec.Cmd
}

// NewStdioClient spawns the backend child process and returns an
// un-initialized MCP client bound to its stdio. Callers must still call
// Initialize before using the client.
func NewStdioClient(opts StdioSpawnOptions) (*SpawnedClient, error) {
	cmd := exec.Command(opts.Command, opts.Args...)
	cmd.Env = opts.Env
	cmd.Dir = opts.Cwd
	if opts.Stderr != nil {
		cmd.Stderr = opts.Stderr
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("open stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("open stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start backend process: %w", err)
	}

	// transport.NewIO hands mcp-go the pipes and process handle directly,
	// rather than having it spawn the command itself, so the proxy retains
	// ownership of Cwd/env/stderr handling.
	t := transport.NewIO(stdout, stdin, cmd)
	c := mcpclient.NewClient(t)
	if err := c.Start(context.Background()); err != nil {
		_ = cmd.Process.Kill()
		return nil, fmt.Errorf("start transport: %w", err)
	}

	return &SpawnedClient{BackendClient: c, Cmd: cmd}, nil
}

// ConvertTool converts an mcp-go wire Tool into the proxy's model.Tool.
func ConvertTool(t mcp.Tool) model.Tool {
	return model.Tool{
		Name:        t.Name,
		Description: t.Description,
		InputSchema: ToolInputSchemaToMap(t.InputSchema),
	}
}

// ToolInputSchemaToMap converts mcp-go's typed ToolInputSchema into the
// generic map[string]any representation the schema/argmap packages operate
// on.
func ToolInputSchemaToMap(s mcp.ToolInputSchema) map[string]any {
	m := map[string]any{
		"type": s.Type,
	}
	if s.Properties != nil {
		m["properties"] = s.Properties
	}
	if len(s.Required) > 0 {
		req := make([]any, len(s.Required))
		for i, r := range s.Required {
			req[i] = r
		}
		m["required"] = req
	}
	return m
}

// MapToToolInputSchema converts a generic JSON Schema map back into
// mcp-go's typed ToolInputSchema, used when presenting the virtual
// catalog's computed client schema back over the wire.
func MapToToolInputSchema(m map[string]any) mcp.ToolInputSchema {
	s := mcp.ToolInputSchema{Type: "object"}
	if t, ok := m["type"].(string); ok && t != "" {
		s.Type = t
	}
	if props, ok := m["properties"].(map[string]any); ok {
		s.Properties = props
	}
	switch req := m["required"].(type) {
	case []string:
		s.Required = req
	case []any:
		for _, r := range req {
			if str, ok := r.(string); ok {
				s.Required = append(s.Required, str)
			}
		}
	}
	return s
}

// ConvertResource converts an mcp-go wire Resource into model.Resource.
func ConvertResource(r mcp.Resource) model.Resource {
	return model.Resource{
		URI:         r.URI,
		Name:        r.Name,
		Description: r.Description,
		MimeType:    r.MIMEType,
	}
}

// ConvertResourceTemplate converts an mcp-go wire ResourceTemplate into
// model.Resource (the proxy treats templates and exact resources uniformly,
// distinguishing by uritemplate.IsTemplate on the URI).
func ConvertResourceTemplate(r mcp.ResourceTemplate) model.Resource {
	return model.Resource{
		URI:         string(r.URITemplate.Raw()),
		Name:        r.Name,
		Description: r.Description,
		MimeType:    r.MIMEType,
	}
}

// ConvertPrompt converts an mcp-go wire Prompt into model.Prompt.
func ConvertPrompt(p mcp.Prompt) model.Prompt {
	args := make([]model.PromptArgument, 0, len(p.Arguments))
	for _, a := range p.Arguments {
		args = append(args, model.PromptArgument{
			Name:        a.Name,
			Description: a.Description,
			Required:    a.Required,
		})
	}
	return model.Prompt{Name: p.Name, Description: p.Description, Arguments: args}
}
