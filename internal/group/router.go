// Package group implements the Group Manager / Router: loading and
// validating groups.json, composing the virtual catalog per group,
// detecting conflicts, and routing client requests through the argument
// transformer to the backend session manager.
package group

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hughescr/mcp-proxy-processor/internal/argmap"
	"github.com/hughescr/mcp-proxy-processor/internal/logging"
	"github.com/hughescr/mcp-proxy-processor/internal/mcperr"
	"github.com/hughescr/mcp-proxy-processor/internal/model"
	"github.com/hughescr/mcp-proxy-processor/internal/uritemplate"
)

// Backends is the subset of backend.Manager the router depends on, named so
// it can be tested against a fake without spawning real sessions.
type Backends interface {
	CallTool(ctx context.Context, serverName, toolName string, args map[string]any) (*mcp.CallToolResult, error)
	ReadResource(ctx context.Context, serverName, uri string) (*mcp.ReadResourceResult, error)
	GetPrompt(ctx context.Context, serverName, name string, args map[string]string) (*mcp.GetPromptResult, error)
}

// Router serves one loaded, validated group: it holds the priority-ordered
// overrides plus the composed virtual catalog, and dispatches client
// requests to the right backend.
type Router struct {
	name     string
	config   model.GroupConfig
	catalog  model.Catalog
	backends Backends
}

// NewRouter builds a Router for an already-validated group, given the
// backend catalogs discovered by C4.
func NewRouter(name string, cfg model.GroupConfig, backendCatalogs map[string]model.Catalog, backends Backends) *Router {
	return &Router{
		name:     name,
		config:   cfg,
		catalog:  ComposeVirtualCatalog(cfg, backendCatalogs),
		backends: backends,
	}
}

// Catalog returns the group's composed, client-visible catalog (for
// tools/list, resources/list, prompts/list).
func (r *Router) Catalog() model.Catalog { return r.catalog }

// CallTool routes a tools/call request: first-match-wins over the group's
// priority-ordered tool overrides.
func (r *Router) CallTool(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	for _, t := range r.config.Tools {
		if t.ClientName() != name {
			continue
		}
		backendArgs := args
		if t.ArgumentMapping != nil {
			backendArgs = argmap.Transform(args, t.ArgumentMapping)
		}
		result, err := r.backends.CallTool(ctx, t.ServerName, t.OriginalName, backendArgs)
		if err != nil {
			return nil, err
		}
		return result, nil
	}
	return nil, mcperr.ItemNotFound("tool", name)
}

// ReadResource routes a resources/read request: scans the group's
// priority-ordered resource refs and dispatches to the first URI/template
// match.
func (r *Router) ReadResource(ctx context.Context, uri string) (*mcp.ReadResourceResult, error) {
	for _, ref := range r.config.Resources {
		if !uritemplate.Match(uri, ref.URI).Matches {
			continue
		}
		result, err := r.backends.ReadResource(ctx, ref.ServerName, uri)
		if err != nil {
			return nil, err
		}
		return result, nil
	}
	return nil, mcperr.ItemNotFound("resource", uri)
}

// GetPrompt routes a prompts/get request: first prompt in priority order
// whose name matches.
func (r *Router) GetPrompt(ctx context.Context, name string, args map[string]string) (*mcp.GetPromptResult, error) {
	for _, p := range r.config.Prompts {
		if p.Name != name {
			continue
		}
		result, err := r.backends.GetPrompt(ctx, p.ServerName, p.Name, args)
		if err != nil {
			return nil, err
		}
		return result, nil
	}
	return nil, mcperr.ItemNotFound("prompt", name)
}

// LoadAndValidate invariant-checks every group in the already decoded gf
// against the known backend names, logging (but not failing on) any
// template-overlap warnings.
func LoadAndValidate(gf *model.GroupsFile, knownBackends map[string]bool) error {
	for name, g := range gf.Groups {
		if err := Validate(name, g, knownBackends); err != nil {
			return err
		}
		for _, c := range DetectResourceConflicts(g.Resources) {
			if c.Kind == ConflictTemplateOverlap {
				logging.Warnf("group %s: template-overlap conflict between positions %d and %d (example %s)", name, c.PriorityA, c.PriorityB, c.ExampleURI)
			}
		}
	}
	return nil
}
