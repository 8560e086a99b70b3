package group

import (
	"github.com/hughescr/mcp-proxy-processor/internal/logging"
	"github.com/hughescr/mcp-proxy-processor/internal/model"
	"github.com/hughescr/mcp-proxy-processor/internal/schema"
)

// ComposeVirtualCatalog builds the client-visible catalog for one group from
// the backends' discovered catalogs, applying the group's override-or-retain
// rules. A ToolOverride/ResourceRef/PromptRef whose backend item does not
// currently exist is omitted and logged as a warning, never a fatal error.
func ComposeVirtualCatalog(g model.GroupConfig, backendCatalogs map[string]model.Catalog) model.Catalog {
	var out model.Catalog

	for _, t := range g.Tools {
		backendTool, ok := findTool(backendCatalogs[t.ServerName], t.OriginalName)
		if !ok {
			logging.Warnf("group: tool %s:%s not found in backend catalog, omitting", t.ServerName, t.OriginalName)
			continue
		}
		out.Tools = append(out.Tools, composeTool(t, backendTool))
	}

	for _, r := range g.Resources {
		backendResource, ok := findResource(backendCatalogs[r.ServerName], r.URI)
		if !ok {
			logging.Warnf("group: resource %s:%s not found in backend catalog, omitting", r.ServerName, r.URI)
			continue
		}
		out.Resources = append(out.Resources, composeResource(r, backendResource))
	}

	for _, p := range g.Prompts {
		backendPrompt, ok := findPrompt(backendCatalogs[p.ServerName], p.Name)
		if !ok {
			logging.Warnf("group: prompt %s:%s not found in backend catalog, omitting", p.ServerName, p.Name)
			continue
		}
		out.Prompts = append(out.Prompts, composePrompt(p, backendPrompt))
	}

	return out
}

func findTool(cat model.Catalog, name string) (model.Tool, bool) {
	for _, t := range cat.Tools {
		if t.Name == name {
			return t, true
		}
	}
	return model.Tool{}, false
}

func findResource(cat model.Catalog, uri string) (model.Resource, bool) {
	for _, r := range cat.Resources {
		if r.URI == uri {
			return r, true
		}
	}
	return model.Resource{}, false
}

func findPrompt(cat model.Catalog, name string) (model.Prompt, bool) {
	for _, p := range cat.Prompts {
		if p.Name == name {
			return p, true
		}
	}
	return model.Prompt{}, false
}

func composeTool(override model.ToolOverride, backend model.Tool) model.Tool {
	result := model.Tool{
		Name:        override.ClientName(),
		Description: backend.Description,
		InputSchema: backend.InputSchema,
	}
	if override.Description != "" {
		result.Description = override.Description
	}
	switch {
	case override.InputSchema != nil:
		result.InputSchema = override.InputSchema
	case override.ArgumentMapping != nil:
		result.InputSchema = schema.Generate(backend.InputSchema, override.ArgumentMapping)
	}
	return result
}

func composeResource(ref model.ResourceRef, backend model.Resource) model.Resource {
	result := backend
	result.URI = ref.URI
	if ref.Name != "" {
		result.Name = ref.Name
	}
	if ref.Description != "" {
		result.Description = ref.Description
	}
	if ref.MimeType != "" {
		result.MimeType = ref.MimeType
	}
	return result
}

func composePrompt(ref model.PromptRef, backend model.Prompt) model.Prompt {
	result := backend
	result.Name = ref.Name
	if ref.Description != "" {
		result.Description = ref.Description
	}
	if len(ref.Arguments) > 0 {
		result.Arguments = ref.Arguments
	}
	return result
}
