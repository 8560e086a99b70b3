package mcpio

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hughescr/mcp-proxy-processor/internal/model"
	"github.com/hughescr/mcp-proxy-processor/internal/uritemplate"
)

// ToolToMCP converts the proxy's composed model.Tool into the wire mcp.Tool
// the virtual server advertises to the client.
func ToolToMCP(t model.Tool) mcp.Tool {
	return mcp.Tool{
		Name:        t.Name,
		Description: t.Description,
		InputSchema: MapToToolInputSchema(t.InputSchema),
	}
}

// ResourceToMCP converts model.Resource into the wire mcp.Resource shown for
// an exact (non-template) URI.
func ResourceToMCP(r model.Resource) mcp.Resource {
	return mcp.Resource{
		URI:         r.URI,
		Name:        r.Name,
		Description: r.Description,
		MIMEType:    r.MimeType,
	}
}

// ResourceToMCPTemplate converts model.Resource into the wire
// mcp.ResourceTemplate shown for a templated URI.
func ResourceToMCPTemplate(r model.Resource) mcp.ResourceTemplate {
	return mcp.NewResourceTemplate(r.URI, r.Name,
		mcp.WithTemplateDescription(r.Description),
		mcp.WithTemplateMIMEType(r.MimeType),
	)
}

// IsTemplateResource reports whether r's URI is a template, deciding
// whether ResourceToMCP or ResourceToMCPTemplate applies.
func IsTemplateResource(r model.Resource) bool {
	return uritemplate.IsTemplate(r.URI)
}

// PromptToMCP converts model.Prompt into the wire mcp.Prompt.
func PromptToMCP(p model.Prompt) mcp.Prompt {
	args := make([]mcp.PromptArgument, 0, len(p.Arguments))
	for _, a := range p.Arguments {
		args = append(args, mcp.PromptArgument{
			Name:        a.Name,
			Description: a.Description,
			Required:    a.Required,
		})
	}
	return mcp.Prompt{Name: p.Name, Description: p.Description, Arguments: args}
}
