package mcpio

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hughescr/mcp-proxy-processor/internal/model"
)

func TestToolToMCP(t *testing.T) {
	tool := model.Tool{
		Name:        "search",
		Description: "search the index",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{"query": map[string]any{"type": "string"}},
			"required":   []any{"query"},
		},
	}

	got := ToolToMCP(tool)
	assert.Equal(t, "search", got.Name)
	assert.Equal(t, "search the index", got.Description)
	assert.Equal(t, "object", got.InputSchema.Type)
	assert.Contains(t, got.InputSchema.Properties, "query")
	assert.Equal(t, []string{"query"}, got.InputSchema.Required)
}

func TestResourceToMCP(t *testing.T) {
	r := model.Resource{URI: "file:///etc/hosts", Name: "hosts", Description: "hosts file", MimeType: "text/plain"}
	got := ResourceToMCP(r)
	assert.Equal(t, "file:///etc/hosts", got.URI)
	assert.Equal(t, "hosts", got.Name)
	assert.Equal(t, "text/plain", got.MIMEType)
}

func TestIsTemplateResource(t *testing.T) {
	assert.True(t, IsTemplateResource(model.Resource{URI: "file:///{path}"}))
	assert.False(t, IsTemplateResource(model.Resource{URI: "file:///etc/hosts"}))
}

func TestResourceToMCPTemplate(t *testing.T) {
	r := model.Resource{URI: "file:///{path}", Name: "fs", Description: "filesystem", MimeType: "text/plain"}
	got := ResourceToMCPTemplate(r)
	assert.Equal(t, "fs", got.Name)
	assert.Equal(t, "filesystem", got.Description)
	assert.Equal(t, "text/plain", got.MIMEType)
}

func TestPromptToMCP(t *testing.T) {
	p := model.Prompt{
		Name:        "summarize",
		Description: "summarize text",
		Arguments: []model.PromptArgument{
			{Name: "text", Description: "the text", Required: true},
		},
	}
	got := PromptToMCP(p)
	assert.Equal(t, "summarize", got.Name)
	assert.Len(t, got.Arguments, 1)
	assert.Equal(t, "text", got.Arguments[0].Name)
	assert.True(t, got.Arguments[0].Required)
}
