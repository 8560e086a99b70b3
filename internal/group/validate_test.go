package group

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hughescr/mcp-proxy-processor/internal/model"
)

func knownBackends(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

func TestValidate_RejectsUnknownBackend(t *testing.T) {
	t.Parallel()

	g := model.GroupConfig{Tools: []model.ToolOverride{{ServerName: "ghost", OriginalName: "x"}}}
	err := Validate("g", g, knownBackends("github"))
	assert.Error(t, err)
}

func TestValidate_RejectsDuplicateClientVisibleToolName(t *testing.T) {
	t.Parallel()

	g := model.GroupConfig{Tools: []model.ToolOverride{
		{ServerName: "github", OriginalName: "a", Name: "dup"},
		{ServerName: "github", OriginalName: "b", Name: "dup"},
	}}
	err := Validate("g", g, knownBackends("github"))
	assert.Error(t, err)
}

func TestValidate_RejectsDuplicateBackendToolIdentityUnderDifferentNames(t *testing.T) {
	t.Parallel()

	g := model.GroupConfig{Tools: []model.ToolOverride{
		{ServerName: "github", OriginalName: "create_issue", Name: "a"},
		{ServerName: "github", OriginalName: "create_issue", Name: "b"},
	}}
	err := Validate("g", g, knownBackends("github"))
	assert.Error(t, err)
}

func TestValidate_RejectsExactDuplicateResources(t *testing.T) {
	t.Parallel()

	g := model.GroupConfig{Resources: []model.ResourceRef{
		{ServerName: "files", URI: "file:///a.txt"},
		{ServerName: "files", URI: "file:///a.txt"},
	}}
	err := Validate("g", g, knownBackends("files"))
	assert.Error(t, err)
}

func TestValidate_AllowsTemplateOverlapAsWarningOnly(t *testing.T) {
	t.Parallel()

	g := model.GroupConfig{Resources: []model.ResourceRef{
		{ServerName: "files", URI: "file:///{path}"},
		{ServerName: "files", URI: "file:///{name}"},
	}}
	err := Validate("g", g, knownBackends("files"))
	assert.NoError(t, err)
}

func TestValidate_AcceptsWellFormedGroup(t *testing.T) {
	t.Parallel()

	g := model.GroupConfig{
		Name:      "default",
		Tools:     []model.ToolOverride{{ServerName: "github", OriginalName: "create_issue"}},
		Resources: []model.ResourceRef{{ServerName: "files", URI: "file:///{path}"}},
		Prompts:   []model.PromptRef{{ServerName: "x", Name: "summarize"}},
	}
	assert.NoError(t, Validate("g", g, knownBackends("github", "files", "x")))
}
