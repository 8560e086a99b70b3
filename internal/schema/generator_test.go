package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hughescr/mcp-proxy-processor/internal/argmap"
)

func backendTimeSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"timezone": map[string]any{"type": "string", "description": "IANA timezone"},
		},
		"required": []any{"timezone"},
	}
}

func TestGenerate_DefaultBecomesOptional(t *testing.T) {
	t.Parallel()

	mapping := &argmap.ArgumentMapping{
		Type: "template",
		Mappings: map[string]argmap.ParameterMapping{
			"timezone": {Type: argmap.KindDefault, Source: "timezone", Default: "America/Los_Angeles"},
		},
	}

	client := Generate(backendTimeSchema(), mapping)

	props := client["properties"].(map[string]any)
	assert.Contains(t, props, "timezone")
	assert.NotContains(t, client, "required")
}

func TestGenerate_ConstantAndOmitAreHidden(t *testing.T) {
	t.Parallel()

	backend := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"api_key": map[string]any{"type": "string"},
			"debug":   map[string]any{"type": "boolean"},
			"query":   map[string]any{"type": "string"},
		},
		"required": []any{"api_key", "query"},
	}
	mapping := &argmap.ArgumentMapping{
		Type: "template",
		Mappings: map[string]argmap.ParameterMapping{
			"api_key": {Type: argmap.KindConstant, Value: "SECRET"},
			"debug":   {Type: argmap.KindOmit},
		},
	}

	client := Generate(backend, mapping)
	props := client["properties"].(map[string]any)

	assert.NotContains(t, props, "api_key")
	assert.NotContains(t, props, "debug")
	assert.Contains(t, props, "query")
	assert.ElementsMatch(t, []string{"query"}, client["required"])
}

func TestGenerate_RenameUsesClientName(t *testing.T) {
	t.Parallel()

	backend := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"q": map[string]any{"type": "string"},
		},
		"required": []any{"q"},
	}
	mapping := &argmap.ArgumentMapping{
		Type: "template",
		Mappings: map[string]argmap.ParameterMapping{
			"q": {Type: argmap.KindRename, Name: "query", Description: "Search text"},
		},
	}

	client := Generate(backend, mapping)
	props := client["properties"].(map[string]any)

	assert.NotContains(t, props, "q")
	queryProp := props["query"].(map[string]any)
	assert.Equal(t, "Search text", queryProp["description"])
	assert.ElementsMatch(t, []string{"query"}, client["required"])
}

func TestGenerate_UnmentionedPropertiesPassThroughWithRequiredStatus(t *testing.T) {
	t.Parallel()

	backend := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"q":     map[string]any{"type": "string"},
			"limit": map[string]any{"type": "integer"},
		},
		"required": []any{"q"},
	}
	mapping := &argmap.ArgumentMapping{
		Type: "template",
		Mappings: map[string]argmap.ParameterMapping{
			"q": {Type: argmap.KindPassthrough},
		},
	}

	client := Generate(backend, mapping)
	props := client["properties"].(map[string]any)

	assert.Contains(t, props, "limit")
	assert.ElementsMatch(t, []string{"q"}, client["required"])
}

func TestGenerate_UnknownBackendPropertyIsSkipped(t *testing.T) {
	t.Parallel()

	backend := backendTimeSchema()
	mapping := &argmap.ArgumentMapping{
		Type: "template",
		Mappings: map[string]argmap.ParameterMapping{
			"does_not_exist": {Type: argmap.KindRename, Name: "whatever"},
		},
	}

	client := Generate(backend, mapping)
	props := client["properties"].(map[string]any)

	assert.NotContains(t, props, "whatever")
	assert.Contains(t, props, "timezone")
}

// TestGenerate_IdentityMappingRoundTrips checks that an all-passthrough
// mapping leaves the backend's schema unchanged.
func TestGenerate_IdentityMappingRoundTrips(t *testing.T) {
	t.Parallel()

	backend := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"q":     map[string]any{"type": "string"},
			"limit": map[string]any{"type": "integer"},
		},
		"required": []any{"q"},
	}
	mapping := &argmap.ArgumentMapping{
		Type: "template",
		Mappings: map[string]argmap.ParameterMapping{
			"q":     {Type: argmap.KindPassthrough},
			"limit": {Type: argmap.KindPassthrough},
		},
	}

	client := Generate(backend, mapping)

	assert.Equal(t, backend["properties"], client["properties"])
	assert.ElementsMatch(t, backend["required"], client["required"])
}

// TestGenerate_TopLevelFieldsPreserved checks that schema keywords Generate
// doesn't understand pass through untouched.
func TestGenerate_TopLevelFieldsPreserved(t *testing.T) {
	t.Parallel()

	backend := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"q": map[string]any{"type": "string"},
		},
		"required": []any{"q"},
	}
	mapping := &argmap.ArgumentMapping{
		Type:     "template",
		Mappings: map[string]argmap.ParameterMapping{"q": {Type: argmap.KindPassthrough}},
	}

	client := Generate(backend, mapping)

	assert.Equal(t, "object", client["type"])
	assert.Equal(t, false, client["additionalProperties"])
}
