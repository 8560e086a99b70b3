// Package schema implements the Schema Generator: deriving the client-visible
// JSON Schema of a tool from the backend's schema plus an ArgumentMapping.
package schema

import (
	"github.com/hughescr/mcp-proxy-processor/internal/argmap"
	"github.com/hughescr/mcp-proxy-processor/internal/logging"
)

// Generate produces the client schema shown to the agent, given the
// backend's JSON Schema object (with "type": "object", "properties",
// "required") and the tool's ArgumentMapping.
func Generate(backendSchema map[string]any, mapping *argmap.ArgumentMapping) map[string]any {
	client := make(map[string]any, len(backendSchema))
	for k, v := range backendSchema {
		if k == "properties" || k == "required" {
			continue
		}
		client[k] = v
	}

	backendProps, _ := backendSchema["properties"].(map[string]any)
	backendRequired := toStringSet(backendSchema["required"])

	clientProps := make(map[string]any)
	var clientRequired []string
	mentioned := make(map[string]bool)

	if mapping != nil {
		for backendParam, pm := range mapping.Mappings {
			mentioned[backendParam] = true

			prop, ok := backendProps[backendParam]
			if !ok {
				// Mapping entries referencing a non-existent backend
				// property are a soft error: log and skip.
				logging.Warnf("schema: mapping references unknown backend property %q, skipping", backendParam)
				continue
			}

			switch pm.Type {
			case argmap.KindConstant, argmap.KindOmit:
				// dropped from client schema entirely
				continue
			case argmap.KindPassthrough, argmap.KindRename, argmap.KindDefault:
				clientName := backendParam
				switch pm.Type {
				case argmap.KindRename:
					clientName = pm.Name
				case argmap.KindDefault:
					clientName = pm.Source
				}

				cloned := cloneProperty(prop)
				if pm.Description != "" {
					cloned["description"] = pm.Description
				}
				clientProps[clientName] = cloned

				switch pm.Type {
				case argmap.KindDefault:
					// always optional
				default: // passthrough, rename
					if backendRequired[backendParam] {
						clientRequired = append(clientRequired, clientName)
					}
				}
			}
		}
	}

	// Backend properties not mentioned in mappings are copied through
	// unchanged, preserving their required status.
	for name, prop := range backendProps {
		if mentioned[name] {
			continue
		}
		clientProps[name] = cloneProperty(prop)
		if backendRequired[name] {
			clientRequired = append(clientRequired, name)
		}
	}

	client["properties"] = clientProps
	if len(clientRequired) > 0 {
		client["required"] = clientRequired
	}
	return client
}

func cloneProperty(v any) map[string]any {
	m, ok := v.(map[string]any)
	if !ok {
		return map[string]any{}
	}
	cloned := make(map[string]any, len(m))
	for k, val := range m {
		cloned[k] = val
	}
	return cloned
}

func toStringSet(v any) map[string]bool {
	set := make(map[string]bool)
	switch vals := v.(type) {
	case []any:
		for _, item := range vals {
			if s, ok := item.(string); ok {
				set[s] = true
			}
		}
	case []string:
		for _, s := range vals {
			set[s] = true
		}
	}
	return set
}
