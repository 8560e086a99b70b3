// Package argmap implements the argument transformer: rewriting a
// client-side argument map into a backend-side argument map per a
// declarative ArgumentMapping, and validating that mapping.
package argmap

import "encoding/json"

// ParameterKind tags the closed set of ParameterMapping variants.
type ParameterKind string

// The closed set of parameter mapping kinds.
const (
	KindPassthrough ParameterKind = "passthrough"
	KindRename      ParameterKind = "rename"
	KindDefault     ParameterKind = "default"
	KindConstant    ParameterKind = "constant"
	KindOmit        ParameterKind = "omit"
)

// ParameterMapping is a tagged variant describing how one backend parameter
// is derived from (or hidden from) the client-visible argument map.
type ParameterMapping struct {
	Type ParameterKind `json:"type"`

	// Name is the client-visible parameter name, used by Rename.
	Name string `json:"name,omitempty"`
	// Source is the client-visible parameter name to read, used by Default.
	Source string `json:"source,omitempty"`
	// Default is the constant substituted when Source is absent, used by Default.
	Default any `json:"default,omitempty"`
	// Value is the constant always sent to the backend, used by Constant.
	Value any `json:"value,omitempty"`
	// Description overrides the parameter's client-visible description.
	Description string `json:"description,omitempty"`
}

// ArgumentMapping is the declarative mapping attached to a ToolOverride.
type ArgumentMapping struct {
	Type     string                      `json:"type"` // always "template"
	Mappings map[string]ParameterMapping `json:"mappings"`
}

// Transform rewrites the client argument map into the backend argument map.
// It never errors: if backend-required data ends up missing, the backend
// call itself will fail and that error is propagated unchanged by the
// caller.
func Transform(client map[string]any, mapping *ArgumentMapping) map[string]any {
	backend := make(map[string]any)
	mentioned := make(map[string]bool)
	consumed := make(map[string]bool)

	if mapping != nil {
		for backendParam, pm := range mapping.Mappings {
			mentioned[backendParam] = true
			switch pm.Type {
			case KindPassthrough:
				if v, ok := client[backendParam]; ok {
					backend[backendParam] = v
				}
			case KindRename:
				consumed[pm.Name] = true
				if v, ok := client[pm.Name]; ok {
					backend[backendParam] = v
				}
			case KindDefault:
				consumed[pm.Source] = true
				if v, ok := client[pm.Source]; ok {
					backend[backendParam] = v
				} else {
					backend[backendParam] = pm.Default
				}
			case KindConstant:
				backend[backendParam] = pm.Value
			case KindOmit:
				// never emitted
			}
		}
	}

	// Any other client key is passed through unchanged. A key is not passed
	// through when it is a backend param in mapping.Mappings, or when a
	// Rename's Name or a Default's Source reads it: those values reach the
	// backend only under their backend param name.
	for k, v := range client {
		if !mentioned[k] && !consumed[k] {
			if _, already := backend[k]; !already {
				backend[k] = v
			}
		}
	}

	return backend
}

// ValidationResult reports whether an ArgumentMapping is well-formed.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// Validate checks that:
//   - Type is "template".
//   - every mapping's Type is one of the known tags.
//   - no two mappings target the same backend param (guaranteed by map keys).
//   - rename.Name and default.Source do not collide with any other
//     mapping's client-facing target name.
//   - constant.Value is JSON-serialisable.
func Validate(mapping *ArgumentMapping) ValidationResult {
	if mapping == nil {
		return ValidationResult{Valid: true}
	}

	var errs []string
	if mapping.Type != "template" {
		errs = append(errs, "mapping type must be \"template\"")
	}

	clientNames := make(map[string][]string) // client-facing name -> backend params claiming it
	for backendParam, pm := range mapping.Mappings {
		switch pm.Type {
		case KindPassthrough, KindRename, KindDefault, KindConstant, KindOmit:
			// known tag
		default:
			errs = append(errs, "unknown mapping type for backend param \""+backendParam+"\": "+string(pm.Type))
			continue
		}

		var clientName string
		switch pm.Type {
		case KindRename:
			clientName = pm.Name
		case KindDefault:
			clientName = pm.Source
		case KindPassthrough:
			clientName = backendParam
		default:
			// constant/omit are not client-visible
			continue
		}
		if clientName == "" {
			errs = append(errs, "backend param \""+backendParam+"\" mapping is missing its client-facing name")
			continue
		}
		clientNames[clientName] = append(clientNames[clientName], backendParam)

		if pm.Type == KindConstant {
			continue
		}
	}

	for name, owners := range clientNames {
		if len(owners) > 1 {
			errs = append(errs, "client-visible parameter \""+name+"\" is claimed by multiple backend params")
		}
	}

	for backendParam, pm := range mapping.Mappings {
		if pm.Type == KindConstant {
			if _, err := json.Marshal(pm.Value); err != nil {
				errs = append(errs, "constant value for backend param \""+backendParam+"\" is not JSON-serialisable")
			}
		}
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}
