package group

import (
	"fmt"

	"github.com/hughescr/mcp-proxy-processor/internal/argmap"
	"github.com/hughescr/mcp-proxy-processor/internal/mcperr"
	"github.com/hughescr/mcp-proxy-processor/internal/model"
	"github.com/hughescr/mcp-proxy-processor/internal/uritemplate"
)

// Validate enforces the load-time invariants for one group: unique
// client-visible tool names, unique (serverName, originalName) tool
// identities, unique prompt names, every referenced backend exists, every
// ArgumentMapping validates, every resource URI template is well-formed,
// and no blocking (exact-duplicate) resource conflict is present. Returns a
// ConfigInvalid error describing every violation found, or nil.
func Validate(groupName string, g model.GroupConfig, knownBackends map[string]bool) error {
	var problems []string

	toolNames := make(map[string][]int)
	toolIdentities := make(map[string][]int)
	for i, t := range g.Tools {
		if !knownBackends[t.ServerName] {
			problems = append(problems, fmt.Sprintf("tools[%d]: unknown serverName %q", i, t.ServerName))
		}
		toolNames[t.ClientName()] = append(toolNames[t.ClientName()], i)

		identity := t.ServerName + ":" + t.OriginalName
		toolIdentities[identity] = append(toolIdentities[identity], i)

		if t.ArgumentMapping != nil {
			if res := argmap.Validate(t.ArgumentMapping); !res.Valid {
				for _, e := range res.Errors {
					problems = append(problems, fmt.Sprintf("tools[%d] (%s): %s", i, t.ClientName(), e))
				}
			}
		}
	}
	for name, idxs := range toolNames {
		if len(idxs) > 1 {
			problems = append(problems, fmt.Sprintf("duplicate client-visible tool name %q at positions %v", name, idxs))
		}
	}
	for identity, idxs := range toolIdentities {
		if len(idxs) > 1 {
			problems = append(problems, fmt.Sprintf("backend tool %q referenced more than once, at positions %v", identity, idxs))
		}
	}

	for i, r := range g.Resources {
		if !knownBackends[r.ServerName] {
			problems = append(problems, fmt.Sprintf("resources[%d]: unknown serverName %q", i, r.ServerName))
		}
		if uritemplate.IsTemplate(r.URI) && !uritemplate.Validate(r.URI) {
			problems = append(problems, fmt.Sprintf("resources[%d]: malformed URI template %q", i, r.URI))
		}
	}

	for i, p := range g.Prompts {
		if !knownBackends[p.ServerName] {
			problems = append(problems, fmt.Sprintf("prompts[%d]: unknown serverName %q", i, p.ServerName))
		}
	}

	if blocking := HasBlockingConflicts(DetectResourceConflicts(g.Resources)); blocking {
		problems = append(problems, "group has a blocking resource conflict (exact-duplicate)")
	}
	for _, c := range DetectPromptConflicts(g.Prompts) {
		problems = append(problems, fmt.Sprintf("duplicate prompt name %q at positions [%d %d]", c.ExampleURI, c.PriorityA, c.PriorityB))
	}

	if len(problems) == 0 {
		return nil
	}

	msg := problems[0]
	for _, p := range problems[1:] {
		msg += "; " + p
	}
	return mcperr.ConfigInvalid(groupName, msg, nil)
}
