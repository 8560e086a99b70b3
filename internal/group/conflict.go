package group

import (
	"github.com/hughescr/mcp-proxy-processor/internal/model"
	"github.com/hughescr/mcp-proxy-processor/internal/uritemplate"
)

// ConflictKind identifies one of the four resource conflict shapes, or the
// prompt-duplicate conflict shape.
type ConflictKind string

const (
	ConflictExactDuplicate         ConflictKind = "exact-duplicate"
	ConflictTemplateCoversExact    ConflictKind = "template-covers-exact"
	ConflictExactCoveredByTemplate ConflictKind = "exact-covered-by-template"
	ConflictTemplateOverlap        ConflictKind = "template-overlap"
	ConflictPromptDuplicate        ConflictKind = "prompt-duplicate"
)

// Conflict is a diagnostic produced once at group-load time and cached.
// PriorityA < PriorityB always; ExampleURI carries the shared or covered
// URI, or (for a prompt duplicate) the prompt name.
type Conflict struct {
	Kind       ConflictKind
	PriorityA  int
	PriorityB  int
	ExampleURI string
}

// DetectResourceConflicts runs an O(n^2) pairwise comparison over a group's
// priority-ordered resource refs.
func DetectResourceConflicts(refs []model.ResourceRef) []Conflict {
	var conflicts []Conflict
	for i := 0; i < len(refs); i++ {
		for j := i + 1; j < len(refs); j++ {
			if c, ok := compareResourcePair(i, j, refs[i].URI, refs[j].URI); ok {
				conflicts = append(conflicts, c)
			}
		}
	}
	return conflicts
}

func compareResourcePair(i, j int, uriI, uriJ string) (Conflict, bool) {
	tplI, tplJ := uritemplate.IsTemplate(uriI), uritemplate.IsTemplate(uriJ)

	switch {
	case !tplI && !tplJ:
		if uriI == uriJ {
			return Conflict{Kind: ConflictExactDuplicate, PriorityA: i, PriorityB: j, ExampleURI: uriI}, true
		}
	case tplI && !tplJ:
		if uritemplate.TemplateCoversExact(uriI, uriJ) {
			return Conflict{Kind: ConflictTemplateCoversExact, PriorityA: i, PriorityB: j, ExampleURI: uriJ}, true
		}
	case !tplI && tplJ:
		if uritemplate.TemplateCoversExact(uriJ, uriI) {
			return Conflict{Kind: ConflictExactCoveredByTemplate, PriorityA: i, PriorityB: j, ExampleURI: uriI}, true
		}
	default: // both templates
		if uritemplate.TemplatesOverlap(uriI, uriJ) {
			return Conflict{Kind: ConflictTemplateOverlap, PriorityA: i, PriorityB: j, ExampleURI: uritemplate.Instantiate(uriI)}, true
		}
	}
	return Conflict{}, false
}

// DetectPromptConflicts finds duplicate prompt names across a group's
// priority-ordered prompt refs.
func DetectPromptConflicts(prompts []model.PromptRef) []Conflict {
	var conflicts []Conflict
	for i := 0; i < len(prompts); i++ {
		for j := i + 1; j < len(prompts); j++ {
			if prompts[i].Name == prompts[j].Name {
				conflicts = append(conflicts, Conflict{
					Kind: ConflictPromptDuplicate, PriorityA: i, PriorityB: j, ExampleURI: prompts[i].Name,
				})
			}
		}
	}
	return conflicts
}

// HasBlockingConflicts reports whether conflicts contains an
// exact-duplicate. The template kinds (template-covers-exact,
// exact-covered-by-template, template-overlap) are warnings, not
// load-rejecting errors: priority order decides which ref answers.
func HasBlockingConflicts(conflicts []Conflict) bool {
	for _, c := range conflicts {
		if c.Kind == ConflictExactDuplicate {
			return true
		}
	}
	return false
}
