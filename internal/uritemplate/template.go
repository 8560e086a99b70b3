// Package uritemplate implements the proxy's RFC 6570 Level-1-ish URI
// template matching used to resolve resource reads and detect resource
// conflicts.
package uritemplate

import (
	"regexp"
	"strings"
)

var varPattern = regexp.MustCompile(`\{(\+?)([^{}]*)\}`)

// MatchResult is the outcome of matching a concrete URI against a template.
type MatchResult struct {
	Matches bool
	Vars    map[string]string
}

// IsTemplate reports whether uri contains a `{...}` placeholder.
func IsTemplate(uri string) bool {
	return strings.Contains(uri, "{") && strings.Contains(uri, "}")
}

// Shape returns the template's shape: the string with every `{...}`
// placeholder replaced by a fixed sentinel, used to compare two templates
// structurally regardless of their variable names.
func Shape(template string) string {
	return varPattern.ReplaceAllString(template, "\x00")
}

// Match compares uri against template. Non-template inputs compare by exact
// string equality. A `{name}` segment matches any run of characters that
// does not contain '/'; a `{+name}` (reserved-expansion) segment matches
// across '/' as well.
func Match(uri, template string) MatchResult {
	if !IsTemplate(template) {
		return MatchResult{Matches: uri == template}
	}

	pattern, names, err := compile(template)
	if err != nil {
		// Unbalanced braces should have been rejected at group-load time;
		// defensively treat as no-match rather than panic at request time.
		return MatchResult{Matches: false}
	}

	m := pattern.FindStringSubmatch(uri)
	if m == nil {
		return MatchResult{Matches: false}
	}

	vars := make(map[string]string, len(names))
	for i, name := range names {
		vars[name] = m[i+1]
	}
	return MatchResult{Matches: true, Vars: vars}
}

// compile turns a template into an anchored regexp plus the ordered list of
// variable names it captures.
func compile(template string) (*regexp.Regexp, []string, error) {
	var b strings.Builder
	b.WriteString("^")

	var names []string
	last := 0
	for _, loc := range varPattern.FindAllStringSubmatchIndex(template, -1) {
		start, end := loc[0], loc[1]
		reserved := template[loc[2]:loc[3]] == "+"
		name := template[loc[4]:loc[5]]

		b.WriteString(regexp.QuoteMeta(template[last:start]))
		if reserved {
			b.WriteString("(.*)")
		} else {
			b.WriteString("([^/]*)")
		}
		names = append(names, name)
		last = end
	}
	b.WriteString(regexp.QuoteMeta(template[last:]))
	b.WriteString("$")

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, nil, err
	}
	return re, names, nil
}

// Validate reports whether template has balanced `{`/`}` pairs, rejecting
// malformed templates at group-load time rather than at request time.
func Validate(template string) bool {
	depth := 0
	for _, r := range template {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

// TemplateCoversExact reports whether template matches exactUri, by
// building a regex that escapes literal segments and replaces each
// `{...}` with a wildcard, then testing a full-string match.
func TemplateCoversExact(template, exactUri string) bool {
	var b strings.Builder
	b.WriteString("^")
	last := 0
	for _, loc := range varPattern.FindAllStringIndex(template, -1) {
		b.WriteString(regexp.QuoteMeta(template[last:loc[0]]))
		b.WriteString(".*")
		last = loc[1]
	}
	b.WriteString(regexp.QuoteMeta(template[last:]))
	b.WriteString("$")

	re, err := regexp.Compile(b.String())
	if err != nil {
		return false
	}
	return re.MatchString(exactUri)
}

// sentinelValue is substituted into templates when testing for overlap; it
// must not itself contain any characters that are special to the other
// template's literal segments for the substitution trick to be valid, which
// holds for any ordinary path segment.
const sentinelValue = "example"

// TemplatesOverlap reports whether two templates could both match the same
// concrete URI. Equal strings trivially overlap. Otherwise a sentinel value
// is substituted for every variable in each template and tested for coverage
// against the other: if t1's instantiation is covered by t2's shape (or vice
// versa) the two templates are considered to overlap. This is deliberately
// conservative by design: false positives (flagging templates that can never
// actually collide) are acceptable, false negatives are not.
func TemplatesOverlap(t1, t2 string) bool {
	if t1 == t2 {
		return true
	}

	instance1 := instantiate(t1)
	instance2 := instantiate(t2)

	return TemplateCoversExact(t2, instance1) || TemplateCoversExact(t1, instance2)
}

// instantiate replaces every `{...}` placeholder in template with the fixed
// sentinel value, producing a concrete example URI.
func instantiate(template string) string {
	return varPattern.ReplaceAllString(template, sentinelValue)
}

// Instantiate exposes instantiate for callers (conflict reporting) that need
// a synthesised example URI for a template.
func Instantiate(template string) string {
	return instantiate(template)
}
