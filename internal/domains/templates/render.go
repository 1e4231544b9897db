package templates

import (
	"regexp"
	"strings"
)

// RenderContext maps placeholder identifiers to the text that replaces them.
// A flattened contact record is the usual source.
type RenderContext map[string]string

// placeholderPattern matches {{identifier}} where identifier is one or more
// non-brace characters, taken verbatim.
var placeholderPattern = regexp.MustCompile(`\{\{([^{}]+)\}\}`)

// Render substitutes every {{identifier}} in template with its value from
// ctx. Lookups are case sensitive and do not trim the identifier; unknown
// identifiers become the empty string. Substituted text is never scanned
// again, so values that look like placeholders are emitted literally.
func Render(template string, ctx RenderContext) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(m string) string {
		return ctx[m[2:len(m)-2]]
	})
}

// UnresolvedPlaceholder is one placeholder occurrence with no value in the
// render context. Offset is the byte offset of "{{" in the template.
type UnresolvedPlaceholder struct {
	Name   string `json:"name"`
	Offset int    `json:"offset"`
}

// Result is the output of RenderStrict.
type Result struct {
	Value    string                  `json:"value"`
	Warnings []UnresolvedPlaceholder `json:"warnings,omitempty"`
}

// RenderStrict renders exactly like Render and additionally reports every
// placeholder occurrence that had no entry in ctx. A key that is present
// with an empty value counts as resolved.
func RenderStrict(template string, ctx RenderContext) Result {
	var (
		b        strings.Builder
		warnings []UnresolvedPlaceholder
		last     int
	)
	b.Grow(len(template))

	for _, loc := range placeholderPattern.FindAllStringSubmatchIndex(template, -1) {
		name := template[loc[2]:loc[3]]
		b.WriteString(template[last:loc[0]])

		value, ok := ctx[name]
		if !ok {
			warnings = append(warnings, UnresolvedPlaceholder{Name: name, Offset: loc[0]})
		}
		b.WriteString(value)
		last = loc[1]
	}
	b.WriteString(template[last:])

	return Result{Value: b.String(), Warnings: warnings}
}

// Placeholders lists the distinct identifiers used in template, in order of
// first appearance.
func Placeholders(template string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(template, -1)
	seen := make(map[string]bool, len(matches))
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		names = append(names, m[1])
	}
	return names
}
