package templates

import (
	"html"
	"regexp"
	"strconv"
	"strings"
)

var (
	imagePattern = regexp.MustCompile(`\[IMAGE:\s*([^\s\]]+)(?:\s+alt="([^"\]]*)")?\s*\]`)
	videoPattern = regexp.MustCompile(`\[VIDEO:\s*([^\s\]]+)\s*\]`)
	audioPattern = regexp.MustCompile(`\[AUDIO:\s*([^\s\]]+)\s*\]`)
	linkPattern  = regexp.MustCompile(`\[LINK:\s*([^\s\]]+)(?:\s+text="([^"\]]*)")?\s*\]`)

	boldPattern   = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicPattern = regexp.MustCompile(`\*([^*]+)\*`)

	// Markup from the bracket pass is parked behind NUL-delimited indexes
	// while the emphasis pass runs.
	slotPattern = regexp.MustCompile("\x00([0-9]+)\x00")
)

// RenderPreviewHTML renders template against ctx and turns the lightweight
// authoring markup into inline HTML for previews. Bracketed media and link
// tokens are rewritten first, then **bold**, then *italic*, then line
// breaks. The emphasis pass never sees the generated media markup, so URLs
// containing asterisks come through intact. Tokens that don't parse, such
// as an [IMAGE: without its closing bracket, are left as written.
func RenderPreviewHTML(template string, ctx RenderContext) string {
	text := strings.ReplaceAll(Render(template, ctx), "\x00", "")

	var slots []string
	park := func(markup string) string {
		slots = append(slots, markup)
		return "\x00" + strconv.Itoa(len(slots)-1) + "\x00"
	}

	text = rewrite(text, imagePattern, func(m []string) string {
		return park(`<img src="` + attr(m[1]) + `" alt="` + attr(m[2]) + `" class="preview-image" />`)
	})
	text = rewrite(text, videoPattern, func(m []string) string {
		return park(mediaBlock("video", "Video", m[1]))
	})
	text = rewrite(text, audioPattern, func(m []string) string {
		return park(mediaBlock("audio", "Audio", m[1]))
	})
	text = rewrite(text, linkPattern, func(m []string) string {
		label := m[2]
		if label == "" {
			label = m[1]
		}
		return park(`<a href="` + attr(m[1]) + `" target="_blank" rel="noopener noreferrer">` + html.EscapeString(label) + `</a>`)
	})

	text = boldPattern.ReplaceAllString(text, "<strong>$1</strong>")
	text = italicPattern.ReplaceAllString(text, "<em>$1</em>")

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\n", "<br>")

	return slotPattern.ReplaceAllStringFunc(text, func(s string) string {
		i, err := strconv.Atoi(s[1 : len(s)-1])
		if err != nil || i >= len(slots) {
			return ""
		}
		return slots[i]
	})
}

func rewrite(text string, re *regexp.Regexp, fn func(m []string) string) string {
	return re.ReplaceAllStringFunc(text, func(s string) string {
		return fn(re.FindStringSubmatch(s))
	})
}

func mediaBlock(kind, label, url string) string {
	return `<div class="preview-media preview-` + kind + `"><a href="` + attr(url) +
		`" target="_blank" rel="noopener noreferrer">` + label + `: ` + html.EscapeString(url) + `</a></div>`
}

func attr(s string) string {
	return html.EscapeString(s)
}
