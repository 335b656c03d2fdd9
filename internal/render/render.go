package render

import (
	"regexp"
	"strings"
	"unicode/utf8"

	markdown "github.com/JohannesKaufmann/html-to-markdown"
)

var wsRegexp = regexp.MustCompile(`\s+`)

type Renderer struct {
	converter *markdown.Converter
}

func NewRenderer() *Renderer {
	c := markdown.NewConverter("", true, nil)
	return &Renderer{converter: c}
}

// Markdown renders post content (HTML or plain text) as sanitized Markdown.
func (r *Renderer) Markdown(content string) string {
	content = Sanitize(content)
	if content == "" {
		return ""
	}
	out, err := r.converter.ConvertString(content)
	if err != nil {
		return Compact(content, 4000)
	}
	return strings.TrimSpace(out)
}

// Summary is a single-line preview of the rendered content.
func (r *Renderer) Summary(content string, max int) string {
	return Compact(r.Markdown(content), max)
}

// Compact collapses whitespace and cuts v to at most max runes.
func Compact(v string, max int) string {
	v = strings.TrimSpace(wsRegexp.ReplaceAllString(v, " "))
	if max <= 0 || utf8.RuneCountInString(v) <= max {
		return v
	}
	runes := []rune(v)
	return string(runes[:max-1]) + "..."
}
