package render

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Dropped together with everything inside them.
var droppedTags = map[string]struct{}{
	"base":     {},
	"embed":    {},
	"form":     {},
	"iframe":   {},
	"link":     {},
	"meta":     {},
	"noscript": {},
	"object":   {},
	"script":   {},
	"style":    {},
	"textarea": {},
}

// Kept as elements, with only the listed attributes. Any other element is
// unwrapped: its children stay, the tag goes.
var allowedTags = map[string][]string{
	"a":          {"href", "title"},
	"b":          nil,
	"blockquote": nil,
	"br":         nil,
	"code":       nil,
	"em":         nil,
	"h1":         nil,
	"h2":         nil,
	"h3":         nil,
	"h4":         nil,
	"hr":         nil,
	"i":          nil,
	"img":        {"src", "alt", "title"},
	"li":         nil,
	"ol":         nil,
	"p":          nil,
	"pre":        nil,
	"strong":     nil,
	"ul":         nil,
}

// Sanitize strips scripts, embeds, event handlers, and unsafe URLs from post
// content before it is rendered.
func Sanitize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	nodes, err := html.ParseFragment(strings.NewReader(raw), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return html.EscapeString(raw)
	}

	var b strings.Builder
	for _, n := range nodes {
		for _, clean := range sanitizeNode(n) {
			_ = html.Render(&b, clean)
		}
	}
	return strings.TrimSpace(b.String())
}

func sanitizeNode(n *html.Node) []*html.Node {
	switch n.Type {
	case html.TextNode:
		return []*html.Node{{Type: html.TextNode, Data: n.Data}}
	case html.ElementNode:
	default:
		return nil
	}

	tag := strings.ToLower(n.Data)
	if _, drop := droppedTags[tag]; drop {
		return nil
	}

	var children []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		children = append(children, sanitizeNode(c)...)
	}

	attrs, allowed := allowedTags[tag]
	if !allowed {
		return children
	}

	clone := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: n.DataAtom}
	for _, a := range n.Attr {
		key := strings.ToLower(a.Key)
		if !contains(attrs, key) {
			continue
		}
		if (key == "href" || key == "src") && !isSafeURL(a.Val, tag) {
			continue
		}
		clone.Attr = append(clone.Attr, html.Attribute{Key: key, Val: a.Val})
	}
	for _, c := range children {
		clone.AppendChild(c)
	}
	return []*html.Node{clone}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func isSafeURL(v, tag string) bool {
	u := strings.ToLower(strings.TrimSpace(v))
	switch {
	case u == "":
		return true
	case strings.HasPrefix(u, "javascript:"), strings.HasPrefix(u, "vbscript:"):
		return false
	case strings.HasPrefix(u, "data:"):
		return tag == "img" && strings.HasPrefix(u, "data:image/")
	default:
		return true
	}
}
