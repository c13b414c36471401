// Package scrape turns the board's semi-structured markup into board
// records: listing rows into posts, detail pages into body text and
// comments, and the navigation menu into category entries.
//
// Every entry point tolerates broken or unfamiliar markup: each extraction
// stage is an ordered list of strategies tried until one yields results,
// and total failure produces empty output, never an error.
package scrape

import (
	"bytes"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// findAll collects nodes in document order matching pred.
func findAll(root *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var f func(*html.Node)
	f = func(n *html.Node) {
		if pred(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(root)
	return out
}

// findFirst returns the first node in document order matching pred.
func findFirst(root *html.Node, pred func(*html.Node) bool) *html.Node {
	var found *html.Node
	var f func(*html.Node) bool
	f = func(n *html.Node) bool {
		if pred(n) {
			found = n
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if f(c) {
				return true
			}
		}
		return false
	}
	f(root)
	return found
}

func isElem(n *html.Node, a atom.Atom) bool {
	return n.Type == html.ElementNode && n.DataAtom == a
}

func attrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attrVal(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// nodeText extracts all visible text from a subtree, single-space joined.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(t)
			}
		}
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript:
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)
	return sb.String()
}

// renderNode serialises a subtree back to HTML.
func renderNode(n *html.Node) string {
	var buf bytes.Buffer
	html.Render(&buf, n)
	return buf.String()
}

// prevSiblingElem returns the nearest preceding sibling element of tag a.
func prevSiblingElem(n *html.Node, a atom.Atom) *html.Node {
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		if isElem(s, a) {
			return s
		}
	}
	return nil
}

// ancestor returns the nearest ancestor element of tag a.
func ancestor(n *html.Node, a atom.Atom) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if isElem(p, a) {
			return p
		}
	}
	return nil
}

// resolveURL makes href absolute against base. Empty on failure.
func resolveURL(base, href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	h, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return b.ResolveReference(h).String()
}

// containsHangul reports whether s has at least one Hangul syllable.
func containsHangul(s string) bool {
	for _, r := range s {
		if r >= 0xAC00 && r <= 0xD7A3 {
			return true
		}
	}
	return false
}

// looksLikeName matches the short author cells of the listing table:
// 2–4 runes with at least one Hangul syllable.
func looksLikeName(s string) bool {
	n := len([]rune(s))
	return n >= 2 && n <= 4 && containsHangul(s)
}
