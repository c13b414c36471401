package scrape

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/jayz-blip/askboard/board"
)

// navContainerID is the left-navigation container of the board's main page.
const navContainerID = "gs-left"

// Categories extracts the category/client entries from the board's main
// page: every listing-view link inside the left navigation, falling back to
// a whole-page scan when the navigation container is missing.
//
// The returned slice preserves discovery order and de-duplicates by name,
// first occurrence winning. Unusable markup yields an empty slice.
func Categories(markup []byte, baseURL string) []*board.Category {
	doc, err := html.Parse(strings.NewReader(string(markup)))
	if err != nil {
		return nil
	}

	scope := findFirst(doc, func(n *html.Node) bool {
		return isElem(n, atom.Div) && attrVal(n, "id") == navContainerID
	})
	if scope == nil {
		scope = doc
	}

	links := findAll(scope, func(n *html.Node) bool {
		return isElem(n, atom.A) && strings.Contains(attrVal(n, "href"), listingViewMarker)
	})

	var cats []*board.Category
	seen := make(map[string]bool, len(links))
	for _, link := range links {
		name := strings.TrimSpace(nodeText(link))
		if name == "" || seen[name] {
			continue
		}
		u := resolveURL(baseURL, attrVal(link, "href"))
		if u == "" {
			continue
		}
		seen[name] = true
		cats = append(cats, &board.Category{Name: name, URL: u})
	}
	return cats
}
