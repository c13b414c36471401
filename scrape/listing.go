package scrape

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/jayz-blip/askboard/board"
)

// Markers that identify board structure across the known page layouts.
const (
	detailViewMarker  = "post_view" // href path fragment of a detail page link
	listingViewMarker = "post_list" // href path fragment of a listing link
	titleLinkClass    = "nr10"      // class of the title anchor in the default theme
	rowSelectorName   = "idx"       // name of the per-row selection checkbox
	timeSpanClass     = "time01"    // class of the time element next to a date cell
)

var (
	commentCountRe = regexp.MustCompile(`\+(\d+)개의 추가 글`)
	dateCellRe     = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`)
)

// DateFilter decides whether a post's date text keeps it in the result.
// nil keeps everything.
type DateFilter func(dateText string) bool

// Listing extracts posts from a listing page.
//
// The strategies are tried in order; each runs only when the previous one
// produced zero posts. The date filter is applied per post before counting
// toward limit, and listing order is preserved — the extractor never sorts.
// limit <= 0 means unbounded. Unrecognisable markup yields an empty slice.
func Listing(markup []byte, baseURL string, limit int, filter DateFilter) []*board.Post {
	doc, err := html.Parse(strings.NewReader(string(markup)))
	if err != nil {
		return nil
	}
	for _, strategy := range listingStrategies {
		if posts := strategy(doc, baseURL, limit, filter); len(posts) > 0 {
			return posts
		}
	}
	return nil
}

// listingStrategies is the ordered fallback chain: checkbox-marked table
// rows first, then a whole-page scan for detail links.
var listingStrategies = []func(doc *html.Node, baseURL string, limit int, filter DateFilter) []*board.Post{
	extractCheckboxRows,
	extractDetailLinks,
}

// extractCheckboxRows walks table rows that carry the row-selection
// checkbox — the marker that a <tr> is a content row and not a header,
// separator, or pager row.
func extractCheckboxRows(doc *html.Node, baseURL string, limit int, filter DateFilter) []*board.Post {
	var posts []*board.Post

	for _, row := range findAll(doc, isContentRow) {
		link := titleLink(row)
		if link == nil {
			continue
		}

		title, count := splitCommentCount(nodeText(link))
		if title == "" {
			continue
		}

		p := &board.Post{
			Title:        title,
			CommentCount: count,
			URL:          resolveURL(baseURL, attrVal(link, "href")),
		}

		cells := findAll(row, func(n *html.Node) bool { return isElem(n, atom.Td) })
		if len(cells) > 4 {
			p.Author, p.Date = rowAuthorDate(cells)
		}

		// Listing-time content: leftover text near the title. A detail
		// fetch (done by the caller, and only for the first few rows)
		// replaces this with the real body.
		p.Content = backfillContent(link, cells, title)

		if filter != nil && p.Date != "" && !filter(p.Date) {
			continue
		}
		posts = append(posts, p)
		if limit > 0 && len(posts) >= limit {
			break
		}
	}
	return posts
}

// extractDetailLinks ignores row structure entirely and scans the whole
// page for detail-view links. Last resort for unfamiliar themes.
func extractDetailLinks(doc *html.Node, baseURL string, limit int, filter DateFilter) []*board.Post {
	var posts []*board.Post

	for _, link := range findAll(doc, isDetailLink) {
		title, count := splitCommentCount(nodeText(link))
		if title == "" {
			continue
		}

		p := &board.Post{
			Title:        title,
			Content:      board.Truncate(title, 500),
			CommentCount: count,
			URL:          resolveURL(baseURL, attrVal(link, "href")),
		}

		if row := ancestor(link, atom.Tr); row != nil {
			for _, td := range findAll(row, func(n *html.Node) bool { return isElem(n, atom.Td) }) {
				text := nodeText(td)
				if len(text) == 10 && strings.Count(text, "-") == 2 {
					p.Date = text
				} else if looksLikeName(text) && p.Author == "" {
					p.Author = text
				}
			}
		}

		if filter != nil && p.Date != "" && !filter(p.Date) {
			continue
		}
		posts = append(posts, p)
		if limit > 0 && len(posts) >= limit {
			break
		}
	}
	return posts
}

func isContentRow(n *html.Node) bool {
	if !isElem(n, atom.Tr) {
		return false
	}
	return findFirst(n, func(c *html.Node) bool {
		return isElem(c, atom.Input) &&
			attrVal(c, "type") == "checkbox" &&
			attrVal(c, "name") == rowSelectorName
	}) != nil
}

func isDetailLink(n *html.Node) bool {
	return isElem(n, atom.A) && strings.Contains(attrVal(n, "href"), detailViewMarker)
}

// titleLink finds the title anchor of a row: the known title class first,
// then any detail-view link.
func titleLink(row *html.Node) *html.Node {
	if link := findFirst(row, func(n *html.Node) bool {
		return isElem(n, atom.A) && hasClass(n, titleLinkClass)
	}); link != nil {
		return link
	}
	return findFirst(row, isDetailLink)
}

// splitCommentCount strips the trailing "+N개의 추가 글" annotation from a
// title and returns the parsed count.
func splitCommentCount(title string) (string, int) {
	title = strings.TrimSpace(title)
	if !strings.Contains(title, "+") || !strings.Contains(title, "개의 추가 글") {
		return title, 0
	}
	count := 0
	if m := commentCountRe.FindStringSubmatch(title); m != nil {
		count, _ = strconv.Atoi(m[1])
	}
	if i := strings.Index(title, "+"); i >= 0 {
		title = strings.TrimSpace(title[:i])
	}
	return title, count
}

// rowAuthorDate scans row cells for a date cell (4-digit-year pattern,
// augmented with an adjacent time element) and a short Hangul name cell.
// First match wins for each.
func rowAuthorDate(cells []*html.Node) (author, date string) {
	for _, td := range cells {
		text := nodeText(td)
		if m := dateCellRe.FindStringSubmatch(text); m != nil {
			date = m[1]
			if span := findFirst(td, func(n *html.Node) bool {
				return isElem(n, atom.Span) && hasClass(n, timeSpanClass)
			}); span != nil {
				date = date + " " + nodeText(span)
			}
		} else if looksLikeName(text) && author == "" {
			author = text
		}
	}
	return author, date
}

// backfillContent derives a content string without a detail fetch: leftover
// text in the title's cell beyond the title itself, else the longest
// sibling cell that is neither a date nor a name-like token.
func backfillContent(link *html.Node, cells []*html.Node, title string) string {
	titleCell := ancestor(link, atom.Td)

	if titleCell != nil {
		all := nodeText(titleCell)
		if len(all) > len(title)+10 {
			rest := strings.TrimSpace(strings.Replace(all, title, "", 1))
			rest = strings.TrimSpace(commentCountRe.ReplaceAllString(rest, ""))
			if rest != "" {
				return title + " - " + board.Truncate(rest, 500)
			}
		}
	}

	if len(cells) > 3 {
		for _, td := range cells {
			if td == titleCell {
				continue
			}
			text := nodeText(td)
			if len(text) <= 20 || dateCellRe.MatchString(text) {
				continue
			}
			if r := []rune(text); len(r) >= 3 && containsHangul(string(r[:3])) {
				// Likely an author-style cell, not content.
				continue
			}
			return title + " - " + board.Truncate(text, 300)
		}
	}
	return title
}
