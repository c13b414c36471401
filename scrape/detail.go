package scrape

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/jayz-blip/askboard/board"
)

const (
	bodyClass     = "conts"         // class of post and comment body containers
	markdownClass = "markdown-body" // secondary marker of the post body
	dateClass     = "cont_date"     // class of the comment-metadata date cell

	// minCommentLen drops comment containers that hold only markup noise.
	minCommentLen = 5
)

var (
	postIDRe      = regexp.MustCompile(`^post\d+`)
	commentIDRe   = regexp.MustCompile(`^comment\d+`)
	commentDateRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}\s+\d{2}:\d{2}:\d{2}`)
)

// mdConverter renders the post body container as readable markdown instead
// of flattened text, so lists and tables survive into the context string.
var mdConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
	),
)

// Detail extracts the full body text and the comments from a post's detail
// page. Returns ("", nil) when the page has neither — callers treat that as
// "keep the listing-time content", not as an error.
func Detail(markup []byte) (string, []*board.Comment) {
	doc, err := html.Parse(strings.NewReader(string(markup)))
	if err != nil {
		return "", nil
	}
	return detailBody(doc), detailComments(doc)
}

// detailBody locates the post content container: id "post<digits>" combined
// with the body class, falling back to the body+markdown class pair alone.
func detailBody(doc *html.Node) string {
	node := findFirst(doc, func(n *html.Node) bool {
		return isElem(n, atom.Div) && postIDRe.MatchString(attrVal(n, "id")) && hasClass(n, bodyClass)
	})
	if node == nil {
		node = findFirst(doc, func(n *html.Node) bool {
			return isElem(n, atom.Div) && hasClass(n, bodyClass) && hasClass(n, markdownClass)
		})
	}
	if node == nil {
		return ""
	}

	if md, err := mdConverter.ConvertString(renderNode(node)); err == nil {
		if md = strings.TrimSpace(md); md != "" {
			return md
		}
	}
	return nodeText(node)
}

// detailComments extracts comments. The author and date of a comment do not
// live in its container: the source template puts them in a small metadata
// table inside the PRECEDING sibling div. That indirection is load-bearing —
// reading metadata from the comment container itself finds nothing.
func detailComments(doc *html.Node) []*board.Comment {
	var comments []*board.Comment

	containers := findAll(doc, func(n *html.Node) bool {
		return isElem(n, atom.Div) && commentIDRe.MatchString(attrVal(n, "id")) && hasClass(n, bodyClass)
	})

	for _, div := range containers {
		text := nodeText(div)
		if utf8.RuneCountInString(text) < minCommentLen {
			continue
		}

		c := &board.Comment{Text: board.Truncate(text, board.MaxCommentLen)}
		if meta := prevSiblingElem(div, atom.Div); meta != nil {
			c.Author, c.Date = commentMeta(meta)
		}
		comments = append(comments, c)
	}
	return comments
}

// commentMeta reads author and date from a comment-header div: first table
// cell holds the author in a <strong> (padded with decorative NBSPs),
// second cell holds a date element with a strict timestamp inside.
func commentMeta(header *html.Node) (author, date string) {
	table := findFirst(header, func(n *html.Node) bool { return isElem(n, atom.Table) })
	if table == nil {
		return "", ""
	}
	cells := findAll(table, func(n *html.Node) bool { return isElem(n, atom.Td) })

	if len(cells) > 0 {
		if strong := findFirst(cells[0], func(n *html.Node) bool { return isElem(n, atom.Strong) }); strong != nil {
			author = strings.TrimSpace(strings.ReplaceAll(nodeText(strong), " ", ""))
		}
	}
	if len(cells) > 1 {
		if dd := findFirst(cells[1], func(n *html.Node) bool {
			return isElem(n, atom.Div) && hasClass(n, dateClass)
		}); dd != nil {
			date = commentDateRe.FindString(nodeText(dd))
		}
	}
	return author, date
}
