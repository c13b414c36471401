package board

import (
	"fmt"
	"strings"
)

// Rendering limits for the completion context.
const (
	renderContentLen = 800
	renderComments   = 5
)

// RenderPosts serialises posts as a completion context string. Each post is
// one block; blocks are separated by a blank line. Empty input renders to "".
func RenderPosts(posts []*Post) string {
	if len(posts) == 0 {
		return ""
	}

	blocks := make([]string, 0, len(posts))
	for _, p := range posts {
		var b strings.Builder
		fmt.Fprintf(&b, "제목: %s", p.Title)
		if p.Author != "" {
			fmt.Fprintf(&b, "\n작성자: %s", p.Author)
		}
		if p.Date != "" {
			fmt.Fprintf(&b, "\n날짜: %s", p.Date)
		}
		if p.CommentCount > 0 {
			fmt.Fprintf(&b, "\n댓글 수: %d개", p.CommentCount)
		}
		// Content only when it carries more than the title does.
		if p.Content != "" && p.Content != p.Title && len(p.Content) > len(p.Title) {
			fmt.Fprintf(&b, "\n내용: %s", Truncate(p.Content, renderContentLen))
		}
		if len(p.Comments) > 0 {
			fmt.Fprintf(&b, "\n\n덧글 (%d개):", len(p.Comments))
			for i, c := range p.Comments {
				if i >= renderComments {
					break
				}
				fmt.Fprintf(&b, "\n  [%d] ", i+1)
				if c.Author != "" {
					fmt.Fprintf(&b, "작성자: %s | ", c.Author)
				}
				if c.Date != "" {
					fmt.Fprintf(&b, "날짜: %s | ", c.Date)
				}
				fmt.Fprintf(&b, "내용: %s", c.Text)
			}
		}
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}
