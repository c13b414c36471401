package scrape

import (
	"strings"
	"testing"
)

const detailPage = `<!DOCTYPE html>
<html><body>
<div class="view">
  <div id="post1024" class="conts markdown-body">
    <p>4월 정산 내역 중 누락된 건이 있어 공유드립니다.</p>
    <p>확인 후 회신 부탁드립니다.</p>
  </div>
</div>
<div class="replies">
  <div class="reply-head">
    <table><tr>
      <td><strong>&nbsp;박선미</strong></td>
      <td><div class="cont_date">2024-04-02 11:00:00 작성됨</div></td>
    </tr></table>
  </div>
  <div id="comment2048" class="conts"><p>확인 중입니다. 금일 내로 회신드리겠습니다.</p></div>
  <div class="reply-head">
    <table><tr>
      <td><strong>&nbsp;이수진</strong></td>
      <td><div class="cont_date">2024-04-03 09:15:30 작성됨</div></td>
    </tr></table>
  </div>
  <div id="comment2049" class="conts"><p>반영 완료되었습니다.</p></div>
  <div id="comment2050" class="conts"><p>넵</p></div>
</div>
</body></html>`

func TestDetail(t *testing.T) {
	body, comments := Detail([]byte(detailPage))

	if !strings.Contains(body, "누락된 건이 있어") {
		t.Errorf("body missing first paragraph: %q", body)
	}
	if !strings.Contains(body, "회신 부탁드립니다") {
		t.Errorf("body missing second paragraph: %q", body)
	}

	// The two-rune comment is below the noise threshold.
	if len(comments) != 2 {
		t.Fatalf("got %d comments, want 2", len(comments))
	}

	c := comments[0]
	if c.Author != "박선미" {
		t.Errorf("comment author: got %q (NBSP must be stripped)", c.Author)
	}
	if c.Date != "2024-04-02 11:00:00" {
		t.Errorf("comment date: got %q", c.Date)
	}
	if !strings.Contains(c.Text, "확인 중입니다") {
		t.Errorf("comment text: got %q", c.Text)
	}

	if comments[1].Author != "이수진" || comments[1].Date != "2024-04-03 09:15:30" {
		t.Errorf("second comment meta: got %q/%q", comments[1].Author, comments[1].Date)
	}
}

func TestDetail_BodyClassFallback(t *testing.T) {
	page := `<html><body>
<div class="conts markdown-body"><p>id 속성이 없는 테마의 본문입니다.</p></div>
</body></html>`
	body, _ := Detail([]byte(page))
	if !strings.Contains(body, "테마의 본문") {
		t.Errorf("class-only fallback failed: %q", body)
	}
}

func TestDetail_MetadataRequiresPrecedingSibling(t *testing.T) {
	// Metadata table nested INSIDE the comment container must not be read:
	// the template keeps it in the preceding sibling.
	page := `<html><body>
<div id="comment1" class="conts">
  <table><tr><td><strong>엉뚱한사람</strong></td></tr></table>
  <p>본문만 있는 덧글입니다.</p>
</div>
</body></html>`
	_, comments := Detail([]byte(page))
	if len(comments) != 1 {
		t.Fatalf("got %d comments, want 1", len(comments))
	}
	if comments[0].Author != "" {
		t.Errorf("author must come from the sibling header only, got %q", comments[0].Author)
	}
}

func TestDetail_EmptyOnMiss(t *testing.T) {
	body, comments := Detail([]byte("<html><body><p>로그인이 필요합니다</p></body></html>"))
	if body != "" || len(comments) != 0 {
		t.Errorf("got %q / %d comments, want empty", body, len(comments))
	}
}
