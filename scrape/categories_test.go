package scrape

import "testing"

const mainPage = `<!DOCTYPE html>
<html><body>
<div id="gs-left">
  <ul>
    <li><a href="/board/post_list.jsp?pid=1459">블루타이거</a></li>
    <li><a href="/board/post_list.jsp?pid=1460">엔잡특공대</a></li>
    <li><a href="/board/post_list.jsp?pid=1459">블루타이거</a></li>
    <li><a href="/calendar.jsp">일정</a></li>
    <li><a href="/board/post_list.jsp?pid=1472">   </a></li>
  </ul>
</div>
<div id="gs-main">
  <a href="/board/post_list.jsp?pid=9999">본문 속 링크</a>
</div>
</body></html>`

func TestCategories(t *testing.T) {
	cats := Categories([]byte(mainPage), "https://ppm.example.co.kr/main.jsp")
	if len(cats) != 2 {
		t.Fatalf("got %d categories, want 2", len(cats))
	}
	if cats[0].Name != "블루타이거" || cats[1].Name != "엔잡특공대" {
		t.Errorf("discovery order broken: %q, %q", cats[0].Name, cats[1].Name)
	}
	if cats[0].URL != "https://ppm.example.co.kr/board/post_list.jsp?pid=1459" {
		t.Errorf("URL not resolved: %q", cats[0].URL)
	}
}

func TestCategories_WholePageFallback(t *testing.T) {
	page := `<html><body>
<a href="/board/post_list.jsp?pid=1">첫번째 게시판</a>
<a href="/other.jsp">기타</a>
</body></html>`
	cats := Categories([]byte(page), "https://ppm.example.co.kr/")
	if len(cats) != 1 || cats[0].Name != "첫번째 게시판" {
		t.Fatalf("fallback scan failed: %+v", cats)
	}
}

func TestCategories_EmptyOnMiss(t *testing.T) {
	if cats := Categories([]byte("<html><body><p>메뉴 없음</p></body></html>"), ""); len(cats) != 0 {
		t.Errorf("got %d categories, want 0", len(cats))
	}
}
