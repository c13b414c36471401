package answer

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/jayz-blip/askboard/board"
)

type fakeSource struct {
	categories map[string]*board.Category
	posts      []*board.Post
	text       string
	person     *board.ResponsiblePerson

	lastQuery        board.Query
	responsibleCalls []string
	reloads          int
}

func (f *fakeSource) Categories(ctx context.Context) (map[string]*board.Category, error) {
	return f.categories, nil
}

func (f *fakeSource) Posts(ctx context.Context, q board.Query) ([]*board.Post, error) {
	f.lastQuery = q
	return f.posts, nil
}

func (f *fakeSource) PostsText(ctx context.Context, q board.Query) (string, error) {
	f.lastQuery = q
	return f.text, nil
}

func (f *fakeSource) Responsible(ctx context.Context, client string) (*board.ResponsiblePerson, error) {
	f.responsibleCalls = append(f.responsibleCalls, client)
	return f.person, nil
}

func (f *fakeSource) Reload(ctx context.Context) error {
	f.reloads++
	return nil
}

type fakeCompleter struct {
	reply   string
	prompts []string
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, nil
}

func newTestService(src *fakeSource, fc *fakeCompleter, clients ...string) *Service {
	return New(src, fc, Config{
		KnownClients: clients,
		Logger:       slog.New(slog.DiscardHandler),
	})
}

func TestAskDetectsClientAndRaisesLimit(t *testing.T) {
	src := &fakeSource{text: "제목: 정산 지연"}
	fc := &fakeCompleter{reply: "정산 배치가 지연되고 있습니다."}
	svc := newTestService(src, fc, "블루타이거")

	reply, err := svc.Ask(context.Background(), "", "블루타이거 정산 관련 게시글 알려줘")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if reply.Client != "블루타이거" {
		t.Fatalf("got client %q", reply.Client)
	}
	if src.lastQuery.Client != "블루타이거" || src.lastQuery.Limit != 30 {
		t.Fatalf("got query %+v", src.lastQuery)
	}
	if reply.SessionID == "" {
		t.Fatal("expected a minted session id")
	}
	if !strings.Contains(fc.prompts[0], "[사내 게시판 정보]") ||
		!strings.Contains(fc.prompts[0], "제목: 정산 지연") {
		t.Fatalf("evidence missing from prompt:\n%s", fc.prompts[0])
	}
}

func TestAskDefaultBoardUsesLowerLimit(t *testing.T) {
	src := &fakeSource{}
	fc := &fakeCompleter{reply: "일반 답변"}
	svc := newTestService(src, fc)

	if _, err := svc.Ask(context.Background(), "", "요즘 분위기 어때"); err != nil {
		t.Fatalf("ask: %v", err)
	}
	if src.lastQuery.Client != "" || src.lastQuery.Limit != 20 {
		t.Fatalf("got query %+v", src.lastQuery)
	}
	if strings.Contains(fc.prompts[0], "[사내 게시판 정보]") {
		t.Fatal("empty evidence should not add a board section")
	}
}

func TestAskDetectsDateBucket(t *testing.T) {
	cases := []struct {
		message string
		bucket  board.Bucket
	}{
		{"오늘 올라온 글", board.BucketToday},
		{"어제 무슨 일 있었어", board.BucketYesterday},
		{"이번 주 이슈 정리해줘", board.BucketThisWeek},
		{"지난주에 올라온 글", board.BucketLastWeek},
		{"이번달 게시글", board.BucketThisMonth},
		{"지난 달 현황", board.BucketLastMonth},
		{"최근 7일 게시글", board.BucketRecent},
		{"게시판 상황 알려줘", ""},
	}
	for _, tc := range cases {
		src := &fakeSource{}
		svc := newTestService(src, &fakeCompleter{reply: "답변"})
		reply, err := svc.Ask(context.Background(), "", tc.message)
		if err != nil {
			t.Fatalf("%q: %v", tc.message, err)
		}
		if reply.Bucket != tc.bucket {
			t.Errorf("%q: got bucket %q, want %q", tc.message, reply.Bucket, tc.bucket)
		}
	}
}

func TestAskProblemQueryAdjustsPrompt(t *testing.T) {
	src := &fakeSource{}
	fc := &fakeCompleter{reply: "답변"}
	svc := newTestService(src, fc)

	if _, err := svc.Ask(context.Background(), "", "어려웠던 오류 케이스 알려줘"); err != nil {
		t.Fatalf("ask: %v", err)
	}
	if !strings.Contains(fc.prompts[0], "덧글 수가 많은 게시글") {
		t.Fatalf("problem guidance missing:\n%s", fc.prompts[0])
	}
}

func TestAskContactQueryResolvesResponsible(t *testing.T) {
	src := &fakeSource{
		person: &board.ResponsiblePerson{Name: "박선미", LastActivity: "2024-04-02"},
	}
	fc := &fakeCompleter{reply: "박선미님이 담당자입니다."}
	svc := newTestService(src, fc, "블루타이거")

	reply, err := svc.Ask(context.Background(), "", "블루타이거 담당자가 누구야")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if len(src.responsibleCalls) != 1 || src.responsibleCalls[0] != "블루타이거" {
		t.Fatalf("got responsible calls %v", src.responsibleCalls)
	}
	if reply.Responsible == nil || reply.Responsible.Name != "박선미" {
		t.Fatalf("got responsible %+v", reply.Responsible)
	}
	if !strings.Contains(fc.prompts[0], "최근 담당자: 박선미") {
		t.Fatalf("responsible block missing:\n%s", fc.prompts[0])
	}
}

func TestAskContactQueryWithoutClientSkipsResponsible(t *testing.T) {
	src := &fakeSource{person: &board.ResponsiblePerson{Name: "박선미"}}
	svc := newTestService(src, &fakeCompleter{reply: "답변"})

	reply, err := svc.Ask(context.Background(), "", "담당자가 누구야")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if len(src.responsibleCalls) != 0 {
		t.Fatalf("got responsible calls %v", src.responsibleCalls)
	}
	if reply.Responsible != nil {
		t.Fatalf("got responsible %+v", reply.Responsible)
	}
}

func TestAskThreadsHistoryPerSession(t *testing.T) {
	src := &fakeSource{}
	fc := &fakeCompleter{reply: "첫 답변"}
	svc := newTestService(src, fc)

	first, err := svc.Ask(context.Background(), "", "첫 질문")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}

	fc.reply = "둘째 답변"
	if _, err := svc.Ask(context.Background(), first.SessionID, "둘째 질문"); err != nil {
		t.Fatalf("ask: %v", err)
	}
	second := fc.prompts[1]
	if !strings.Contains(second, "사용자: 첫 질문") || !strings.Contains(second, "어시스턴트: 첫 답변") {
		t.Fatalf("history missing from prompt:\n%s", second)
	}

	// A different session starts clean.
	if _, err := svc.Ask(context.Background(), "", "셋째 질문"); err != nil {
		t.Fatalf("ask: %v", err)
	}
	if strings.Contains(fc.prompts[2], "첫 질문") {
		t.Fatal("history leaked across sessions")
	}

	svc.ClearHistory(first.SessionID)
	if _, err := svc.Ask(context.Background(), first.SessionID, "넷째 질문"); err != nil {
		t.Fatalf("ask: %v", err)
	}
	if strings.Contains(fc.prompts[3], "첫 질문") {
		t.Fatal("history survived a clear")
	}
}

func TestAskResolvesClientFromCategories(t *testing.T) {
	src := &fakeSource{
		categories: map[string]*board.Category{
			"한빛상사":  {Name: "한빛상사", URL: "https://example.com/a"},
			"블루타이거": {Name: "블루타이거", URL: "https://example.com/b"},
		},
	}
	svc := newTestService(src, &fakeCompleter{reply: "답변"})

	reply, err := svc.Ask(context.Background(), "", "한빛상사 게시판 봐줘")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if reply.Client != "한빛상사" {
		t.Fatalf("got client %q", reply.Client)
	}
}

type orderedFakeSource struct {
	fakeSource
	ordered []*board.Category
}

func (f *orderedFakeSource) CategoriesOrdered(ctx context.Context) ([]*board.Category, error) {
	return f.ordered, nil
}

func TestAskPrefersMenuOrderForResolution(t *testing.T) {
	// Menu order puts the more specific board first; sorted order would
	// put "한빛상사" ahead of it.
	src := &orderedFakeSource{
		ordered: []*board.Category{
			{Name: "한빛상사 CS", URL: "https://example.com/cs"},
			{Name: "한빛상사", URL: "https://example.com/a"},
		},
	}
	svc := New(src, &fakeCompleter{reply: "답변"}, Config{
		Logger: slog.New(slog.DiscardHandler),
	})

	reply, err := svc.Ask(context.Background(), "", "한빛상사 게시판 봐줘")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if reply.Client != "한빛상사 CS" {
		t.Fatalf("got client %q, want the first menu entry", reply.Client)
	}
}

func TestKnownClientOrderIsDeterministic(t *testing.T) {
	// Two configured names of equal length, both mentioned: the winner must
	// not depend on the order the names were supplied in.
	for _, names := range [][]string{
		{"가나전자", "나라물산"},
		{"나라물산", "가나전자"},
	} {
		src := &fakeSource{}
		svc := newTestService(src, &fakeCompleter{reply: "답변"}, names...)
		reply, err := svc.Ask(context.Background(), "", "가나전자 나라물산 현황 알려줘")
		if err != nil {
			t.Fatalf("ask: %v", err)
		}
		if reply.Client != "가나전자" {
			t.Fatalf("supplied %v: got client %q, want 가나전자", names, reply.Client)
		}
	}
}

func TestAskEmptyMessage(t *testing.T) {
	svc := newTestService(&fakeSource{}, &fakeCompleter{reply: "답변"})
	if _, err := svc.Ask(context.Background(), "", "   "); err == nil {
		t.Fatal("expected an error for an empty message")
	}
}

func TestClientsMergesConfiguredAndDiscovered(t *testing.T) {
	src := &fakeSource{
		categories: map[string]*board.Category{
			"한빛상사":  {Name: "한빛상사"},
			"블루타이거": {Name: "블루타이거"},
		},
	}
	svc := newTestService(src, &fakeCompleter{}, "블루타이거", "엔잡특공대")

	names, err := svc.Clients(context.Background())
	if err != nil {
		t.Fatalf("clients: %v", err)
	}
	want := []string{"블루타이거", "엔잡특공대", "한빛상사"}
	if len(names) != len(want) {
		t.Fatalf("got %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("got %v, want %v", names, want)
		}
	}
}

func TestRefreshDelegatesToReloader(t *testing.T) {
	src := &fakeSource{}
	svc := newTestService(src, &fakeCompleter{})
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if src.reloads != 1 {
		t.Fatalf("got %d reloads, want 1", src.reloads)
	}
}
