package board

import (
	"reflect"
	"testing"
)

func TestResolveResponsible_CommentBeatsPostAuthor(t *testing.T) {
	posts := []*Post{
		{Author: "A", Date: "2024-01-01"},
		{Author: "B", Date: "2024-01-01", Comments: []*Comment{
			{Author: "C", Date: "2024-02-01"},
		}},
	}
	got := ResolveResponsible(posts)
	if got == nil {
		t.Fatal("expected a result")
	}
	if got.Name != "C" || got.LastActivity != "2024-02-01" {
		t.Errorf("got %s/%s, want C/2024-02-01", got.Name, got.LastActivity)
	}
	want := []string{"A", "C", "B"}
	if !reflect.DeepEqual(got.AllPersons, want) {
		t.Errorf("AllPersons: got %v, want %v", got.AllPersons, want)
	}
}

func TestResolveResponsible_TieBreakIsFirstSeen(t *testing.T) {
	posts := []*Post{
		{Author: "첫째", Date: "2024-05-01"},
		{Author: "둘째", Date: "2024-05-01"},
	}
	got := ResolveResponsible(posts)
	if got == nil || got.Name != "첫째" {
		t.Fatalf("equal dates must keep the first-seen author, got %+v", got)
	}
}

func TestResolveResponsible_SkipsUnknownAndUnparseable(t *testing.T) {
	posts := []*Post{
		{Author: UnknownAuthor, Date: "2024-06-01"},
		{Author: "", Date: "2024-06-01"},
		{Author: "박선미", Date: "nonsense"},
	}
	if got := ResolveResponsible(posts); got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestResolveResponsible_Empty(t *testing.T) {
	if got := ResolveResponsible(nil); got != nil {
		t.Errorf("expected nil for no posts, got %+v", got)
	}
}
