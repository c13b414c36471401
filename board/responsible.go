package board

import (
	"strings"
	"time"
)

// ResolveResponsible finds the most recently active author over a bounded
// set of posts: comment authors first, then the post author itself.
//
// Authors equal to UnknownAuthor or empty are skipped, as are entries whose
// date cannot be parsed. On equal dates the first-seen author wins — the
// caller's post order is the tie-break, so it must be stable.
//
// Returns nil when no eligible author/date pair exists.
func ResolveResponsible(posts []*Post) *ResponsiblePerson {
	type seen struct {
		name string
		last time.Time
	}
	var persons []seen

	observe := func(name, date string) {
		name = strings.TrimSpace(name)
		if name == "" || name == UnknownAuthor {
			return
		}
		d, ok := parseDay(date)
		if !ok {
			return
		}
		for i := range persons {
			if persons[i].name == name {
				if d.After(persons[i].last) {
					persons[i].last = d
				}
				return
			}
		}
		persons = append(persons, seen{name: name, last: d})
	}

	for _, p := range posts {
		for _, c := range p.Comments {
			observe(c.Author, c.Date)
		}
		observe(p.Author, p.Date)
	}

	if len(persons) == 0 {
		return nil
	}

	best := 0
	for i := 1; i < len(persons); i++ {
		if persons[i].last.After(persons[best].last) {
			best = i
		}
	}

	all := make([]string, len(persons))
	for i, p := range persons {
		all[i] = p.name
	}
	return &ResponsiblePerson{
		Name:         persons[best].name,
		LastActivity: persons[best].last.Format("2006-01-02"),
		AllPersons:   all,
	}
}
