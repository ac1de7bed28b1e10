package repository

import (
	"notabene-be/internal/entity"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

var base = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func sampleNote(owner, title, body string, tag *string) *entity.Note {
	return &entity.Note{
		Id:        uuid.New(),
		Title:     title,
		Body:      body,
		Owner:     owner,
		Tag:       tag,
		CreatedAt: base,
		UpdatedAt: base.Add(time.Hour),
	}
}

func TestVisibleTo(t *testing.T) {
	owned := sampleNote("alice@x", "mine", "", nil)
	shared := sampleNote("bob@x", "shared", "", nil)
	foreign := sampleNote("carol@x", "foreign", "", nil)

	p := VisibleTo("alice@x", []uuid.UUID{shared.Id})

	if !p.Match(owned) {
		t.Error("owned note should be visible")
	}
	if !p.Match(shared) {
		t.Error("shared note should be visible")
	}
	if p.Match(foreign) {
		t.Error("foreign note must never be visible")
	}

	if VisibleTo("alice@x", nil).Match(shared) {
		t.Error("without grants only owned notes are visible")
	}
}

func TestContainsTerm(t *testing.T) {
	n := sampleNote("a@x", "Shopping List", "milk, eggs", strPtr("Home"))

	tests := []struct {
		term string
		want bool
	}{
		{"", true},
		{"   ", true},
		{"shop", true},
		{"EGGS", true},
		{"home", true},
		{"bread", false},
		{"%", false},
	}
	for _, tt := range tests {
		if got := ContainsTerm(tt.term).Match(n); got != tt.want {
			t.Errorf("ContainsTerm(%q) = %v, want %v", tt.term, got, tt.want)
		}
	}

	untagged := sampleNote("a@x", "x", "y", nil)
	if ContainsTerm("home").Match(untagged) {
		t.Error("tag branch must not match a note without tag")
	}
}

func TestTaggedWith(t *testing.T) {
	tagged := sampleNote("a@x", "", "", strPtr("work"))
	untagged := sampleNote("a@x", "", "", nil)

	if !TaggedWith("").Match(untagged) {
		t.Error("blank tag filter should pass through")
	}
	if !TaggedWith(" work ").Match(tagged) {
		t.Error("exact tag should match after trimming the filter")
	}
	if TaggedWith("Work").Match(tagged) {
		t.Error("tag match is exact")
	}
	if TaggedWith("work").Match(untagged) {
		t.Error("untagged note must not match a tag filter")
	}
}

func TestDateRangesAreInclusive(t *testing.T) {
	n := sampleNote("a@x", "", "", nil)
	created := n.CreatedAt
	modified := n.UpdatedAt

	tests := []struct {
		name string
		p    NotePredicate
		want bool
	}{
		{"no bounds", CreatedBetween(nil, nil), true},
		{"from equal", CreatedBetween(timePtr(created), nil), true},
		{"from 1ms later", CreatedBetween(timePtr(created.Add(time.Millisecond)), nil), false},
		{"to equal", CreatedBetween(nil, timePtr(created)), true},
		{"to 1ms earlier", CreatedBetween(nil, timePtr(created.Add(-time.Millisecond))), false},
		{"exact window", CreatedBetween(timePtr(created), timePtr(created)), true},
		{"modified independent", ModifiedBetween(timePtr(modified), timePtr(modified)), true},
		{"modified before", ModifiedBetween(nil, timePtr(created)), false},
	}
	for _, tt := range tests {
		if got := tt.p.Match(n); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestNoteFilterApply(t *testing.T) {
	a := sampleNote("alice@x", "Groceries", "milk", strPtr("home"))
	b := sampleNote("alice@x", "Report", "milk quota", strPtr("work"))
	c := sampleNote("bob@x", "Milk run", "", strPtr("home"))

	filter := NoteFilter{
		VisibleTo("alice@x", nil),
		ContainsTerm("milk"),
		TaggedWith("home"),
	}

	got := filter.Apply([]*entity.Note{a, b, c})
	if len(got) != 1 || got[0] != a {
		t.Errorf("expected only the owned home note, got %v", got)
	}

	if len(NoteFilter{}.Apply([]*entity.Note{a, b, c})) != 3 {
		t.Error("empty filter should keep everything")
	}
}

func TestNoteFilterWhere(t *testing.T) {
	shared := []uuid.UUID{uuid.New()}
	from := base
	to := base.Add(24 * time.Hour)

	filter := NoteFilter{
		VisibleTo("alice@x", shared),
		ContainsTerm("50%_off"),
		TaggedWith(""),
		TaggedWith("home"),
		CreatedBetween(&from, nil),
		ModifiedBetween(nil, &to),
	}

	where, args := filter.Where()

	wantWhere := `(owner = $1 OR id = ANY($2::uuid[])) AND ` +
		`(LOWER(title) LIKE $3 ESCAPE '\' OR LOWER(body) LIKE $3 ESCAPE '\' OR LOWER(tag) LIKE $3 ESCAPE '\') AND ` +
		`tag = $4 AND created_at >= $5 AND updated_at <= $6`
	if where != wantWhere {
		t.Errorf("unexpected where clause:\n got: %s\nwant: %s", where, wantWhere)
	}

	wantArgs := []any{"alice@x", shared, `%50\%\_off%`, "home", from, to}
	if diff := cmp.Diff(wantArgs, args); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestNoteFilterWhereOwnerOnly(t *testing.T) {
	where, args := NoteFilter{VisibleTo("alice@x", nil)}.Where()
	if where != "owner = $1" {
		t.Errorf("unexpected where clause: %s", where)
	}
	if len(args) != 1 {
		t.Errorf("expected one argument, got %v", args)
	}

	if where, _ := (NoteFilter{}).Where(); where != "TRUE" {
		t.Errorf("empty filter should render TRUE, got %s", where)
	}
}
