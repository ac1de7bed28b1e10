package repository

import (
	"fmt"
	"notabene-be/internal/entity"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NotePredicate is a single optional condition over notes. Every predicate
// can be checked against a loaded note and rendered as a SQL condition, and
// both forms must agree.
type NotePredicate interface {
	Match(note *entity.Note) bool
	sql(args *sqlArgs) string
}

// NoteFilter is an ordered conjunction of predicates. An empty filter matches everything.
type NoteFilter []NotePredicate

func (f NoteFilter) Match(note *entity.Note) bool {
	for _, p := range f {
		if !p.Match(note) {
			return false
		}
	}
	return true
}

func (f NoteFilter) Apply(notes []*entity.Note) []*entity.Note {
	res := make([]*entity.Note, 0, len(notes))
	for _, n := range notes {
		if f.Match(n) {
			res = append(res, n)
		}
	}
	return res
}

// Where renders the filter as a WHERE clause body with positional pgx
// arguments starting at $1.
func (f NoteFilter) Where() (string, []any) {
	args := &sqlArgs{}
	conds := make([]string, 0, len(f))
	for _, p := range f {
		if cond := p.sql(args); cond != "" {
			conds = append(conds, cond)
		}
	}
	if len(conds) == 0 {
		return "TRUE", args.values
	}
	return strings.Join(conds, " AND "), args.values
}

type sqlArgs struct {
	values []any
}

func (a *sqlArgs) add(v any) string {
	a.values = append(a.values, v)
	return fmt.Sprintf("$%d", len(a.values))
}

type passThrough struct{}

func (passThrough) Match(*entity.Note) bool { return true }
func (passThrough) sql(*sqlArgs) string     { return "" }

type visibleTo struct {
	actor  string
	shared map[uuid.UUID]struct{}
	ids    []uuid.UUID
}

// VisibleTo keeps notes owned by actor or whose id is in shared. It is never
// a pass-through: with no shared ids only owned notes survive.
func VisibleTo(actor string, shared []uuid.UUID) NotePredicate {
	set := make(map[uuid.UUID]struct{}, len(shared))
	for _, id := range shared {
		set[id] = struct{}{}
	}
	return &visibleTo{actor: actor, shared: set, ids: shared}
}

func (p *visibleTo) Match(note *entity.Note) bool {
	if note.Owner == p.actor {
		return true
	}
	_, ok := p.shared[note.Id]
	return ok
}

func (p *visibleTo) sql(args *sqlArgs) string {
	owner := args.add(p.actor)
	if len(p.ids) == 0 {
		return "owner = " + owner
	}
	return fmt.Sprintf("(owner = %s OR id = ANY(%s::uuid[]))", owner, args.add(p.ids))
}

type containsTerm struct {
	term string
}

// ContainsTerm matches a case-insensitive substring of title, body or tag.
// A blank term passes everything through.
func ContainsTerm(term string) NotePredicate {
	if strings.TrimSpace(term) == "" {
		return passThrough{}
	}
	return &containsTerm{term: strings.ToLower(term)}
}

func (p *containsTerm) Match(note *entity.Note) bool {
	if strings.Contains(strings.ToLower(note.Title), p.term) ||
		strings.Contains(strings.ToLower(note.Body), p.term) {
		return true
	}
	return note.Tag != nil && strings.Contains(strings.ToLower(*note.Tag), p.term)
}

func (p *containsTerm) sql(args *sqlArgs) string {
	pattern := args.add("%" + escapeLike(p.term) + "%")
	return fmt.Sprintf(
		`(LOWER(title) LIKE %[1]s ESCAPE '\' OR LOWER(body) LIKE %[1]s ESCAPE '\' OR LOWER(tag) LIKE %[1]s ESCAPE '\')`,
		pattern,
	)
}

type taggedWith struct {
	tag string
}

// TaggedWith matches the exact tag name. A blank name passes everything through.
func TaggedWith(tag string) NotePredicate {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return passThrough{}
	}
	return &taggedWith{tag: tag}
}

func (p *taggedWith) Match(note *entity.Note) bool {
	return note.Tag != nil && *note.Tag == p.tag
}

func (p *taggedWith) sql(args *sqlArgs) string {
	return "tag = " + args.add(p.tag)
}

type timeRange struct {
	column   string
	field    func(*entity.Note) time.Time
	from, to *time.Time
}

// CreatedBetween bounds the creation timestamp. Both bounds are inclusive
// and either may be nil.
func CreatedBetween(from, to *time.Time) NotePredicate {
	return newTimeRange("created_at", func(n *entity.Note) time.Time { return n.CreatedAt }, from, to)
}

// ModifiedBetween bounds the last-modified timestamp, same rules as CreatedBetween.
func ModifiedBetween(from, to *time.Time) NotePredicate {
	return newTimeRange("updated_at", func(n *entity.Note) time.Time { return n.UpdatedAt }, from, to)
}

func newTimeRange(column string, field func(*entity.Note) time.Time, from, to *time.Time) NotePredicate {
	if from == nil && to == nil {
		return passThrough{}
	}
	return &timeRange{column: column, field: field, from: from, to: to}
}

func (p *timeRange) Match(note *entity.Note) bool {
	t := p.field(note)
	if p.from != nil && t.Before(*p.from) {
		return false
	}
	if p.to != nil && t.After(*p.to) {
		return false
	}
	return true
}

func (p *timeRange) sql(args *sqlArgs) string {
	conds := make([]string, 0, 2)
	if p.from != nil {
		conds = append(conds, fmt.Sprintf("%s >= %s", p.column, args.add(*p.from)))
	}
	if p.to != nil {
		conds = append(conds, fmt.Sprintf("%s <= %s", p.column, args.add(*p.to)))
	}
	return strings.Join(conds, " AND ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
