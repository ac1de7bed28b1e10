package entity

import (
	"time"

	"github.com/google/uuid"
)

// NoteVersion is an immutable snapshot of a note's title and body taken
// right before they were overwritten.
type NoteVersion struct {
	Id        uuid.UUID
	NoteId    uuid.UUID
	Title     string
	Body      string
	Actor     string
	CreatedAt time.Time
}
