package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateNoteRequest struct {
	Title    string          `json:"title" validate:"max=255"`
	Body     string          `json:"body" validate:"max=280"`
	Tag      *string         `json:"tag"`
	FolderId *uuid.UUID      `json:"folder_id"`
	Shares   []*ShareRequest `json:"shares" validate:"omitempty,dive"`
}

// UpdateNoteRequest replaces title, body, tag and folder. A nil Shares leaves
// sharing untouched, an empty one revokes every grant.
type UpdateNoteRequest struct {
	Id       uuid.UUID       `json:"-"`
	Title    string          `json:"title" validate:"max=255"`
	Body     string          `json:"body" validate:"max=280"`
	Tag      *string         `json:"tag"`
	FolderId *uuid.UUID      `json:"folder_id"`
	Shares   []*ShareRequest `json:"shares" validate:"omitempty,dive"`
}

type SearchNoteRequest struct {
	Term         string
	Tag          string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	ModifiedFrom *time.Time
	ModifiedTo   *time.Time
}

type NoteResponse struct {
	Id        uuid.UUID        `json:"id"`
	Title     string           `json:"title"`
	Body      string           `json:"body"`
	Owner     string           `json:"owner"`
	Tag       *string          `json:"tag"`
	FolderId  *uuid.UUID       `json:"folder_id"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	Shares    []*ShareResponse `json:"shares"`
}

type NoteSummaryResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	Owner     string     `json:"owner"`
	Tag       *string    `json:"tag"`
	FolderId  *uuid.UUID `json:"folder_id"`
	Shared    bool       `json:"shared"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
