package dto

import (
	"time"

	"github.com/google/uuid"
)

type RestoreVersionRequest struct {
	NoteId    uuid.UUID
	VersionId uuid.UUID
}

type VersionResponse struct {
	Id        uuid.UUID `json:"id"`
	NoteId    uuid.UUID `json:"note_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Actor     string    `json:"actor"`
	CreatedAt time.Time `json:"created_at"`
}
