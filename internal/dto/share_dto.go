package dto

import (
	"time"

	"github.com/google/uuid"
)

type ShareRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Permission string `json:"permission" validate:"required,oneof=read write"`
}

type ShareNoteRequest struct {
	NoteId     uuid.UUID `json:"-"`
	Email      string    `json:"email" validate:"required,email"`
	Permission string    `json:"permission" validate:"required,oneof=read write"`
}

type ReplaceSharesRequest struct {
	NoteId uuid.UUID       `json:"-"`
	Shares []*ShareRequest `json:"shares" validate:"required,dive"`
}

type ShareResponse struct {
	Email      string    `json:"email"`
	Permission string    `json:"permission"`
	CreatedAt  time.Time `json:"created_at"`
}
