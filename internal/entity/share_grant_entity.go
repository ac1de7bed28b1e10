package entity

import (
	"time"

	"github.com/google/uuid"
)

type ShareGrant struct {
	Id         uuid.UUID
	NoteId     uuid.UUID
	Grantee    string
	Permission string
	CreatedAt  time.Time
}
