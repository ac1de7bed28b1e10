package entity

import (
	"time"

	"github.com/google/uuid"
)

type Folder struct {
	Id        uuid.UUID
	Name      string
	Owner     string
	CreatedAt time.Time
	UpdatedAt *time.Time
}
