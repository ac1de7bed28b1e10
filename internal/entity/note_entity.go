package entity

import (
	"time"

	"github.com/google/uuid"
)

type Note struct {
	Id        uuid.UUID
	Title     string
	Body      string
	Owner     string
	Tag       *string
	FolderId  *uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (n *Note) TagName() string {
	if n.Tag == nil {
		return ""
	}
	return *n.Tag
}
