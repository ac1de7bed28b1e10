package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id           uuid.UUID
	Email        string
	Nickname     string
	PasswordHash string
	CreatedAt    time.Time
}
