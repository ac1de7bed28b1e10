package entity

import "time"

type Tag struct {
	Name      string
	CreatedAt time.Time
}
