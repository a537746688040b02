package model

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	Id             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	Image          *string   `json:"image"`
	CreateDatetime time.Time `json:"createdAt"`
}
