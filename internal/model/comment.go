package model

import (
	"time"

	"github.com/google/uuid"
)

type CommentCreateRequest struct {
	Text     string  `json:"text"`
	ParentId *string `json:"parent,omitempty"`
}

type CommentUpdateRequest struct {
	Text string `json:"text"`
}

// Comment is the flat record as stored. ParentId may reference a comment that
// no longer exists; the tree builder drops such records from the rendered
// forest instead of failing.
type Comment struct {
	Id             uuid.UUID
	PostId         uuid.UUID
	AuthorId       uuid.UUID
	ParentId       *uuid.UUID
	Text           string
	UpvoteCount    int
	Edited         bool
	CreateDatetime time.Time
	UpdateDatetime time.Time
}

type CommentAuthor struct {
	Id      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Avatar  *string   `json:"avatar"`
	IsAdmin bool      `json:"isAdmin"`
}

// CommentDetail is a flat comment joined with its author, the unit the tree
// engine consumes and the flat shape mutation endpoints return.
type CommentDetail struct {
	Id             uuid.UUID     `json:"id"`
	PostId         uuid.UUID     `json:"postId"`
	ParentId       *uuid.UUID    `json:"parentId"`
	Author         CommentAuthor `json:"author"`
	Text           string        `json:"text"`
	UpvoteCount    int           `json:"upvoteCount"`
	Edited         bool          `json:"edited"`
	CreateDatetime time.Time     `json:"createdAt"`
}
