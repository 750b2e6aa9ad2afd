package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxTitleLength is the upper bound on post titles, counted in runes.
const MaxTitleLength = 200

type Post struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	ViewCount   int       `json:"view_count"`
	CommentsCnt int       `json:"comments_cnt"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
