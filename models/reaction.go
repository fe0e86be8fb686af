package models

import (
	"time"
)

type ReactionType string

const (
	ReactionLike    ReactionType = "like"
	ReactionDislike ReactionType = "dislike"
)

// Reaction holds at most one row per (comment, user) pair. Applying a new
// type replaces the old row; reapplying the same type removes it.
type Reaction struct {
	CommentID string       `db:"comment_id" json:"comment_id"`
	UserID    string       `db:"user_id"    json:"user_id"`
	Type      ReactionType `db:"type"       json:"type"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
}

type ReactionCounts struct {
	Likes    int `db:"likes"    json:"likes"`
	Dislikes int `db:"dislikes" json:"dislikes"`
}
