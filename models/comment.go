package models

import (
	"time"
)

// Comment covers both top-level comments and replies at any depth. A nil
// ParentCommentID means the comment hangs directly off the post. The parent
// chain is acyclic by construction: a comment's parent must already exist
// and belong to the same post when the comment is created.
type Comment struct {
	ID              string    `db:"id"                json:"id"`
	PostID          string    `db:"post_id"           json:"post_id"`
	ParentCommentID *string   `db:"parent_comment_id" json:"parent_comment_id,omitempty"`
	AuthorID        string    `db:"author_id"         json:"author_id"`
	Content         string    `db:"content"           json:"content"`
	MediaType       MediaType `db:"media_type"        json:"media_type"`
	MediaRef        *string   `db:"media_ref"         json:"media_ref,omitempty"`
	CreatedAt       time.Time `db:"created_at"        json:"created_at"`
}

// CommentContent is the payload for a new comment: text, or a media
// reference with an optional caption.
type CommentContent struct {
	Text      string    `json:"text"`
	MediaType MediaType `json:"media_type"`
	MediaRef  *string   `json:"media_ref,omitempty"`
}
