package models

import (
	"time"
)

type MediaType string

const (
	MediaTypeText  MediaType = "text"
	MediaTypePhoto MediaType = "photo"
	MediaTypeVoice MediaType = "voice"
)

// MirrorHandle is the opaque reference to the published channel message
// whose comment-count control must stay in sync with the thread. It is set
// at most once, at approval time, and is immutable afterwards.
type MirrorHandle struct {
	Channel string `json:"channel"`
	Ref     string `json:"ref"`
}

type Post struct {
	ID         string    `db:"id"          json:"id"`
	AuthorID   string    `db:"author_id"   json:"author_id"`
	Content    string    `db:"content"     json:"content"`
	Category   string    `db:"category"    json:"category"`
	MediaType  MediaType `db:"media_type"  json:"media_type"`
	MediaRef   *string   `db:"media_ref"   json:"media_ref,omitempty"`
	Approved   bool      `db:"approved"    json:"approved"`
	ApprovedBy *string   `db:"approved_by" json:"approved_by,omitempty"`
	CreatedAt  time.Time `db:"created_at"  json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"  json:"updated_at"`

	// Mirror is nil until the post is published to the channel.
	Mirror *MirrorHandle `json:"mirror,omitempty"`

	// CommentCount is a denormalized copy of the recursive total, refreshed
	// from storage on every mutation. Reads that matter recompute instead
	// of trusting this value.
	CommentCount int `db:"comment_count" json:"comment_count"`
}

// PostDraft is the transient post-confirmation state. It lives in process
// memory only and expires after DraftTTL; losing it on restart is an
// accepted tradeoff, not a defect - the durable pending action is already
// reset by the time a draft exists.
type PostDraft struct {
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	MediaType MediaType `json:"media_type"`
	MediaRef  *string   `json:"media_ref,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// DraftTTL is how long a post draft stays confirmable.
const DraftTTL = 5 * time.Minute

// BoardStats holds the aggregate counters shown on the admin surface.
type BoardStats struct {
	TotalUsers           int `json:"total_users"`
	ApprovedPosts        int `json:"approved_posts"`
	PendingPosts         int `json:"pending_posts"`
	TotalComments        int `json:"total_comments"`
	TotalPrivateMessages int `json:"total_private_messages"`
}
