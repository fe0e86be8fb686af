package models

import (
	"time"
)

type PrivateMessage struct {
	ID         string    `db:"id"          json:"id"`
	SenderID   string    `db:"sender_id"   json:"sender_id"`
	ReceiverID string    `db:"receiver_id" json:"receiver_id"`
	Content    string    `db:"content"     json:"content"`
	IsRead     bool      `db:"is_read"     json:"is_read"`
	CreatedAt  time.Time `db:"created_at"  json:"created_at"`
}
