package models

import (
	"time"
)

type User struct {
	ID                   string    `db:"id"                    json:"id"`
	DisplayName          string    `db:"display_name"          json:"display_name"`
	Sex                  string    `db:"sex"                   json:"sex"`
	NotificationsEnabled bool      `db:"notifications_enabled" json:"notifications_enabled"`
	PrivacyPublic        bool      `db:"privacy_public"        json:"privacy_public"`
	IsAdmin              bool      `db:"is_admin"              json:"is_admin"`
	CreatedAt            time.Time `db:"created_at"            json:"created_at"`
	UpdatedAt            time.Time `db:"updated_at"            json:"updated_at"`

	// Pending is the single-slot conversation state for this user.
	Pending PendingAction `json:"pending"`
}

// DefaultSexTag is shown on profiles until the user picks one.
const DefaultSexTag = "👤"

// MaxDisplayNameLength bounds profile renames.
const MaxDisplayNameLength = 30
