package clients

import (
	"context"

	"anonboard/models"
)

// MessageHandle is the opaque reference to a delivered channel message.
type MessageHandle struct {
	Channel string `json:"channel"`
	Ref     string `json:"ref"`
}

// MessageContent is what gets rendered into the channel message.
type MessageContent struct {
	Text      string           `json:"text"`
	MediaType models.MediaType `json:"media_type"`
	MediaRef  *string          `json:"media_ref,omitempty"`
}

// Control is an interactive element attached to a message, e.g. the
// "💬 Comments (N)" button on a published post.
type Control struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

type ControlUpdateResult string

const (
	// ControlUpdated means the platform accepted the new controls.
	ControlUpdated ControlUpdateResult = "UPDATED"
	// ControlUnchanged means the push was a no-op because the content was
	// already identical. Callers treat this as success, not an error - two
	// rapid mutations can legitimately produce the same count.
	ControlUnchanged ControlUpdateResult = "UNCHANGED"
)

// Messenger is the chat-transport collaborator. Delivery is best-effort;
// the only hard requirement is that UpdateControls is idempotent and
// reports "unchanged" distinctly from a hard failure.
type Messenger interface {
	// SendChannelMessage publishes content to the shared channel and
	// returns the handle needed for later control updates.
	SendChannelMessage(
		ctx context.Context,
		channel string,
		content MessageContent,
		controls []Control,
	) (*MessageHandle, error)

	// UpdateControls replaces the controls on a previously sent message.
	UpdateControls(ctx context.Context, handle MessageHandle, controls []Control) (ControlUpdateResult, error)

	// SendDirectMessage delivers a private notification to a user.
	SendDirectMessage(ctx context.Context, userID string, text string) error
}
