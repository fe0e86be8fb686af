package models

type OutcomeKind string

const (
	OutcomePostDrafted     OutcomeKind = "POST_DRAFTED"
	OutcomePostSubmitted   OutcomeKind = "POST_SUBMITTED"
	OutcomePostCancelled   OutcomeKind = "POST_CANCELLED"
	OutcomePostPublished   OutcomeKind = "POST_PUBLISHED"
	OutcomePostRejected    OutcomeKind = "POST_REJECTED"
	OutcomeCommentAdded    OutcomeKind = "COMMENT_ADDED"
	OutcomeReactionToggled OutcomeKind = "REACTION_TOGGLED"
	OutcomeMessageSent     OutcomeKind = "MESSAGE_SENT"
	OutcomeNameUpdated     OutcomeKind = "NAME_UPDATED"
	OutcomePrompt          OutcomeKind = "PROMPT"
	OutcomeMenu            OutcomeKind = "MENU"
	OutcomeError           OutcomeKind = "ERROR"
)

// Outcome is the tagged result of handling one inbound user event. The
// presentation layer renders it; only the fields matching Kind are set.
type Outcome struct {
	Kind OutcomeKind `json:"kind"`

	Post      *Post           `json:"post,omitempty"`
	Comment   *Comment        `json:"comment,omitempty"`
	Reactions *ReactionCounts `json:"reactions,omitempty"`
	Message   *PrivateMessage `json:"message,omitempty"`

	// Prompt is the instruction to show when Kind is PROMPT
	// (e.g. "type your comment").
	Prompt string `json:"prompt,omitempty"`

	// ErrorCode and ErrorMessage are set when Kind is ERROR. Validation
	// errors carry a specific code; system faults collapse to "try_again"
	// without leaking internals.
	ErrorCode    string `json:"error_code,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// Error codes rendered by the presentation layer.
const (
	ErrCodePostNotFound    = "post_not_found"
	ErrCodeCommentNotFound = "comment_not_found"
	ErrCodeUserNotFound    = "user_not_found"
	ErrCodeInvalidParent   = "invalid_parent"
	ErrCodeInvalidInput    = "invalid_input"
	ErrCodeBlocked         = "blocked"
	ErrCodeDraftExpired    = "draft_expired"
	ErrCodeNotAuthorized   = "not_authorized"
	ErrCodeTryAgain        = "try_again"
)
