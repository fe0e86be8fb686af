package models

type PendingKind string

const (
	PendingNone           PendingKind = "none"
	PendingName           PendingKind = "awaiting_name"
	PendingPost           PendingKind = "awaiting_post"
	PendingComment        PendingKind = "awaiting_comment"
	PendingPrivateMessage PendingKind = "awaiting_private_message"
)

// PendingAction describes what a user's next free-text message means.
// A user holds exactly one at a time; starting a new action overwrites
// the previous one (last action wins).
type PendingAction struct {
	Kind PendingKind `json:"kind"`

	// Polymorphic payload - only one populated based on Kind
	Post           *PendingPostPayload           `json:"post,omitempty"`
	Comment        *PendingCommentPayload        `json:"comment,omitempty"`
	PrivateMessage *PendingPrivateMessagePayload `json:"private_message,omitempty"`
}

type PendingPostPayload struct {
	Category string `json:"category"`
}

type PendingCommentPayload struct {
	PostID string `json:"post_id"`
	// ParentCommentID is nil for a top-level comment. For a reply it holds
	// the immediate parent, which may itself be a reply at any depth.
	ParentCommentID *string `json:"parent_comment_id,omitempty"`
}

type PendingPrivateMessagePayload struct {
	TargetUserID string `json:"target_user_id"`
}

func NoPendingAction() PendingAction {
	return PendingAction{Kind: PendingNone}
}

func AwaitingName() PendingAction {
	return PendingAction{Kind: PendingName}
}

func AwaitingPost(category string) PendingAction {
	return PendingAction{Kind: PendingPost, Post: &PendingPostPayload{Category: category}}
}

func AwaitingComment(postID string, parentCommentID *string) PendingAction {
	return PendingAction{
		Kind:    PendingComment,
		Comment: &PendingCommentPayload{PostID: postID, ParentCommentID: parentCommentID},
	}
}

func AwaitingPrivateMessage(targetUserID string) PendingAction {
	return PendingAction{
		Kind:           PendingPrivateMessage,
		PrivateMessage: &PendingPrivateMessagePayload{TargetUserID: targetUserID},
	}
}
