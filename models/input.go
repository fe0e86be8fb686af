package models

// UserInputKind discriminates between a button-style action and a free-form
// message.
type UserInputKind string

const (
	InputAction  UserInputKind = "action"
	InputMessage UserInputKind = "message"
)

type UserActionKind string

const (
	ActionChooseCategory UserActionKind = "choose_category"
	ActionWriteComment   UserActionKind = "write_comment"
	ActionReplyToComment UserActionKind = "reply_to_comment"
	ActionToggleReaction UserActionKind = "toggle_reaction"
	ActionRename         UserActionKind = "rename"
	ActionMessageUser    UserActionKind = "message_user"
	ActionConfirmPost    UserActionKind = "confirm_post"
	ActionCancelPost     UserActionKind = "cancel_post"
	ActionApprovePost    UserActionKind = "approve_post"
	ActionRejectPost     UserActionKind = "reject_post"
)

// UserAction is a structured action from the presentation layer (a button
// press or command). Only the fields relevant to Kind are set.
type UserAction struct {
	Kind         UserActionKind `json:"kind"`
	Category     string         `json:"category,omitempty"`
	PostID       string         `json:"post_id,omitempty"`
	CommentID    string         `json:"comment_id,omitempty"`
	TargetUserID string         `json:"target_user_id,omitempty"`
	ReactionType ReactionType   `json:"reaction_type,omitempty"`
}

// UserInput is one inbound user event: either a structured action or a
// free-text/media message interpreted against the user's pending action.
type UserInput struct {
	Kind   UserInputKind `json:"kind"`
	Action *UserAction   `json:"action,omitempty"`

	Text      string    `json:"text,omitempty"`
	MediaType MediaType `json:"media_type,omitempty"`
	MediaRef  *string   `json:"media_ref,omitempty"`
}

func ActionInput(action UserAction) UserInput {
	return UserInput{Kind: InputAction, Action: &action}
}

func TextInput(text string) UserInput {
	return UserInput{Kind: InputMessage, Text: text, MediaType: MediaTypeText}
}

func MediaInput(mediaType MediaType, mediaRef string, caption string) UserInput {
	return UserInput{Kind: InputMessage, Text: caption, MediaType: mediaType, MediaRef: &mediaRef}
}
