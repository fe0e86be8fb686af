package discussion

import (
	"context"
	"errors"
	"fmt"
	"log"

	"anonboard/core"
	"anonboard/models"
	"anonboard/services"
)

// DiscussionUseCase orchestrates the discussion engine: it consults the
// conversation state machine, mutates the comment tree or post lifecycle,
// triggers the mirror refresh and reply notifications, and folds every
// result into a tagged Outcome for the presentation layer.
type DiscussionUseCase struct {
	usersService        services.UsersService
	conversationService services.ConversationService
	threadsService      services.ThreadsService
	mirrorService       services.MirrorService
	postsService        services.PostsService
	privateMsgsService  services.PrivateMessagesService
	notifications       services.NotificationsService
}

func NewDiscussionUseCase(
	usersService services.UsersService,
	conversationService services.ConversationService,
	threadsService services.ThreadsService,
	mirrorService services.MirrorService,
	postsService services.PostsService,
	privateMsgsService services.PrivateMessagesService,
	notifications services.NotificationsService,
) *DiscussionUseCase {
	return &DiscussionUseCase{
		usersService:        usersService,
		conversationService: conversationService,
		threadsService:      threadsService,
		mirrorService:       mirrorService,
		postsService:        postsService,
		privateMsgsService:  privateMsgsService,
		notifications:       notifications,
	}
}

// HandleUserInput processes one inbound user event and returns the outcome
// to render. Validation failures come back as an ERROR outcome with a
// specific code and a nil error; system faults come back as a generic
// "try again" outcome with the underlying error for the caller to log.
func (u *DiscussionUseCase) HandleUserInput(
	ctx context.Context,
	userID string,
	input models.UserInput,
) (*models.Outcome, error) {
	log.Printf("📋 Handling %s input from user %s", input.Kind, userID)

	user, err := u.usersService.GetOrCreateUser(ctx, userID)
	if err != nil {
		return u.outcomeForError(err)
	}

	switch input.Kind {
	case models.InputAction:
		if input.Action == nil {
			return errorOutcome(models.ErrCodeInvalidInput, "action input without an action"), nil
		}
		outcome, err := u.handleAction(ctx, user, *input.Action)
		if err != nil {
			return u.outcomeForError(err)
		}
		return outcome, nil
	case models.InputMessage:
		outcome, err := u.handleMessage(ctx, user, input)
		if err != nil {
			return u.outcomeForError(err)
		}
		return outcome, nil
	default:
		return errorOutcome(models.ErrCodeInvalidInput, fmt.Sprintf("unknown input kind %q", input.Kind)), nil
	}
}

func (u *DiscussionUseCase) handleAction(
	ctx context.Context,
	user *models.User,
	action models.UserAction,
) (*models.Outcome, error) {
	switch action.Kind {
	case models.ActionChooseCategory:
		if err := u.conversationService.BeginPost(ctx, user.ID, action.Category); err != nil {
			return nil, err
		}
		return promptOutcome("Send the text (or photo/voice) for your post."), nil

	case models.ActionWriteComment:
		if err := u.conversationService.BeginComment(ctx, user.ID, action.PostID, nil); err != nil {
			return nil, err
		}
		return promptOutcome("Type your comment."), nil

	case models.ActionReplyToComment:
		maybeParent, err := u.threadsService.GetComment(ctx, action.CommentID)
		if err != nil {
			return nil, err
		}
		parent, ok := maybeParent.Get()
		if !ok {
			return nil, fmt.Errorf("comment %s: %w", action.CommentID, core.ErrCommentNotFound)
		}
		if err := u.conversationService.BeginComment(ctx, user.ID, parent.PostID, &parent.ID); err != nil {
			return nil, err
		}
		return promptOutcome("Type your reply."), nil

	case models.ActionToggleReaction:
		counts, err := u.threadsService.ToggleReaction(ctx, action.CommentID, user.ID, action.ReactionType)
		if err != nil {
			return nil, err
		}
		return &models.Outcome{Kind: models.OutcomeReactionToggled, Reactions: counts}, nil

	case models.ActionRename:
		if err := u.conversationService.BeginNameChange(ctx, user.ID); err != nil {
			return nil, err
		}
		return promptOutcome("Send your new display name."), nil

	case models.ActionMessageUser:
		if err := u.conversationService.BeginPrivateMessage(ctx, user.ID, action.TargetUserID); err != nil {
			return nil, err
		}
		return promptOutcome("Type your private message."), nil

	case models.ActionConfirmPost:
		draft, err := u.conversationService.TakeDraft(user.ID)
		if err != nil {
			return nil, err
		}
		post, err := u.postsService.SubmitPost(ctx, draft)
		if err != nil {
			return nil, err
		}
		return &models.Outcome{Kind: models.OutcomePostSubmitted, Post: post}, nil

	case models.ActionCancelPost:
		u.conversationService.CancelDraft(user.ID)
		return &models.Outcome{Kind: models.OutcomePostCancelled}, nil

	case models.ActionApprovePost:
		post, err := u.postsService.ApprovePost(ctx, action.PostID, user.ID)
		if err != nil {
			return nil, err
		}
		u.refreshMirror(ctx, post.ID)
		return &models.Outcome{Kind: models.OutcomePostPublished, Post: post}, nil

	case models.ActionRejectPost:
		if err := u.postsService.RejectPost(ctx, action.PostID, user.ID); err != nil {
			return nil, err
		}
		return &models.Outcome{Kind: models.OutcomePostRejected}, nil

	default:
		return errorOutcome(models.ErrCodeInvalidInput, fmt.Sprintf("unknown action %q", action.Kind)), nil
	}
}

// handleMessage interprets a free-text/media message against the user's
// pending action. Consuming the slot and acting on it are deliberately
// ordered so that the slot is back to None before any side effect: a second
// message racing in sees None and falls through to the menu instead of
// being silently appended to the thread.
func (u *DiscussionUseCase) handleMessage(
	ctx context.Context,
	user *models.User,
	input models.UserInput,
) (*models.Outcome, error) {
	pending, consumed, err := u.conversationService.Consume(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if !consumed {
		return &models.Outcome{Kind: models.OutcomeMenu}, nil
	}

	switch pending.Kind {
	case models.PendingName:
		if err := u.usersService.UpdateDisplayName(ctx, user.ID, input.Text); err != nil {
			return nil, err
		}
		return &models.Outcome{Kind: models.OutcomeNameUpdated}, nil

	case models.PendingPost:
		draft := &models.PostDraft{
			AuthorID:  user.ID,
			Content:   input.Text,
			Category:  pending.Post.Category,
			MediaType: input.MediaType,
			MediaRef:  input.MediaRef,
		}
		u.conversationService.PutDraft(user.ID, draft)
		return &models.Outcome{
			Kind:   models.OutcomePostDrafted,
			Prompt: "Confirm to submit your post for approval, or cancel.",
		}, nil

	case models.PendingComment:
		return u.attachComment(ctx, user, pending.Comment, input)

	case models.PendingPrivateMessage:
		if input.MediaRef != nil || (input.MediaType != "" && input.MediaType != models.MediaTypeText) {
			return nil, fmt.Errorf("private messages carry text only: %w", core.ErrInvalidInput)
		}
		message, err := u.privateMsgsService.SendMessage(
			ctx,
			user.ID,
			pending.PrivateMessage.TargetUserID,
			input.Text,
		)
		if err != nil {
			return nil, err
		}
		return &models.Outcome{Kind: models.OutcomeMessageSent, Message: message}, nil

	default:
		return &models.Outcome{Kind: models.OutcomeMenu}, nil
	}
}

func (u *DiscussionUseCase) attachComment(
	ctx context.Context,
	user *models.User,
	pending *models.PendingCommentPayload,
	input models.UserInput,
) (*models.Outcome, error) {
	content := models.CommentContent{
		Text:      input.Text,
		MediaType: input.MediaType,
		MediaRef:  input.MediaRef,
	}

	comment, err := u.threadsService.AddComment(
		ctx,
		pending.PostID,
		pending.ParentCommentID,
		user.ID,
		content,
	)
	if err != nil {
		return nil, err
	}

	// The comment is durably committed; mirror and notification failures
	// are logged and never unwind it.
	u.refreshMirror(ctx, comment.PostID)

	if pending.ParentCommentID != nil {
		maybeParent, err := u.threadsService.GetComment(ctx, *pending.ParentCommentID)
		if err != nil {
			log.Printf("⚠️ Failed to load parent comment for notification: %v", err)
		} else if parent, ok := maybeParent.Get(); ok {
			if err := u.notifications.NotifyReply(ctx, parent, comment); err != nil {
				log.Printf("⚠️ Failed to notify reply on comment %s: %v", parent.ID, err)
			}
		}
	}

	return &models.Outcome{Kind: models.OutcomeCommentAdded, Comment: comment}, nil
}

func (u *DiscussionUseCase) refreshMirror(ctx context.Context, postID string) {
	if err := u.mirrorService.Refresh(ctx, postID); err != nil {
		if errors.Is(err, core.ErrMirrorUnavailable) {
			log.Printf("⚠️ Mirror refresh for post %s failed, thread data unaffected: %v", postID, err)
			return
		}
		log.Printf("⚠️ Mirror refresh for post %s errored: %v", postID, err)
	}
}

// outcomeForError folds an error into the outcome taxonomy: validation
// failures get a specific code, everything else collapses to "try again"
// without leaking internals.
func (u *DiscussionUseCase) outcomeForError(err error) (*models.Outcome, error) {
	if code, ok := validationCode(err); ok {
		return errorOutcome(code, err.Error()), nil
	}
	log.Printf("❌ Discussion operation failed: %v", err)
	return errorOutcome(models.ErrCodeTryAgain, "something went wrong, please try again"), err
}

func validationCode(err error) (string, bool) {
	switch {
	case errors.Is(err, core.ErrPostNotFound):
		return models.ErrCodePostNotFound, true
	case errors.Is(err, core.ErrCommentNotFound):
		return models.ErrCodeCommentNotFound, true
	case errors.Is(err, core.ErrUserNotFound):
		return models.ErrCodeUserNotFound, true
	case errors.Is(err, core.ErrInvalidParent):
		return models.ErrCodeInvalidParent, true
	case errors.Is(err, core.ErrBlocked):
		return models.ErrCodeBlocked, true
	case errors.Is(err, core.ErrDraftExpired):
		return models.ErrCodeDraftExpired, true
	case errors.Is(err, core.ErrNotAuthorized):
		return models.ErrCodeNotAuthorized, true
	case errors.Is(err, core.ErrInvalidInput):
		return models.ErrCodeInvalidInput, true
	}
	return "", false
}

func promptOutcome(prompt string) *models.Outcome {
	return &models.Outcome{Kind: models.OutcomePrompt, Prompt: prompt}
}

func errorOutcome(code, message string) *models.Outcome {
	return &models.Outcome{Kind: models.OutcomeError, ErrorCode: code, ErrorMessage: message}
}
