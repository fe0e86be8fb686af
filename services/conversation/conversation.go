package conversation

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"anonboard/core"
	"anonboard/db"
	"anonboard/models"
)

// ConversationService is the per-user state machine that decides what a
// user's next free-text message means. A user holds exactly one pending
// action; starting a new one overwrites the old (last action wins), and a
// successfully handled message always resets the slot to None.
//
// Post drafts awaiting confirmation live in process memory only and expire
// after models.DraftTTL. Losing a draft on restart is an accepted tradeoff:
// the durable pending slot is already back to None once a draft exists.
type ConversationService struct {
	usersRepo    db.UsersRepository
	postsRepo    db.PostsRepository
	commentsRepo db.CommentsRepository

	draftsMu sync.Mutex
	drafts   map[string]*models.PostDraft
}

func NewConversationService(
	usersRepo db.UsersRepository,
	postsRepo db.PostsRepository,
	commentsRepo db.CommentsRepository,
) *ConversationService {
	return &ConversationService{
		usersRepo:    usersRepo,
		postsRepo:    postsRepo,
		commentsRepo: commentsRepo,
		drafts:       make(map[string]*models.PostDraft),
	}
}

func (s *ConversationService) BeginNameChange(ctx context.Context, userID string) error {
	log.Printf("📋 User %s starts a name change", userID)
	return s.setPending(ctx, userID, models.AwaitingName())
}

func (s *ConversationService) BeginPost(ctx context.Context, userID, category string) error {
	log.Printf("📋 User %s starts a post in category %s", userID, category)

	if !models.IsValidCategory(category) {
		return fmt.Errorf("unknown category %q: %w", category, core.ErrInvalidInput)
	}
	return s.setPending(ctx, userID, models.AwaitingPost(category))
}

func (s *ConversationService) BeginComment(
	ctx context.Context,
	userID, postID string,
	parentCommentID *string,
) error {
	log.Printf("📋 User %s starts a comment on post %s", userID, postID)

	maybePost, err := s.postsRepo.GetPostByID(ctx, postID)
	if err != nil {
		return fmt.Errorf("failed to get post: %w", err)
	}
	if maybePost.IsAbsent() {
		return fmt.Errorf("post %s: %w", postID, core.ErrPostNotFound)
	}

	// The slot only needs the immediate parent; the parent may itself be a
	// reply at any depth.
	if parentCommentID != nil {
		maybeParent, err := s.commentsRepo.GetCommentByID(ctx, *parentCommentID)
		if err != nil {
			return fmt.Errorf("failed to get parent comment: %w", err)
		}
		parent, ok := maybeParent.Get()
		if !ok || parent.PostID != postID {
			return fmt.Errorf("parent %s under post %s: %w", *parentCommentID, postID, core.ErrInvalidParent)
		}
	}

	return s.setPending(ctx, userID, models.AwaitingComment(postID, parentCommentID))
}

func (s *ConversationService) BeginPrivateMessage(ctx context.Context, userID, targetUserID string) error {
	log.Printf("📋 User %s starts a private message to %s", userID, targetUserID)

	maybeTarget, err := s.usersRepo.GetUserByID(ctx, targetUserID)
	if err != nil {
		return fmt.Errorf("failed to get target user: %w", err)
	}
	if maybeTarget.IsAbsent() {
		return fmt.Errorf("user %s: %w", targetUserID, core.ErrUserNotFound)
	}

	return s.setPending(ctx, userID, models.AwaitingPrivateMessage(targetUserID))
}

// Consume atomically takes the pending action and resets the slot to None.
// The compare-and-swap keyed on the current kind makes two racing messages
// from the same user resolve to exactly one winner: the loser sees false and
// handles its message as an ordinary action instead.
func (s *ConversationService) Consume(
	ctx context.Context,
	userID string,
) (models.PendingAction, bool, error) {
	maybeUser, err := s.usersRepo.GetUserByID(ctx, userID)
	if err != nil {
		return models.NoPendingAction(), false, fmt.Errorf("failed to get user: %w", err)
	}
	user, ok := maybeUser.Get()
	if !ok {
		return models.NoPendingAction(), false, fmt.Errorf("user %s: %w", userID, core.ErrUserNotFound)
	}

	if user.Pending.Kind == models.PendingNone {
		return models.NoPendingAction(), false, nil
	}

	swapped, err := s.usersRepo.CompareAndSwapPendingAction(
		ctx,
		userID,
		user.Pending.Kind,
		models.NoPendingAction(),
	)
	if err != nil {
		return models.NoPendingAction(), false, fmt.Errorf("failed to consume pending action: %w", err)
	}
	if !swapped {
		log.Printf("⚠️ Pending action for user %s was consumed by a concurrent event", userID)
		return models.NoPendingAction(), false, nil
	}

	return user.Pending, true, nil
}

func (s *ConversationService) setPending(
	ctx context.Context,
	userID string,
	action models.PendingAction,
) error {
	if userID == "" {
		return fmt.Errorf("user_id cannot be empty: %w", core.ErrInvalidInput)
	}
	if err := s.usersRepo.SetPendingAction(ctx, userID, action); err != nil {
		return fmt.Errorf("failed to set pending action: %w", err)
	}
	return nil
}

// PutDraft stores the post awaiting confirmation, replacing any previous
// draft by the same user.
func (s *ConversationService) PutDraft(userID string, draft *models.PostDraft) {
	s.draftsMu.Lock()
	defer s.draftsMu.Unlock()

	if draft.CreatedAt.IsZero() {
		draft.CreatedAt = time.Now()
	}
	s.drafts[userID] = draft
}

// TakeDraft removes and returns the user's draft. A draft older than
// models.DraftTTL is discarded and reported as expired.
func (s *ConversationService) TakeDraft(userID string) (*models.PostDraft, error) {
	s.draftsMu.Lock()
	defer s.draftsMu.Unlock()

	draft, ok := s.drafts[userID]
	if !ok {
		return nil, fmt.Errorf("no draft for user %s: %w", userID, core.ErrDraftExpired)
	}
	delete(s.drafts, userID)

	if time.Since(draft.CreatedAt) > models.DraftTTL {
		return nil, fmt.Errorf("draft for user %s outlived its confirmation window: %w",
			userID, core.ErrDraftExpired)
	}
	return draft, nil
}

// CancelDraft discards the user's draft, reporting whether one existed.
func (s *ConversationService) CancelDraft(userID string) bool {
	s.draftsMu.Lock()
	defer s.draftsMu.Unlock()

	_, ok := s.drafts[userID]
	delete(s.drafts, userID)
	return ok
}
