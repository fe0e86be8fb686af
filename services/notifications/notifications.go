package notifications

import (
	"context"
	"fmt"
	"log"

	"anonboard/clients"
	"anonboard/core"
	"anonboard/db"
	"anonboard/models"
	"anonboard/utils"
)

// previewLength bounds how much of a comment or message body is quoted in a
// notification.
const previewLength = 80

// NotificationsService decides whether a user wants to hear about an event
// and delivers the direct message when the answer is yes. Delivery is
// best-effort; callers log failures and move on.
type NotificationsService struct {
	usersRepo  db.UsersRepository
	socialRepo db.SocialRepository
	messenger  clients.Messenger
}

func NewNotificationsService(
	usersRepo db.UsersRepository,
	socialRepo db.SocialRepository,
	messenger clients.Messenger,
) *NotificationsService {
	return &NotificationsService{
		usersRepo:  usersRepo,
		socialRepo: socialRepo,
		messenger:  messenger,
	}
}

// ShouldNotify applies the notification policy: the target must exist, have
// notifications enabled, not be the actor, and must not have blocked the
// actor.
func (s *NotificationsService) ShouldNotify(ctx context.Context, targetUserID, actorUserID string) (bool, error) {
	if targetUserID == "" {
		return false, fmt.Errorf("target user id cannot be empty: %w", core.ErrInvalidInput)
	}
	if targetUserID == actorUserID {
		return false, nil
	}

	maybeTarget, err := s.usersRepo.GetUserByID(ctx, targetUserID)
	if err != nil {
		return false, fmt.Errorf("failed to get target user: %w", err)
	}
	target, ok := maybeTarget.Get()
	if !ok || !target.NotificationsEnabled {
		return false, nil
	}

	if actorUserID != "" {
		blocked, err := s.socialRepo.IsBlocked(ctx, targetUserID, actorUserID)
		if err != nil {
			return false, fmt.Errorf("failed to check block: %w", err)
		}
		if blocked {
			return false, nil
		}
	}
	return true, nil
}

// NotifyReply tells the parent comment's author that a reply landed under
// their comment.
func (s *NotificationsService) NotifyReply(ctx context.Context, parent, reply *models.Comment) error {
	notify, err := s.ShouldNotify(ctx, parent.AuthorID, reply.AuthorID)
	if err != nil {
		return err
	}
	if !notify {
		return nil
	}

	text := fmt.Sprintf("💬 Someone replied to your comment: %s", utils.TruncatePreview(reply.Content, previewLength))
	if err := s.messenger.SendDirectMessage(ctx, parent.AuthorID, text); err != nil {
		return fmt.Errorf("failed to deliver reply notification: %w", err)
	}

	log.Printf("✅ Notified user %s of a reply on comment %s", parent.AuthorID, parent.ID)
	return nil
}

// NotifyPrivateMessage tells the receiver that new mail arrived. The block
// check already gated delivery, but the policy is applied again so a
// preference flip between store and notify is honored.
func (s *NotificationsService) NotifyPrivateMessage(ctx context.Context, message *models.PrivateMessage) error {
	notify, err := s.ShouldNotify(ctx, message.ReceiverID, message.SenderID)
	if err != nil {
		return err
	}
	if !notify {
		return nil
	}

	text := fmt.Sprintf("📨 New private message: %s", utils.TruncatePreview(message.Content, previewLength))
	if err := s.messenger.SendDirectMessage(ctx, message.ReceiverID, text); err != nil {
		return fmt.Errorf("failed to deliver message notification: %w", err)
	}
	return nil
}

// NotifyNewPendingPost alerts the moderation account that a post is waiting
// for review. Moderation alerts bypass the notification preference.
func (s *NotificationsService) NotifyNewPendingPost(
	ctx context.Context,
	post *models.Post,
	adminUserID string,
) error {
	if adminUserID == "" {
		return fmt.Errorf("admin user id cannot be empty: %w", core.ErrInvalidInput)
	}

	text := fmt.Sprintf(
		"🆕 New post in %s awaiting approval: %s",
		post.Category,
		utils.TruncatePreview(post.Content, previewLength),
	)
	if err := s.messenger.SendDirectMessage(ctx, adminUserID, text); err != nil {
		return fmt.Errorf("failed to deliver pending-post notification: %w", err)
	}

	log.Printf("✅ Notified moderator %s of pending post %s", adminUserID, post.ID)
	return nil
}

// NotifyPostRejected tells the author their post was turned down. Moderation
// outcomes ignore the notification preference - the author always finds out.
func (s *NotificationsService) NotifyPostRejected(ctx context.Context, post *models.Post) error {
	text := fmt.Sprintf("❌ Your post was not approved: %s", utils.TruncatePreview(post.Content, previewLength))
	if err := s.messenger.SendDirectMessage(ctx, post.AuthorID, text); err != nil {
		return fmt.Errorf("failed to deliver rejection notification: %w", err)
	}
	return nil
}
