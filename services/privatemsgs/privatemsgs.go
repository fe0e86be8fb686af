package privatemsgs

import (
	"context"
	"fmt"
	"log"
	"strings"

	"anonboard/core"
	"anonboard/db"
	"anonboard/models"
	"anonboard/services"
)

// PrivateMessagesService owns direct user-to-user mail. A block by the
// receiver suppresses delivery entirely; notification of delivered mail is
// delegated to the notifications service.
type PrivateMessagesService struct {
	usersRepo     db.UsersRepository
	socialRepo    db.SocialRepository
	messagesRepo  db.PrivateMessagesRepository
	notifications services.NotificationsService
}

func NewPrivateMessagesService(
	usersRepo db.UsersRepository,
	socialRepo db.SocialRepository,
	messagesRepo db.PrivateMessagesRepository,
	notifications services.NotificationsService,
) *PrivateMessagesService {
	return &PrivateMessagesService{
		usersRepo:     usersRepo,
		socialRepo:    socialRepo,
		messagesRepo:  messagesRepo,
		notifications: notifications,
	}
}

func (s *PrivateMessagesService) SendMessage(
	ctx context.Context,
	senderID, receiverID, content string,
) (*models.PrivateMessage, error) {
	log.Printf("📋 User %s sends a private message to %s", senderID, receiverID)

	if senderID == "" || receiverID == "" {
		return nil, fmt.Errorf("sender and receiver ids cannot be empty: %w", core.ErrInvalidInput)
	}
	if senderID == receiverID {
		return nil, fmt.Errorf("cannot message yourself: %w", core.ErrInvalidInput)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("message content cannot be empty: %w", core.ErrInvalidInput)
	}

	maybeReceiver, err := s.usersRepo.GetUserByID(ctx, receiverID)
	if err != nil {
		return nil, fmt.Errorf("failed to get receiver: %w", err)
	}
	if maybeReceiver.IsAbsent() {
		return nil, fmt.Errorf("user %s: %w", receiverID, core.ErrUserNotFound)
	}

	blocked, err := s.socialRepo.IsBlocked(ctx, receiverID, senderID)
	if err != nil {
		return nil, fmt.Errorf("failed to check block: %w", err)
	}
	if blocked {
		return nil, fmt.Errorf("user %s blocked %s: %w", receiverID, senderID, core.ErrBlocked)
	}

	message := &models.PrivateMessage{
		ID:         core.NewID("pm"),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	}
	if err := s.messagesRepo.CreateMessage(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to store private message: %w", err)
	}

	if err := s.notifications.NotifyPrivateMessage(ctx, message); err != nil {
		log.Printf("⚠️ Failed to notify user %s of a new private message: %v", receiverID, err)
	}

	log.Printf("✅ Delivered private message %s", message.ID)
	return message, nil
}

// ListInbox returns the receiver's messages newest first and marks the whole
// inbox read, mirroring how the inbox surface consumes it.
func (s *PrivateMessagesService) ListInbox(
	ctx context.Context,
	receiverID string,
	page, pageSize int,
) ([]*models.PrivateMessage, error) {
	if receiverID == "" {
		return nil, fmt.Errorf("receiver id cannot be empty: %w", core.ErrInvalidInput)
	}
	if page < 1 || pageSize < 1 {
		return nil, fmt.Errorf("page and page size must be positive: %w", core.ErrInvalidInput)
	}

	messages, err := s.messagesRepo.ListInboxPage(ctx, receiverID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list inbox: %w", err)
	}
	if err := s.messagesRepo.MarkInboxRead(ctx, receiverID); err != nil {
		return nil, fmt.Errorf("failed to mark inbox read: %w", err)
	}
	return messages, nil
}

func (s *PrivateMessagesService) CountUnread(ctx context.Context, receiverID string) (int, error) {
	if receiverID == "" {
		return 0, fmt.Errorf("receiver id cannot be empty: %w", core.ErrInvalidInput)
	}
	return s.messagesRepo.CountUnread(ctx, receiverID)
}
