package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"anonboard/models"
)

type PrivateMessagesRepository struct {
	store *Store
}

func (r *PrivateMessagesRepository) CreateMessage(ctx context.Context, message *models.PrivateMessage) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.privateMessages[message.ID]; exists {
		return fmt.Errorf("private message already exists: %s", message.ID)
	}

	message.CreatedAt = time.Now().UTC()
	message.IsRead = false
	clone := *message
	r.store.privateMessages[message.ID] = &clone
	r.store.nextSeq(message.ID)
	return nil
}

func (r *PrivateMessagesRepository) ListInboxPage(
	ctx context.Context,
	receiverID string,
	limit, offset int,
) ([]*models.PrivateMessage, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var inbox []*models.PrivateMessage
	for _, message := range r.store.privateMessages {
		if message.ReceiverID == receiverID {
			clone := *message
			inbox = append(inbox, &clone)
		}
	}
	// newest first
	sort.Slice(inbox, func(i, j int) bool {
		return r.store.seqByID[inbox[i].ID] > r.store.seqByID[inbox[j].ID]
	})

	if offset >= len(inbox) {
		return nil, nil
	}
	inbox = inbox[offset:]
	if limit > 0 && len(inbox) > limit {
		inbox = inbox[:limit]
	}
	return inbox, nil
}

func (r *PrivateMessagesRepository) CountInbox(ctx context.Context, receiverID string) (int, error) {
	return r.countWhere(func(message *models.PrivateMessage) bool {
		return message.ReceiverID == receiverID
	})
}

func (r *PrivateMessagesRepository) CountUnread(ctx context.Context, receiverID string) (int, error) {
	return r.countWhere(func(message *models.PrivateMessage) bool {
		return message.ReceiverID == receiverID && !message.IsRead
	})
}

func (r *PrivateMessagesRepository) MarkInboxRead(ctx context.Context, receiverID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, message := range r.store.privateMessages {
		if message.ReceiverID == receiverID {
			message.IsRead = true
		}
	}
	return nil
}

func (r *PrivateMessagesRepository) CountAll(ctx context.Context) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return len(r.store.privateMessages), nil
}

func (r *PrivateMessagesRepository) countWhere(match func(*models.PrivateMessage) bool) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	count := 0
	for _, message := range r.store.privateMessages {
		if match(message) {
			count++
		}
	}
	return count, nil
}
