package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	dbtx "anonboard/db/tx"
	"anonboard/models"
)

type PostgresPrivateMessagesRepository struct {
	db     *sqlx.DB
	schema string
}

// DBPrivateMessage represents the database schema for the private_messages table
type DBPrivateMessage struct {
	ID         string       `db:"id"`
	SenderID   string       `db:"sender_id"`
	ReceiverID string       `db:"receiver_id"`
	Content    string       `db:"content"`
	IsRead     bool         `db:"is_read"`
	CreatedAt  sql.NullTime `db:"created_at"`
}

// Column names for private_messages table
var privateMessagesColumns = []string{
	"id",
	"sender_id",
	"receiver_id",
	"content",
	"is_read",
	"created_at",
}

func NewPostgresPrivateMessagesRepository(db *sqlx.DB, schema string) *PostgresPrivateMessagesRepository {
	return &PostgresPrivateMessagesRepository{db: db, schema: schema}
}

func dbPrivateMessageToModel(dbMessage *DBPrivateMessage) *models.PrivateMessage {
	return &models.PrivateMessage{
		ID:         dbMessage.ID,
		SenderID:   dbMessage.SenderID,
		ReceiverID: dbMessage.ReceiverID,
		Content:    dbMessage.Content,
		IsRead:     dbMessage.IsRead,
		CreatedAt:  dbMessage.CreatedAt.Time,
	}
}

func (r *PostgresPrivateMessagesRepository) CreateMessage(
	ctx context.Context,
	message *models.PrivateMessage,
) error {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(privateMessagesColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.private_messages (id, sender_id, receiver_id, content, is_read, created_at)
		VALUES ($1, $2, $3, $4, FALSE, NOW())
		RETURNING %s`, r.schema, columnsStr)

	var returned DBPrivateMessage
	err := db.QueryRowxContext(ctx, query, message.ID, message.SenderID, message.ReceiverID, message.Content).
		StructScan(&returned)
	if err != nil {
		return fmt.Errorf("failed to create private message: %w", err)
	}

	*message = *dbPrivateMessageToModel(&returned)
	return nil
}

func (r *PostgresPrivateMessagesRepository) ListInboxPage(
	ctx context.Context,
	receiverID string,
	limit, offset int,
) ([]*models.PrivateMessage, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(privateMessagesColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.private_messages
		WHERE receiver_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, columnsStr, r.schema)

	var dbMessages []DBPrivateMessage
	if err := db.SelectContext(ctx, &dbMessages, query, receiverID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list inbox: %w", err)
	}

	messages := make([]*models.PrivateMessage, 0, len(dbMessages))
	for _, dbMessage := range dbMessages {
		messages = append(messages, dbPrivateMessageToModel(&dbMessage))
	}
	return messages, nil
}

func (r *PostgresPrivateMessagesRepository) CountInbox(ctx context.Context, receiverID string) (int, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s.private_messages WHERE receiver_id = $1`, r.schema)

	var count int
	if err := db.GetContext(ctx, &count, query, receiverID); err != nil {
		return 0, fmt.Errorf("failed to count inbox: %w", err)
	}
	return count, nil
}

func (r *PostgresPrivateMessagesRepository) CountUnread(ctx context.Context, receiverID string) (int, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT COUNT(*) FROM %s.private_messages
		WHERE receiver_id = $1 AND is_read = FALSE`, r.schema)

	var count int
	if err := db.GetContext(ctx, &count, query, receiverID); err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return count, nil
}

func (r *PostgresPrivateMessagesRepository) MarkInboxRead(ctx context.Context, receiverID string) error {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		UPDATE %s.private_messages
		SET is_read = TRUE
		WHERE receiver_id = $1 AND is_read = FALSE`, r.schema)

	if _, err := db.ExecContext(ctx, query, receiverID); err != nil {
		return fmt.Errorf("failed to mark inbox read: %w", err)
	}
	return nil
}

func (r *PostgresPrivateMessagesRepository) CountAll(ctx context.Context) (int, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s.private_messages`, r.schema)

	var count int
	if err := db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("failed to count private messages: %w", err)
	}
	return count, nil
}
