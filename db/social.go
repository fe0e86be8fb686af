package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	dbtx "anonboard/db/tx"
)

// PostgresSocialRepository stores the follow and block graphs. Both tables
// are plain pair tables with a composite primary key; re-inserting an
// existing pair is treated as a no-op.
type PostgresSocialRepository struct {
	db     *sqlx.DB
	schema string
}

func NewPostgresSocialRepository(db *sqlx.DB, schema string) *PostgresSocialRepository {
	return &PostgresSocialRepository{db: db, schema: schema}
}

func (r *PostgresSocialRepository) CreateFollow(ctx context.Context, followerID, followedID string) error {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		INSERT INTO %s.follows (follower_id, followed_id)
		VALUES ($1, $2)
		ON CONFLICT (follower_id, followed_id) DO NOTHING`, r.schema)

	if _, err := db.ExecContext(ctx, query, followerID, followedID); err != nil {
		return fmt.Errorf("failed to create follow: %w", err)
	}
	return nil
}

func (r *PostgresSocialRepository) DeleteFollow(ctx context.Context, followerID, followedID string) (bool, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		DELETE FROM %s.follows
		WHERE follower_id = $1 AND followed_id = $2`, r.schema)

	result, err := db.ExecContext(ctx, query, followerID, followedID)
	if err != nil {
		return false, fmt.Errorf("failed to delete follow: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

func (r *PostgresSocialRepository) IsFollowing(ctx context.Context, followerID, followedID string) (bool, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1 FROM %s.follows
			WHERE follower_id = $1 AND followed_id = $2
		)`, r.schema)

	var exists bool
	if err := db.GetContext(ctx, &exists, query, followerID, followedID); err != nil {
		return false, fmt.Errorf("failed to check follow: %w", err)
	}
	return exists, nil
}

func (r *PostgresSocialRepository) CountFollowers(ctx context.Context, userID string) (int, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s.follows WHERE followed_id = $1`, r.schema)

	var count int
	if err := db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("failed to count followers: %w", err)
	}
	return count, nil
}

func (r *PostgresSocialRepository) CreateBlock(ctx context.Context, blockerID, blockedID string) error {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		INSERT INTO %s.blocks (blocker_id, blocked_id)
		VALUES ($1, $2)`, r.schema)

	if _, err := db.ExecContext(ctx, query, blockerID, blockedID); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
			return nil // already blocked
		}
		return fmt.Errorf("failed to create block: %w", err)
	}
	return nil
}

func (r *PostgresSocialRepository) IsBlocked(ctx context.Context, blockerID, blockedID string) (bool, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1 FROM %s.blocks
			WHERE blocker_id = $1 AND blocked_id = $2
		)`, r.schema)

	var exists bool
	if err := db.GetContext(ctx, &exists, query, blockerID, blockedID); err != nil {
		return false, fmt.Errorf("failed to check block: %w", err)
	}
	return exists, nil
}
