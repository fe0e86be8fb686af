package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/samber/mo"

	"anonboard/core"
	dbtx "anonboard/db/tx"
	"anonboard/models"
)

type PostgresReactionsRepository struct {
	db     *sqlx.DB
	schema string
}

// DBReaction represents the database schema for the reactions table. The
// table carries UNIQUE (comment_id, user_id); that constraint, not an
// application-level check, is what enforces the one-row-per-pair invariant
// under concurrency.
type DBReaction struct {
	CommentID string       `db:"comment_id"`
	UserID    string       `db:"user_id"`
	Type      string       `db:"type"`
	CreatedAt sql.NullTime `db:"created_at"`
}

// Column names for reactions table
var reactionsColumns = []string{
	"comment_id",
	"user_id",
	"type",
	"created_at",
}

// Postgres error code for unique_violation
const pqUniqueViolation = "23505"

func NewPostgresReactionsRepository(db *sqlx.DB, schema string) *PostgresReactionsRepository {
	return &PostgresReactionsRepository{db: db, schema: schema}
}

func dbReactionToModel(dbReaction *DBReaction) *models.Reaction {
	return &models.Reaction{
		CommentID: dbReaction.CommentID,
		UserID:    dbReaction.UserID,
		Type:      models.ReactionType(dbReaction.Type),
		CreatedAt: dbReaction.CreatedAt.Time,
	}
}

func (r *PostgresReactionsRepository) GetReaction(
	ctx context.Context,
	commentID, userID string,
) (mo.Option[*models.Reaction], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(reactionsColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.reactions
		WHERE comment_id = $1 AND user_id = $2`, columnsStr, r.schema)

	var dbReaction DBReaction
	err := db.GetContext(ctx, &dbReaction, query, commentID, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.Reaction](), nil
		}
		return mo.None[*models.Reaction](), fmt.Errorf("failed to get reaction: %w", err)
	}

	return mo.Some(dbReactionToModel(&dbReaction)), nil
}

func (r *PostgresReactionsRepository) DeleteReaction(
	ctx context.Context,
	commentID, userID string,
) (bool, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		DELETE FROM %s.reactions
		WHERE comment_id = $1 AND user_id = $2`, r.schema)

	result, err := db.ExecContext(ctx, query, commentID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete reaction: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

func (r *PostgresReactionsRepository) InsertReaction(ctx context.Context, reaction *models.Reaction) error {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(reactionsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.reactions (comment_id, user_id, type, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING %s`, r.schema, columnsStr)

	var returned DBReaction
	err := db.QueryRowxContext(ctx, query, reaction.CommentID, reaction.UserID, string(reaction.Type)).
		StructScan(&returned)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
			return fmt.Errorf("reaction already exists for comment %s by user %s: %w",
				reaction.CommentID, reaction.UserID, core.ErrConflict)
		}
		return fmt.Errorf("failed to insert reaction: %w", err)
	}

	*reaction = *dbReactionToModel(&returned)
	return nil
}

func (r *PostgresReactionsRepository) GetReactionCounts(
	ctx context.Context,
	commentID string,
) (*models.ReactionCounts, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT
			COUNT(*) FILTER (WHERE type = 'like')    AS likes,
			COUNT(*) FILTER (WHERE type = 'dislike') AS dislikes
		FROM %s.reactions
		WHERE comment_id = $1`, r.schema)

	var counts models.ReactionCounts
	if err := db.GetContext(ctx, &counts, query, commentID); err != nil {
		return nil, fmt.Errorf("failed to get reaction counts: %w", err)
	}
	return &counts, nil
}
