package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/samber/mo"

	// necessary import to wire up the postgres driver
	_ "github.com/lib/pq"

	dbtx "anonboard/db/tx"
	"anonboard/models"
)

type PostgresCommentsRepository struct {
	db     *sqlx.DB
	schema string
}

// DBComment represents the database schema for the comments table
type DBComment struct {
	ID              string       `db:"id"`
	PostID          string       `db:"post_id"`
	ParentCommentID *string      `db:"parent_comment_id"`
	AuthorID        string       `db:"author_id"`
	Content         string       `db:"content"`
	MediaType       string       `db:"media_type"`
	MediaRef        *string      `db:"media_ref"`
	CreatedAt       sql.NullTime `db:"created_at"`
}

// Column names for comments table
var commentsColumns = []string{
	"id",
	"post_id",
	"parent_comment_id",
	"author_id",
	"content",
	"media_type",
	"media_ref",
	"created_at",
}

func NewPostgresCommentsRepository(db *sqlx.DB, schema string) *PostgresCommentsRepository {
	return &PostgresCommentsRepository{db: db, schema: schema}
}

func dbCommentToModel(dbComment *DBComment) *models.Comment {
	return &models.Comment{
		ID:              dbComment.ID,
		PostID:          dbComment.PostID,
		ParentCommentID: dbComment.ParentCommentID,
		AuthorID:        dbComment.AuthorID,
		Content:         dbComment.Content,
		MediaType:       models.MediaType(dbComment.MediaType),
		MediaRef:        dbComment.MediaRef,
		CreatedAt:       dbComment.CreatedAt.Time,
	}
}

func (r *PostgresCommentsRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(commentsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.comments (id, post_id, parent_comment_id, author_id, content, media_type, media_ref, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING %s`, r.schema, columnsStr)

	var returned DBComment
	err := db.QueryRowxContext(ctx, query,
		comment.ID, comment.PostID, comment.ParentCommentID, comment.AuthorID,
		comment.Content, string(comment.MediaType), comment.MediaRef).
		StructScan(&returned)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	*comment = *dbCommentToModel(&returned)
	return nil
}

func (r *PostgresCommentsRepository) GetCommentByID(
	ctx context.Context,
	id string,
) (mo.Option[*models.Comment], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(commentsColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.comments
		WHERE id = $1`, columnsStr, r.schema)

	var dbComment DBComment
	err := db.GetContext(ctx, &dbComment, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.Comment](), nil
		}
		return mo.None[*models.Comment](), fmt.Errorf("failed to get comment: %w", err)
	}

	return mo.Some(dbCommentToModel(&dbComment)), nil
}

func (r *PostgresCommentsRepository) ListChildIDs(
	ctx context.Context,
	postID string,
	parentID *string,
) ([]string, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	var query string
	var args []any
	if parentID == nil {
		query = fmt.Sprintf(`
			SELECT id FROM %s.comments
			WHERE post_id = $1 AND parent_comment_id IS NULL
			ORDER BY created_at ASC`, r.schema)
		args = []any{postID}
	} else {
		query = fmt.Sprintf(`
			SELECT id FROM %s.comments
			WHERE post_id = $1 AND parent_comment_id = $2
			ORDER BY created_at ASC`, r.schema)
		args = []any{postID, *parentID}
	}

	var ids []string
	if err := db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list child comment ids: %w", err)
	}
	return ids, nil
}

func (r *PostgresCommentsRepository) ListTopLevelPage(
	ctx context.Context,
	postID string,
	limit, offset int,
) ([]*models.Comment, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(commentsColumns, ", ")

	// Top-level comments read newest first.
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.comments
		WHERE post_id = $1 AND parent_comment_id IS NULL
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, columnsStr, r.schema)

	var dbComments []DBComment
	if err := db.SelectContext(ctx, &dbComments, query, postID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list top-level comments: %w", err)
	}

	comments := make([]*models.Comment, 0, len(dbComments))
	for _, dbComment := range dbComments {
		comments = append(comments, dbCommentToModel(&dbComment))
	}
	return comments, nil
}

func (r *PostgresCommentsRepository) ListRepliesPage(
	ctx context.Context,
	parentID string,
	limit, offset int,
) ([]*models.Comment, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(commentsColumns, ", ")

	// Replies read oldest first, preserving conversational order.
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.comments
		WHERE parent_comment_id = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3`, columnsStr, r.schema)

	var dbComments []DBComment
	if err := db.SelectContext(ctx, &dbComments, query, parentID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list replies: %w", err)
	}

	comments := make([]*models.Comment, 0, len(dbComments))
	for _, dbComment := range dbComments {
		comments = append(comments, dbCommentToModel(&dbComment))
	}
	return comments, nil
}

func (r *PostgresCommentsRepository) CountByAuthor(ctx context.Context, authorID string) (int, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s.comments WHERE author_id = $1`, r.schema)

	var count int
	if err := db.GetContext(ctx, &count, query, authorID); err != nil {
		return 0, fmt.Errorf("failed to count comments by author: %w", err)
	}
	return count, nil
}

func (r *PostgresCommentsRepository) CountByPost(ctx context.Context, postID string) (int, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s.comments WHERE post_id = $1`, r.schema)

	var count int
	if err := db.GetContext(ctx, &count, query, postID); err != nil {
		return 0, fmt.Errorf("failed to count comments by post: %w", err)
	}
	return count, nil
}

func (r *PostgresCommentsRepository) CountAll(ctx context.Context) (int, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s.comments`, r.schema)

	var count int
	if err := db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("failed to count comments: %w", err)
	}
	return count, nil
}
