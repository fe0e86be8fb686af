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

type PostgresPostsRepository struct {
	db     *sqlx.DB
	schema string
}

// DBPost represents the database schema for the posts table
type DBPost struct {
	ID           string       `db:"id"`
	AuthorID     string       `db:"author_id"`
	Content      string       `db:"content"`
	Category     string       `db:"category"`
	MediaType    string       `db:"media_type"`
	MediaRef     *string      `db:"media_ref"`
	Approved     bool         `db:"approved"`
	ApprovedBy   *string      `db:"approved_by"`
	MirrorChan   *string      `db:"mirror_channel"`
	MirrorRef    *string      `db:"mirror_ref"`
	CommentCount int          `db:"comment_count"`
	CreatedAt    sql.NullTime `db:"created_at"`
	UpdatedAt    sql.NullTime `db:"updated_at"`
}

// Column names for posts table
var postsColumns = []string{
	"id",
	"author_id",
	"content",
	"category",
	"media_type",
	"media_ref",
	"approved",
	"approved_by",
	"mirror_channel",
	"mirror_ref",
	"comment_count",
	"created_at",
	"updated_at",
}

func NewPostgresPostsRepository(db *sqlx.DB, schema string) *PostgresPostsRepository {
	return &PostgresPostsRepository{db: db, schema: schema}
}

func dbPostToModel(dbPost *DBPost) (*models.Post, error) {
	post := &models.Post{
		ID:           dbPost.ID,
		AuthorID:     dbPost.AuthorID,
		Content:      dbPost.Content,
		Category:     dbPost.Category,
		MediaType:    models.MediaType(dbPost.MediaType),
		MediaRef:     dbPost.MediaRef,
		Approved:     dbPost.Approved,
		ApprovedBy:   dbPost.ApprovedBy,
		CommentCount: dbPost.CommentCount,
		CreatedAt:    dbPost.CreatedAt.Time,
		UpdatedAt:    dbPost.UpdatedAt.Time,
	}

	// Both mirror columns are written together; half-set is corruption.
	if (dbPost.MirrorChan == nil) != (dbPost.MirrorRef == nil) {
		return nil, fmt.Errorf("post has partial mirror handle: post_id=%s", dbPost.ID)
	}
	if dbPost.MirrorChan != nil {
		post.Mirror = &models.MirrorHandle{Channel: *dbPost.MirrorChan, Ref: *dbPost.MirrorRef}
	}
	return post, nil
}

func (r *PostgresPostsRepository) CreatePost(ctx context.Context, post *models.Post) error {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(postsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.posts (id, author_id, content, category, media_type, media_ref,
		                      approved, approved_by, mirror_channel, mirror_ref, comment_count,
		                      created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, NULL, NULL, NULL, 0, NOW(), NOW())
		RETURNING %s`, r.schema, columnsStr)

	var returned DBPost
	err := db.QueryRowxContext(ctx, query,
		post.ID, post.AuthorID, post.Content, post.Category, string(post.MediaType), post.MediaRef).
		StructScan(&returned)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	converted, err := dbPostToModel(&returned)
	if err != nil {
		return fmt.Errorf("failed to convert created post: %w", err)
	}
	*post = *converted
	return nil
}

func (r *PostgresPostsRepository) GetPostByID(ctx context.Context, id string) (mo.Option[*models.Post], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(postsColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.posts
		WHERE id = $1`, columnsStr, r.schema)

	var dbPost DBPost
	err := db.GetContext(ctx, &dbPost, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.Post](), nil
		}
		return mo.None[*models.Post](), fmt.Errorf("failed to get post: %w", err)
	}

	converted, err := dbPostToModel(&dbPost)
	if err != nil {
		return mo.None[*models.Post](), fmt.Errorf("failed to convert post: %w", err)
	}
	return mo.Some(converted), nil
}

func (r *PostgresPostsRepository) ListPendingPosts(ctx context.Context, limit int) ([]*models.Post, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(postsColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.posts
		WHERE approved = FALSE
		ORDER BY created_at ASC
		LIMIT $1`, columnsStr, r.schema)

	var dbPosts []DBPost
	if err := db.SelectContext(ctx, &dbPosts, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list pending posts: %w", err)
	}

	posts := make([]*models.Post, 0, len(dbPosts))
	for _, dbPost := range dbPosts {
		converted, err := dbPostToModel(&dbPost)
		if err != nil {
			return nil, fmt.Errorf("failed to convert pending post: %w", err)
		}
		posts = append(posts, converted)
	}
	return posts, nil
}

func (r *PostgresPostsRepository) ApprovePost(ctx context.Context, postID, approverID string) (bool, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		UPDATE %s.posts
		SET approved = TRUE, approved_by = $2, updated_at = NOW()
		WHERE id = $1 AND approved = FALSE`, r.schema)

	result, err := db.ExecContext(ctx, query, postID, approverID)
	if err != nil {
		return false, fmt.Errorf("failed to approve post: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

func (r *PostgresPostsRepository) DeletePost(ctx context.Context, postID string) (bool, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`DELETE FROM %s.posts WHERE id = $1`, r.schema)

	result, err := db.ExecContext(ctx, query, postID)
	if err != nil {
		return false, fmt.Errorf("failed to delete post: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

func (r *PostgresPostsRepository) SetMirrorHandle(
	ctx context.Context,
	postID string,
	handle models.MirrorHandle,
) (bool, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	// The mirror handle is write-once: the guard on NULL makes a second
	// write a no-op instead of an overwrite.
	query := fmt.Sprintf(`
		UPDATE %s.posts
		SET mirror_channel = $2, mirror_ref = $3, updated_at = NOW()
		WHERE id = $1 AND mirror_channel IS NULL`, r.schema)

	result, err := db.ExecContext(ctx, query, postID, handle.Channel, handle.Ref)
	if err != nil {
		return false, fmt.Errorf("failed to set mirror handle: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

func (r *PostgresPostsRepository) UpdateCommentCount(ctx context.Context, postID string, count int) error {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		UPDATE %s.posts
		SET comment_count = $2, updated_at = NOW()
		WHERE id = $1`, r.schema)

	if _, err := db.ExecContext(ctx, query, postID, count); err != nil {
		return fmt.Errorf("failed to update comment count: %w", err)
	}
	return nil
}

func (r *PostgresPostsRepository) CountApprovedByAuthor(ctx context.Context, authorID string) (int, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT COUNT(*) FROM %s.posts
		WHERE author_id = $1 AND approved = TRUE`, r.schema)

	var count int
	if err := db.GetContext(ctx, &count, query, authorID); err != nil {
		return 0, fmt.Errorf("failed to count approved posts by author: %w", err)
	}
	return count, nil
}

func (r *PostgresPostsRepository) CountApproved(ctx context.Context) (int, error) {
	return r.countWhere(ctx, "approved = TRUE")
}

func (r *PostgresPostsRepository) CountPending(ctx context.Context) (int, error) {
	return r.countWhere(ctx, "approved = FALSE")
}

func (r *PostgresPostsRepository) countWhere(ctx context.Context, where string) (int, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s.posts WHERE %s`, r.schema, where)

	var count int
	if err := db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return count, nil
}
