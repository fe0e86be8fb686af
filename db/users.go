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

type PostgresUsersRepository struct {
	db     *sqlx.DB
	schema string
}

// DBUser represents the database schema for the users table. The pending
// action tagged union is flattened into nullable columns.
type DBUser struct {
	ID                   string `db:"id"`
	DisplayName          string `db:"display_name"`
	Sex                  string `db:"sex"`
	NotificationsEnabled bool   `db:"notifications_enabled"`
	PrivacyPublic        bool   `db:"privacy_public"`
	IsAdmin              bool   `db:"is_admin"`

	PendingKind            string  `db:"pending_kind"`
	PendingCategory        *string `db:"pending_category"`
	PendingPostID          *string `db:"pending_post_id"`
	PendingParentCommentID *string `db:"pending_parent_comment_id"`
	PendingTargetUserID    *string `db:"pending_target_user_id"`

	CreatedAt sql.NullTime `db:"created_at"`
	UpdatedAt sql.NullTime `db:"updated_at"`
}

// Column names for users table
var usersColumns = []string{
	"id",
	"display_name",
	"sex",
	"notifications_enabled",
	"privacy_public",
	"is_admin",
	"pending_kind",
	"pending_category",
	"pending_post_id",
	"pending_parent_comment_id",
	"pending_target_user_id",
	"created_at",
	"updated_at",
}

func NewPostgresUsersRepository(db *sqlx.DB, schema string) *PostgresUsersRepository {
	return &PostgresUsersRepository{db: db, schema: schema}
}

// dbUserToModel converts a DBUser to models.User
func dbUserToModel(dbUser *DBUser) (*models.User, error) {
	user := &models.User{
		ID:                   dbUser.ID,
		DisplayName:          dbUser.DisplayName,
		Sex:                  dbUser.Sex,
		NotificationsEnabled: dbUser.NotificationsEnabled,
		PrivacyPublic:        dbUser.PrivacyPublic,
		IsAdmin:              dbUser.IsAdmin,
		CreatedAt:            dbUser.CreatedAt.Time,
		UpdatedAt:            dbUser.UpdatedAt.Time,
	}

	// Populate pending payload based on kind with comprehensive validation
	kind := models.PendingKind(dbUser.PendingKind)
	switch kind {
	case models.PendingNone, models.PendingName:
		user.Pending = models.PendingAction{Kind: kind}
	case models.PendingPost:
		if dbUser.PendingCategory == nil {
			return nil, fmt.Errorf("awaiting_post pending action missing category: user_id=%s", dbUser.ID)
		}
		user.Pending = models.AwaitingPost(*dbUser.PendingCategory)
	case models.PendingComment:
		if dbUser.PendingPostID == nil {
			return nil, fmt.Errorf("awaiting_comment pending action missing post id: user_id=%s", dbUser.ID)
		}
		user.Pending = models.AwaitingComment(*dbUser.PendingPostID, dbUser.PendingParentCommentID)
	case models.PendingPrivateMessage:
		if dbUser.PendingTargetUserID == nil {
			return nil, fmt.Errorf("awaiting_private_message pending action missing target: user_id=%s", dbUser.ID)
		}
		user.Pending = models.AwaitingPrivateMessage(*dbUser.PendingTargetUserID)
	default:
		return nil, fmt.Errorf("unsupported pending kind: %s for user_id=%s", kind, dbUser.ID)
	}

	return user, nil
}

// pendingToColumns flattens a PendingAction into its column values.
func pendingToColumns(action models.PendingAction) (kind string, category, postID, parentID, targetID *string) {
	kind = string(action.Kind)
	if action.Post != nil {
		category = &action.Post.Category
	}
	if action.Comment != nil {
		postID = &action.Comment.PostID
		parentID = action.Comment.ParentCommentID
	}
	if action.PrivateMessage != nil {
		targetID = &action.PrivateMessage.TargetUserID
	}
	return kind, category, postID, parentID, targetID
}

func (r *PostgresUsersRepository) CreateUser(ctx context.Context, user *models.User) error {
	db := dbtx.GetTransactional(ctx, r.db)

	kind, category, postID, parentID, targetID := pendingToColumns(user.Pending)
	columnsStr := strings.Join(usersColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.users (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING %s`, r.schema, columnsStr, columnsStr)

	var returned DBUser
	err := db.QueryRowxContext(ctx, query,
		user.ID, user.DisplayName, user.Sex, user.NotificationsEnabled,
		user.PrivacyPublic, user.IsAdmin, kind, category, postID, parentID, targetID).
		StructScan(&returned)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
			return fmt.Errorf("user %s already exists: %w", user.ID, core.ErrConflict)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	converted, err := dbUserToModel(&returned)
	if err != nil {
		return fmt.Errorf("failed to convert created user: %w", err)
	}
	*user = *converted
	return nil
}

func (r *PostgresUsersRepository) GetUserByID(ctx context.Context, id string) (mo.Option[*models.User], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(usersColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.users
		WHERE id = $1`, columnsStr, r.schema)

	var dbUser DBUser
	err := db.GetContext(ctx, &dbUser, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.User](), nil
		}
		return mo.None[*models.User](), fmt.Errorf("failed to get user: %w", err)
	}

	converted, err := dbUserToModel(&dbUser)
	if err != nil {
		return mo.None[*models.User](), fmt.Errorf("failed to convert user: %w", err)
	}
	return mo.Some(converted), nil
}

func (r *PostgresUsersRepository) GetUserByDisplayName(
	ctx context.Context,
	displayName string,
) (mo.Option[*models.User], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(usersColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.users
		WHERE display_name = $1`, columnsStr, r.schema)

	var dbUser DBUser
	err := db.GetContext(ctx, &dbUser, query, displayName)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.User](), nil
		}
		return mo.None[*models.User](), fmt.Errorf("failed to get user by display name: %w", err)
	}

	converted, err := dbUserToModel(&dbUser)
	if err != nil {
		return mo.None[*models.User](), fmt.Errorf("failed to convert user: %w", err)
	}
	return mo.Some(converted), nil
}

func (r *PostgresUsersRepository) ListUsers(ctx context.Context) ([]*models.User, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(usersColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.users
		ORDER BY id ASC`, columnsStr, r.schema)

	var dbUsers []DBUser
	if err := db.SelectContext(ctx, &dbUsers, query); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]*models.User, 0, len(dbUsers))
	for _, dbUser := range dbUsers {
		converted, err := dbUserToModel(&dbUser)
		if err != nil {
			return nil, fmt.Errorf("failed to convert user: %w", err)
		}
		users = append(users, converted)
	}
	return users, nil
}

func (r *PostgresUsersRepository) CountUsers(ctx context.Context) (int, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s.users`, r.schema)

	var count int
	if err := db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

func (r *PostgresUsersRepository) UpdateDisplayName(ctx context.Context, userID, displayName string) error {
	return r.updateColumn(ctx, userID, "display_name", displayName)
}

func (r *PostgresUsersRepository) UpdateSex(ctx context.Context, userID, sex string) error {
	return r.updateColumn(ctx, userID, "sex", sex)
}

func (r *PostgresUsersRepository) UpdateNotificationsEnabled(ctx context.Context, userID string, enabled bool) error {
	return r.updateColumn(ctx, userID, "notifications_enabled", enabled)
}

func (r *PostgresUsersRepository) UpdatePrivacyPublic(ctx context.Context, userID string, public bool) error {
	return r.updateColumn(ctx, userID, "privacy_public", public)
}

func (r *PostgresUsersRepository) updateColumn(ctx context.Context, userID, column string, value any) error {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		UPDATE %s.users
		SET %s = $2, updated_at = NOW()
		WHERE id = $1`, r.schema, column)

	result, err := db.ExecContext(ctx, query, userID, value)
	if err != nil {
		return fmt.Errorf("failed to update user %s: %w", column, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user not found: %s", userID)
	}
	return nil
}

func (r *PostgresUsersRepository) SetPendingAction(
	ctx context.Context,
	userID string,
	action models.PendingAction,
) error {
	db := dbtx.GetTransactional(ctx, r.db)

	kind, category, postID, parentID, targetID := pendingToColumns(action)
	query := fmt.Sprintf(`
		UPDATE %s.users
		SET pending_kind = $2, pending_category = $3, pending_post_id = $4,
		    pending_parent_comment_id = $5, pending_target_user_id = $6, updated_at = NOW()
		WHERE id = $1`, r.schema)

	result, err := db.ExecContext(ctx, query, userID, kind, category, postID, parentID, targetID)
	if err != nil {
		return fmt.Errorf("failed to set pending action: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user not found: %s", userID)
	}
	return nil
}

func (r *PostgresUsersRepository) CompareAndSwapPendingAction(
	ctx context.Context,
	userID string,
	expected models.PendingKind,
	next models.PendingAction,
) (bool, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	kind, category, postID, parentID, targetID := pendingToColumns(next)
	query := fmt.Sprintf(`
		UPDATE %s.users
		SET pending_kind = $3, pending_category = $4, pending_post_id = $5,
		    pending_parent_comment_id = $6, pending_target_user_id = $7, updated_at = NOW()
		WHERE id = $1 AND pending_kind = $2`, r.schema)

	result, err := db.ExecContext(ctx, query, userID, string(expected), kind, category, postID, parentID, targetID)
	if err != nil {
		return false, fmt.Errorf("failed to compare-and-swap pending action: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}
