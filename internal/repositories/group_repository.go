package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"messenger-service/internal/models"
)

var ErrGroupNotFound = errors.New("group not found")

// GroupRepository abstracts group persistence.
type GroupRepository interface {
	CreateGroup(ctx context.Context, name string, creatorID int) (models.Group, error)
	GetGroup(ctx context.Context, groupID int) (models.Group, error)
	ListGroups(ctx context.Context) ([]models.Group, error)
	ListGroupsWithStatus(ctx context.Context, userID int) ([]models.GroupWithStatus, error)
	DeleteGroup(ctx context.Context, groupID int) error
}

// GroupRepo is a sqlx implementation of GroupRepository.
type GroupRepo struct {
	db *sqlx.DB
}

// NewGroupRepo constructs a GroupRepo.
func NewGroupRepo(db *sqlx.DB) *GroupRepo {
	return &GroupRepo{db: db}
}

// CreateGroup creates a group and inserts the creator as an approved member
// in the same transaction.
func (r *GroupRepo) CreateGroup(ctx context.Context, name string, creatorID int) (models.Group, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Group{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var group models.Group
	if err = tx.QueryRowxContext(ctx, `INSERT INTO groups (name) VALUES ($1) RETURNING id, name, created_at`, name).
		Scan(&group.ID, &group.Name, &group.CreatedAt); err != nil {
		return models.Group{}, err
	}

	if _, err = tx.ExecContext(ctx, `INSERT INTO group_members (group_id, user_id, status) VALUES ($1, $2, $3)`, group.ID, creatorID, models.StatusApproved); err != nil {
		return models.Group{}, err
	}

	if err = tx.Commit(); err != nil {
		return models.Group{}, err
	}
	return group, nil
}

// GetGroup fetches a single group.
func (r *GroupRepo) GetGroup(ctx context.Context, groupID int) (models.Group, error) {
	var group models.Group
	err := r.db.GetContext(ctx, &group, `SELECT id, name, created_at FROM groups WHERE id=$1`, groupID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Group{}, ErrGroupNotFound
	}
	return group, err
}

// ListGroups returns every group.
func (r *GroupRepo) ListGroups(ctx context.Context) ([]models.Group, error) {
	var groups []models.Group
	err := r.db.SelectContext(ctx, &groups, `SELECT id, name, created_at FROM groups ORDER BY created_at ASC`)
	return groups, err
}

// ListGroupsWithStatus returns every group with the caller's membership
// status attached; status is NULL for groups the user has no relation to.
func (r *GroupRepo) ListGroupsWithStatus(ctx context.Context, userID int) ([]models.GroupWithStatus, error) {
	query := `SELECT g.id, g.name, gm.status
        FROM groups g
        LEFT JOIN group_members gm ON gm.group_id = g.id AND gm.user_id = $1
        ORDER BY g.created_at ASC`
	var groups []models.GroupWithStatus
	err := r.db.SelectContext(ctx, &groups, query, userID)
	return groups, err
}

// DeleteGroup removes a group with its messages and memberships atomically.
func (r *GroupRepo) DeleteGroup(ctx context.Context, groupID int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM messages WHERE group_id=$1`, groupID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM group_members WHERE group_id=$1`, groupID); err != nil {
		return err
	}
	var deleted int
	if err = tx.QueryRowxContext(ctx, `WITH del AS (DELETE FROM groups WHERE id=$1 RETURNING id) SELECT COUNT(*) FROM del`, groupID).Scan(&deleted); err != nil {
		return err
	}
	if deleted == 0 {
		err = ErrGroupNotFound
		return err
	}
	err = tx.Commit()
	return err
}
