package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"messenger-service/internal/models"
)

// MembershipRepository abstracts the group_members table.
type MembershipRepository interface {
	ApprovedGroupIDs(ctx context.Context, userID int) ([]int, error)
	Upsert(ctx context.Context, groupID int, userID int, status string) error
	SetStatus(ctx context.Context, groupID int, userID int, status string) error
	Delete(ctx context.Context, groupID int, userID int) error
	ListPending(ctx context.Context) ([]models.PendingMembership, error)
}

// MembershipRepo is a sqlx implementation of MembershipRepository.
type MembershipRepo struct {
	db *sqlx.DB
}

// NewMembershipRepo constructs a MembershipRepo.
func NewMembershipRepo(db *sqlx.DB) *MembershipRepo {
	return &MembershipRepo{db: db}
}

// ApprovedGroupIDs returns the ids of every group the user is approved in.
func (r *MembershipRepo) ApprovedGroupIDs(ctx context.Context, userID int) ([]int, error) {
	var ids []int
	err := r.db.SelectContext(ctx, &ids, `SELECT group_id FROM group_members WHERE user_id=$1 AND status=$2`, userID, models.StatusApproved)
	return ids, err
}

// Upsert inserts a membership row, leaving any existing row untouched. A
// repeated join request must neither duplicate the row nor regress an
// approved membership to pending.
func (r *MembershipRepo) Upsert(ctx context.Context, groupID int, userID int, status string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO group_members (group_id, user_id, status) VALUES ($1, $2, $3)
        ON CONFLICT (group_id, user_id) DO NOTHING`, groupID, userID, status)
	return err
}

// SetStatus updates an existing membership row.
func (r *MembershipRepo) SetStatus(ctx context.Context, groupID int, userID int, status string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE group_members SET status=$1 WHERE group_id=$2 AND user_id=$3`, status, groupID, userID)
	return err
}

// Delete removes a pending membership row. Approved rows are only removed by
// the administrative cascade deletes in the group and user repositories.
func (r *MembershipRepo) Delete(ctx context.Context, groupID int, userID int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM group_members WHERE group_id=$1 AND user_id=$2 AND status=$3`, groupID, userID, models.StatusPending)
	return err
}

// ListPending returns all pending requests with display names.
func (r *MembershipRepo) ListPending(ctx context.Context) ([]models.PendingMembership, error) {
	query := `SELECT gm.group_id, gm.user_id, g.name AS group_name, u.username
        FROM group_members gm
        JOIN groups g ON g.id = gm.group_id
        JOIN users u ON u.id = gm.user_id
        WHERE gm.status = $1
        ORDER BY gm.joined_at ASC`
	var rows []models.PendingMembership
	err := r.db.SelectContext(ctx, &rows, query, models.StatusPending)
	return rows, err
}
