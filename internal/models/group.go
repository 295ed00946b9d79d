package models

import "time"

// Membership statuses. There is no other state: a rejected request is deleted,
// not archived.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
)

// Group represents a chat group. Groups are never implicitly deleted.
type Group struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// GroupWithStatus is a group joined with the caller's membership status.
// Status is nil when the caller is neither a member nor a requester.
type GroupWithStatus struct {
	ID     int     `db:"id" json:"id"`
	Name   string  `db:"name" json:"name"`
	Status *string `db:"status" json:"status"`
}

// Membership is a group_members row. At most one row exists per
// (group, user) pair.
type Membership struct {
	GroupID  int       `db:"group_id" json:"group_id"`
	UserID   int       `db:"user_id" json:"user_id"`
	Status   string    `db:"status" json:"status"`
	JoinedAt time.Time `db:"joined_at" json:"joined_at"`
}

// PendingMembership is a pending row joined with display names for the
// admin review list.
type PendingMembership struct {
	GroupID   int    `db:"group_id" json:"group_id"`
	UserID    int    `db:"user_id" json:"user_id"`
	GroupName string `db:"group_name" json:"group_name"`
	Username  string `db:"username" json:"username"`
}
