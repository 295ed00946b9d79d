package membership

import (
	"context"
	"errors"

	"messenger-service/internal/models"
	"messenger-service/internal/repositories"
)

// ErrNotOwner is returned when a non-privileged actor attempts an approval,
// rejection, or a grant on behalf of another user.
var ErrNotOwner = errors.New("membership: actor is not an owner")

// Subscriber is the live-session side effect of an approval: every open
// session of the user joins the group's room immediately. Satisfied by
// ws.Hub.
type Subscriber interface {
	JoinUserToGroup(groupID int, userID int)
}

// Service is the membership state machine. States are absent, pending and
// approved; the only transitions are absent→pending (member join request),
// absent→approved (owner join or grant), pending→approved (approval) and
// pending→absent (rejection). Approved rows never regress.
type Service struct {
	memberships repositories.MembershipRepository
	subscriber  Subscriber
}

// NewService constructs a Service.
func NewService(memberships repositories.MembershipRepository, subscriber Subscriber) *Service {
	return &Service{memberships: memberships, subscriber: subscriber}
}

// RequestOrGrant is the single entry point for getting a user into a group.
// When actor and target are the same user, it is a join: owners land directly
// in approved, members in pending. When they differ, it is a grant and the
// actor must be an owner. Repeat calls are idempotent; an existing row is
// never downgraded.
func (s *Service) RequestOrGrant(ctx context.Context, actor models.Identity, groupID int, targetUserID int) (string, error) {
	if actor.UserID == targetUserID {
		status := models.StatusPending
		if actor.IsOwner() {
			status = models.StatusApproved
		}
		if err := s.memberships.Upsert(ctx, groupID, targetUserID, status); err != nil {
			return "", err
		}
		if status == models.StatusApproved {
			s.subscriber.JoinUserToGroup(groupID, targetUserID)
		}
		return status, nil
	}

	if !actor.IsOwner() {
		return "", ErrNotOwner
	}
	// Upsert covers a grant with no prior request; SetStatus lifts a pending
	// row. Together they land on approved regardless of the starting state.
	if err := s.memberships.Upsert(ctx, groupID, targetUserID, models.StatusApproved); err != nil {
		return "", err
	}
	if err := s.memberships.SetStatus(ctx, groupID, targetUserID, models.StatusApproved); err != nil {
		return "", err
	}
	s.subscriber.JoinUserToGroup(groupID, targetUserID)
	return models.StatusApproved, nil
}

// Approve transitions a pending request to approved. Owner only.
func (s *Service) Approve(ctx context.Context, actor models.Identity, groupID int, userID int) error {
	if actor.UserID == userID && !actor.IsOwner() {
		return ErrNotOwner
	}
	_, err := s.RequestOrGrant(ctx, actor, groupID, userID)
	return err
}

// Reject deletes a pending request. Owner only; approved rows are untouched.
func (s *Service) Reject(ctx context.Context, actor models.Identity, groupID int, userID int) error {
	if !actor.IsOwner() {
		return ErrNotOwner
	}
	return s.memberships.Delete(ctx, groupID, userID)
}
