package membership

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"messenger-service/internal/mocks"
	"messenger-service/internal/models"
)

func member(id int) models.Identity {
	return models.Identity{UserID: id, Username: "member", Role: models.RoleMember}
}

func owner(id int) models.Identity {
	return models.Identity{UserID: id, Username: "owner", Role: models.RoleOwner}
}

func TestRequestOrGrantMemberSelfJoinIsPending(t *testing.T) {
	memberships := new(mocks.MembershipRepositoryMock)
	subscriber := new(mocks.SubscriberMock)
	memberships.On("Upsert", mock.Anything, 7, 3, models.StatusPending).Return(nil)

	svc := NewService(memberships, subscriber)
	status, err := svc.RequestOrGrant(context.Background(), member(3), 7, 3)

	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, status)
	subscriber.AssertNotCalled(t, "JoinUserToGroup", mock.Anything, mock.Anything)
	memberships.AssertExpectations(t)
}

func TestRequestOrGrantOwnerSelfJoinIsApproved(t *testing.T) {
	memberships := new(mocks.MembershipRepositoryMock)
	subscriber := new(mocks.SubscriberMock)
	memberships.On("Upsert", mock.Anything, 7, 1, models.StatusApproved).Return(nil)
	subscriber.On("JoinUserToGroup", 7, 1).Return()

	svc := NewService(memberships, subscriber)
	status, err := svc.RequestOrGrant(context.Background(), owner(1), 7, 1)

	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, status)
	subscriber.AssertExpectations(t)
}

func TestRequestOrGrantGrantByMemberFails(t *testing.T) {
	memberships := new(mocks.MembershipRepositoryMock)
	subscriber := new(mocks.SubscriberMock)

	svc := NewService(memberships, subscriber)
	_, err := svc.RequestOrGrant(context.Background(), member(3), 7, 4)

	assert.ErrorIs(t, err, ErrNotOwner)
	memberships.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestOrGrantGrantByOwnerApprovesAndSubscribes(t *testing.T) {
	memberships := new(mocks.MembershipRepositoryMock)
	subscriber := new(mocks.SubscriberMock)
	memberships.On("Upsert", mock.Anything, 7, 4, models.StatusApproved).Return(nil)
	memberships.On("SetStatus", mock.Anything, 7, 4, models.StatusApproved).Return(nil)
	subscriber.On("JoinUserToGroup", 7, 4).Return()

	svc := NewService(memberships, subscriber)
	status, err := svc.RequestOrGrant(context.Background(), owner(1), 7, 4)

	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, status)
	memberships.AssertExpectations(t)
	subscriber.AssertExpectations(t)
}

func TestRequestOrGrantPropagatesStoreError(t *testing.T) {
	memberships := new(mocks.MembershipRepositoryMock)
	subscriber := new(mocks.SubscriberMock)
	memberships.On("Upsert", mock.Anything, 7, 3, models.StatusPending).Return(errors.New("db down"))

	svc := NewService(memberships, subscriber)
	_, err := svc.RequestOrGrant(context.Background(), member(3), 7, 3)

	assert.Error(t, err)
	subscriber.AssertNotCalled(t, "JoinUserToGroup", mock.Anything, mock.Anything)
}

func TestApproveSelfByMemberFails(t *testing.T) {
	memberships := new(mocks.MembershipRepositoryMock)
	subscriber := new(mocks.SubscriberMock)

	svc := NewService(memberships, subscriber)
	err := svc.Approve(context.Background(), member(3), 7, 3)

	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestApproveByOwnerLiftsPendingRow(t *testing.T) {
	memberships := new(mocks.MembershipRepositoryMock)
	subscriber := new(mocks.SubscriberMock)
	memberships.On("Upsert", mock.Anything, 7, 3, models.StatusApproved).Return(nil)
	memberships.On("SetStatus", mock.Anything, 7, 3, models.StatusApproved).Return(nil)
	subscriber.On("JoinUserToGroup", 7, 3).Return()

	svc := NewService(memberships, subscriber)
	err := svc.Approve(context.Background(), owner(1), 7, 3)

	require.NoError(t, err)
	memberships.AssertExpectations(t)
	subscriber.AssertExpectations(t)
}

func TestRejectByMemberFails(t *testing.T) {
	memberships := new(mocks.MembershipRepositoryMock)
	subscriber := new(mocks.SubscriberMock)

	svc := NewService(memberships, subscriber)
	err := svc.Reject(context.Background(), member(3), 7, 4)

	assert.ErrorIs(t, err, ErrNotOwner)
	memberships.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestRejectByOwnerDeletesPendingRow(t *testing.T) {
	memberships := new(mocks.MembershipRepositoryMock)
	subscriber := new(mocks.SubscriberMock)
	memberships.On("Delete", mock.Anything, 7, 4).Return(nil)

	svc := NewService(memberships, subscriber)
	err := svc.Reject(context.Background(), owner(1), 7, 4)

	require.NoError(t, err)
	memberships.AssertExpectations(t)
}
