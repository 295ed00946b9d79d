package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"messenger-service/internal/models"
	"messenger-service/internal/repositories"
)

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) CreatePrivateMessage(ctx context.Context, senderID int, receiverID int, content string) (models.Message, error) {
	args := m.Called(ctx, senderID, receiverID, content)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) CreateGroupMessage(ctx context.Context, senderID int, groupID int, content string) (models.Message, error) {
	args := m.Called(ctx, senderID, groupID, content)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) PrivateHistory(ctx context.Context, userID int, targetID int, limit int) ([]models.HistoryMessage, error) {
	args := m.Called(ctx, userID, targetID, limit)
	var msgs []models.HistoryMessage
	if val := args.Get(0); val != nil {
		msgs = val.([]models.HistoryMessage)
	}
	return msgs, args.Error(1)
}

func (m *MessageRepositoryMock) GroupHistory(ctx context.Context, groupID int, limit int) ([]models.HistoryMessage, error) {
	args := m.Called(ctx, groupID, limit)
	var msgs []models.HistoryMessage
	if val := args.Get(0); val != nil {
		msgs = val.([]models.HistoryMessage)
	}
	return msgs, args.Error(1)
}

type MembershipRepositoryMock struct {
	mock.Mock
}

func (m *MembershipRepositoryMock) ApprovedGroupIDs(ctx context.Context, userID int) ([]int, error) {
	args := m.Called(ctx, userID)
	var ids []int
	if val := args.Get(0); val != nil {
		ids = val.([]int)
	}
	return ids, args.Error(1)
}

func (m *MembershipRepositoryMock) Upsert(ctx context.Context, groupID int, userID int, status string) error {
	args := m.Called(ctx, groupID, userID, status)
	return args.Error(0)
}

func (m *MembershipRepositoryMock) SetStatus(ctx context.Context, groupID int, userID int, status string) error {
	args := m.Called(ctx, groupID, userID, status)
	return args.Error(0)
}

func (m *MembershipRepositoryMock) Delete(ctx context.Context, groupID int, userID int) error {
	args := m.Called(ctx, groupID, userID)
	return args.Error(0)
}

func (m *MembershipRepositoryMock) ListPending(ctx context.Context) ([]models.PendingMembership, error) {
	args := m.Called(ctx)
	var rows []models.PendingMembership
	if val := args.Get(0); val != nil {
		rows = val.([]models.PendingMembership)
	}
	return rows, args.Error(1)
}

type GroupRepositoryMock struct {
	mock.Mock
}

func (m *GroupRepositoryMock) CreateGroup(ctx context.Context, name string, creatorID int) (models.Group, error) {
	args := m.Called(ctx, name, creatorID)
	var group models.Group
	if val := args.Get(0); val != nil {
		group = val.(models.Group)
	}
	return group, args.Error(1)
}

func (m *GroupRepositoryMock) GetGroup(ctx context.Context, groupID int) (models.Group, error) {
	args := m.Called(ctx, groupID)
	var group models.Group
	if val := args.Get(0); val != nil {
		group = val.(models.Group)
	}
	return group, args.Error(1)
}

func (m *GroupRepositoryMock) ListGroups(ctx context.Context) ([]models.Group, error) {
	args := m.Called(ctx)
	var groups []models.Group
	if val := args.Get(0); val != nil {
		groups = val.([]models.Group)
	}
	return groups, args.Error(1)
}

func (m *GroupRepositoryMock) ListGroupsWithStatus(ctx context.Context, userID int) ([]models.GroupWithStatus, error) {
	args := m.Called(ctx, userID)
	var groups []models.GroupWithStatus
	if val := args.Get(0); val != nil {
		groups = val.([]models.GroupWithStatus)
	}
	return groups, args.Error(1)
}

func (m *GroupRepositoryMock) DeleteGroup(ctx context.Context, groupID int) error {
	args := m.Called(ctx, groupID)
	return args.Error(0)
}

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) CreateUser(ctx context.Context, username string, passwordHash string, role string) (models.User, error) {
	args := m.Called(ctx, username, passwordHash, role)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetByUsername(ctx context.Context, username string) (models.User, error) {
	args := m.Called(ctx, username)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) CountUsers(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *UserRepositoryMock) ListUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	var users []models.User
	if val := args.Get(0); val != nil {
		users = val.([]models.User)
	}
	return users, args.Error(1)
}

func (m *UserRepositoryMock) DeleteUser(ctx context.Context, userID int) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type SubscriberMock struct {
	mock.Mock
}

func (m *SubscriberMock) JoinUserToGroup(groupID int, userID int) {
	m.Called(groupID, userID)
}

var _ repositories.MessageRepository = (*MessageRepositoryMock)(nil)
var _ repositories.MembershipRepository = (*MembershipRepositoryMock)(nil)
var _ repositories.GroupRepository = (*GroupRepositoryMock)(nil)
var _ repositories.UserRepository = (*UserRepositoryMock)(nil)
