package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"messenger-service/internal/membership"
	"messenger-service/internal/mocks"
	"messenger-service/internal/models"
	"messenger-service/internal/repositories"
)

type adminFixture struct {
	router      *gin.Engine
	memberships *mocks.MembershipRepositoryMock
	subscriber  *mocks.SubscriberMock
	groups      *mocks.GroupRepositoryMock
	users       *mocks.UserRepositoryMock
}

func newAdminFixture(identity models.Identity) adminFixture {
	gin.SetMode(gin.TestMode)
	memberships := new(mocks.MembershipRepositoryMock)
	subscriber := new(mocks.SubscriberMock)
	groups := new(mocks.GroupRepositoryMock)
	users := new(mocks.UserRepositoryMock)
	handler := NewAdminHandler(memberships, membership.NewService(memberships, subscriber), groups, users, nil)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("identity", identity)
		c.Set("userID", identity.UserID)
	})
	router.GET("/admin/pending-memberships", handler.PendingMemberships)
	router.POST("/admin/approve-membership", handler.ApproveMembership)
	router.POST("/admin/reject-membership", handler.RejectMembership)
	router.POST("/admin/delete-group", handler.DeleteGroup)
	router.POST("/admin/delete-user", handler.DeleteUser)

	return adminFixture{router: router, memberships: memberships, subscriber: subscriber, groups: groups, users: users}
}

func ownerIdentity() models.Identity {
	return models.Identity{UserID: 1, Username: "root", Role: models.RoleOwner}
}

func TestPendingMemberships(t *testing.T) {
	fx := newAdminFixture(ownerIdentity())
	fx.memberships.On("ListPending", mock.Anything).Return([]models.PendingMembership{
		{GroupID: 7, GroupName: "general", UserID: 3, Username: "bob"},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/admin/pending-memberships", nil)
	rec := httptest.NewRecorder()
	fx.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "bob")
}

func TestApproveMembershipSubscribesLiveSessions(t *testing.T) {
	fx := newAdminFixture(ownerIdentity())
	fx.memberships.On("Upsert", mock.Anything, 7, 3, models.StatusApproved).Return(nil)
	fx.memberships.On("SetStatus", mock.Anything, 7, 3, models.StatusApproved).Return(nil)
	fx.subscriber.On("JoinUserToGroup", 7, 3).Return()

	rec := postJSON(fx.router, "/admin/approve-membership", gin.H{"groupId": 7, "userId": 3})

	require.Equal(t, http.StatusOK, rec.Code)
	fx.memberships.AssertExpectations(t)
	fx.subscriber.AssertExpectations(t)
}

func TestApproveMembershipByMemberForbidden(t *testing.T) {
	fx := newAdminFixture(models.Identity{UserID: 2, Username: "bob", Role: models.RoleMember})

	rec := postJSON(fx.router, "/admin/approve-membership", gin.H{"groupId": 7, "userId": 3})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	fx.memberships.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestApproveMembershipMissingFields(t *testing.T) {
	fx := newAdminFixture(ownerIdentity())

	rec := postJSON(fx.router, "/admin/approve-membership", gin.H{"groupId": 7})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRejectMembership(t *testing.T) {
	fx := newAdminFixture(ownerIdentity())
	fx.memberships.On("Delete", mock.Anything, 7, 3).Return(nil)

	rec := postJSON(fx.router, "/admin/reject-membership", gin.H{"groupId": 7, "userId": 3})

	require.Equal(t, http.StatusOK, rec.Code)
	fx.memberships.AssertExpectations(t)
}

func TestDeleteGroup(t *testing.T) {
	fx := newAdminFixture(ownerIdentity())
	fx.groups.On("DeleteGroup", mock.Anything, 7).Return(nil)

	rec := postJSON(fx.router, "/admin/delete-group", gin.H{"groupId": 7})

	require.Equal(t, http.StatusOK, rec.Code)
	fx.groups.AssertExpectations(t)
}

func TestDeleteGroupNotFound(t *testing.T) {
	fx := newAdminFixture(ownerIdentity())
	fx.groups.On("DeleteGroup", mock.Anything, 99).Return(repositories.ErrGroupNotFound)

	rec := postJSON(fx.router, "/admin/delete-group", gin.H{"groupId": 99})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteUser(t *testing.T) {
	fx := newAdminFixture(ownerIdentity())
	fx.users.On("DeleteUser", mock.Anything, 3).Return(nil)

	rec := postJSON(fx.router, "/admin/delete-user", gin.H{"userId": 3})

	require.Equal(t, http.StatusOK, rec.Code)
	fx.users.AssertExpectations(t)
}

func TestDeleteUserNotFound(t *testing.T) {
	fx := newAdminFixture(ownerIdentity())
	fx.users.On("DeleteUser", mock.Anything, 99).Return(repositories.ErrUserNotFound)

	rec := postJSON(fx.router, "/admin/delete-user", gin.H{"userId": 99})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
