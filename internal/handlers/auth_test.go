package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"messenger-service/internal/auth"
	"messenger-service/internal/mocks"
	"messenger-service/internal/models"
	"messenger-service/internal/repositories"
)

func newAuthRouter(users *mocks.UserRepositoryMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewAuthHandler(users, auth.NewVerifier("test-secret", time.Hour), nil)
	router := gin.New()
	router.POST("/auth/register", handler.Register)
	router.POST("/auth/login", handler.Login)
	return router
}

func postJSON(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRegisterFirstUserBecomesOwner(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	users.On("CountUsers", mock.Anything).Return(0, nil)
	users.On("CreateUser", mock.Anything, "alice", mock.AnythingOfType("string"), models.RoleOwner).
		Return(models.User{ID: 1, Username: "alice", Role: models.RoleOwner}, nil)

	rec := postJSON(newAuthRouter(users), "/auth/register", gin.H{"username": "alice", "password": "secret"})

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp struct {
		Token string `json:"token"`
		User  struct {
			Role string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, models.RoleOwner, resp.User.Role)
	users.AssertExpectations(t)
}

func TestRegisterLaterUserIsMember(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	users.On("CountUsers", mock.Anything).Return(3, nil)
	users.On("CreateUser", mock.Anything, "bob", mock.AnythingOfType("string"), models.RoleMember).
		Return(models.User{ID: 4, Username: "bob", Role: models.RoleMember}, nil)

	rec := postJSON(newAuthRouter(users), "/auth/register", gin.H{"username": "bob", "password": "secret"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	users.AssertExpectations(t)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	users.On("CountUsers", mock.Anything).Return(1, nil)
	users.On("CreateUser", mock.Anything, "alice", mock.AnythingOfType("string"), models.RoleMember).
		Return(nil, repositories.ErrUsernameTaken)

	rec := postJSON(newAuthRouter(users), "/auth/register", gin.H{"username": "alice", "password": "secret"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "username already exists")
}

func TestRegisterMissingFields(t *testing.T) {
	rec := postJSON(newAuthRouter(new(mocks.UserRepositoryMock)), "/auth/register", gin.H{"username": "alice"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginSuccess(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)

	users := new(mocks.UserRepositoryMock)
	users.On("GetByUsername", mock.Anything, "alice").
		Return(models.User{ID: 1, Username: "alice", PasswordHash: string(hash), Role: models.RoleMember}, nil)

	rec := postJSON(newAuthRouter(users), "/auth/login", gin.H{"username": "alice", "password": "secret"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "token")
}

func TestLoginWrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)

	users := new(mocks.UserRepositoryMock)
	users.On("GetByUsername", mock.Anything, "alice").
		Return(models.User{ID: 1, Username: "alice", PasswordHash: string(hash)}, nil)

	rec := postJSON(newAuthRouter(users), "/auth/login", gin.H{"username": "alice", "password": "wrong"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid credentials")
}

func TestLoginUnknownUser(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	users.On("GetByUsername", mock.Anything, "ghost").Return(nil, repositories.ErrUserNotFound)

	rec := postJSON(newAuthRouter(users), "/auth/login", gin.H{"username": "ghost", "password": "secret"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
