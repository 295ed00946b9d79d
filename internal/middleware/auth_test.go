package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"messenger-service/internal/auth"
	"messenger-service/internal/models"
)

func newProtectedRouter(verifier *auth.Verifier, ownerOnly bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handlers := []gin.HandlerFunc{AuthMiddleware(verifier)}
	if ownerOnly {
		handlers = append(handlers, RequireOwner())
	}
	handlers = append(handlers, func(c *gin.Context) {
		identity, _ := IdentityFromContext(c)
		c.JSON(http.StatusOK, gin.H{"userId": identity.UserID})
	})
	router.GET("/protected", handlers...)
	return router
}

func getWithAuth(router *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	verifier := auth.NewVerifier("test-secret", time.Hour)
	token, err := verifier.Sign(models.User{ID: 1, Username: "alice", Role: models.RoleMember})
	require.NoError(t, err)

	rec := getWithAuth(newProtectedRouter(verifier, false), "Bearer "+token)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"userId":1`)
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	verifier := auth.NewVerifier("test-secret", time.Hour)

	rec := getWithAuth(newProtectedRouter(verifier, false), "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	verifier := auth.NewVerifier("test-secret", time.Hour)

	rec := getWithAuth(newProtectedRouter(verifier, false), "Token abc")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareRejectsForgedToken(t *testing.T) {
	verifier := auth.NewVerifier("test-secret", time.Hour)
	forged, err := auth.NewVerifier("other-secret", time.Hour).Sign(models.User{ID: 1, Username: "alice"})
	require.NoError(t, err)

	rec := getWithAuth(newProtectedRouter(verifier, false), "Bearer "+forged)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireOwnerBlocksMembers(t *testing.T) {
	verifier := auth.NewVerifier("test-secret", time.Hour)
	token, err := verifier.Sign(models.User{ID: 2, Username: "bob", Role: models.RoleMember})
	require.NoError(t, err)

	rec := getWithAuth(newProtectedRouter(verifier, true), "Bearer "+token)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireOwnerAdmitsOwners(t *testing.T) {
	verifier := auth.NewVerifier("test-secret", time.Hour)
	token, err := verifier.Sign(models.User{ID: 1, Username: "root", Role: models.RoleOwner})
	require.NoError(t, err)

	rec := getWithAuth(newProtectedRouter(verifier, true), "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
}
