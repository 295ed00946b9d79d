package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"messenger-service/internal/membership"
	"messenger-service/internal/middleware"
	"messenger-service/internal/models"
	"messenger-service/internal/repositories"
	"messenger-service/internal/telemetry"
)

// AdminHandler serves the administrative membership surface. All routes are
// mounted behind the owner gate.
type AdminHandler struct {
	memberships repositories.MembershipRepository
	membership  *membership.Service
	groups      repositories.GroupRepository
	users       repositories.UserRepository
	audit       *telemetry.AuditEmitter
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(memberships repositories.MembershipRepository, svc *membership.Service, groups repositories.GroupRepository, users repositories.UserRepository, audit *telemetry.AuditEmitter) *AdminHandler {
	return &AdminHandler{memberships: memberships, membership: svc, groups: groups, users: users, audit: audit}
}

type membershipRequest struct {
	GroupID int `json:"groupId" binding:"required"`
	UserID  int `json:"userId" binding:"required"`
}

// PendingMemberships lists every pending join request.
func (h *AdminHandler) PendingMemberships(c *gin.Context) {
	rows, err := h.memberships.ListPending(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load pending memberships"})
		return
	}
	if rows == nil {
		rows = []models.PendingMembership{}
	}
	c.JSON(http.StatusOK, rows)
}

// ApproveMembership lifts a request to approved. If the user has live
// sessions they join the room immediately.
func (h *AdminHandler) ApproveMembership(c *gin.Context) {
	var req membershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity, _ := middleware.IdentityFromContext(c)
	if err := h.membership.Approve(c.Request.Context(), identity, req.GroupID, req.UserID); err != nil {
		if errors.Is(err, membership.ErrNotOwner) {
			c.JSON(http.StatusForbidden, gin.H{"error": "not owner"})
			return
		}
		h.emitAudit(c, "ERROR", "membership approval failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not approve membership"})
		return
	}

	h.emitAudit(c, "INFO", "membership approved")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RejectMembership deletes a pending request.
func (h *AdminHandler) RejectMembership(c *gin.Context) {
	var req membershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity, _ := middleware.IdentityFromContext(c)
	if err := h.membership.Reject(c.Request.Context(), identity, req.GroupID, req.UserID); err != nil {
		if errors.Is(err, membership.ErrNotOwner) {
			c.JSON(http.StatusForbidden, gin.H{"error": "not owner"})
			return
		}
		h.emitAudit(c, "ERROR", "membership rejection failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not reject membership"})
		return
	}

	h.emitAudit(c, "INFO", "membership rejected")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteGroup removes a group with its messages and memberships.
func (h *AdminHandler) DeleteGroup(c *gin.Context) {
	var req struct {
		GroupID int `json:"groupId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.groups.DeleteGroup(c.Request.Context(), req.GroupID); err != nil {
		if errors.Is(err, repositories.ErrGroupNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
			return
		}
		h.emitAudit(c, "ERROR", "group deletion failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete group"})
		return
	}

	h.emitAudit(c, "INFO", "group deleted")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteUser removes an account with its messages and memberships.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	var req struct {
		UserID int `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.users.DeleteUser(c.Request.Context(), req.UserID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.emitAudit(c, "ERROR", "user deletion failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete user"})
		return
	}

	h.emitAudit(c, "INFO", "user deleted")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AdminHandler) emitAudit(c *gin.Context, level, text string) {
	if h.audit == nil {
		return
	}
	h.audit.Emit(c.Request.Context(), level, text, requestIDFromContext(c), userIDFromContext(c))
}
