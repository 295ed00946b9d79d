package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"messenger-service/internal/models"
	"messenger-service/internal/repositories"
	"messenger-service/internal/telemetry"
)

// historyLimit caps the rows a single history query returns.
const historyLimit = 50

// ChatHandler serves the companion REST surface of the real-time core.
type ChatHandler struct {
	messages repositories.MessageRepository
	groups   repositories.GroupRepository
	users    repositories.UserRepository
	audit    *telemetry.AuditEmitter
}

// NewChatHandler constructs a ChatHandler.
func NewChatHandler(messages repositories.MessageRepository, groups repositories.GroupRepository, users repositories.UserRepository, audit *telemetry.AuditEmitter) *ChatHandler {
	return &ChatHandler{messages: messages, groups: groups, users: users, audit: audit}
}

// GetMessages returns history for a private or group conversation,
// oldest-first, at most historyLimit rows. The viewer is always the
// authenticated caller, so private history is only readable by a participant.
func (h *ChatHandler) GetMessages(c *gin.Context) {
	targetID, err := strconv.Atoi(c.Query("targetId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid targetId"})
		return
	}
	userID := c.GetInt("userID")

	var msgs []models.HistoryMessage
	switch c.Query("type") {
	case "private":
		msgs, err = h.messages.PrivateHistory(c.Request.Context(), userID, targetID, historyLimit)
	case "group":
		msgs, err = h.messages.GroupHistory(c.Request.Context(), targetID, historyLimit)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid type"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}
	if msgs == nil {
		msgs = []models.HistoryMessage{}
	}

	c.JSON(http.StatusOK, msgs)
}

// MyGroups returns every group with the caller's membership status attached.
func (h *ChatHandler) MyGroups(c *gin.Context) {
	userID := c.GetInt("userID")

	groups, err := h.groups.ListGroupsWithStatus(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load groups"})
		return
	}
	if groups == nil {
		groups = []models.GroupWithStatus{}
	}

	c.JSON(http.StatusOK, groups)
}

// CreateGroup creates a group; the creator lands in it approved.
func (h *ChatHandler) CreateGroup(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt("userID")
	group, err := h.groups.CreateGroup(c.Request.Context(), req.Name, userID)
	if err != nil {
		h.emitAudit(c, "ERROR", "group creation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create group"})
		return
	}

	h.emitAudit(c, "INFO", "group created")
	c.JSON(http.StatusCreated, gin.H{"id": group.ID})
}

// ListGroups returns all groups.
func (h *ChatHandler) ListGroups(c *gin.Context) {
	groups, err := h.groups.ListGroups(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load groups"})
		return
	}
	if groups == nil {
		groups = []models.Group{}
	}
	c.JSON(http.StatusOK, groups)
}

// ListUsers returns the directory used to pick private chat targets.
func (h *ChatHandler) ListUsers(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load users"})
		return
	}

	type userResponse struct {
		ID       int    `json:"id"`
		Username string `json:"username"`
	}
	c.JSON(http.StatusOK, lo.Map(users, func(u models.User, _ int) userResponse {
		return userResponse{ID: u.ID, Username: u.Username}
	}))
}

func (h *ChatHandler) emitAudit(c *gin.Context, level, text string) {
	if h.audit == nil {
		return
	}
	h.audit.Emit(c.Request.Context(), level, text, requestIDFromContext(c), userIDFromContext(c))
}
