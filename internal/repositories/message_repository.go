package repositories

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"

	"messenger-service/internal/models"
)

var ErrMessageNotFound = errors.New("message not found")

// MessageRepository defines interactions with the durable message store.
// History queries return oldest-first, capped at the given limit.
type MessageRepository interface {
	CreatePrivateMessage(ctx context.Context, senderID int, receiverID int, content string) (models.Message, error)
	CreateGroupMessage(ctx context.Context, senderID int, groupID int, content string) (models.Message, error)
	PrivateHistory(ctx context.Context, userID int, targetID int, limit int) ([]models.HistoryMessage, error)
	GroupHistory(ctx context.Context, groupID int, limit int) ([]models.HistoryMessage, error)
}

// MessageRepo is a sqlx-backed implementation.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// CreatePrivateMessage stores a direct message; group_id stays NULL.
func (r *MessageRepo) CreatePrivateMessage(ctx context.Context, senderID int, receiverID int, content string) (models.Message, error) {
	var msg models.Message
	err := r.db.QueryRowxContext(ctx, `INSERT INTO messages (sender_id, receiver_id, content) VALUES ($1, $2, $3) RETURNING id, sender_id, receiver_id, group_id, content, created_at`, senderID, receiverID, content).
		Scan(&msg.ID, &msg.SenderID, &msg.ReceiverID, &msg.GroupID, &msg.Content, &msg.CreatedAt)
	return msg, err
}

// CreateGroupMessage stores a room message; receiver_id stays NULL.
func (r *MessageRepo) CreateGroupMessage(ctx context.Context, senderID int, groupID int, content string) (models.Message, error) {
	var msg models.Message
	err := r.db.QueryRowxContext(ctx, `INSERT INTO messages (sender_id, group_id, content) VALUES ($1, $2, $3) RETURNING id, sender_id, receiver_id, group_id, content, created_at`, senderID, groupID, content).
		Scan(&msg.ID, &msg.SenderID, &msg.ReceiverID, &msg.GroupID, &msg.Content, &msg.CreatedAt)
	return msg, err
}

// PrivateHistory returns the most recent messages between two users in either
// direction, oldest-first.
func (r *MessageRepo) PrivateHistory(ctx context.Context, userID int, targetID int, limit int) ([]models.HistoryMessage, error) {
	query := `SELECT m.id, u.username AS sender, m.content, m.created_at AS timestamp
        FROM messages m
        JOIN users u ON u.id = m.sender_id
        WHERE ((m.sender_id = $1 AND m.receiver_id = $2) OR (m.sender_id = $2 AND m.receiver_id = $1))
        AND m.group_id IS NULL
        ORDER BY m.created_at DESC
        LIMIT $3`
	var msgs []models.HistoryMessage
	if err := r.db.SelectContext(ctx, &msgs, query, userID, targetID, limit); err != nil {
		return nil, err
	}
	return lo.Reverse(msgs), nil
}

// GroupHistory returns the most recent messages of a group, oldest-first.
func (r *MessageRepo) GroupHistory(ctx context.Context, groupID int, limit int) ([]models.HistoryMessage, error) {
	query := `SELECT m.id, u.username AS sender, m.content, m.created_at AS timestamp
        FROM messages m
        JOIN users u ON u.id = m.sender_id
        WHERE m.group_id = $1
        ORDER BY m.created_at DESC
        LIMIT $2`
	var msgs []models.HistoryMessage
	if err := r.db.SelectContext(ctx, &msgs, query, groupID, limit); err != nil {
		return nil, err
	}
	return lo.Reverse(msgs), nil
}
