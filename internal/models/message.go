package models

import "time"

// Message is a persisted chat message. Exactly one of ReceiverID and GroupID
// is set; the messages table enforces the exclusivity with a CHECK constraint.
// Messages are immutable once stored.
type Message struct {
	ID         int       `db:"id" json:"id"`
	SenderID   int       `db:"sender_id" json:"sender_id"`
	ReceiverID *int      `db:"receiver_id" json:"receiver_id,omitempty"`
	GroupID    *int      `db:"group_id" json:"group_id,omitempty"`
	Content    string    `db:"content" json:"content"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// HistoryMessage is the read model returned by the history query: the sender
// is resolved to a username.
type HistoryMessage struct {
	ID        int       `db:"id" json:"id"`
	Sender    string    `db:"sender" json:"sender"`
	Content   string    `db:"content" json:"content"`
	Timestamp time.Time `db:"timestamp" json:"timestamp"`
}
