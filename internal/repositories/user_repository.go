package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"messenger-service/internal/models"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already exists")
)

// UserRepository abstracts the credential store.
type UserRepository interface {
	CreateUser(ctx context.Context, username string, passwordHash string, role string) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	CountUsers(ctx context.Context) (int, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	DeleteUser(ctx context.Context, userID int) error
}

// UserRepo is a sqlx implementation of UserRepository.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// CreateUser inserts a new account.
func (r *UserRepo) CreateUser(ctx context.Context, username string, passwordHash string, role string) (models.User, error) {
	var user models.User
	err := r.db.QueryRowxContext(ctx, `INSERT INTO users (username, password_hash, role) VALUES ($1, $2, $3) RETURNING id, username, password_hash, role, created_at`, username, passwordHash, role).
		Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Role, &user.CreatedAt)
	if err != nil && isUniqueViolation(err) {
		return models.User{}, ErrUsernameTaken
	}
	return user, err
}

// GetByUsername fetches an account by its unique username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT id, username, password_hash, role, created_at FROM users WHERE username=$1`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// CountUsers returns the number of accounts. The first account registered
// becomes the owner.
func (r *UserRepo) CountUsers(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`)
	return count, err
}

// ListUsers returns all accounts.
func (r *UserRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.SelectContext(ctx, &users, `SELECT id, username, password_hash, role, created_at FROM users ORDER BY id ASC`)
	return users, err
}

// DeleteUser removes an account with its messages and memberships atomically.
func (r *UserRepo) DeleteUser(ctx context.Context, userID int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM messages WHERE sender_id=$1 OR receiver_id=$1`, userID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM group_members WHERE user_id=$1`, userID); err != nil {
		return err
	}
	var deleted int
	if err = tx.QueryRowxContext(ctx, `WITH del AS (DELETE FROM users WHERE id=$1 RETURNING id) SELECT COUNT(*) FROM del`, userID).Scan(&deleted); err != nil {
		return err
	}
	if deleted == 0 {
		err = ErrUserNotFound
		return err
	}
	err = tx.Commit()
	return err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
