package db

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Connect initializes the database connection and runs migrations.
func Connect(dsn string) (*sqlx.DB, error) {
	database, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	if err := runMigrations(database); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return database, nil
}

func runMigrations(database *sqlx.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id SERIAL PRIMARY KEY,
            username TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            role TEXT NOT NULL DEFAULT 'member',
            created_at TIMESTAMPTZ DEFAULT NOW()
        );`,
		`CREATE TABLE IF NOT EXISTS groups (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            created_at TIMESTAMPTZ DEFAULT NOW()
        );`,
		`CREATE TABLE IF NOT EXISTS group_members (
            group_id INT NOT NULL REFERENCES groups(id),
            user_id INT NOT NULL REFERENCES users(id),
            status TEXT NOT NULL DEFAULT 'pending',
            joined_at TIMESTAMPTZ DEFAULT NOW(),
            PRIMARY KEY (group_id, user_id)
        );`,
		`CREATE TABLE IF NOT EXISTS messages (
            id SERIAL PRIMARY KEY,
            sender_id INT NOT NULL REFERENCES users(id),
            receiver_id INT REFERENCES users(id),
            group_id INT REFERENCES groups(id),
            content TEXT NOT NULL,
            created_at TIMESTAMPTZ DEFAULT NOW(),
            CHECK ((receiver_id IS NULL) <> (group_id IS NULL))
        );`,
		`CREATE INDEX IF NOT EXISTS idx_messages_sender ON messages(sender_id);`,
		`CREATE INDEX IF NOT EXISTS idx_messages_receiver ON messages(receiver_id);`,
		`CREATE INDEX IF NOT EXISTS idx_messages_group ON messages(group_id);`,
		`CREATE INDEX IF NOT EXISTS idx_group_members_user ON group_members(user_id);`,
	}

	for _, m := range migrations {
		if _, err := database.Exec(m); err != nil {
			return err
		}
	}
	log.Println("database migrations applied")
	return nil
}
