package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Noor7086/Obyyo-sub002/internal/storage/models"
)

// SessionRepository provides access to login sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error

	// Get returns ErrNotFound for unknown tokens. Expiry is not checked.
	Get(ctx context.Context, token string) (*models.Session, error)

	Delete(ctx context.Context, token string) error
	DeleteForUser(ctx context.Context, userID string) error

	// DeleteExpired removes sessions that expired at or before now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type sessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(db *sql.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, s *models.Session) error {
	s.CreatedAt = dbTime(s.CreatedAt)
	s.ExpiresAt = dbTime(s.ExpiresAt)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (token, user_id, ip, user_agent, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, s.Token, s.UserID, s.IP, s.UserAgent, s.CreatedAt, s.ExpiresAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("session: %w", ErrDuplicate)
		}
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *sessionRepository) Get(ctx context.Context, token string) (*models.Session, error) {
	var s models.Session
	err := r.db.QueryRowContext(ctx, `
		SELECT token, user_id, ip, user_agent, created_at, expires_at
		FROM sessions WHERE token = ?
	`, token).Scan(&s.Token, &s.UserID, &s.IP, &s.UserAgent, &s.CreatedAt, &s.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("session: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &s, nil
}

func (r *sessionRepository) Delete(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *sessionRepository) DeleteForUser(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to delete sessions for user %s: %w", userID, err)
	}
	return nil
}

func (r *sessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, dbTime(now))
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count expired sessions: %w", err)
	}
	return n, nil
}
