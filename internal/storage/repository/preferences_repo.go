package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// PreferencesRepository stores per-user JSON preferences.
type PreferencesRepository interface {
	// Get returns the raw JSON value, or ErrNotFound.
	Get(ctx context.Context, userID, key string) (string, error)

	// GetTyped unmarshals a preference into target.
	GetTyped(ctx context.Context, userID, key string, target interface{}) error

	// Set stores a value, JSON-encoding it first.
	Set(ctx context.Context, userID, key string, value interface{}) error

	// GetAll returns every preference of a user, decoded.
	GetAll(ctx context.Context, userID string) (map[string]interface{}, error)

	// SetMany stores several preferences in one transaction.
	SetMany(ctx context.Context, userID string, values map[string]interface{}) error

	Delete(ctx context.Context, userID, key string) error
}

type preferencesRepository struct {
	db *sql.DB
}

// NewPreferencesRepository creates a new preferences repository.
func NewPreferencesRepository(db *sql.DB) PreferencesRepository {
	return &preferencesRepository{db: db}
}

const upsertPreference = `
	INSERT INTO preferences (user_id, key, value, updated_at) VALUES (?, ?, ?, ?)
	ON CONFLICT(user_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
`

func (r *preferencesRepository) Get(ctx context.Context, userID, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM preferences WHERE user_id = ? AND key = ?`, userID, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("preference %s: %w", key, ErrNotFound)
		}
		return "", fmt.Errorf("failed to get preference %s: %w", key, err)
	}
	return value, nil
}

func (r *preferencesRepository) GetTyped(ctx context.Context, userID, key string, target interface{}) error {
	value, err := r.Get(ctx, userID, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(value), target); err != nil {
		return fmt.Errorf("failed to unmarshal preference %s: %w", key, err)
	}
	return nil
}

func (r *preferencesRepository) Set(ctx context.Context, userID, key string, value interface{}) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal preference %s: %w", key, err)
	}
	if _, err := r.db.ExecContext(ctx, upsertPreference, userID, key, string(jsonValue), dbTime(time.Now())); err != nil {
		return fmt.Errorf("failed to set preference %s: %w", key, err)
	}
	return nil
}

func (r *preferencesRepository) GetAll(ctx context.Context, userID string) (map[string]interface{}, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM preferences WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query preferences: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	prefs := make(map[string]interface{})
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan preference: %w", err)
		}
		var parsed interface{}
		if err := json.Unmarshal([]byte(value), &parsed); err != nil {
			prefs[key] = value
		} else {
			prefs[key] = parsed
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating preferences: %w", err)
	}
	return prefs, nil
}

func (r *preferencesRepository) SetMany(ctx context.Context, userID string, values map[string]interface{}) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // no-op after Commit
	}()

	stmt, err := tx.PrepareContext(ctx, upsertPreference)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	now := dbTime(time.Now())
	for key, value := range values {
		jsonValue, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to marshal preference %s: %w", key, err)
		}
		if _, err := stmt.ExecContext(ctx, userID, key, string(jsonValue), now); err != nil {
			return fmt.Errorf("failed to set preference %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *preferencesRepository) Delete(ctx context.Context, userID, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM preferences WHERE user_id = ? AND key = ?`, userID, key); err != nil {
		return fmt.Errorf("failed to delete preference %s: %w", key, err)
	}
	return nil
}
