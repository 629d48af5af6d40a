package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Noor7086/Obyyo-sub002/internal/storage/models"
)

func TestSessionRepository_Lifecycle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepository(db)
	ctx := t.Context()
	u := createTestUser(t, db, "s@example.com")

	now := time.Now()
	s := &models.Session{Token: "tok", UserID: u.ID, IP: "10.0.0.1", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, repo.Create(ctx, s))

	got, err := repo.Get(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.UserID)
	assert.Equal(t, "10.0.0.1", got.IP)
	assert.False(t, got.Expired(now))
	assert.True(t, got.Expired(now.Add(2*time.Hour)))

	require.NoError(t, repo.Delete(ctx, "tok"))
	_, err = repo.Get(ctx, "tok")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionRepository_DeleteExpired(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepository(db)
	ctx := t.Context()
	u := createTestUser(t, db, "e@example.com")

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, &models.Session{Token: "old", UserID: u.ID, CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour)}))
	require.NoError(t, repo.Create(ctx, &models.Session{Token: "new", UserID: u.ID, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}))

	n, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repo.Get(ctx, "new")
	assert.NoError(t, err)
}

func TestSessionRepository_DeleteForUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepository(db)
	ctx := t.Context()
	u := createTestUser(t, db, "d@example.com")

	now := time.Now()
	for _, tok := range []string{"a", "b"} {
		require.NoError(t, repo.Create(ctx, &models.Session{Token: tok, UserID: u.ID, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}))
	}

	require.NoError(t, repo.DeleteForUser(ctx, u.ID))
	_, err := repo.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
}
