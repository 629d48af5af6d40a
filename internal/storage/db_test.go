package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig("test.db")

	assert.Equal(t, "test.db", config.Path)
	assert.Equal(t, 10, config.MaxOpenConns)
	assert.Equal(t, 5*time.Second, config.BusyTimeout)
	assert.Equal(t, "WAL", config.JournalMode)
	assert.False(t, config.AutoMigrate)
}

func TestConfig_DSN(t *testing.T) {
	dsn := DefaultConfig("/data/obyyo.db").dsn()
	assert.Equal(t, "/data/obyyo.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)", dsn)

	mem := DefaultConfig(MemoryPath).dsn()
	assert.NotContains(t, mem, "journal_mode")
}

func TestOpen_Memory(t *testing.T) {
	config := DefaultConfig(MemoryPath)
	config.AutoMigrate = true
	db, err := Open(config)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Ping())

	var n int
	require.NoError(t, db.Conn().QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n))
	assert.Zero(t, n)
}

func TestOpen_NilConfig(t *testing.T) {
	_, err := Open(nil)
	assert.Error(t, err)
}

func TestOpen_FileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "obyyo.db")
	config := DefaultConfig(path)
	config.AutoMigrate = true

	db, err := Open(config)
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, path, db.Path())

	// Migrating twice is a no-op.
	require.NoError(t, db.Migrate())
}

func TestStore_Repositories(t *testing.T) {
	config := DefaultConfig(MemoryPath)
	config.AutoMigrate = true
	db, err := Open(config)
	require.NoError(t, err)

	store := NewStore(db)
	defer store.Close()

	n, err := store.Users.Count(t.Context())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Same(t, db, store.DB())
}
