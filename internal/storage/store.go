package storage

import (
	"github.com/Noor7086/Obyyo-sub002/internal/storage/repository"
)

// Store groups the repositories backed by one database.
type Store struct {
	db          *DB
	Users       repository.UserRepository
	Sessions    repository.SessionRepository
	Preferences repository.PreferencesRepository
}

// NewStore creates the repositories over db.
func NewStore(db *DB) *Store {
	return &Store{
		db:          db,
		Users:       repository.NewUserRepository(db.Conn()),
		Sessions:    repository.NewSessionRepository(db.Conn()),
		Preferences: repository.NewPreferencesRepository(db.Conn()),
	}
}

// DB returns the underlying database.
func (s *Store) DB() *DB {
	return s.db
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
