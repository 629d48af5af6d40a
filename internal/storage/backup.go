package storage

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const backupPrefix = "obyyo_"

// BackupInfo describes one backup file.
type BackupInfo struct {
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
	Checksum  string    `json:"checksum"`
}

// BackupDir returns dir, or a "backups" directory next to the database when dir is empty.
func (db *DB) BackupDir(dir string) string {
	if dir != "" {
		return dir
	}
	return filepath.Join(filepath.Dir(db.path), "backups")
}

// Backup writes a consistent copy of the database into dir with VACUUM INTO
// and verifies it before returning.
func (db *DB) Backup(ctx context.Context, dir string) (BackupInfo, error) {
	dir = db.BackupDir(dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return BackupInfo{}, fmt.Errorf("failed to create backup directory: %w", err)
	}

	now := time.Now().UTC()
	path := filepath.Join(dir, backupPrefix+now.Format("20060102_150405")+".db")
	if _, err := os.Stat(path); err == nil {
		path = filepath.Join(dir, fmt.Sprintf("%s%s_%d.db", backupPrefix, now.Format("20060102_150405"), now.Nanosecond()))
	}

	if _, err := db.conn.ExecContext(ctx, "VACUUM INTO ?", path); err != nil {
		return BackupInfo{}, fmt.Errorf("failed to back up database: %w", err)
	}

	if err := VerifyBackup(path); err != nil {
		_ = os.Remove(path)
		return BackupInfo{}, fmt.Errorf("backup verification failed: %w", err)
	}
	return statBackup(path)
}

// VerifyBackup opens a backup file and checks its integrity and schema.
func VerifyBackup(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("backup file: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open backup: %w", err)
	}
	defer func() { _ = conn.Close() }()

	var result string
	if err := conn.QueryRow("PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("integrity check: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("integrity check failed: %s", result)
	}

	var n int
	if err := conn.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'users'").Scan(&n); err != nil {
		return fmt.Errorf("schema check: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("backup has no users table")
	}
	return nil
}

// ListBackups returns the backups in dir, newest first. A missing dir yields none.
func ListBackups(dir string) ([]BackupInfo, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []BackupInfo
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), backupPrefix) || filepath.Ext(e.Name()) != ".db" {
			continue
		}
		info, err := statBackup(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		backups = append(backups, info)
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

// PruneBackups removes all but the newest keep backups in dir.
func PruneBackups(dir string, keep int) (int, error) {
	backups, err := ListBackups(dir)
	if err != nil {
		return 0, err
	}
	removed := 0
	for i := keep; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return removed, fmt.Errorf("failed to remove backup: %w", err)
		}
		removed++
	}
	return removed, nil
}

// RunBackups takes a backup every interval until ctx is done, keeping the newest keep files.
func (db *DB) RunBackups(ctx context.Context, dir string, interval time.Duration, keep int, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			info, err := db.Backup(ctx, dir)
			if err != nil {
				logger.Error("Scheduled backup failed", "error", err)
				continue
			}
			logger.Info("Database backed up", "path", info.Path, "size", info.Size)
			if keep > 0 {
				if n, err := PruneBackups(db.BackupDir(dir), keep); err != nil {
					logger.Warn("Failed to prune backups", "error", err)
				} else if n > 0 {
					logger.Debug("Pruned old backups", "removed", n)
				}
			}
		}
	}
}

func statBackup(path string) (BackupInfo, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return BackupInfo{}, fmt.Errorf("stat backup: %w", err)
	}
	sum, err := checksum(path)
	if err != nil {
		return BackupInfo{}, err
	}
	return BackupInfo{
		Path:      path,
		Size:      fi.Size(),
		CreatedAt: fi.ModTime().UTC(),
		Checksum:  sum,
	}, nil
}

func checksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open backup: %w", err)
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("checksum backup: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
