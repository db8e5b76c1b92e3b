package configfile

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// BackupManager snapshots the current configuration files before an
// apply run and restores them verbatim on rollback.
type BackupManager struct {
	backupDir string
	now       func() time.Time
}

func NewBackupManager(backupDir string) *BackupManager {
	return &BackupManager{
		backupDir: backupDir,
		now:       time.Now,
	}
}

// NewBackupManagerWithClock is used by tests that need stable backup
// directory names.
func NewBackupManagerWithClock(backupDir string, now func() time.Time) *BackupManager {
	return &BackupManager{
		backupDir: backupDir,
		now:       now,
	}
}

// Backup copies the given files into a fresh timestamped directory and
// returns its path. Files that do not exist yet are skipped; a first
// apply on a clean host has nothing to back up.
func (m *BackupManager) Backup(paths []string) (string, error) {
	stamp := m.now().UTC().Format("20060102-150405")
	dir := filepath.Join(m.backupDir, stamp)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory %s: %w", dir, err)
	}

	for _, src := range paths {
		content, err := os.ReadFile(src)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return "", fmt.Errorf("failed to read %s for backup: %w", src, err)
		}

		dst := filepath.Join(dir, filepath.Base(src))
		if err := os.WriteFile(dst, content, 0o644); err != nil {
			return "", fmt.Errorf("failed to write backup %s: %w", dst, err)
		}
	}

	return dir, nil
}

// Restore copies every file in backupDir back to its original location.
// paths maps base names to their live destinations; files in the backup
// with no mapping are ignored.
func (m *BackupManager) Restore(backupDir string, paths []string) error {
	targets := make(map[string]string, len(paths))
	for _, p := range paths {
		targets[filepath.Base(p)] = p
	}

	entries, err := os.ReadDir(backupDir)
	if err != nil {
		return fmt.Errorf("failed to read backup directory %s: %w", backupDir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		dst, ok := targets[entry.Name()]
		if !ok {
			continue
		}

		content, err := os.ReadFile(filepath.Join(backupDir, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read backup file %s: %w", entry.Name(), err)
		}

		if err := os.WriteFile(dst, content, 0o644); err != nil {
			return fmt.Errorf("failed to restore %s: %w", dst, err)
		}
	}

	return nil
}
