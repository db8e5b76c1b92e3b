package configfile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomicWriter_Write(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "extensions_custom.conf")

	w := NewAtomicWriter()
	err := w.Write(target, []byte("[outbound]\n"))
	require.NoError(t, err)

	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "[outbound]\n", string(content))
}

func TestAtomicWriter_Write_ReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "extensions_custom.conf")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0o644))

	w := NewAtomicWriter()
	err := w.Write(target, []byte("new"))
	require.NoError(t, err)

	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "new", string(content))
}

func TestAtomicWriter_Write_RejectsRelativePath(t *testing.T) {
	w := NewAtomicWriter()
	err := w.Write("extensions_custom.conf", []byte("x"))
	assert.Error(t, err)
}

func TestAtomicWriter_Write_FailureLeavesTargetUntouched(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "missing", "extensions_custom.conf")

	w := NewAtomicWriter()
	err := w.Write(target, []byte("new"))
	require.Error(t, err)

	_, statErr := os.Stat(target)
	assert.True(t, os.IsNotExist(statErr))
}

func TestAtomicWriter_Write_NoTempFileLeftBehind(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "extensions_custom.conf")

	w := NewAtomicWriter()
	require.NoError(t, w.Write(target, []byte("content")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "extensions_custom.conf", entries[0].Name())
}

func TestBackupManager_BackupAndRestore(t *testing.T) {
	liveDir := t.TempDir()
	backupRoot := t.TempDir()

	dialplan := filepath.Join(liveDir, "extensions_custom.conf")
	endpoints := filepath.Join(liveDir, "pjsip_custom.conf")
	require.NoError(t, os.WriteFile(dialplan, []byte("dialplan v1"), 0o644))
	require.NoError(t, os.WriteFile(endpoints, []byte("endpoints v1"), 0o644))

	clock := func() time.Time {
		return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	}
	m := NewBackupManagerWithClock(backupRoot, clock)

	backupDir, err := m.Backup([]string{dialplan, endpoints})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(backupRoot, "20260829-120000"), backupDir)

	// Simulate a bad apply overwriting the live files.
	require.NoError(t, os.WriteFile(dialplan, []byte("dialplan v2 broken"), 0o644))
	require.NoError(t, os.WriteFile(endpoints, []byte("endpoints v2 broken"), 0o644))

	err = m.Restore(backupDir, []string{dialplan, endpoints})
	require.NoError(t, err)

	content, err := os.ReadFile(dialplan)
	require.NoError(t, err)
	assert.Equal(t, "dialplan v1", string(content))

	content, err = os.ReadFile(endpoints)
	require.NoError(t, err)
	assert.Equal(t, "endpoints v1", string(content))
}

func TestBackupManager_Backup_SkipsMissingFiles(t *testing.T) {
	liveDir := t.TempDir()
	backupRoot := t.TempDir()

	dialplan := filepath.Join(liveDir, "extensions_custom.conf")
	require.NoError(t, os.WriteFile(dialplan, []byte("dialplan v1"), 0o644))
	missing := filepath.Join(liveDir, "pjsip_custom.conf")

	m := NewBackupManager(backupRoot)
	backupDir, err := m.Backup([]string{dialplan, missing})
	require.NoError(t, err)

	entries, err := os.ReadDir(backupDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "extensions_custom.conf", entries[0].Name())
}
