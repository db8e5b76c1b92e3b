package usecases

import "context"

// Reload targets passed to the switch reloader.
const (
	ReloadTargetRouting   = "routing"
	ReloadTargetEndpoints = "endpoints"
)

// TransactionManager runs a function inside a database transaction.
type TransactionManager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ClusterLock serializes apply runs across all portal instances.
type ClusterLock interface {
	TryAcquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// ReloadResult reports one reload command's outcome.
type ReloadResult struct {
	Target     string
	Success    bool
	Kind       string
	Diagnostic string
}

// SwitchReloader tells the switch to pick up published configuration.
type SwitchReloader interface {
	Reload(ctx context.Context, target string) ReloadResult
}

// ConfigWriter publishes a configuration file atomically.
type ConfigWriter interface {
	Write(path string, content []byte) error
}

// BackupStore snapshots configuration files and restores them on rollback.
type BackupStore interface {
	Backup(paths []string) (string, error)
	Restore(backupDir string, paths []string) error
}
