package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfigFile drops a config.yaml under <dir>/configs so Load finds it
// via its ./configs search path once the test chdirs into dir.
func writeConfigFile(t *testing.T, dir, content string) {
	t.Helper()
	configDir := filepath.Join(dir, "configs")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(content), 0o644))
}

const sampleConfig = `server:
  host: "127.0.0.1"
  port: 9090
  mode: "debug"

database:
  host: "db.internal"
  port: 3306
  username: "centrex"
  password: "secret"
  database: "centrex"

asterisk:
  ami_host: "pbx.internal"
  ami_port: 5038
  ami_username: "centrex"
  reload_timeout: 15

apply:
  dialplan_path: "/etc/asterisk/extensions_custom.conf"
  endpoint_path: "/etc/asterisk/pjsip_custom.conf"
  backup_dir: "/var/backups/centrex"
  lock_key: 42

telephony:
  default_ext_min: 2000
  default_ext_max: 2999
`

func TestLoad_ReadsConfigFile(t *testing.T) {
	viper.Reset()
	dir := t.TempDir()
	writeConfigFile(t, dir, sampleConfig)
	t.Chdir(dir)

	cfg, err := Load("test")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	// The env parameter overrides the file's mode.
	assert.Equal(t, "test", cfg.Server.Mode)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "centrex", cfg.Database.Database)

	assert.Equal(t, "pbx.internal", cfg.Asterisk.AMIHost)
	assert.Equal(t, 15, cfg.Asterisk.ReloadTimeout)

	assert.Equal(t, int64(42), cfg.Apply.LockKey)
	assert.Equal(t, 2000, cfg.Telephony.DefaultExtMin)
	assert.Equal(t, 2999, cfg.Telephony.DefaultExtMax)

	assert.Same(t, cfg, Get())
}

func TestLoad_DefaultsFillMissingKeys(t *testing.T) {
	viper.Reset()
	dir := t.TempDir()
	writeConfigFile(t, dir, "server:\n  port: 8081\n")
	t.Chdir(dir)

	cfg, err := Load("test")
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "/etc/asterisk/extensions_custom.conf", cfg.Apply.DialplanPath)
	assert.Equal(t, "/var/backups/centrex", cfg.Apply.BackupDir)
	assert.Equal(t, 1000, cfg.Telephony.DefaultExtMin)
}

func TestLoad_MissingFile(t *testing.T) {
	viper.Reset()
	t.Chdir(t.TempDir())

	_, err := Load("test")
	assert.Error(t, err)
}
