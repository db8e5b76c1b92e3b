package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Enabled  bool   `mapstructure:"enabled"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// AsteriskConfig holds the AMI connection settings for the switch reload client.
type AsteriskConfig struct {
	AMIHost       string `mapstructure:"ami_host"`
	AMIPort       int    `mapstructure:"ami_port"`
	AMIUsername   string `mapstructure:"ami_username"`
	AMISecret     string `mapstructure:"ami_secret"`
	ReloadTimeout int    `mapstructure:"reload_timeout"` // seconds
}

func (a *AsteriskConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", a.AMIHost, a.AMIPort)
}

func (a *AsteriskConfig) GetReloadTimeout() time.Duration {
	if a.ReloadTimeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(a.ReloadTimeout) * time.Second
}

// ApplyConfig holds the file targets and lock settings for the apply engine.
type ApplyConfig struct {
	DialplanPath string `mapstructure:"dialplan_path"`
	EndpointPath string `mapstructure:"endpoint_path"`
	BackupDir    string `mapstructure:"backup_dir"`
	LockKey      int64  `mapstructure:"lock_key"`
}

// TelephonyConfig holds tenant defaults for extension pool provisioning.
type TelephonyConfig struct {
	DefaultExtMin int `mapstructure:"default_ext_min"`
	DefaultExtMax int `mapstructure:"default_ext_max"`
}
