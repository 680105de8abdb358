package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
	DriverInMemory = "inmemory"
)

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Transfer TransferConfig `mapstructure:"transfer"`
	Upcoming UpcomingConfig `mapstructure:"upcoming"`
}

// DatabaseConfig carries the connection parameters {host, user, password, database}
// plus the driver selector. Path is only read by the sqlite driver.
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	Path     string `mapstructure:"path"`
}

type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	Level       string `mapstructure:"level"`
}

type TransferConfig struct {
	File string `mapstructure:"file"`
}

type UpcomingConfig struct {
	Days int `mapstructure:"days"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 0)
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "task_manager_db")
	v.SetDefault("database.path", "tasks.db")
	v.SetDefault("logging.development", false)
	v.SetDefault("logging.level", "info")
	v.SetDefault("transfer.file", "tasks.json")
	v.SetDefault("upcoming.days", 3)
}

// Load reads path (config.yml when empty) and applies TASKS_* environment overrides.
// A missing default file is not an error; a missing explicit one is.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("TASKS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverMySQL, DriverSQLite, DriverInMemory:
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	if c.Transfer.File == "" {
		return errors.New("transfer.file must not be empty")
	}
	if c.Upcoming.Days < 0 {
		return fmt.Errorf("upcoming.days must be non-negative, got %d", c.Upcoming.Days)
	}
	return nil
}

// Addr joins host and port, falling back to the driver's default port.
func (d DatabaseConfig) Addr() string {
	port := d.Port
	if port == 0 {
		switch d.Driver {
		case DriverPostgres:
			port = 5432
		case DriverMySQL:
			port = 3306
		}
	}
	return net.JoinHostPort(d.Host, strconv.Itoa(port))
}
