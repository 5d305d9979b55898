package helper

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

const envPrefix = "RISKREC_DB_"

// DatabaseConfiguration holds the PostgreSQL connection parameters
type DatabaseConfiguration struct {
	Host     string
	Port     string
	Database string
	Username string
	Password string
	Schema   string
	SSLMode  string
}

// NewDatabaseConfiguration reads the configuration from RISKREC_DB_* environment variables.
// A .env file in the working directory is loaded first if present; variables already set win.
func NewDatabaseConfiguration() (*DatabaseConfiguration, error) {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, NewError("load .env", err)
	}

	config := &DatabaseConfiguration{
		Host:     os.Getenv(envPrefix + "HOST"),
		Port:     os.Getenv(envPrefix + "PORT"),
		Database: os.Getenv(envPrefix + "DATABASE"),
		Username: os.Getenv(envPrefix + "USERNAME"),
		Password: os.Getenv(envPrefix + "PASSWORD"),
		Schema:   os.Getenv(envPrefix + "SCHEMA"),
		SSLMode:  os.Getenv(envPrefix + "SSLMODE"),
	}

	if config.Schema == "" {
		config.Schema = "public"
	}
	if config.SSLMode == "" {
		config.SSLMode = "disable"
	}

	required := map[string]string{
		"HOST":     config.Host,
		"PORT":     config.Port,
		"DATABASE": config.Database,
		"USERNAME": config.Username,
	}
	for _, key := range []string{"HOST", "PORT", "DATABASE", "USERNAME"} {
		if required[key] == "" {
			return nil, NewError("database configuration", fmt.Errorf("missing environment variable %s%s", envPrefix, key))
		}
	}

	return config, nil
}

// ConnectionString returns the lib/pq key/value connection string
func (c *DatabaseConfiguration) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s dbname=%s user=%s password=%s sslmode=%s search_path=%s",
		quote(c.Host), quote(c.Port), quote(c.Database), quote(c.Username), quote(c.Password), quote(c.SSLMode), quote(c.Schema),
	)
}

// quote escapes a connection string value so that empty values and spaces survive parsing
func quote(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, `'`, `\'`)
	return "'" + value + "'"
}

// Database bundles the connection pool with its logger
type Database struct {
	Name     string
	Instance *sql.DB
	Logger   *slog.Logger
}

// NewDatabase opens a connection pool for the given configuration.
// Connections are established lazily, so an unreachable server surfaces on first use.
func NewDatabase(name string, config *DatabaseConfiguration, logger *slog.Logger) *Database {
	if logger == nil {
		logger = slog.Default()
	}

	instance, err := sql.Open("postgres", config.ConnectionString())
	if err != nil {
		log.Panicf("error opening database %s: %#v", name, err)
	}

	logger.Info("Opened database", slog.String("name", name), slog.String("host", config.Host), slog.String("database", config.Database))

	return &Database{
		Name:     name,
		Instance: instance,
		Logger:   logger,
	}
}

// NewTestDatabase opens a database with a debug logger for tests
func NewTestDatabase(config *DatabaseConfiguration) *Database {
	return NewDatabase("test", config, NewLogger(os.Stdout, slog.LevelDebug))
}

// Close closes the connection pool
func (d *Database) Close() error {
	if d.Instance == nil {
		return nil
	}
	return d.Instance.Close()
}
