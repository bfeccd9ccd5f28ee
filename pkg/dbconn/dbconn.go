// Package dbconn contains database connection utilities for applying
// migrations.
package dbconn

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
)

const maxConnLifetime = time.Minute * 3

// Config describes how to reach the target server. Credentials may come
// from a my.cnf-style defaults file instead of flags; explicit values
// win over file values.
type Config struct {
	Host     string
	Username string
	Password string
	Database string

	// DefaultsFile is an optional ini file with a [client] section,
	// read by LoadDefaultsFile.
	DefaultsFile string

	MaxOpenConnections int
	LockWaitTimeout    int
}

func NewConfig() *Config {
	return &Config{
		Host:               "127.0.0.1:3306",
		MaxOpenConnections: 2, // migrations are sequential, a pool is pointless
		LockWaitTimeout:    30,
	}
}

// newDSN builds the driver DSN with the session options migration apply
// requires.
func newDSN(config *Config) string {
	cfg := mysql.NewConfig()
	cfg.User = config.Username
	cfg.Passwd = config.Password
	cfg.Net = "tcp"
	cfg.Addr = config.Host
	cfg.DBName = config.Database
	// Procedure envelopes send DROP PROCEDURE IF EXISTS and CREATE
	// PROCEDURE as one unit, so multi-statement support is required.
	cfg.MultiStatements = true
	cfg.AllowNativePasswords = true
	cfg.Params = map[string]string{
		"lock_wait_timeout": strconv.Itoa(config.LockWaitTimeout),
	}
	return cfg.FormatDSN()
}

// New opens and pings a connection pool per Config.
func New(config *Config) (*sql.DB, error) {
	db, err := sql.Open("mysql", newDSN(config))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("could not connect to %s: %w", config.Host, err)
	}
	db.SetMaxOpenConns(config.MaxOpenConnections)
	db.SetConnMaxLifetime(maxConnLifetime)
	return db, nil
}

// ServerVersion reports the version string of the connected server,
// which feeds the capability set for generation.
func ServerVersion(ctx context.Context, db *sql.DB) (string, error) {
	var version string
	if err := db.QueryRowContext(ctx, "SELECT version()").Scan(&version); err != nil {
		return "", err
	}
	return version, nil
}
