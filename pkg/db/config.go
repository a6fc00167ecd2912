package db

import "time"

// Config selects the store backend. Type is postgres, mysql or sqlite; the
// sqlite backend only reads SQLitePath.
type Config struct {
	Type       string
	Host       string
	Port       string
	Name       string
	User       string
	Password   string
	SSLMode    string
	SQLitePath string

	MaxIdleConn     int
	MaxOpenConn     int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration

	// SlowQuery marks statements logged at warn; zero disables the check.
	SlowQuery time.Duration
	// LogSQL logs every statement with its bound values. Local use only:
	// the values include password hashes and customer e-mails.
	LogSQL bool
}
