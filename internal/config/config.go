package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
)

type Config struct {
	AppPort string

	// DBDriver selects the storage engine: "sqlite" (default) or "mysql".
	DBDriver   string
	SQLitePath string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	// Empty RedisAddr disables the submission idempotency middleware.
	RedisAddr    string
	RedisDB      int
	IdempTTLSecs int

	// Shared admin credential and the secret for session tokens.
	AdminPassword string
	JWTSecret     string

	// Empty SMTPHost disables the email notifier.
	SMTPHost          string
	SMTPPort          int
	SMTPUser          string
	SMTPPass          string
	SMTPFrom          string
	SMTPSkipTLSVerify bool
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func Load() *Config {
	c := &Config{
		AppPort: getenv("APP_PORT", "8080"),

		DBDriver:   getenv("DB_DRIVER", "sqlite"),
		SQLitePath: getenv("SQLITE_PATH", "loan_applications.db"),

		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "egsa_loans"),
		MySQLUser: getenv("MYSQL_USER", "egsa"),
		MySQLPass: getenv("MYSQL_PASS", "egsa"),

		RedisAddr:    os.Getenv("REDIS_ADDR"),
		IdempTTLSecs: 300,

		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		JWTSecret:     os.Getenv("JWT_SECRET"),

		SMTPHost:          os.Getenv("SMTP_HOST"),
		SMTPPort:          587,
		SMTPUser:          os.Getenv("SMTP_USER"),
		SMTPPass:          os.Getenv("SMTP_PASS"),
		SMTPFrom:          os.Getenv("SMTP_FROM"), // e.g. "EGSA Loans <no-reply@egsa.org>"
		SMTPSkipTLSVerify: os.Getenv("SMTP_SKIP_TLS_VERIFY") == "1",
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RedisDB = n
		}
	}
	if v := os.Getenv("IDEMPOTENCY_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.IdempTTLSecs = n
		}
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.SMTPPort = n
		}
	}
	return c
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.AdminPassword == "" {
		return errors.New("missing ADMIN_PASSWORD")
	}
	if c.JWTSecret == "" {
		return errors.New("missing JWT_SECRET")
	}
	switch c.DBDriver {
	case "sqlite":
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	case "mysql":
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
