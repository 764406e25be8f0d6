package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
)

// ErrMissingDSN is returned when no database connection settings are present.
var ErrMissingDSN = errors.New("database env vars missing; set GS_DB_DSN or GS_DB_HOST/GS_DB_NAME/GS_DB_USER/GS_DB_PASSWORD")

// DBEnv holds the database connection settings read from the environment.
type DBEnv struct {
	DSN         string `env:"GS_DB_DSN"`
	Host        string `env:"GS_DB_HOST"`
	Port        int    `env:"GS_DB_PORT" envDefault:"5432"`
	Name        string `env:"GS_DB_NAME"`
	User        string `env:"GS_DB_USER"`
	Password    string `env:"GS_DB_PASSWORD"`
	SSLMode     string `env:"GS_DB_SSLMODE" envDefault:"require"`
	DatabaseURL string `env:"DATABASE_URL"`
	SQLitePath  string `env:"GS_DB_PATH" envDefault:"intervention_planner.db"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadDBEnv reads DBEnv from the process environment.
func LoadDBEnv() (DBEnv, error) {
	var cfg DBEnv
	if err := ParseEnv(&cfg); err != nil {
		return DBEnv{}, err
	}
	return cfg, nil
}

// PostgresDSN picks GS_DB_DSN, then a URL assembled from the GS_DB_* parts, then DATABASE_URL.
func (e DBEnv) PostgresDSN() (string, error) {
	if dsn := strings.TrimSpace(e.DSN); dsn != "" {
		return dsn, nil
	}
	if e.Host != "" && e.Name != "" && e.User != "" {
		u := url.URL{
			Scheme: "postgres",
			Host:   net.JoinHostPort(e.Host, strconv.Itoa(e.Port)),
			Path:   "/" + e.Name,
		}
		if e.Password != "" {
			u.User = url.UserPassword(e.User, e.Password)
		} else {
			u.User = url.User(e.User)
		}
		if e.SSLMode != "" {
			u.RawQuery = url.Values{"sslmode": []string{e.SSLMode}}.Encode()
		}
		return u.String(), nil
	}
	if dsn := strings.TrimSpace(e.DatabaseURL); dsn != "" {
		return dsn, nil
	}
	return "", ErrMissingDSN
}
