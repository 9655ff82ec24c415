package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgtype"
	"github.com/jackc/pgx"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Config is one postgres endpoint.
type Config struct {
	Host           string
	Port           string
	DBName         string
	User           string
	Password       string
	MaxConnections int
}

func (c Config) dsn() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", c.User, c.Password, c.Host, c.Port, c.DBName)
}

func NewPostgresClient(cfg Config) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.dsn())
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres config: %w", err)
	}

	config.MaxConns = int32(cfg.MaxConnections) //nolint:all
	config.MinConns = 1
	config.MaxConnIdleTime = 5 * time.Minute
	config.MaxConnLifetime = 30 * time.Minute
	config.HealthCheckPeriod = time.Minute

	// a whole document is synced in one statement
	config.ConnConfig.RuntimeParams = map[string]string{
		"timezone":                            "UTC",
		"statement_timeout":                   "60s",
		"lock_timeout":                        "10s",
		"idle_in_transaction_session_timeout": "60s",
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect postgres: %w", err)
	}

	return pool, nil
}

// NewNullString maps an empty string to NULL.
func NewNullString(s *string) pgtype.Text {
	if s == nil || *s == "" {
		return pgtype.Text{Status: pgtype.Null}
	}
	return pgtype.Text{String: *s, Status: pgtype.Present}
}

func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows)
}

// BuildSearchJSON builds the right-hand side of a JSONB containment (@>) query, so the GIN
// index on properties can serve it. "Storey" and "Ground" give {"Storey":"Ground"}; dotted
// paths nest.
func BuildSearchJSON(path string, value any) (string, error) {
	keys := strings.Split(path, ".")
	jsonMap := map[string]any{keys[len(keys)-1]: value}

	for i := len(keys) - 2; i >= 0; i-- {
		jsonMap = map[string]any{keys[i]: jsonMap}
	}

	bytes, err := json.Marshal(jsonMap)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}
