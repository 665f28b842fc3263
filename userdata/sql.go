package userdata

import (
	"database/sql"
	"fmt"
	"strings"
)

// SQLConfig defines a public type used by gateAuth APIs.
//
// SQLConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SQLConfig struct {
	// DB is the consumer-owned connection pool. gateAuth imports no driver;
	// whoever wires the module registers one.
	DB *sql.DB
	// Table holding one row per user.
	Table string
	// UserColumn and PasswordColumn name the credential columns. Defaults:
	// "username" and "password". The password cell may use the "{SHA256}"
	// scheme accepted by the static backend.
	UserColumn     string
	PasswordColumn string
}

// SQLProvider defines a public type used by gateAuth APIs.
//
// SQLProvider verifies credentials against a relational table with a single
// lookup query. Every column of the user's row except the password becomes
// a user attribute.
type SQLProvider struct {
	cfg   SQLConfig
	query string
}

// NewSQLProvider creates a relational-database backend. A missing pool or
// table name is a configuration error.
func NewSQLProvider(cfg SQLConfig) (*SQLProvider, error) {
	if cfg.DB == nil {
		return nil, fmt.Errorf("userdata: sql provider requires a database pool")
	}
	if cfg.Table == "" {
		return nil, fmt.Errorf("userdata: sql provider requires a table name")
	}
	if cfg.UserColumn == "" {
		cfg.UserColumn = FieldUsername
	}
	if cfg.PasswordColumn == "" {
		cfg.PasswordColumn = FieldPassword
	}
	return &SQLProvider{
		cfg:   cfg,
		query: fmt.Sprintf("SELECT * FROM %s WHERE %s = ?", cfg.Table, cfg.UserColumn),
	}, nil
}

// Verify describes the verify operation and its observable behavior.
//
// Verify fetches the user's row and compares the password column. Query
// faults are internal errors; a missing row or password mismatch is
// [ErrNotFound].
func (p *SQLProvider) Verify(fields map[string]string) (map[string]string, error) {
	username := fields[FieldUsername]
	if username == "" {
		return nil, ErrNotFound
	}

	rows, err := p.cfg.DB.Query(p.query, username)
	if err != nil {
		return nil, fmt.Errorf("userdata: sql query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("userdata: sql columns: %w", err)
	}

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("userdata: sql rows: %w", err)
		}
		return nil, ErrNotFound
	}

	values := make([]sql.NullString, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}
	if err := rows.Scan(dest...); err != nil {
		return nil, fmt.Errorf("userdata: sql scan: %w", err)
	}

	attrs := map[string]string{FieldUsername: username}
	stored := ""
	for i, column := range columns {
		if strings.EqualFold(column, p.cfg.PasswordColumn) {
			stored = values[i].String
			continue
		}
		if values[i].Valid {
			attrs[column] = values[i].String
		}
	}

	if !passwordMatches(stored, fields[FieldPassword]) {
		return nil, ErrNotFound
	}
	return attrs, nil
}
