package members

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/celerix-dev/celerix-keystore/pkg/schema"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS ` + Table + ` (
	id                  BIGSERIAL PRIMARY KEY,
	identification_uuid UUID NOT NULL UNIQUE,
	email_parent        TEXT NOT NULL,
	member_name         TEXT NOT NULL
)`

// PostgresClient talks to the member table over database/sql with the pgx
// driver.
type PostgresClient struct {
	db  *sql.DB
	log *slog.Logger
}

// OpenPostgres connects to url and verifies the connection.
func OpenPostgres(ctx context.Context, url string, logger *slog.Logger) (*PostgresClient, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close() //nolint:errcheck // best-effort cleanup on init failure
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return NewPostgresClient(db, logger), nil
}

// NewPostgresClient wraps an open database.
func NewPostgresClient(db *sql.DB, logger *slog.Logger) *PostgresClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresClient{db: db, log: logger.With("component", "members")}
}

// EnsureSchema creates the member table when missing.
func (c *PostgresClient) EnsureSchema(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("create %s: %w", Table, err)
	}
	return nil
}

// Close closes the database.
func (c *PostgresClient) Close() error {
	return c.db.Close()
}

func (c *PostgresClient) AddMember(ctx context.Context, name, email string) (schema.FamilyMember, error) {
	m, err := newMember(name, email)
	if err != nil {
		c.log.Warn("rejected member", "error", err)
		return schema.FamilyMember{}, err
	}

	var id int64
	err = c.db.QueryRowContext(ctx,
		`INSERT INTO `+Table+` (identification_uuid, email_parent, member_name) VALUES ($1, $2, $3) RETURNING id`,
		m.Identification, m.Email, m.MemberName).Scan(&id)
	if err != nil {
		c.log.Error("add member failed", "error", err)
		return schema.FamilyMember{}, fmt.Errorf("insert member: %w", err)
	}
	m.ID = &id
	c.log.Debug("member added", "identification", m.Identification)
	return m, nil
}

func (c *PostgresClient) FetchFamilyMembers(ctx context.Context) ([]schema.FamilyMember, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT id, identification_uuid, email_parent, member_name FROM `+Table+` ORDER BY id`)
	if err != nil {
		c.log.Error("fetch members failed", "error", err)
		return nil, fmt.Errorf("select members: %w", err)
	}
	defer rows.Close()

	var out []schema.FamilyMember
	for rows.Next() {
		var (
			m  schema.FamilyMember
			id int64
		)
		if err := rows.Scan(&id, &m.Identification, &m.Email, &m.MemberName); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		m.ID = &id
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}
	return out, nil
}

func (c *PostgresClient) DeleteMember(ctx context.Context, identification uuid.UUID) error {
	res, err := c.db.ExecContext(ctx, `DELETE FROM `+Table+` WHERE identification_uuid = $1`, identification)
	if err != nil {
		c.log.Error("delete member failed", "identification", identification, "error", err)
		return fmt.Errorf("delete member: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	if n == 0 {
		return ErrMemberNotFound
	}
	return nil
}
