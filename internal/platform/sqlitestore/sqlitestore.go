// Package sqlitestore is a platform item store over an embedded SQLite
// database (modernc.org/sqlite, no cgo).
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/celerix-dev/celerix-keystore/internal/vault"
	"github.com/celerix-dev/celerix-keystore/pkg/keychain"
)

// FileName is the database file created under the data directory.
const FileName = "keystore.db"

const schema = `
CREATE TABLE IF NOT EXISTS items (
	service        TEXT NOT NULL,
	account        TEXT NOT NULL,
	data           BLOB NOT NULL,
	accessible     TEXT NOT NULL DEFAULT '',
	access_control TEXT,
	created_at     TIMESTAMP NOT NULL,
	PRIMARY KEY (service, account)
);`

// Store persists items in the items table.
type Store struct {
	db     *sql.DB
	sealer *vault.Sealer
	auth   keychain.Authenticator
	log    *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithSealer encrypts the data column with s.
func WithSealer(s *vault.Sealer) Option {
	return func(st *Store) { st.sealer = s }
}

// WithAuthenticator sets the challenge used for gated reads.
func WithAuthenticator(a keychain.Authenticator) Option {
	return func(st *Store) { st.auth = a }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(st *Store) { st.log = l }
}

// Open opens or creates the database at path and applies the schema.
func Open(path string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Writers are serialized through one connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	s := &Store{db: db, log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// --- ItemStore Implementation ---

func (s *Store) Add(ctx context.Context, q keychain.Query, payload []byte) keychain.Status {
	if q.Service == "" || q.Account == "" {
		return keychain.StatusParam
	}

	data, err := s.sealer.Seal(payload)
	if err != nil {
		s.log.Error("sqlitestore: seal", "error", err)
		return keychain.StatusIO
	}
	var ac sql.NullString
	if q.AccessControl != nil {
		b, err := json.Marshal(q.AccessControl)
		if err != nil {
			return keychain.StatusParam
		}
		ac = sql.NullString{String: string(b), Valid: true}
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO items (service, account, data, accessible, access_control, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (service, account) DO NOTHING`,
		q.Service, q.Account, data, string(q.Accessible), ac, time.Now().UTC())
	if err != nil {
		s.log.Error("sqlitestore: insert", "error", err)
		return keychain.StatusIO
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return keychain.StatusDuplicateItem
	}
	return keychain.StatusSuccess
}

func (s *Store) CopyMatching(ctx context.Context, q keychain.Query) ([]byte, keychain.Status) {
	item, status := s.get(ctx, q.Service, q.Account)
	if status != keychain.StatusSuccess {
		return nil, status
	}
	if !q.ReturnData {
		return nil, keychain.StatusSuccess
	}
	if item.Gated() {
		if q.SkipAuthUI {
			return nil, keychain.StatusInteractionNotAllowed
		}
		if st := keychain.ChallengeStatus(ctx, s.auth, q.Prompt, item.AccessControl.Flags); st != keychain.StatusSuccess {
			return nil, st
		}
	}
	return item.Data, keychain.StatusSuccess
}

func (s *Store) Delete(ctx context.Context, q keychain.Query) keychain.Status {
	res, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE service = ? AND account = ?`, q.Service, q.Account)
	if err != nil {
		s.log.Error("sqlitestore: delete", "error", err)
		return keychain.StatusIO
	}
	n, err := res.RowsAffected()
	if err != nil {
		return keychain.StatusIO
	}
	if n == 0 {
		return keychain.StatusItemNotFound
	}
	return keychain.StatusSuccess
}

func (s *Store) get(ctx context.Context, service, account string) (keychain.Item, keychain.Status) {
	var (
		data       []byte
		accessible string
		ac         sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT data, accessible, access_control FROM items WHERE service = ? AND account = ?`,
		service, account).Scan(&data, &accessible, &ac)
	if errors.Is(err, sql.ErrNoRows) {
		return keychain.Item{}, keychain.StatusItemNotFound
	}
	if err != nil {
		s.log.Error("sqlitestore: select", "error", err)
		return keychain.Item{}, keychain.StatusIO
	}

	plain, err := s.sealer.Open(data)
	if err != nil {
		s.log.Error("sqlitestore: open", "account", account, "error", err)
		return keychain.Item{}, keychain.StatusDecode
	}
	item := keychain.Item{
		Service:    service,
		Account:    account,
		Data:       plain,
		Accessible: keychain.Accessibility(accessible),
	}
	if ac.Valid {
		item.AccessControl = new(keychain.AccessControl)
		if err := json.Unmarshal([]byte(ac.String), item.AccessControl); err != nil {
			return keychain.Item{}, keychain.StatusDecode
		}
	}
	return item, keychain.StatusSuccess
}

// --- DescriptorFactory Implementation ---

// NewAccessControl always succeeds: the challenge is delegated to the
// configured Authenticator.
func (s *Store) NewAccessControl(accessible keychain.Accessibility, flags keychain.AccessControlFlags) (*keychain.AccessControl, error) {
	return &keychain.AccessControl{Accessible: accessible, Flags: flags}, nil
}

// --- Inspection ---

// Item returns the stored record without running any challenge.
func (s *Store) Item(service, account string) (keychain.Item, bool) {
	item, status := s.get(context.Background(), service, account)
	return item, status == keychain.StatusSuccess
}

// Accounts lists the keys stored under service.
func (s *Store) Accounts(service string) []string {
	rows, err := s.db.Query(`SELECT account FROM items WHERE service = ? ORDER BY account`, service)
	if err != nil {
		s.log.Error("sqlitestore: list", "error", err)
		return nil
	}
	defer rows.Close()

	var list []string
	for rows.Next() {
		var account string
		if err := rows.Scan(&account); err != nil {
			return list
		}
		list = append(list, account)
	}
	return list
}
