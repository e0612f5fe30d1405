// Package filestore is a disk-backed platform item store. Each scope lives in
// one sealed file, <dir>/<scope>.keychain, rewritten atomically on every
// mutation.
package filestore

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/celerix-dev/celerix-keystore/internal/persist"
	"github.com/celerix-dev/celerix-keystore/internal/vault"
	"github.com/celerix-dev/celerix-keystore/pkg/keychain"
)

// Ext is the file extension of a scope file.
const Ext = ".keychain"

type record struct {
	Data          []byte                  `json:"data"`
	Accessible    keychain.Accessibility  `json:"accessible,omitempty"`
	AccessControl *keychain.AccessControl `json:"access_control,omitempty"`
	UpdatedAt     time.Time               `json:"updated_at"`
}

// FileStore persists items per scope. Loaded scopes are cached; the cache is
// the only reader once a scope has been opened.
type FileStore struct {
	mu     sync.Mutex
	dir    string
	sealer *vault.Sealer
	auth   keychain.Authenticator
	log    *slog.Logger
	scopes map[string]map[string]record
}

// Option configures a FileStore.
type Option func(*FileStore)

// WithSealer encrypts scope files with s. Without it files are plain JSON.
func WithSealer(s *vault.Sealer) Option {
	return func(f *FileStore) { f.sealer = s }
}

// WithAuthenticator sets the challenge used for gated reads. Without one,
// gated reads answer StatusInteractionNotAllowed.
func WithAuthenticator(a keychain.Authenticator) Option {
	return func(f *FileStore) { f.auth = a }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *FileStore) { f.log = l }
}

// New opens a store rooted at dir.
func New(dir string, opts ...Option) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("filestore: empty data directory")
	}
	f := &FileStore{
		dir:    dir,
		log:    slog.Default(),
		scopes: make(map[string]map[string]record),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Path returns the file backing scope.
func (f *FileStore) Path(scope string) string {
	return filepath.Join(f.dir, scope+Ext)
}

func validScope(scope string) bool {
	return scope != "" && scope != "." && scope != ".." && !strings.ContainsAny(scope, `/\`)
}

// load returns the cached records of scope, reading the file on first use.
// Caller must hold f.mu.
func (f *FileStore) load(scope string) (map[string]record, keychain.Status) {
	if recs, ok := f.scopes[scope]; ok {
		return recs, keychain.StatusSuccess
	}

	raw, err := persist.ReadFile(f.Path(scope))
	if err != nil {
		f.log.Error("filestore: read scope file", "scope", scope, "error", err)
		return nil, keychain.StatusIO
	}

	recs := make(map[string]record)
	if raw != nil {
		plain, err := f.sealer.Open(raw)
		if err != nil {
			f.log.Error("filestore: open scope file", "scope", scope, "error", err)
			return nil, keychain.StatusDecode
		}
		if err := json.Unmarshal(plain, &recs); err != nil {
			f.log.Error("filestore: decode scope file", "scope", scope, "error", err)
			return nil, keychain.StatusDecode
		}
	}
	f.scopes[scope] = recs
	return recs, keychain.StatusSuccess
}

// flush writes recs as the new content of scope and commits them to the
// cache only once the file is on disk. Caller must hold f.mu.
func (f *FileStore) flush(scope string, recs map[string]record) keychain.Status {
	plain, err := json.Marshal(recs)
	if err != nil {
		f.log.Error("filestore: encode scope file", "scope", scope, "error", err)
		return keychain.StatusIO
	}
	sealed, err := f.sealer.Seal(plain)
	if err != nil {
		f.log.Error("filestore: seal scope file", "scope", scope, "error", err)
		return keychain.StatusIO
	}
	if err := persist.WriteFile(f.Path(scope), sealed); err != nil {
		f.log.Error("filestore: write scope file", "scope", scope, "error", err)
		return keychain.StatusIO
	}
	f.scopes[scope] = recs
	return keychain.StatusSuccess
}

func clone(recs map[string]record) map[string]record {
	out := make(map[string]record, len(recs)+1)
	for k, v := range recs {
		out[k] = v
	}
	return out
}

// --- ItemStore Implementation ---

func (f *FileStore) Add(_ context.Context, q keychain.Query, payload []byte) keychain.Status {
	if !validScope(q.Service) || q.Account == "" {
		return keychain.StatusParam
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	recs, status := f.load(q.Service)
	if status != keychain.StatusSuccess {
		return status
	}
	if _, exists := recs[q.Account]; exists {
		return keychain.StatusDuplicateItem
	}

	next := clone(recs)
	rec := record{
		Data:       append([]byte(nil), payload...),
		Accessible: q.Accessible,
		UpdatedAt:  time.Now().UTC(),
	}
	if q.AccessControl != nil {
		ac := *q.AccessControl
		rec.AccessControl = &ac
	}
	next[q.Account] = rec
	return f.flush(q.Service, next)
}

func (f *FileStore) CopyMatching(ctx context.Context, q keychain.Query) ([]byte, keychain.Status) {
	if !validScope(q.Service) {
		return nil, keychain.StatusParam
	}

	f.mu.Lock()
	recs, status := f.load(q.Service)
	if status != keychain.StatusSuccess {
		f.mu.Unlock()
		return nil, status
	}
	rec, ok := recs[q.Account]
	f.mu.Unlock()

	if !ok {
		return nil, keychain.StatusItemNotFound
	}
	if !q.ReturnData {
		return nil, keychain.StatusSuccess
	}
	if rec.AccessControl.RequiresChallenge() {
		if q.SkipAuthUI {
			return nil, keychain.StatusInteractionNotAllowed
		}
		if st := keychain.ChallengeStatus(ctx, f.auth, q.Prompt, rec.AccessControl.Flags); st != keychain.StatusSuccess {
			return nil, st
		}
	}
	return append([]byte(nil), rec.Data...), keychain.StatusSuccess
}

func (f *FileStore) Delete(_ context.Context, q keychain.Query) keychain.Status {
	if !validScope(q.Service) {
		return keychain.StatusParam
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	recs, status := f.load(q.Service)
	if status != keychain.StatusSuccess {
		return status
	}
	if _, ok := recs[q.Account]; !ok {
		return keychain.StatusItemNotFound
	}

	next := clone(recs)
	delete(next, q.Account)
	return f.flush(q.Service, next)
}

// Close drops the scope cache. Every write is already on disk.
func (f *FileStore) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scopes = make(map[string]map[string]record)
	return nil
}

// --- DescriptorFactory Implementation ---

// NewAccessControl always succeeds: the challenge is delegated to the
// configured Authenticator.
func (f *FileStore) NewAccessControl(accessible keychain.Accessibility, flags keychain.AccessControlFlags) (*keychain.AccessControl, error) {
	return &keychain.AccessControl{Accessible: accessible, Flags: flags}, nil
}

// --- Inspection ---

// Item returns the stored record without running any challenge.
func (f *FileStore) Item(service, account string) (keychain.Item, bool) {
	if !validScope(service) {
		return keychain.Item{}, false
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	recs, status := f.load(service)
	if status != keychain.StatusSuccess {
		return keychain.Item{}, false
	}
	rec, ok := recs[account]
	if !ok {
		return keychain.Item{}, false
	}
	item := keychain.Item{
		Service:    service,
		Account:    account,
		Data:       append([]byte(nil), rec.Data...),
		Accessible: rec.Accessible,
	}
	if rec.AccessControl != nil {
		ac := *rec.AccessControl
		item.AccessControl = &ac
	}
	return item, true
}

// Accounts lists the keys stored under service.
func (f *FileStore) Accounts(service string) []string {
	if !validScope(service) {
		return nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	recs, status := f.load(service)
	if status != keychain.StatusSuccess {
		return nil
	}
	list := make([]string, 0, len(recs))
	for account := range recs {
		list = append(list, account)
	}
	return list
}
