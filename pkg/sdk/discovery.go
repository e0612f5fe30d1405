package sdk

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/celerix-dev/celerix-keystore/internal/config"
	"github.com/celerix-dev/celerix-keystore/internal/members"
	"github.com/celerix-dev/celerix-keystore/internal/platform/filestore"
	"github.com/celerix-dev/celerix-keystore/internal/platform/memstore"
	"github.com/celerix-dev/celerix-keystore/internal/platform/sqlitestore"
	"github.com/celerix-dev/celerix-keystore/internal/prefs"
	"github.com/celerix-dev/celerix-keystore/internal/vault"
	"github.com/celerix-dev/celerix-keystore/pkg/keychain"
)

// OpenBackend builds the item store named by backend from cfg. auth answers
// gated reads; nil leaves the backend's default.
func OpenBackend(cfg config.Config, backend string, auth keychain.Authenticator, logger *slog.Logger) (Backend, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch backend {
	case config.BackendMemory:
		var opts []memstore.Option
		if auth != nil {
			opts = append(opts, memstore.WithAuthenticator(auth))
		}
		return memstore.New(opts...), nil

	case config.BackendFile:
		sealer, err := vault.NewSealer(cfg.DataDir, cfg.Passphrase)
		if err != nil {
			return nil, err
		}
		fs, err := filestore.New(cfg.DataDir,
			filestore.WithSealer(sealer),
			filestore.WithAuthenticator(auth),
			filestore.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		return fs, nil

	case config.BackendSQLite:
		sealer, err := vault.NewSealer(cfg.DataDir, cfg.Passphrase)
		if err != nil {
			return nil, err
		}
		st, err := sqlitestore.Open(filepath.Join(cfg.DataDir, sqlitestore.FileName),
			sqlitestore.WithSealer(sealer),
			sqlitestore.WithAuthenticator(auth),
			sqlitestore.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		return st, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// openPrefs builds the preferences backend. The returned func releases it.
func openPrefs(ctx context.Context, cfg config.Config) (prefs.Backend, func() error, error) {
	switch cfg.Prefs.Backend {
	case config.BackendMemory:
		return prefs.NewMemoryBackend(), nil, nil
	case config.BackendFile:
		b, err := prefs.NewFileBackend(cfg.DataDir)
		return b, nil, err
	case config.BackendRedis:
		client, err := prefs.DialRedis(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, nil, err
		}
		return prefs.NewRedisBackend(client, cfg.Scope), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: prefs %q", ErrUnknownBackend, cfg.Prefs.Backend)
	}
}

// openMembers connects to the member table when a URL is configured and
// falls back to the in-memory client otherwise.
func openMembers(ctx context.Context, cfg config.Config, logger *slog.Logger) (members.Client, func() error, error) {
	if cfg.Postgres.URL == "" {
		return members.NewMemoryClient(), nil, nil
	}
	c, err := members.OpenPostgres(ctx, cfg.Postgres.URL, logger)
	if err != nil {
		return nil, nil, err
	}
	if err := c.EnsureSchema(ctx); err != nil {
		c.Close() //nolint:errcheck // best-effort cleanup on init failure
		return nil, nil, err
	}
	return c, c.Close, nil
}
