package engine

import (
	"context"
	"log/slog"

	"github.com/celerix-dev/celerix-keystore/internal/codec"
	"github.com/celerix-dev/celerix-keystore/internal/policy"
	"github.com/celerix-dev/celerix-keystore/pkg/keychain"
)

// core performs every secure store primitive. None of its methods lock:
// callers must hold Engine.mu.
type core struct {
	scope  string
	items  keychain.ItemStore
	policy *policy.Policy
	codec  codec.Codec
	log    *slog.Logger
}

func (c *core) baseQuery(key string) keychain.Query {
	return keychain.Query{
		Class:      keychain.ClassGenericPassword,
		Service:    c.scope,
		Account:    key,
		Accessible: policy.Standard,
	}
}

func (c *core) encode(value any) ([]byte, error) {
	data, err := c.codec.Encode(value)
	if err != nil {
		return nil, keychain.EncodingError(err)
	}
	return data, nil
}

func (c *core) decode(data []byte, dst any) error {
	if err := c.codec.Decode(data, dst); err != nil {
		return keychain.DecodingError(err)
	}
	return nil
}

// save deletes whatever is stored at key and inserts data.
func (c *core) save(ctx context.Context, key string, data []byte, requireChallenge bool) error {
	q := c.baseQuery(key)
	c.policy.Apply(&q, requireChallenge)

	// Always clear before adding; absence is fine.
	c.items.Delete(ctx, q)

	if status := c.items.Add(ctx, q, data); status != keychain.StatusSuccess {
		return keychain.FromStatus(status)
	}
	return nil
}

// readData returns the raw payload, or nil when the record is absent or the
// challenge was declined. The status is returned for instrumentation.
func (c *core) readData(ctx context.Context, key, prompt string) ([]byte, keychain.Status, error) {
	q := c.baseQuery(key)
	q.ReturnData = true
	q.MatchLimitOne = true
	q.Prompt = prompt

	data, status := c.items.CopyMatching(ctx, q)
	switch status {
	case keychain.StatusSuccess:
		return data, status, nil
	case keychain.StatusItemNotFound, keychain.StatusUserCanceled:
		return nil, status, nil
	default:
		return nil, status, keychain.FromStatus(status)
	}
}

func (c *core) delete(ctx context.Context, key string) error {
	status := c.items.Delete(ctx, c.baseQuery(key))
	if status == keychain.StatusSuccess || status == keychain.StatusItemNotFound {
		return nil
	}
	return keychain.FromStatus(status)
}

func (c *core) exists(ctx context.Context, key string) bool {
	q := c.baseQuery(key)
	q.ReturnData = false
	q.SkipAuthUI = true

	_, status := c.items.CopyMatching(ctx, q)
	// A gated record refuses UI-less access but is still present.
	return status == keychain.StatusSuccess || status == keychain.StatusInteractionNotAllowed
}

// current is the Current handed to an UpdateFunc.
type current struct {
	c     *core
	data  []byte
	found bool
}

func (cur current) Found() bool { return cur.found }

func (cur current) Decode(dst any) error {
	if !cur.found {
		return keychain.ErrNotFound
	}
	return cur.c.decode(cur.data, dst)
}
