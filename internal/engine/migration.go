package engine

import (
	"context"
	"fmt"

	"github.com/celerix-dev/celerix-keystore/pkg/keychain"
)

// Migrate copies the records at keys from one item store to another within a
// scope. It works for:
// - memory -> file/sqlite (persisting an embedded session)
// - file -> sqlite (changing backends)
//
// Gated records keep their descriptor; reading them from src runs the source
// challenge with prompt. Keys absent from src, or whose challenge is declined,
// are skipped. It returns the number of records copied.
func Migrate(ctx context.Context, src, dst keychain.ItemStore, scope string, keys []string, prompt string) (int, error) {
	copied := 0
	for _, key := range keys {
		base := keychain.Query{
			Class:   keychain.ClassGenericPassword,
			Service: scope,
			Account: key,
		}

		// 1. Read the payload from the source
		q := base
		q.ReturnData = true
		q.MatchLimitOne = true
		q.Prompt = prompt
		data, status := src.CopyMatching(ctx, q)
		switch status {
		case keychain.StatusSuccess:
		case keychain.StatusItemNotFound, keychain.StatusUserCanceled:
			continue
		default:
			return copied, fmt.Errorf("failed to read %s from source: %w", key, keychain.FromStatus(status))
		}

		// 2. Carry the accessibility attributes over
		attrs := accessOf(src, scope, key)
		w := base
		w.Accessible = attrs.Accessible
		w.AccessControl = attrs.AccessControl
		if w.Accessible == "" && w.AccessControl == nil {
			w.Accessible = keychain.AccessibleWhenUnlockedThisDeviceOnly
		}

		// 3. Replace in the destination
		dst.Delete(ctx, base)
		if status := dst.Add(ctx, w, data); status != keychain.StatusSuccess {
			return copied, fmt.Errorf("failed to write %s to destination: %w", key, keychain.FromStatus(status))
		}
		copied++
	}
	return copied, nil
}

// ItemInspector is implemented by item stores that can expose a record's
// attributes without its payload.
type ItemInspector interface {
	Item(service, account string) (keychain.Item, bool)
}

func accessOf(s keychain.ItemStore, scope, key string) keychain.Item {
	if in, ok := s.(ItemInspector); ok {
		if item, ok := in.Item(scope, key); ok {
			item.Data = nil
			return item
		}
	}
	return keychain.Item{}
}
