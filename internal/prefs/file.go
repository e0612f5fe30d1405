package prefs

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/celerix-dev/celerix-keystore/internal/persist"
)

// FileName is the preferences file created under the data directory.
const FileName = "preferences.json"

// FileBackend keeps every preference in one JSON document, rewritten
// atomically on each mutation.
type FileBackend struct {
	mu   sync.Mutex
	path string
	data map[string][]byte
}

// NewFileBackend loads the preferences file under dir, if any.
func NewFileBackend(dir string) (*FileBackend, error) {
	f := &FileBackend{
		path: filepath.Join(dir, FileName),
		data: make(map[string][]byte),
	}
	if _, err := persist.ReadJSON(f.path, &f.data); err != nil {
		return nil, fmt.Errorf("prefs: load %s: %w", f.path, err)
	}
	return f, nil
}

func (f *FileBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

func (f *FileBackend) Put(_ context.Context, key string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	next := f.snapshot()
	next[key] = append([]byte(nil), data...)
	return f.commit(next)
}

func (f *FileBackend) Remove(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.data[key]; !ok {
		return nil
	}
	next := f.snapshot()
	delete(next, key)
	return f.commit(next)
}

func (f *FileBackend) Keys(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]string, 0, len(f.data))
	for k := range f.data {
		keys = append(keys, k)
	}
	return keys, nil
}

func (f *FileBackend) snapshot() map[string][]byte {
	out := make(map[string][]byte, len(f.data)+1)
	for k, v := range f.data {
		out[k] = v
	}
	return out
}

// commit writes next and swaps it in only once it is on disk.
func (f *FileBackend) commit(next map[string][]byte) error {
	if err := persist.WriteJSON(f.path, next); err != nil {
		return fmt.Errorf("prefs: %w", err)
	}
	f.data = next
	return nil
}
