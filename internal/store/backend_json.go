package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// CorruptFileError reports a storage file that exists but is not a JSON object of strings.
type CorruptFileError struct {
	Path string
	Err  error
}

func (e *CorruptFileError) Error() string {
	return fmt.Sprintf("corrupt storage file %s: %v", e.Path, e.Err)
}

func (e *CorruptFileError) Unwrap() error { return e.Err }

// jsonBackend keeps every slot in one JSON object file. Writes replace the whole
// file atomically while holding an exclusive advisory lock, so the TUI, CLI and
// web server may share one directory.
type jsonBackend struct {
	path string
	lock *flock.Flock
}

func newJSONBackend(path, lockPath string) *jsonBackend {
	return &jsonBackend{path: path, lock: flock.New(lockPath)}
}

func (b *jsonBackend) Get(key string) (string, bool, error) {
	if err := b.lock.RLock(); err != nil {
		return "", false, fmt.Errorf("lock %s: %w", b.path, err)
	}
	defer func() { _ = b.lock.Unlock() }()

	slots, err := b.read()
	if err != nil {
		return "", false, err
	}
	v, ok := slots[key]
	return v, ok, nil
}

func (b *jsonBackend) Set(key, value string) error {
	return b.update(func(slots map[string]string) {
		slots[key] = value
	})
}

func (b *jsonBackend) Remove(key string) error {
	return b.update(func(slots map[string]string) {
		delete(slots, key)
	})
}

func (b *jsonBackend) update(fn func(map[string]string)) error {
	if err := b.lock.Lock(); err != nil {
		return fmt.Errorf("lock %s: %w", b.path, err)
	}
	defer func() { _ = b.lock.Unlock() }()

	slots, err := b.read()
	if err != nil {
		var ce *CorruptFileError
		if !errors.As(err, &ce) {
			return err
		}
		// Keep the unreadable bytes next to the store and start over.
		aside := fmt.Sprintf("%s.corrupt-%d", b.path, time.Now().UTC().UnixMilli())
		if err := os.Rename(b.path, aside); err != nil {
			return fmt.Errorf("move corrupt storage aside: %w", err)
		}
		slots = map[string]string{}
	}
	fn(slots)

	raw, err := json.MarshalIndent(slots, "", "  ")
	if err != nil {
		return err
	}
	raw = append(raw, '\n')
	return atomicWriteFile(filepath.Dir(b.path), filepath.Base(b.path)+".*.tmp", b.path, raw, 0o644)
}

func (b *jsonBackend) read() (map[string]string, error) {
	raw, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	if len(raw) == 0 {
		return map[string]string{}, nil
	}
	slots := map[string]string{}
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, &CorruptFileError{Path: b.path, Err: err}
	}
	if slots == nil {
		slots = map[string]string{}
	}
	return slots, nil
}
