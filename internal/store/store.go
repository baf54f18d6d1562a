package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	localDirName   = ".shoplist"
	jsonFileName   = "storage.json"
	sqliteFileName = "storage.sqlite"
	lockFileName   = ".storage.lock"
)

// Backend kinds accepted by Store.Open.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Backend is a string-valued key/value slot storage, the same shape as a
// browser's localStorage.
type Backend interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

// Store is a list directory on disk.
type Store struct {
	Dir string
}

// DiscoverDir walks up from start looking for a project-local .shoplist
// directory. The config dir (usually ~/.shoplist) is not a list and is skipped.
func DiscoverDir(start string) (string, bool) {
	cfgDir, _ := ConfigDir()
	dir := start
	for {
		candidate := filepath.Join(dir, localDirName)
		if st, err := os.Stat(candidate); err == nil && st.IsDir() && !samePath(candidate, cfgDir) {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// ListDir returns the directory of a named list under the config dir.
func ListDir(name string) (string, error) {
	name, err := NormalizeListName(name)
	if err != nil {
		return "", err
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "lists", name), nil
}

func NormalizeListName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("list name is empty")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid list name: %q", name)
	}
	return name, nil
}

func (s Store) Ensure() error {
	if strings.TrimSpace(s.Dir) == "" {
		return errors.New("store dir is empty")
	}
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) jsonPath() string   { return filepath.Join(s.Dir, jsonFileName) }
func (s Store) sqlitePath() string { return filepath.Join(s.Dir, sqliteFileName) }
func (s Store) lockPath() string   { return filepath.Join(s.Dir, lockFileName) }

// NormalizeBackend maps user input to a backend kind; empty means json.
func NormalizeBackend(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", BackendJSON:
		return BackendJSON, nil
	case BackendSQLite, "sqlite3":
		return BackendSQLite, nil
	default:
		return "", fmt.Errorf("unknown backend: %q (expected json|sqlite)", kind)
	}
}

// Open returns the slot backend of the given kind rooted at the store dir.
func (s Store) Open(kind string) (Backend, error) {
	kind, err := NormalizeBackend(kind)
	if err != nil {
		return nil, err
	}
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	switch kind {
	case BackendSQLite:
		return &sqliteBackend{path: s.sqlitePath()}, nil
	default:
		return newJSONBackend(s.jsonPath(), s.lockPath()), nil
	}
}

func samePath(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return filepath.Clean(a) == filepath.Clean(b)
}
