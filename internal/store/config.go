package store

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

type GlobalConfig struct {
	// CurrentList is the named list used when neither --dir nor --list is given.
	CurrentList string `toml:"currentList,omitempty"`

	// Backend selects the slot storage ("json" or "sqlite").
	Backend string `toml:"backend,omitempty"`

	TUI *TUIConfig `toml:"tui,omitempty"`
	Web *WebConfig `toml:"web,omitempty"`
}

type TUIConfig struct {
	// Theme is one of: light|dark|auto.
	Theme string `toml:"theme,omitempty"`
	// Glyphs selects the glyph set ("unicode" or "ascii").
	Glyphs string `toml:"glyphs,omitempty"`
}

type WebConfig struct {
	Addr string `toml:"addr,omitempty"`
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.shoplist).
	if v := strings.TrimSpace(os.Getenv("SHOPLIST_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, localDirName), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

func LoadConfig() (*GlobalConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	var cfg GlobalConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &GlobalConfig{}, nil
		}
		return nil, err
	}
	return &cfg, nil
}

func SaveConfig(cfg *GlobalConfig) error {
	if cfg == nil {
		return errors.New("nil config")
	}
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return err
	}
	// Unique temp name + rename so a TUI and a CLI writing at once cannot interleave.
	return atomicWriteFile(dir, "config.toml.*.tmp", path, buf.Bytes(), 0o600)
}

// ListNames returns the named lists under <config dir>/lists, sorted.
func ListNames() ([]string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	out := []string{}
	ents, err := os.ReadDir(filepath.Join(dir, "lists"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return out, nil
		}
		return nil, err
	}
	for _, e := range ents {
		if e.IsDir() {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}
