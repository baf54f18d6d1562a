package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"shoplist-cli/internal/model"

	"github.com/charmbracelet/log"
)

const (
	// ItemsKey is the slot holding the serialized list.
	ItemsKey = "items"
	// CorruptItemsKey keeps the last unreadable payload found in ItemsKey.
	CorruptItemsKey = ItemsKey + ".corrupt"
)

// ItemStore persists the whole list in one slot. Every Save overwrites the
// full collection; there are no partial writes.
type ItemStore struct {
	backend Backend
	logger  *log.Logger
}

func NewItemStore(b Backend, logger *log.Logger) *ItemStore {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &ItemStore{backend: b, logger: logger}
}

// Load returns the stored list. Missing or malformed data yields an empty list;
// only I/O failures are returned as errors.
func (s *ItemStore) Load() ([]model.Item, error) {
	raw, ok, err := s.backend.Get(ItemsKey)
	if err != nil {
		var ce *CorruptFileError
		if errors.As(err, &ce) {
			s.logger.Warn("storage file unreadable; treating list as empty", "path", ce.Path, "err", ce.Err)
			return []model.Item{}, nil
		}
		return nil, fmt.Errorf("load items: %w", err)
	}
	if !ok {
		return []model.Item{}, nil
	}
	items, err := DecodeItems([]byte(raw))
	if err != nil {
		s.preserveCorrupt(raw, err)
		return []model.Item{}, nil
	}
	return items, nil
}

// preserveCorrupt copies an unreadable payload to CorruptItemsKey. A payload
// already preserved is not written again: the write would wake store watchers,
// which load again and find the same bytes.
func (s *ItemStore) preserveCorrupt(raw string, decodeErr error) {
	if kept, ok, err := s.backend.Get(CorruptItemsKey); err == nil && ok && kept == raw {
		s.logger.Debug("stored list is malformed; already preserved", "slot", ItemsKey, "err", decodeErr)
		return
	}
	s.logger.Warn("stored list is malformed; treating as empty", "slot", ItemsKey, "err", decodeErr, "preservedAs", CorruptItemsKey)
	if err := s.backend.Set(CorruptItemsKey, raw); err != nil {
		s.logger.Error("could not preserve malformed list", "err", err)
	}
}

func (s *ItemStore) Save(items []model.Item) error {
	raw, err := EncodeItems(items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}
	if err := s.backend.Set(ItemsKey, string(raw)); err != nil {
		return fmt.Errorf("save items: %w", err)
	}
	return nil
}

func (s *ItemStore) Clear() error {
	if err := s.backend.Remove(ItemsKey); err != nil {
		return fmt.Errorf("clear items: %w", err)
	}
	return nil
}

// Raw returns the undecoded slot content, for diagnostics.
func (s *ItemStore) Raw() (string, bool, error) {
	return s.backend.Get(ItemsKey)
}

// EncodeItems serializes items as a JSON array of {name, bought} records.
func EncodeItems(items []model.Item) ([]byte, error) {
	if items == nil {
		items = []model.Item{}
	}
	return json.Marshal(items)
}

// DecodeItems parses a JSON array whose entries are either {name, bought}
// records or bare name strings (the legacy layout, read as bought=false).
func DecodeItems(raw []byte) ([]model.Item, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return []model.Item{}, nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}
	out := make([]model.Item, 0, len(entries))
	for i, e := range entries {
		it, err := decodeEntry(e)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		out = append(out, it)
	}
	return out, nil
}

func decodeEntry(e json.RawMessage) (model.Item, error) {
	e = bytes.TrimSpace(e)
	if len(e) == 0 {
		return model.Item{}, errors.New("empty entry")
	}
	switch e[0] {
	case '"':
		var name string
		if err := json.Unmarshal(e, &name); err != nil {
			return model.Item{}, err
		}
		if name == "" {
			return model.Item{}, errors.New("empty name")
		}
		return model.Item{Name: name}, nil
	case '{':
		var rec struct {
			Name   *string `json:"name"`
			Bought bool    `json:"bought"`
		}
		if err := json.Unmarshal(e, &rec); err != nil {
			return model.Item{}, err
		}
		if rec.Name == nil || *rec.Name == "" {
			return model.Item{}, errors.New("missing name")
		}
		return model.Item{Name: *rec.Name, Bought: rec.Bought}, nil
	default:
		return model.Item{}, fmt.Errorf("unexpected value %s", string(e))
	}
}
