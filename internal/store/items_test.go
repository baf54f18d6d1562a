package store

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"shoplist-cli/internal/model"
)

func TestItemStore_LoadEmptyOnFirstRun(t *testing.T) {
	t.Parallel()

	s := NewItemStore(NewMemoryBackend(), nil)
	items, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", items)
	}
}

func TestItemStore_SaveLoad_AllBackends(t *testing.T) {
	t.Parallel()

	want := []model.Item{{Name: "Milk"}, {Name: "Bread", Bought: true}}

	backends := map[string]func(t *testing.T) Backend{
		"memory": func(t *testing.T) Backend { return NewMemoryBackend() },
		"json": func(t *testing.T) Backend {
			b, err := Store{Dir: t.TempDir()}.Open(BackendJSON)
			if err != nil {
				t.Fatalf("open json: %v", err)
			}
			return b
		},
		"sqlite": func(t *testing.T) Backend {
			b, err := Store{Dir: t.TempDir()}.Open(BackendSQLite)
			if err != nil {
				t.Fatalf("open sqlite: %v", err)
			}
			return b
		},
	}
	for name, mk := range backends {
		mk := mk
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			s := NewItemStore(mk(t), nil)
			if err := s.Save(want); err != nil {
				t.Fatalf("Save: %v", err)
			}
			got, err := s.Load()
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if !reflect.DeepEqual(want, got) {
				t.Fatalf("roundtrip mismatch:\nwant: %#v\ngot:  %#v", want, got)
			}

			if err := s.Clear(); err != nil {
				t.Fatalf("Clear: %v", err)
			}
			got, err = s.Load()
			if err != nil {
				t.Fatalf("Load after clear: %v", err)
			}
			if len(got) != 0 {
				t.Fatalf("expected empty after clear, got %#v", got)
			}
		})
	}
}

func TestItemStore_Save_WritesRecordLayout(t *testing.T) {
	t.Parallel()

	b := NewMemoryBackend()
	s := NewItemStore(b, nil)
	if err := s.Save([]model.Item{{Name: "Milk"}}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	raw, _, _ := b.Get(ItemsKey)
	if raw != `[{"name":"Milk","bought":false}]` {
		t.Fatalf("unexpected layout: %s", raw)
	}

	if err := s.Save(nil); err != nil {
		t.Fatalf("Save(nil): %v", err)
	}
	raw, _, _ = b.Get(ItemsKey)
	if raw != `[]` {
		t.Fatalf("expected [] for nil list, got %s", raw)
	}
}

func TestItemStore_Load_NormalizesLegacyStrings(t *testing.T) {
	t.Parallel()

	b := NewMemoryBackend()
	_ = b.Set(ItemsKey, `["Milk", {"name":"Bread","bought":true}, "Eggs"]`)

	got, err := NewItemStore(b, nil).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []model.Item{{Name: "Milk"}, {Name: "Bread", Bought: true}, {Name: "Eggs"}}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("want %#v, got %#v", want, got)
	}
}

func TestItemStore_Load_MalformedIsEmptyAndPreserved(t *testing.T) {
	t.Parallel()

	for _, payload := range []string{
		`{not json`,
		`{"name":"Milk"}`,
		`[1, 2]`,
		`[{"bought":true}]`,
		`[{"name":"Milk","bought":"yes"}]`,
		`[""]`,
	} {
		payload := payload
		t.Run(payload, func(t *testing.T) {
			t.Parallel()
			b := NewMemoryBackend()
			_ = b.Set(ItemsKey, payload)

			got, err := NewItemStore(b, nil).Load()
			if err != nil {
				t.Fatalf("Load should not fail on malformed data: %v", err)
			}
			if len(got) != 0 {
				t.Fatalf("expected empty list, got %#v", got)
			}
			kept, ok, _ := b.Get(CorruptItemsKey)
			if !ok || kept != payload {
				t.Fatalf("expected payload preserved under %s, got %q (ok=%v)", CorruptItemsKey, kept, ok)
			}
		})
	}
}

func TestItemStore_Load_NullIsEmpty(t *testing.T) {
	t.Parallel()

	b := NewMemoryBackend()
	_ = b.Set(ItemsKey, `null`)
	got, err := NewItemStore(b, nil).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty, got %#v", got)
	}
	if _, ok, _ := b.Get(CorruptItemsKey); ok {
		t.Fatalf("null is not malformed; nothing should be preserved")
	}
}

func TestItemStore_CorruptStorageFile_LoadsEmpty_SaveMovesAside(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, jsonFileName), []byte("garbage"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	b, err := Store{Dir: dir}.Open(BackendJSON)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s := NewItemStore(b, nil)

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty, got %#v", got)
	}

	if err := s.Save([]model.Item{{Name: "Milk"}}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	matches, _ := filepath.Glob(filepath.Join(dir, jsonFileName+".corrupt-*"))
	if len(matches) != 1 {
		t.Fatalf("expected corrupt file moved aside, got %v", matches)
	}
	got, err = s.Load()
	if err != nil || len(got) != 1 || got[0].Name != "Milk" {
		t.Fatalf("expected fresh store with Milk, got %#v err=%v", got, err)
	}
}

func TestItemStore_Load_MalformedPreservedOnce(t *testing.T) {
	t.Parallel()

	b := &countingBackend{MemoryBackend: NewMemoryBackend()}
	_ = b.MemoryBackend.Set(ItemsKey, `{not json`)
	is := NewItemStore(b, nil)

	for i := 0; i < 3; i++ {
		if _, err := is.Load(); err != nil {
			t.Fatalf("Load: %v", err)
		}
	}
	if b.sets != 1 {
		t.Fatalf("expected the payload to be written once, got %d writes", b.sets)
	}

	// A different malformed payload is preserved again.
	_ = b.MemoryBackend.Set(ItemsKey, `[1]`)
	_, _ = is.Load()
	if kept, _, _ := b.Get(CorruptItemsKey); kept != `[1]` || b.sets != 2 {
		t.Fatalf("expected new payload preserved, got %q after %d writes", kept, b.sets)
	}
}

type countingBackend struct {
	*MemoryBackend
	sets int
}

func (b *countingBackend) Set(key, value string) error {
	b.sets++
	return b.MemoryBackend.Set(key, value)
}
