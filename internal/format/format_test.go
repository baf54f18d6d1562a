package format

import (
	"bytes"
	"strings"
	"testing"
)

type item struct {
	Name   string `json:"name"`
	Bought bool   `json:"bought"`
}

type textList []item

func (l textList) Text() string {
	var b strings.Builder
	for _, it := range l {
		b.WriteString(it.Name + "\n")
	}
	return b.String()
}

func TestWrite_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, []item{{Name: "Milk & eggs"}}, "", false); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got, want := buf.String(), "[{\"name\":\"Milk & eggs\",\"bought\":false}]\n"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestWrite_EDN(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	v := map[string]any{"items": []item{{Name: "Milk", Bought: true}}, "legacyEntries": 2}
	if err := Write(&buf, v, "edn", false); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := "{:items [{:bought true :name \"Milk\"}] :legacy-entries 2}\n"
	if got := buf.String(); got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestWrite_EDNPretty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteEDN(&buf, []item{{Name: "Milk"}}, true); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := "[\n  {\n    :bought false\n    :name \"Milk\"\n  }\n]\n"
	if got := buf.String(); got != want {
		t.Fatalf("want %q, got %q", want, got)
	}

	buf.Reset()
	if err := WriteEDN(&buf, []item{}, true); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := buf.String(); got != "[]\n" {
		t.Fatalf("empty vector: got %q", got)
	}
}

func TestWrite_Text(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, textList{{Name: "Milk"}, {Name: "Eggs"}}, "text", false); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := buf.String(); got != "Milk\nEggs\n" {
		t.Fatalf("unexpected text: %q", got)
	}

	// Non-Texter payloads fall back to indented JSON.
	buf.Reset()
	if err := Write(&buf, map[string]bool{"ok": true}, "text", false); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := buf.String(); got != "{\n  \"ok\": true\n}\n" {
		t.Fatalf("unexpected fallback: %q", got)
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]string{"": JSON, "JSON": JSON, "edn": EDN, "txt": Text} {
		got, err := Normalize(in)
		if err != nil || got != want {
			t.Fatalf("Normalize(%q): want %q, got %q (%v)", in, want, got, err)
		}
	}
	if _, err := Normalize("yaml"); err == nil {
		t.Fatalf("expected error for yaml")
	}
}

func TestKeyword(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]string{
		"name":          ":name",
		"legacyEntries": ":legacy-entries",
		"updated_at":    ":updated-at",
		"ID":            ":id",
	} {
		if got := Keyword(in); got != want {
			t.Fatalf("Keyword(%q): want %q, got %q", in, want, got)
		}
	}
}
