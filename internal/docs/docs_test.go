package docs

import (
	"reflect"
	"strings"
	"testing"
)

func TestTopics(t *testing.T) {
	t.Parallel()

	if got, want := Topics(), []string{"cli", "keys", "storage"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	md, ok := Get(" KEYS ")
	if !ok || !strings.Contains(md, "`space`") {
		t.Fatalf("expected keys topic, got ok=%v", ok)
	}
	for _, bad := range []string{"", "nope", "../docs", "content/keys"} {
		if _, ok := Get(bad); ok {
			t.Fatalf("Get(%q) should fail", bad)
		}
	}
}

func TestTitle(t *testing.T) {
	t.Parallel()

	if got := Title("storage"); got != "Storage" {
		t.Fatalf("unexpected title: %q", got)
	}
	if got := Title("missing"); got != "missing" {
		t.Fatalf("unexpected fallback: %q", got)
	}
}

func TestGet_CLIDescribesNameNormalization(t *testing.T) {
	t.Parallel()

	md, ok := Get("cli")
	if !ok {
		t.Fatalf("expected cli topic")
	}
	for _, want := range []string{"trimmed", "only whitespace counts as empty", "capitalized"} {
		if !strings.Contains(md, want) {
			t.Fatalf("cli topic should mention %q", want)
		}
	}
}
