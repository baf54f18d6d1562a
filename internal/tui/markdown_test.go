package tui

import (
	"strings"
	"testing"
)

func TestMarkdownStyle_FollowsTheme(t *testing.T) {
	t.Setenv("SHOPLIST_TUI_MD_STYLE", "")

	t.Setenv("SHOPLIST_TUI_THEME", "light")
	if got := markdownStyle(); got != "light" {
		t.Fatalf("expected light; got %q", got)
	}
	t.Setenv("SHOPLIST_TUI_THEME", "dark")
	if got := markdownStyle(); got != "dark" {
		t.Fatalf("expected dark; got %q", got)
	}

	t.Setenv("SHOPLIST_TUI_MD_STYLE", "light")
	if got := markdownStyle(); got != "light" {
		t.Fatalf("md style should override theme; got %q", got)
	}
}

func TestRenderMarkdown(t *testing.T) {
	t.Setenv("SHOPLIST_TUI_MD_STYLE", "dark")

	if got := renderMarkdown("   ", 40); got != "" {
		t.Fatalf("blank input should render empty; got %q", got)
	}
	out := renderMarkdown("# Keys\n\nPress `space` to toggle.", 40)
	if !strings.Contains(out, "Keys") || !strings.Contains(out, "toggle") {
		t.Fatalf("rendered markdown lost text: %q", out)
	}
}
