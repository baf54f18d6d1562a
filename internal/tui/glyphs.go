package tui

import (
	"os"
	"strings"
	"sync"
)

// Some fonts render the check boxes poorly; an ASCII set is available through
// SHOPLIST_TUI_GLYPHS=ascii or the [tui] glyphs config value.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

func applyGlyphPreference(configured string) {
	v := strings.TrimSpace(os.Getenv("SHOPLIST_TUI_GLYPHS"))
	if v == "" {
		v = configured
	}
	if gs, ok := parseGlyphSet(v); ok {
		setGlyphs(gs)
	}
}

func parseGlyphSet(v string) (glyphSet, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "unicode", "utf8":
		return glyphSetUnicode, true
	case "ascii":
		return glyphSetASCII, true
	default:
		return glyphSetUnicode, false
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	defer glyphsMu.RUnlock()
	return currentGlyphs
}

func glyphChecked() string {
	if glyphs() == glyphSetASCII {
		return "[x]"
	}
	return "☑"
}

func glyphUnchecked() string {
	if glyphs() == glyphSetASCII {
		return "[ ]"
	}
	return "☐"
}

func glyphRemove() string {
	if glyphs() == glyphSetASCII {
		return "x"
	}
	return "✕"
}

func glyphCursor() string {
	if glyphs() == glyphSetASCII {
		return ">"
	}
	return "▸"
}

func glyphHRule() string {
	if glyphs() == glyphSetASCII {
		return "-"
	}
	return "─"
}
