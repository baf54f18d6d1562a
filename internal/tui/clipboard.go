package tui

import (
	"fmt"
	"strings"

	"shoplist-cli/internal/listview"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

// pendingText is the visible rows still to buy, one per line.
func pendingText(rows []*listview.Row) (string, int) {
	var b strings.Builder
	n := 0
	for _, r := range rows {
		if r.Bought() {
			continue
		}
		b.WriteString(r.Name())
		b.WriteByte('\n')
		n++
	}
	return b.String(), n
}

func (m *appModel) copyPending() tea.Cmd {
	text, n := pendingText(m.view.Visible())
	if n == 0 {
		return m.showMinibuffer("Nothing left to buy")
	}
	if err := writeClipboard(text); err != nil {
		m.logger.Warn("clipboard write failed", "err", err)
		return m.showMinibuffer("Clipboard unavailable: " + err.Error())
	}
	if n == 1 {
		return m.showMinibuffer("Copied 1 item")
	}
	return m.showMinibuffer(fmt.Sprintf("Copied %d items", n))
}
