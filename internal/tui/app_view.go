package tui

import (
	"fmt"
	"strings"

	"shoplist-cli/internal/docs"
	"shoplist-cli/internal/listview"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// Lines outside the row area: title, input, two rules, filter, status, help.
const chromeLines = 8

func (m appModel) inputWidth() int {
	w := m.width - xansi.StringWidth(m.ctrl.Chrome().ButtonLabel) - 5
	if w < 10 {
		w = 10
	}
	return w
}

func (m appModel) filterWidth() int {
	w := m.width - len("Filter ") - 2
	if w < 10 {
		w = 10
	}
	return w
}

func (m appModel) View() string {
	switch m.modal {
	case modalConfirm:
		msg := ""
		if m.prompt.confirm != nil {
			msg = m.prompt.confirm.msg
		}
		return m.placeModal(renderConfirmModal(m.width, "Confirm", msg, "OK", "Cancel", m.confirmFocus))
	case modalAlert:
		return m.placeModal(renderAlertModal(m.width, m.prompt.alert))
	case modalHelp:
		return m.placeModal(m.renderHelp())
	}
	return m.renderMain()
}

func (m appModel) placeModal(box string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m appModel) renderMain() string {
	chrome := m.ctrl.Chrome()
	var b strings.Builder

	all := m.view.Rows()
	bought := 0
	for _, r := range all {
		if r.Bought() {
			bought++
		}
	}
	b.WriteString(styleTitle().Render("Shopping list"))
	if len(all) > 0 {
		b.WriteString(styleMuted().Render(fmt.Sprintf("  %d items, %d bought", len(all), bought)))
	}
	b.WriteString("\n")

	button := buttonStyle(chrome.ButtonColor).Render(chrome.ButtonLabel)
	b.WriteString(renderInputLine(m.inputWidth(), m.input.View()) + " " + button + "\n")

	rule := styleMuted().Render(strings.Repeat(glyphHRule(), max(m.width, 1)))
	b.WriteString(rule + "\n")

	b.WriteString(strings.Join(m.renderRows(), "\n"))
	b.WriteString("\n" + rule + "\n")

	var footer []string
	if chrome.FilterVisible {
		label := styleMuted().Render("Filter ")
		footer = append(footer, label+renderInputLine(m.filterWidth(), m.filter.View()))
	}
	status := m.minibufferText
	if chrome.ClearVisible && status == "" {
		status = "C: clear all"
	}
	footer = append(footer, styleMuted().Render(status))
	footer = append(footer, m.help.View(focusedKeys{k: m.keys, focus: m.focus}))
	b.WriteString(strings.Join(footer, "\n"))
	return b.String()
}

func (m appModel) rowAreaHeight() int {
	h := m.height - chromeLines
	if h < 3 {
		h = 3
	}
	return h
}

func (m appModel) renderRows() []string {
	if m.view.Len() == 0 {
		return []string{styleMuted().Render("Nothing on the list yet. Type a name and press enter.")}
	}
	vis := m.view.Visible()
	if len(vis) == 0 {
		return []string{styleMuted().Render("No items match the filter.")}
	}
	h := m.rowAreaHeight()
	offset := 0
	if m.cursor >= h {
		offset = m.cursor - h + 1
	}
	lines := make([]string, 0, len(vis))
	for i, r := range vis {
		lines = append(lines, renderRow(r, m.focus == focusList && i == m.cursor, m.width))
	}
	return clipLines(lines, offset, h)
}

func renderRow(r *listview.Row, selected bool, width int) string {
	icon := glyphUnchecked()
	if r.Icon() == listview.IconChecked {
		icon = glyphChecked()
	}
	nameStyle := lipgloss.NewStyle()
	if r.Bought() {
		nameStyle = nameStyle.Strikethrough(true).Foreground(colorBought)
	}
	cursor := "  "
	if selected {
		cursor = glyphCursor() + " "
	}
	remove := styleMuted().Render(glyphRemove())
	left := cursor + icon + " " + nameStyle.Render(r.Name())
	line := fitLine(left, width-xansi.StringWidth(remove)-1) + " " + remove

	switch {
	case r.Highlighted():
		return lipgloss.NewStyle().Background(colorEditBg).Render(line)
	case selected:
		return lipgloss.NewStyle().Background(colorSelectedBg).Foreground(colorSelectedFg).Render(line)
	}
	return line
}

func (m appModel) renderHelp() string {
	md, _ := docs.Get("keys")
	body := renderMarkdown(md, modalBodyWidth(m.width))
	lines := strings.Split(body, "\n")
	h := m.height - 8
	if h < 5 {
		h = 5
	}
	offset := m.helpOffset
	if last := len(lines) - h; offset > last {
		offset = last
	}
	visible := clipLines(lines, offset, h)
	hint := styleMuted().Render("↑/↓ scroll   esc: close")
	return renderModalBox(m.width, docs.Title("keys"), strings.Join(visible, "\n")+"\n\n"+hint)
}
