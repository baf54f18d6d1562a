package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type confirmModalFocus int

const (
	confirmFocusConfirm confirmModalFocus = iota
	confirmFocusCancel
)

func (f confirmModalFocus) toggle() confirmModalFocus {
	if f == confirmFocusConfirm {
		return confirmFocusCancel
	}
	return confirmFocusConfirm
}

func modalWidth(screenW int) int {
	w := screenW - 8
	if w > 60 {
		w = 60
	}
	if w < 24 {
		w = 24
	}
	return w
}

// modalBodyWidth is the usable text width inside a modal box (border + padding).
func modalBodyWidth(screenW int) int {
	return modalWidth(screenW) - 4
}

func renderModalBox(screenW int, title string, body string) string {
	head := lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render(title)
	return lipgloss.NewStyle().
		Width(modalWidth(screenW)).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Padding(0, 1).
		Foreground(colorSurfaceFg).
		Render(head + "\n\n" + body)
}

func renderConfirmModal(width int, title string, body string, confirmLabel string, cancelLabel string, focus confirmModalFocus) string {
	// Buttons are borderless; nested borders leave background artifacts in some terminals.
	btnBase := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(colorSurfaceFg).
		Background(colorControlBg)
	btnActive := btnBase.
		Foreground(colorSelectedFg).
		Background(colorSelectedBg).
		Bold(true)

	confirm := btnBase.Render(confirmLabel)
	cancel := btnBase.Render(cancelLabel)
	if focus == confirmFocusConfirm {
		confirm = btnActive.Render(confirmLabel)
	} else {
		cancel = btnActive.Render(cancelLabel)
	}
	controls := lipgloss.JoinHorizontal(lipgloss.Top, confirm, " ", cancel)

	bodyW := modalBodyWidth(width)
	help := styleMuted().Width(bodyW).Render("tab: focus   enter: select   y/n   esc: cancel")

	content := strings.Join([]string{
		lipgloss.NewStyle().Width(bodyW).Render(body),
		"",
		controls,
		"",
		help,
	}, "\n")
	return renderModalBox(width, title, content)
}

func renderAlertModal(width int, body string) string {
	bodyW := modalBodyWidth(width)
	content := strings.Join([]string{
		lipgloss.NewStyle().Width(bodyW).Foreground(colorErrorFg).Render(body),
		"",
		styleMuted().Width(bodyW).Render("enter/esc: dismiss"),
	}, "\n")
	return renderModalBox(width, "Notice", content)
}
