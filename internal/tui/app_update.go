package tui

import (
	"strings"

	"shoplist-cli/internal/controller"
	"shoplist-cli/internal/model"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = m.inputWidth()
		m.filter.Width = m.filterWidth()
		return m, nil

	case flashDoneMsg:
		if msg.seq == m.minibufferSeq {
			m.minibufferText = ""
		}
		return m, nil

	case storeChangedMsg:
		return m, m.reloadIfStale()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		switch {
		case m.modal != modalNone:
			cmd = m.updateModal(msg)
		case m.focus == focusInput:
			cmd = m.updateInput(msg)
		case m.focus == focusFilter:
			cmd = m.updateFilter(msg)
		default:
			var quit bool
			cmd, quit = m.updateList(msg)
			if quit {
				return m, tea.Quit
			}
		}
		if m.pendingReload && m.modal == modalNone && m.ctrl.Mode() == controller.ModeNormal {
			cmd = tea.Batch(cmd, m.reloadIfStale())
		}
		return m, cmd
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusInput:
		m.input, cmd = m.input.Update(msg)
	case focusFilter:
		m.filter, cmd = m.filter.Update(msg)
	}
	return m, cmd
}

func (m *appModel) updateInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab":
		m.cycleFocus(false)
		return nil
	case "shift+tab":
		m.cycleFocus(true)
		return nil
	case "enter":
		text := m.input.Value()
		cmd, err := m.dispatch(controller.Submit(text))
		m.input.SetValue(m.ctrl.Chrome().Input)
		m.input.CursorEnd()
		if err == nil {
			m.selectRowNamed(model.Capitalize(strings.TrimSpace(text)))
		}
		return cmd
	case "esc":
		if m.ctrl.Mode() == controller.ModeEditing {
			cmd, _ := m.dispatch(controller.CancelEdit())
			m.input.SetValue(m.ctrl.Chrome().Input)
			return cmd
		}
		if m.view.Len() > 0 {
			m.setFocus(focusList)
		}
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *appModel) updateFilter(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab":
		m.cycleFocus(false)
		return nil
	case "shift+tab":
		m.cycleFocus(true)
		return nil
	case "esc", "enter":
		m.setFocus(focusList)
		return nil
	}
	before := m.filter.Value()
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if after := m.filter.Value(); after != before {
		dcmd, _ := m.dispatch(controller.FilterInput(after))
		m.cursor = 0
		cmd = tea.Batch(cmd, dcmd)
	}
	return cmd
}

func (m *appModel) updateList(msg tea.KeyMsg) (tea.Cmd, bool) {
	k := m.keys
	chrome := m.ctrl.Chrome()
	switch {
	case key.Matches(msg, k.Quit):
		return nil, true
	case key.Matches(msg, k.Focus):
		m.cycleFocus(msg.String() == "shift+tab")
	case key.Matches(msg, k.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, k.Down):
		if m.cursor < len(m.view.Visible())-1 {
			m.cursor++
		}
	case key.Matches(msg, k.Edit):
		row := m.selectedRow()
		if row == nil {
			return nil, false
		}
		cmd, _ := m.dispatch(controller.ClickRow(row))
		m.input.SetValue(m.ctrl.Chrome().Input)
		m.setFocus(focusInput)
		return cmd, false
	case key.Matches(msg, k.Toggle):
		if row := m.selectedRow(); row != nil {
			cmd, _ := m.dispatch(controller.ClickToggle(row))
			return cmd, false
		}
	case key.Matches(msg, k.Remove):
		if row := m.selectedRow(); row != nil {
			cmd, _ := m.dispatch(controller.ClickRemove(row))
			return cmd, false
		}
	case key.Matches(msg, k.ClearAll):
		if chrome.ClearVisible {
			cmd, _ := m.dispatch(controller.ClearAll())
			return cmd, false
		}
	case key.Matches(msg, k.Filter):
		if chrome.FilterVisible {
			m.setFocus(focusFilter)
		}
	case key.Matches(msg, k.Copy):
		return m.copyPending(), false
	case key.Matches(msg, k.Cancel):
		if m.ctrl.Mode() == controller.ModeEditing {
			cmd, _ := m.dispatch(controller.CancelEdit())
			m.input.SetValue(m.ctrl.Chrome().Input)
			return cmd, false
		}
	case key.Matches(msg, k.Help):
		m.modal = modalHelp
		m.helpOffset = 0
	case msg.String() == "i" || msg.String() == "a":
		m.setFocus(focusInput)
	}
	return nil, false
}

func (m *appModel) updateModal(msg tea.KeyMsg) tea.Cmd {
	switch m.modal {
	case modalAlert:
		switch msg.String() {
		case "enter", "esc", " ", "q":
			m.prompt.alert = ""
			m.modal = modalNone
			m.openPrompt()
		}
		return nil

	case modalConfirm:
		switch msg.String() {
		case "tab", "shift+tab", "left", "right", "h", "l":
			m.confirmFocus = m.confirmFocus.toggle()
			return nil
		case "y", "Y":
			return m.answerConfirm(true)
		case "n", "N", "esc":
			return m.answerConfirm(false)
		case "enter":
			return m.answerConfirm(m.confirmFocus == confirmFocusConfirm)
		}
		return nil

	case modalHelp:
		switch msg.String() {
		case "up", "k":
			if m.helpOffset > 0 {
				m.helpOffset--
			}
		case "down", "j":
			m.helpOffset++
		case "esc", "q", "?", "enter":
			m.modal = modalNone
		}
		return nil
	}
	m.modal = modalNone
	return nil
}

func (m *appModel) answerConfirm(yes bool) tea.Cmd {
	p := m.prompt.confirm
	m.prompt.confirm = nil
	m.modal = modalNone
	if !yes || p == nil || p.onYes == nil {
		return nil
	}
	var cmd tea.Cmd
	if err := p.onYes(); err != nil {
		m.logger.Error("confirmed action failed", "prompt", p.msg, "err", err)
		cmd = m.showMinibuffer("Error: " + err.Error())
	}
	// A remove while editing resets the edit, so the input follows the chrome.
	if m.ctrl.Mode() == controller.ModeNormal {
		m.input.SetValue(m.ctrl.Chrome().Input)
	}
	m.openPrompt()
	m.afterMutation()
	return cmd
}
