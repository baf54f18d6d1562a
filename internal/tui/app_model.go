package tui

import (
	"time"

	"shoplist-cli/internal/controller"
	"shoplist-cli/internal/items"
	"shoplist-cli/internal/listview"
	"shoplist-cli/internal/logging"
	"shoplist-cli/internal/store"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

type focusArea int

const (
	focusInput focusArea = iota
	focusList
	focusFilter
)

func (f focusArea) String() string {
	switch f {
	case focusList:
		return "list"
	case focusFilter:
		return "filter"
	default:
		return "input"
	}
}

func parseFocus(s string) focusArea {
	switch s {
	case "list":
		return focusList
	case "filter":
		return focusFilter
	default:
		return focusInput
	}
}

type modalKind int

const (
	modalNone modalKind = iota
	modalConfirm
	modalAlert
	modalHelp
)

// storeChangedMsg is sent by the store watcher when another process wrote the list.
type storeChangedMsg struct{}

type flashDoneMsg struct{ seq int }

const minibufferTTL = 3 * time.Second

type appModel struct {
	st     store.Store
	repo   *items.Repository
	view   *listview.List
	ctrl   *controller.Controller
	prompt *modalPrompter
	logger *log.Logger

	input  textinput.Model
	filter textinput.Model
	keys   keyMap
	help   help.Model

	focus        focusArea
	cursor       int
	modal        modalKind
	confirmFocus confirmModalFocus
	helpOffset   int

	width  int
	height int

	minibufferText string
	minibufferSeq  int

	// pendingReload defers an on-disk reload until no edit or modal is active.
	pendingReload bool
}

func newAppModel(st store.Store, repo *items.Repository, logger *log.Logger) appModel {
	if logger == nil {
		logger = logging.Discard()
	}
	view := listview.New()
	prompt := &modalPrompter{}

	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = "Add an item"
	in.CharLimit = 200

	flt := textinput.New()
	flt.Prompt = ""
	flt.Placeholder = "Filter items"

	m := appModel{
		st:     st,
		repo:   repo,
		view:   view,
		prompt: prompt,
		ctrl:   controller.New(repo, view, prompt, logger),
		logger: logger,
		input:  in,
		filter: flt,
		keys:   newKeyMap(),
		help:   help.New(),
		width:  80,
		height: 24,
	}
	if err := m.ctrl.Dispatch(controller.Load()); err != nil {
		logger.Error("load list", "err", err)
		m.minibufferText = "Error: " + err.Error()
	}

	focus := focusInput
	if state, err := st.LoadTUIState(); err == nil {
		focus = parseFocus(state.Focus)
		m.selectRowNamed(state.Selected)
	}
	if focus == focusFilter {
		focus = focusList
	}
	if focus == focusList && view.Len() == 0 {
		focus = focusInput
	}
	m.setFocus(focus)
	return m
}

func (m appModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *appModel) setFocus(f focusArea) {
	if f == focusFilter && !m.ctrl.Chrome().FilterVisible {
		f = focusInput
	}
	m.focus = f
	m.input.Blur()
	m.filter.Blur()
	switch f {
	case focusInput:
		m.input.Focus()
		m.input.CursorEnd()
	case focusFilter:
		m.filter.Focus()
		m.filter.CursorEnd()
	}
}

func (m *appModel) cycleFocus(back bool) {
	order := []focusArea{focusInput, focusList}
	if m.ctrl.Chrome().FilterVisible {
		order = append(order, focusFilter)
	}
	idx := 0
	for i, f := range order {
		if f == m.focus {
			idx = i
		}
	}
	if back {
		idx = (idx - 1 + len(order)) % len(order)
	} else {
		idx = (idx + 1) % len(order)
	}
	m.setFocus(order[idx])
}

func (m *appModel) selectedRow() *listview.Row {
	vis := m.view.Visible()
	if m.cursor < 0 || m.cursor >= len(vis) {
		return nil
	}
	return vis[m.cursor]
}

func (m *appModel) selectedName() string {
	if r := m.selectedRow(); r != nil {
		return r.Name()
	}
	return ""
}

func (m *appModel) selectRowNamed(name string) {
	if name == "" {
		return
	}
	for i, r := range m.view.Visible() {
		if r.Name() == name {
			m.cursor = i
			return
		}
	}
}

func (m *appModel) clampCursor() {
	n := len(m.view.Visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *appModel) showMinibuffer(text string) tea.Cmd {
	m.minibufferText = text
	m.minibufferSeq++
	seq := m.minibufferSeq
	return tea.Tick(minibufferTTL, func(time.Time) tea.Msg { return flashDoneMsg{seq: seq} })
}

// dispatch runs ev and opens whatever prompt the controller asked for.
// Validation failures surface as an alert modal; other errors go to the
// minibuffer.
func (m *appModel) dispatch(ev controller.Event) (tea.Cmd, error) {
	err := m.ctrl.Dispatch(ev)
	var cmd tea.Cmd
	if err != nil && !controller.IsValidation(err) {
		m.logger.Error("dispatch failed", "event", ev.Kind, "err", err)
		cmd = m.showMinibuffer("Error: " + err.Error())
	}
	m.openPrompt()
	m.afterMutation()
	return cmd, err
}

func (m *appModel) openPrompt() {
	switch {
	case m.prompt.confirm != nil:
		m.modal = modalConfirm
		m.confirmFocus = confirmFocusConfirm
	case m.prompt.alert != "":
		m.modal = modalAlert
	}
}

func (m *appModel) afterMutation() {
	m.clampCursor()
	if m.focus == focusFilter && !m.ctrl.Chrome().FilterVisible {
		m.setFocus(focusInput)
	}
}

// reloadIfStale re-renders from the store when another process changed it.
func (m *appModel) reloadIfStale() tea.Cmd {
	if m.modal != modalNone || m.ctrl.Mode() == controller.ModeEditing {
		m.pendingReload = true
		return nil
	}
	m.pendingReload = false
	ok, err := m.ctrl.InSync()
	if err != nil {
		m.logger.Warn("check list on disk", "err", err)
		return nil
	}
	if ok {
		return nil
	}
	selected := m.selectedName()
	if err := m.ctrl.Dispatch(controller.Load()); err != nil {
		m.logger.Error("reload list", "err", err)
		return m.showMinibuffer("Error: " + err.Error())
	}
	m.selectRowNamed(selected)
	m.afterMutation()
	m.logger.Info("reloaded list after external change", "dir", m.st.Dir)
	return m.showMinibuffer("List changed on disk; reloaded")
}

func (m appModel) saveState() {
	st := &store.TUIState{Focus: m.focus.String(), Selected: m.selectedName()}
	if err := m.st.SaveTUIState(st); err != nil {
		m.logger.Warn("save tui state", "err", err)
	}
}
