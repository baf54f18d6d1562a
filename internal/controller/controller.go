// Package controller turns user events into repository and renderer calls.
//
// A Controller is a small state machine: NORMAL, or EDITING a single row. Events
// go through an explicit dispatch table and each handler runs to completion
// before the next event. Every mutating transition ends with refreshChrome.
package controller

import (
	"fmt"
	"io"
	"strings"

	"shoplist-cli/internal/listview"
	"shoplist-cli/internal/model"

	"github.com/charmbracelet/log"
)

type Mode int

const (
	ModeNormal Mode = iota
	ModeEditing
)

func (m Mode) String() string {
	if m == ModeEditing {
		return "editing"
	}
	return "normal"
}

type EventKind int

const (
	EventLoad EventKind = iota
	EventSubmit
	EventClickRemove
	EventClickToggle
	EventClickRow
	EventClearAll
	EventFilterInput
	EventCancelEdit
)

var eventNames = map[EventKind]string{
	EventLoad:        "load",
	EventSubmit:      "submit",
	EventClickRemove: "click-remove",
	EventClickToggle: "click-toggle",
	EventClickRow:    "click-row",
	EventClearAll:    "clear-all",
	EventFilterInput: "filter-input",
	EventCancelEdit:  "cancel-edit",
}

func (k EventKind) String() string {
	if s, ok := eventNames[k]; ok {
		return s
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// Event is one user action. Text carries input for submit/filter; Row is the
// row a click landed on.
type Event struct {
	Kind EventKind
	Text string
	Row  *listview.Row
}

func Load() Event                         { return Event{Kind: EventLoad} }
func Submit(text string) Event            { return Event{Kind: EventSubmit, Text: text} }
func ClickRemove(row *listview.Row) Event { return Event{Kind: EventClickRemove, Row: row} }
func ClickToggle(row *listview.Row) Event { return Event{Kind: EventClickToggle, Row: row} }
func ClickRow(row *listview.Row) Event    { return Event{Kind: EventClickRow, Row: row} }
func ClearAll() Event                     { return Event{Kind: EventClearAll} }
func FilterInput(text string) Event       { return Event{Kind: EventFilterInput, Text: text} }
func CancelEdit() Event                   { return Event{Kind: EventCancelEdit} }

type Repository interface {
	Exists(name string) (bool, error)
	Add(name string) error
	RemoveByName(name string) error
	Rename(old, name string) error
	SetBought(name string, bought bool) error
	Clear() error
	List() ([]model.Item, error)
}

type Renderer interface {
	RenderRow(it model.Item) *listview.Row
	RemoveRow(r *listview.Row)
	SetRowBought(r *listview.Row, bought bool)
	SetRowHighlighted(r *listview.Row, on bool)
	ClearAll()
	ApplyFilter(text string)
	Len() int
	Contains(r *listview.Row) bool
	Items() []model.Item
}

// Prompter shows blocking messages. Confirm runs onYes only when the user
// accepts; a surface may answer later (a modal), in which case the error from
// onYes is the surface's to report.
type Prompter interface {
	Alert(msg string)
	Confirm(msg string, onYes func() error)
}

type Controller struct {
	repo   Repository
	view   Renderer
	prompt Prompter
	logger *log.Logger

	mode   Mode
	target *listview.Row
	chrome Chrome

	handlers map[EventKind]func(Event) error
}

func New(repo Repository, view Renderer, prompt Prompter, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	c := &Controller{
		repo:   repo,
		view:   view,
		prompt: prompt,
		logger: logger,
	}
	c.handlers = map[EventKind]func(Event) error{
		EventLoad:        c.onLoad,
		EventSubmit:      c.onSubmit,
		EventClickRemove: c.onClickRemove,
		EventClickToggle: c.onClickToggle,
		EventClickRow:    c.onClickRow,
		EventClearAll:    c.onClearAll,
		EventFilterInput: c.onFilterInput,
		EventCancelEdit:  c.onCancelEdit,
	}
	c.refreshChrome()
	return c
}

// Dispatch runs the handler for ev.Kind.
func (c *Controller) Dispatch(ev Event) error {
	h, ok := c.handlers[ev.Kind]
	if !ok {
		return fmt.Errorf("unknown event: %s", ev.Kind)
	}
	c.logger.Debug("dispatch", "event", ev.Kind, "mode", c.mode)
	return h(ev)
}

func (c *Controller) Mode() Mode { return c.mode }

// Target is the row being edited, nil in NORMAL mode.
func (c *Controller) Target() *listview.Row { return c.target }

func (c *Controller) Chrome() Chrome { return c.chrome }

// InSync reports whether the rendered rows still match the stored list.
func (c *Controller) InSync() (bool, error) {
	stored, err := c.repo.List()
	if err != nil {
		return false, err
	}
	shown := c.view.Items()
	if len(stored) != len(shown) {
		return false, nil
	}
	for i := range stored {
		if stored[i] != shown[i] {
			return false, nil
		}
	}
	return true, nil
}

func (c *Controller) onLoad(Event) error {
	items, err := c.repo.List()
	if err != nil {
		return err
	}
	c.view.ClearAll()
	for _, it := range items {
		c.view.RenderRow(it)
	}
	c.target = nil
	c.refreshChrome()
	c.logger.Debug("rendered list", "items", len(items))
	return nil
}

func (c *Controller) onSubmit(ev Event) error {
	c.chrome.Input = ev.Text

	raw := strings.TrimSpace(ev.Text)
	if raw == "" {
		return c.reject(MsgEmptyName, "", ErrEmptyName)
	}
	name := model.Capitalize(raw)

	if c.mode == ModeEditing && c.target != nil {
		old := c.target.Name()
		if name != old {
			exists, err := c.repo.Exists(name)
			if err != nil {
				return err
			}
			if exists {
				return c.reject(MsgDuplicate, name, ErrDuplicate)
			}
		}
		// Edit mode and the old row stay put until the rename is stored.
		if err := c.repo.Rename(old, name); err != nil {
			c.logger.Error("rename failed", "from", old, "to", name, "err", err)
			return err
		}
		c.view.RemoveRow(c.target)
		c.target = nil
		c.mode = ModeNormal
		c.view.RenderRow(model.Item{Name: name})
		c.refreshChrome()
		c.logger.Info("renamed item", "from", old, "to", name)
		return nil
	}

	exists, err := c.repo.Exists(name)
	if err != nil {
		return err
	}
	if exists {
		return c.reject(MsgDuplicate, name, ErrDuplicate)
	}
	c.logger.Info("added item", "name", name)

	err = c.repo.Add(name)
	if err == nil {
		c.view.RenderRow(model.Item{Name: name})
	}
	c.refreshChrome()
	return err
}

func (c *Controller) reject(msg, name string, cause error) error {
	c.logger.Warn("rejected submit", "reason", cause, "name", name)
	if c.prompt != nil {
		c.prompt.Alert(msg)
	}
	return &ValidationError{Message: msg, Name: name, Err: cause}
}

func (c *Controller) onClickRemove(ev Event) error {
	row := ev.Row
	if row == nil || !c.view.Contains(row) {
		return nil
	}
	return c.confirm(MsgConfirmRemove, func() error {
		if err := c.repo.RemoveByName(row.Name()); err != nil {
			return err
		}
		c.view.RemoveRow(row)
		c.refreshChrome()
		c.logger.Info("removed item", "name", row.Name())
		return nil
	})
}

func (c *Controller) onClickToggle(ev Event) error {
	row := ev.Row
	if row == nil || !c.view.Contains(row) {
		return nil
	}
	bought := !row.Bought()
	if err := c.repo.SetBought(row.Name(), bought); err != nil {
		return err
	}
	c.view.SetRowBought(row, bought)
	c.logger.Info("set bought", "name", row.Name(), "bought", bought)
	return nil
}

func (c *Controller) onClickRow(ev Event) error {
	row := ev.Row
	if row == nil || !c.view.Contains(row) {
		return nil
	}
	// A new edit silently replaces any previous one.
	c.view.SetRowHighlighted(row, true)
	c.target = row
	c.mode = ModeEditing
	c.chrome.Input = row.Name()
	c.applyEditChrome()
	return nil
}

func (c *Controller) onClearAll(Event) error {
	return c.confirm(MsgConfirmClear, func() error {
		if err := c.repo.Clear(); err != nil {
			return err
		}
		c.view.ClearAll()
		c.target = nil
		c.refreshChrome()
		c.logger.Info("cleared list")
		return nil
	})
}

func (c *Controller) onFilterInput(ev Event) error {
	c.view.ApplyFilter(ev.Text)
	return nil
}

func (c *Controller) onCancelEdit(Event) error {
	if c.mode != ModeEditing {
		return nil
	}
	c.refreshChrome()
	return nil
}

// confirm asks the prompter and returns the error of onYes when the answer
// arrives synchronously.
func (c *Controller) confirm(msg string, onYes func() error) error {
	if c.prompt == nil {
		return onYes()
	}
	var err error
	c.prompt.Confirm(msg, func() error {
		err = onYes()
		return err
	})
	return err
}
