// Package listview holds the visible rows of a list, independent of how a
// surface draws them. It is a pure reflection of item records: it never reads
// or writes storage.
package listview

import (
	"shoplist-cli/internal/model"
)

// Icon is the bought-toggle affordance shown on a row.
type Icon int

const (
	IconUnchecked Icon = iota
	IconChecked
)

// Row is a handle to one visible entry.
type Row struct {
	id          int
	name        string
	bought      bool
	highlighted bool
	hidden      bool
}

func (r *Row) ID() int           { return r.id }
func (r *Row) Name() string      { return r.name }
func (r *Row) Bought() bool      { return r.bought }
func (r *Row) Highlighted() bool { return r.highlighted }
func (r *Row) Hidden() bool      { return r.hidden }
func (r *Row) Item() model.Item  { return model.Item{Name: r.name, Bought: r.bought} }

func (r *Row) Icon() Icon {
	if r.bought {
		return IconChecked
	}
	return IconUnchecked
}

// Classes mirrors the visual classes a row carries (bought, edit-mode).
func (r *Row) Classes() []string {
	var out []string
	if r.bought {
		out = append(out, "bought")
	}
	if r.highlighted {
		out = append(out, "edit-mode")
	}
	return out
}

type List struct {
	rows   []*Row
	filter string
	nextID int
}

func New() *List {
	return &List{}
}

// RenderRow appends a row for it. The current filter applies to the new row.
func (l *List) RenderRow(it model.Item) *Row {
	l.nextID++
	r := &Row{
		id:     l.nextID,
		name:   it.Name,
		bought: it.Bought,
		hidden: !model.MatchesFilter(it.Name, l.filter),
	}
	l.rows = append(l.rows, r)
	return r
}

func (l *List) RemoveRow(r *Row) {
	if r == nil {
		return
	}
	for i, x := range l.rows {
		if x == r {
			l.rows = append(l.rows[:i], l.rows[i+1:]...)
			return
		}
	}
}

func (l *List) SetRowBought(r *Row, bought bool) {
	if r == nil {
		return
	}
	r.bought = bought
}

// SetRowHighlighted marks r as the edit target. At most one row is highlighted:
// turning one on clears every other.
func (l *List) SetRowHighlighted(r *Row, on bool) {
	if on {
		for _, x := range l.rows {
			x.highlighted = false
		}
	}
	if r != nil {
		r.highlighted = on
	}
}

func (l *List) ClearAll() {
	l.rows = nil
}

// ApplyFilter hides rows whose name does not contain text (case-insensitive).
// Rows are hidden, never removed.
func (l *List) ApplyFilter(text string) {
	l.filter = text
	for _, r := range l.rows {
		r.hidden = !model.MatchesFilter(r.name, text)
	}
}

func (l *List) Filter() string { return l.filter }

func (l *List) Len() int { return len(l.rows) }

// Rows returns every row in display order, hidden ones included.
func (l *List) Rows() []*Row {
	out := make([]*Row, len(l.rows))
	copy(out, l.rows)
	return out
}

// Visible returns the rows not hidden by the filter.
func (l *List) Visible() []*Row {
	out := make([]*Row, 0, len(l.rows))
	for _, r := range l.rows {
		if !r.hidden {
			out = append(out, r)
		}
	}
	return out
}

func (l *List) Highlighted() *Row {
	for _, r := range l.rows {
		if r.highlighted {
			return r
		}
	}
	return nil
}

// Find returns the first row showing name.
func (l *List) Find(name string) *Row {
	for _, r := range l.rows {
		if r.name == name {
			return r
		}
	}
	return nil
}

// Contains reports whether r is still part of the list.
func (l *List) Contains(r *Row) bool {
	for _, x := range l.rows {
		if x == r {
			return true
		}
	}
	return false
}

// Items returns the records the rows reflect, in display order.
func (l *List) Items() []model.Item {
	out := make([]model.Item, 0, len(l.rows))
	for _, r := range l.rows {
		out = append(out, r.Item())
	}
	return out
}
