package web

import (
	"html/template"
	"strings"

	"shoplist-cli/internal/controller"
	"shoplist-cli/internal/listview"
)

type pageVM struct {
	Title     string
	ListName  string
	StreamURL string
	Main      mainVM
}

type mainVM struct {
	Rows     []rowVM
	Chrome   controller.Chrome
	Editing  bool
	Filter   string
	Total    int
	Bought   int
	Flash    string
	Confirm  *confirmVM
	ReadOnly bool
}

type rowVM struct {
	Name    string
	Bought  bool
	Hidden  bool
	Icon    string
	Classes string
}

type confirmVM struct {
	Message string
	Action  string
	Name    string
}

type helpVM struct {
	Title  string
	Topics []string
	Body   template.HTML
}

func rowIcon(r *listview.Row) string {
	if r.Icon() == listview.IconChecked {
		return "☑"
	}
	return "☐"
}

func (s *Server) mainVMLocked() mainVM {
	rows := s.view.Rows()
	vm := mainVM{
		Rows:     make([]rowVM, 0, len(rows)),
		Chrome:   s.ctrl.Chrome(),
		Editing:  s.ctrl.Mode() == controller.ModeEditing,
		Filter:   s.view.Filter(),
		Total:    len(rows),
		Flash:    s.flash,
		Confirm:  s.confirm,
		ReadOnly: s.cfg.ReadOnly,
	}
	for _, r := range rows {
		if r.Bought() {
			vm.Bought++
		}
		vm.Rows = append(vm.Rows, rowVM{
			Name:    r.Name(),
			Bought:  r.Bought(),
			Hidden:  r.Hidden(),
			Icon:    rowIcon(r),
			Classes: strings.Join(append([]string{"item"}, r.Classes()...), " "),
		})
	}
	return vm
}
