package controller

// Submit button presets.
const (
	ButtonLabelAdd    = "Add Item"
	ButtonLabelUpdate = "Update Item"
	ButtonColorAdd    = "#333"
	ButtonColorUpdate = "#228B22"
)

// Chrome is the state of the controls around the list: the clear and filter
// controls, the submit button and the shared input field.
type Chrome struct {
	ClearVisible  bool
	FilterVisible bool
	ButtonLabel   string
	ButtonColor   string
	Input         string
}

// refreshChrome re-derives the chrome after a mutation. It always resets the
// button to Add styling and leaves edit mode; callers entering edit mode apply
// the Update styling afterwards.
func (c *Controller) refreshChrome() {
	empty := c.view.Len() == 0
	c.chrome.ClearVisible = !empty
	c.chrome.FilterVisible = !empty
	c.chrome.ButtonLabel = ButtonLabelAdd
	c.chrome.ButtonColor = ButtonColorAdd
	c.chrome.Input = ""

	if c.target != nil {
		c.view.SetRowHighlighted(c.target, false)
	}
	c.target = nil
	c.mode = ModeNormal
}

func (c *Controller) applyEditChrome() {
	c.chrome.ButtonLabel = ButtonLabelUpdate
	c.chrome.ButtonColor = ButtonColorUpdate
}
