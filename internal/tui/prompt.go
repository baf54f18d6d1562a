package tui

// modalPrompter parks alerts and confirmations for the model to show as
// modals. The controller's onYes runs only once the user answers.
type modalPrompter struct {
	alert   string
	confirm *pendingConfirm
}

type pendingConfirm struct {
	msg   string
	onYes func() error
}

func (p *modalPrompter) Alert(msg string) {
	p.alert = msg
}

func (p *modalPrompter) Confirm(msg string, onYes func() error) {
	p.confirm = &pendingConfirm{msg: msg, onYes: onYes}
}
