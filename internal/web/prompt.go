package web

// requestPrompter answers the controller for one request. Confirmations are
// accepted only when the form carried confirmed=1 (the page asks with a
// browser confirm first); otherwise the question is parked and the page
// renders a confirm box instead.
type requestPrompter struct {
	confirmed bool
	alerts    []string
	pending   string
}

func (p *requestPrompter) reset(confirmed bool) {
	p.confirmed = confirmed
	p.alerts = nil
	p.pending = ""
}

func (p *requestPrompter) Alert(msg string) {
	p.alerts = append(p.alerts, msg)
}

func (p *requestPrompter) Confirm(msg string, onYes func() error) {
	if p.confirmed {
		_ = onYes()
		return
	}
	p.pending = msg
}
