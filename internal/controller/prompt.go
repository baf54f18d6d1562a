package controller

// StaticPrompter answers every confirmation the same way and records alerts.
// Non-interactive surfaces (scripts, tests, --yes) use it.
type StaticPrompter struct {
	Answer bool

	Alerts   []string
	Confirms []string
}

func (p *StaticPrompter) Alert(msg string) {
	p.Alerts = append(p.Alerts, msg)
}

func (p *StaticPrompter) Confirm(msg string, onYes func() error) {
	p.Confirms = append(p.Confirms, msg)
	if p.Answer && onYes != nil {
		_ = onYes()
	}
}

// LastAlert returns the most recent alert, or "".
func (p *StaticPrompter) LastAlert() string {
	if len(p.Alerts) == 0 {
		return ""
	}
	return p.Alerts[len(p.Alerts)-1]
}
