package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// cliPrompter answers the controller from a terminal. --yes accepts every
// confirmation; otherwise one line is read from in.
type cliPrompter struct {
	in  io.Reader
	out io.Writer
	yes bool

	alerts   []string
	declined bool
	err      error
}

func (p *cliPrompter) Alert(msg string) {
	p.alerts = append(p.alerts, msg)
}

func (p *cliPrompter) Confirm(msg string, onYes func() error) {
	if p.yes {
		_ = onYes()
		return
	}
	fmt.Fprintf(p.out, "%s [y/N] ", msg)
	line, err := bufio.NewReader(p.in).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(p.out)
		p.declined = true
		p.err = errNonInteractive
		return
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		_ = onYes()
	default:
		p.declined = true
		p.err = errAborted
	}
}
