package main

import (
	"os"
	"strings"

	"shoplist-cli/internal/cli"
)

func isQuickAdd(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "+") && len(s) > 1
}

// rewriteQuickAddArgs turns `shoplist +oat milk` into `shoplist items add oat milk`.
//
// Cobra treats the first non-flag token as a subcommand, so argv is rewritten
// before parsing. Persistent flags may come first (`shoplist --list party +chips`),
// so the first positional token is searched for, not just argv[1].
func rewriteQuickAddArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--dir":       true,
		"--list":      true,
		"--backend":   true,
		"--format":    true,
		"--log-level": true,
		"--log-file":  true,
	}

	// rewrite replaces argv[at:] with `items add` and the quick-add words.
	// A `--` before the quick add moves after `add` so the remaining words stay
	// positional for the add command; left in place, cobra would stop looking
	// for subcommands at it.
	rewrite := func(at, plus int, dashed bool) []string {
		out := make([]string, 0, len(argv)+2)
		out = append(out, argv[:at]...)
		out = append(out, "items", "add")
		if dashed {
			out = append(out, "--")
		}
		out = append(out, strings.TrimPrefix(strings.TrimSpace(argv[plus]), "+"))
		out = append(out, argv[plus+1:]...)
		return out
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && isQuickAdd(argv[i+1]) {
				return rewrite(i, i+1, true)
			}
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}
		if isQuickAdd(a) {
			return rewrite(i, i, false)
		}
		return argv
	}
	return argv
}

func main() {
	os.Args = rewriteQuickAddArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
