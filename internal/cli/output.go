package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"shoplist-cli/internal/format"
	"shoplist-cli/internal/model"

	"github.com/spf13/cobra"
)

// envelope is the shape of every structured command result.
type envelope struct {
	Data  any            `json:"data"`
	Meta  map[string]any `json:"meta,omitempty"`
	Hints []string       `json:"_hints,omitempty"`

	text string
}

// Text is used by --format text. Payloads without a text rendering print
// their data as indented JSON.
func (e envelope) Text() string {
	if e.text != "" {
		return e.text
	}
	b, err := json.MarshalIndent(e.Data, "", "  ")
	if err != nil {
		return fmt.Sprint(e.Data)
	}
	return string(b)
}

func itemsText(list []model.Item) string {
	if len(list) == 0 {
		return "(empty)"
	}
	var b strings.Builder
	for _, it := range list {
		mark := "[ ]"
		if it.Bought {
			mark = "[x]"
		}
		fmt.Fprintf(&b, "%s %s\n", mark, it.Name)
	}
	return b.String()
}

func countBought(list []model.Item) int {
	n := 0
	for _, it := range list {
		if it.Bought {
			n++
		}
	}
	return n
}

func listEnvelope(list []model.Item, meta map[string]any, hints ...string) envelope {
	if meta == nil {
		meta = map[string]any{}
	}
	meta["total"] = len(list)
	meta["bought"] = countBought(list)
	return envelope{Data: list, Meta: meta, Hints: hints, text: itemsText(list)}
}

func writeJSONOut(cmd *cobra.Command, app *App, v any) error {
	return format.WriteJSON(cmd.OutOrStdout(), v, app.PrettyJSON)
}
