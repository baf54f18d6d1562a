// Package schema validates serialized item lists (the stored slot, import
// files) against the embedded JSON Schema.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "https://shoplist.local/schema/items.json"

//go:embed items.schema.json
var itemsSchema []byte

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func itemsSchemaCompiled() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, bytes.NewReader(itemsSchema)); err != nil {
			compileErr = fmt.Errorf("load items schema: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// Issue is one problem found in a payload. Path is a dotted location such as
// "[2].name"; empty means the document itself.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

type Report struct {
	Valid      bool     `json:"valid"`
	Items      int      `json:"items"`
	Legacy     int      `json:"legacyEntries"`
	Duplicates []string `json:"duplicates,omitempty"`
	Issues     []Issue  `json:"issues,omitempty"`
}

func (r *Report) String() string {
	var b strings.Builder
	if r.Valid {
		fmt.Fprintf(&b, "ok: %d items", r.Items)
		if r.Legacy > 0 {
			fmt.Fprintf(&b, " (%d legacy entries)", r.Legacy)
		}
		b.WriteString("\n")
	} else {
		b.WriteString("invalid:\n")
	}
	for _, is := range r.Issues {
		loc := is.Path
		if loc == "" {
			loc = "(root)"
		}
		fmt.Fprintf(&b, "  %s: %s\n", loc, is.Message)
	}
	return b.String()
}

// Validate checks raw against the item-list schema and the unique-name rule.
// An empty payload is a valid empty list. The returned error is reserved for
// a broken embedded schema.
func Validate(raw []byte) (*Report, error) {
	sch, err := itemsSchemaCompiled()
	if err != nil {
		return nil, err
	}

	rep := &Report{Valid: true}
	if len(bytes.TrimSpace(raw)) == 0 {
		return rep, nil
	}

	var doc any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		rep.Valid = false
		rep.Issues = append(rep.Issues, Issue{Message: "not valid JSON: " + err.Error()})
		return rep, nil
	}

	if err := sch.Validate(doc); err != nil {
		rep.Valid = false
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			collect(rep, ve)
		} else {
			rep.Issues = append(rep.Issues, Issue{Message: err.Error()})
		}
	}

	entries, _ := doc.([]any)
	rep.Items = len(entries)
	seen := map[string]int{}
	for _, e := range entries {
		switch v := e.(type) {
		case string:
			rep.Legacy++
			seen[v]++
		case map[string]any:
			if name, ok := v["name"].(string); ok {
				seen[name]++
			}
		}
	}
	for name, n := range seen {
		if n > 1 {
			rep.Duplicates = append(rep.Duplicates, name)
		}
	}
	sort.Strings(rep.Duplicates)
	for _, name := range rep.Duplicates {
		rep.Valid = false
		rep.Issues = append(rep.Issues, Issue{Message: fmt.Sprintf("duplicate item name %q", name)})
	}
	return rep, nil
}

func collect(rep *Report, ve *jsonschema.ValidationError) {
	if len(ve.Causes) == 0 {
		rep.Issues = append(rep.Issues, Issue{
			Path:    pointerToPath(ve.InstanceLocation),
			Message: ve.Message,
		})
		return
	}
	for _, c := range ve.Causes {
		collect(rep, c)
	}
}

// pointerToPath turns "/2/name" into "[2].name".
func pointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}
	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(strings.ReplaceAll(part, "~1", "/"), "~0", "~")
		if isIndex(part) {
			b.WriteString("[" + part + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteString(".")
		}
		b.WriteString(part)
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
