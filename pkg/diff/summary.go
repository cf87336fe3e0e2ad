package diff

import (
	"fmt"
	"strings"
)

// Summarize returns the one-line summary of d, or "" when d is nil.
func Summarize(d *Diff) string {
	if d == nil {
		return ""
	}
	return d.Summary()
}

// Summary describes the diff in one line, suitable as a commit subject.
//
// A single changed entity is described precisely ("Add tool \"phpunit\"",
// "Update version 1.2.0 of tool \"phpcs\"", or per-kind version counts).
// Several entities are listed by name; beyond three only the first two are
// named and the rest counted.
func (d *Diff) Summary() string {
	switch n := len(d.Entities); {
	case n == 0:
		return ""
	case n == 1:
		return d.Entities[0].Summary()
	case n <= 3:
		names := make([]string, n)
		for i := range d.Entities {
			names[i] = quote(d.Entities[i].Key)
		}
		return "Update versions of " + strings.Join(names, ", ")
	default:
		return fmt.Sprintf("Update versions of %s, %s and %d more %ss",
			quote(d.Entities[0].Key), quote(d.Entities[1].Key), n-2, d.noun())
	}
}

// noun is "plugin" when every entity is a plugin, "tool" otherwise.
func (d *Diff) noun() string {
	for _, e := range d.Entities {
		if e.Type != PluginEntity {
			return ToolEntity.Noun()
		}
	}
	return PluginEntity.Noun()
}

// Summary describes a single entity change in one line.
func (e *EntityDiff) Summary() string {
	noun := e.Type.Noun()
	switch e.Kind {
	case Added:
		return fmt.Sprintf("Add %s %s", noun, quote(e.Key))
	case Removed:
		return fmt.Sprintf("Remove %s %s", noun, quote(e.Key))
	}

	if len(e.Children) == 1 {
		v := e.Children[0]
		verb := "Update"
		switch v.Kind {
		case Added:
			verb = "Add"
		case Removed:
			verb = "Remove"
		}
		return fmt.Sprintf("%s version %s of %s %s", verb, v.Key, noun, quote(e.Key))
	}

	added, removed, changed := e.Counts()
	var clauses []string
	if added > 0 {
		clauses = append(clauses, fmt.Sprintf("%d new versions", added))
	}
	if removed > 0 {
		clauses = append(clauses, fmt.Sprintf("%d versions deleted", removed))
	}
	if changed > 0 {
		clauses = append(clauses, fmt.Sprintf("%d versions changed", changed))
	}
	return fmt.Sprintf("Update %s %s: %s", noun, quote(e.Key), strings.Join(clauses, ", "))
}

func quote(s string) string {
	return `"` + s + `"`
}
