package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/matzehuels/toolcatalog/pkg/errors"
)

// AnyConstraint is the constraint assumed when a requirement declares none.
const AnyConstraint = "*"

// Requirement is a named version-range constraint. The constraint is stored
// verbatim; nothing in this package interprets it.
type Requirement struct {
	Name       string
	Constraint string
}

// NewRequirement returns a Requirement, defaulting an empty constraint to "*".
func NewRequirement(name, constraint string) Requirement {
	if strings.TrimSpace(constraint) == "" {
		constraint = AnyConstraint
	}
	return Requirement{Name: name, Constraint: constraint}
}

// String returns "name:constraint".
func (r Requirement) String() string {
	return r.Name + ":" + r.Constraint
}

// RequirementList is a set of requirements unique by name that iterates in
// insertion order. The zero value is an empty list ready to use.
type RequirementList struct {
	names  []string
	byName map[string]Requirement
}

// NewRequirementList builds a list from reqs, failing on conflicting entries.
func NewRequirementList(reqs ...Requirement) (*RequirementList, error) {
	l := &RequirementList{}
	for _, r := range reqs {
		if err := l.Add(r); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Add appends r. Re-adding an identical (name, constraint) pair is a no-op;
// adding a known name with a different constraint fails.
func (l *RequirementList) Add(r Requirement) error {
	r = NewRequirement(r.Name, r.Constraint)
	if existing, ok := l.byName[r.Name]; ok {
		if existing.Constraint == r.Constraint {
			return nil
		}
		return errors.New(errors.ErrCodeInvalidRequirement,
			"requirement %q already declared as %q, refusing %q", r.Name, existing.Constraint, r.Constraint)
	}
	if l.byName == nil {
		l.byName = make(map[string]Requirement)
	}
	l.names = append(l.names, r.Name)
	l.byName[r.Name] = r
	return nil
}

// Get returns the requirement with the given name.
func (l *RequirementList) Get(name string) (Requirement, bool) {
	if l == nil {
		return Requirement{}, false
	}
	r, ok := l.byName[name]
	return r, ok
}

// Has reports whether a requirement with the given name exists.
func (l *RequirementList) Has(name string) bool {
	_, ok := l.Get(name)
	return ok
}

// Len returns the number of requirements.
func (l *RequirementList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.names)
}

// All returns the requirements in insertion order.
func (l *RequirementList) All() []Requirement {
	if l == nil {
		return nil
	}
	out := make([]Requirement, len(l.names))
	for i, n := range l.names {
		out[i] = l.byName[n]
	}
	return out
}

// Clone returns an independent copy of the list.
func (l *RequirementList) Clone() *RequirementList {
	c := &RequirementList{}
	if l == nil {
		return c
	}
	for _, r := range l.All() {
		_ = c.Add(r)
	}
	return c
}

// union returns a copy of l extended with every requirement of other whose
// name is not yet present. Existing entries are never replaced.
func (l *RequirementList) union(other *RequirementList) *RequirementList {
	c := l.Clone()
	for _, r := range other.All() {
		if !c.Has(r.Name) {
			_ = c.Add(r)
		}
	}
	return c
}

// String joins the requirements as "name:constraint" pairs separated by ", ".
func (l *RequirementList) String() string {
	parts := make([]string, 0, l.Len())
	for _, r := range l.All() {
		parts = append(parts, r.String())
	}
	return strings.Join(parts, ", ")
}

// MarshalJSON encodes the list as an object in insertion order.
func (l RequirementList) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, r := range (&l).All() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeString(&buf, r.Name); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeString(&buf, r.Constraint); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// writeString appends s as a JSON string without HTML escaping, so
// constraints such as ">=8.1" stay readable.
func writeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Truncate(buf.Len() - 1) // Encode appends a newline
	return nil
}

// UnmarshalJSON decodes an object of name → constraint, keeping the order
// in which the keys appear in the document.
func (l *RequirementList) UnmarshalJSON(data []byte) error {
	*l = RequirementList{}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("requirements: expected object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := keyTok.(string)
		var constraint string
		if err := dec.Decode(&constraint); err != nil {
			return fmt.Errorf("requirements: %s: %w", name, err)
		}
		if err := l.Add(NewRequirement(name, constraint)); err != nil {
			return err
		}
	}
	_, err = dec.Token()
	return err
}
