package catalog

import (
	"encoding/json"
	"testing"

	"github.com/matzehuels/toolcatalog/pkg/errors"
)

func TestNewRequirementDefaultsConstraint(t *testing.T) {
	r := NewRequirement("ext-json", "")
	if r.Constraint != "*" {
		t.Errorf("Constraint = %q, want *", r.Constraint)
	}
	if got := r.String(); got != "ext-json:*" {
		t.Errorf("String() = %q", got)
	}
}

func TestRequirementListAdd(t *testing.T) {
	var l RequirementList

	if err := l.Add(NewRequirement("php", "^7.3")); err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if err := l.Add(NewRequirement("php", "^7.3")); err != nil {
		t.Errorf("re-adding identical requirement should be a no-op, got %v", err)
	}
	if l.Len() != 1 {
		t.Errorf("Len() = %d, want 1", l.Len())
	}

	err := l.Add(NewRequirement("php", "^8.0"))
	if err == nil {
		t.Fatal("expected conflict error")
	}
	if !errors.Is(err, errors.ErrCodeInvalidRequirement) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidRequirement)
	}
	if r, _ := l.Get("php"); r.Constraint != "^7.3" {
		t.Errorf("conflicting add modified the list: %q", r.Constraint)
	}
}

func TestRequirementListInsertionOrder(t *testing.T) {
	l, err := NewRequirementList(
		NewRequirement("php", ">=7.3"),
		NewRequirement("ext-xml", "*"),
		NewRequirement("ext-dom", "*"),
	)
	if err != nil {
		t.Fatalf("NewRequirementList() error: %v", err)
	}

	want := []string{"php", "ext-xml", "ext-dom"}
	for i, r := range l.All() {
		if r.Name != want[i] {
			t.Errorf("All()[%d] = %s, want %s", i, r.Name, want[i])
		}
	}
	if got := l.String(); got != "php:>=7.3, ext-xml:*, ext-dom:*" {
		t.Errorf("String() = %q", got)
	}
}

func TestRequirementListClone(t *testing.T) {
	l, _ := NewRequirementList(NewRequirement("php", "^8.1"))
	c := l.Clone()
	_ = c.Add(NewRequirement("ext-mbstring", "*"))

	if l.Has("ext-mbstring") {
		t.Error("Clone() shares state with the original")
	}
	if !c.Has("php") {
		t.Error("Clone() lost an entry")
	}
}

func TestRequirementListUnion(t *testing.T) {
	a, _ := NewRequirementList(NewRequirement("php", "^7.3"))
	b, _ := NewRequirementList(NewRequirement("php", "^8.0"), NewRequirement("ext-json", "*"))

	u := a.union(b)
	if r, _ := u.Get("php"); r.Constraint != "^7.3" {
		t.Errorf("union overwrote existing constraint: %q", r.Constraint)
	}
	if !u.Has("ext-json") {
		t.Error("union did not add missing requirement")
	}
	if a.Has("ext-json") {
		t.Error("union mutated its receiver")
	}
}

func TestRequirementListJSON(t *testing.T) {
	l, _ := NewRequirementList(
		NewRequirement("php", "^8.1"),
		NewRequirement("ext-zlib", "*"),
		NewRequirement("ext-ctype", "*"),
	)

	data, err := json.Marshal(l)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	want := `{"php":"^8.1","ext-zlib":"*","ext-ctype":"*"}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}

	var back RequirementList
	if err := json.Unmarshal([]byte(`{"z":"1","a":"2","m":""}`), &back); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if got := back.String(); got != "z:1, a:2, m:*" {
		t.Errorf("Unmarshal() kept order %q, want document order", got)
	}

	var empty RequirementList
	data, _ = json.Marshal(empty)
	if string(data) != "{}" {
		t.Errorf("empty list marshals to %s, want {}", data)
	}
}
