package diff

import (
	"strings"
)

const indentUnit = "  "

// Render returns the multi-line text report for d, or "" when d is nil.
func Render(d *Diff) string {
	if d == nil {
		return ""
	}
	return d.String()
}

// String renders the diff as indented plain text. Each nesting level adds
// two spaces and every changed version block is followed by a blank line:
//
//	Changes in repository:
//	  Changes for phpunit:
//	    Changed version 10.0.0:
//	      phar-url:
//	        - https://old.example/phpunit.phar
//	        + https://new.example/phpunit.phar
//
//	    Added version 10.1.0
func (d *Diff) String() string {
	var b strings.Builder
	b.WriteString("Changes in repository:\n")
	for i := range d.Entities {
		d.Entities[i].render(&b, indentUnit)
	}
	return b.String()
}

// String renders the entity and its versions without indentation.
func (e *EntityDiff) String() string {
	var b strings.Builder
	e.render(&b, "")
	return b.String()
}

func (e *EntityDiff) render(b *strings.Builder, indent string) {
	b.WriteString(indent)
	switch e.Kind {
	case Added:
		b.WriteString("Added " + e.Key + ":\n")
	case Removed:
		b.WriteString("Removed " + e.Key + ":\n")
	default:
		b.WriteString("Changes for " + e.Key + ":\n")
	}
	for i := range e.Children {
		e.Children[i].render(b, indent+indentUnit)
	}
}

// String renders the version without indentation.
func (v *VersionDiff) String() string {
	var b strings.Builder
	v.render(&b, "")
	return b.String()
}

func (v *VersionDiff) render(b *strings.Builder, indent string) {
	switch v.Kind {
	case Added:
		b.WriteString(indent + "Added version " + v.Key + "\n")
	case Removed:
		b.WriteString(indent + "Removed version " + v.Key + "\n")
	default:
		b.WriteString(indent + "Changed version " + v.Key + ":\n")
		for _, p := range v.Children {
			b.WriteString(indent + indentUnit + p.Name + ":\n")
			if p.Old != nil {
				b.WriteString(indent + indentUnit + indentUnit + "- " + *p.Old + "\n")
			}
			if p.New != nil {
				b.WriteString(indent + indentUnit + indentUnit + "+ " + *p.New + "\n")
			}
		}
		b.WriteString("\n")
	}
}
