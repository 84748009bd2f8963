package valuebox

import "fmt"

// Attribute is the slice of a dictionary attribute definition this
// package needs: a name, the value kind, and an optional table of
// symbolic aliases ("Reject" -> 2). Values reference an Attribute
// through SetEnum; they never own it.
type Attribute struct {
	Name string
	Kind Kind

	aliases map[string]*Value
	order   []string // insertion order, for stable reverse lookup
}

// NewAttribute creates an attribute definition with an empty alias table.
func NewAttribute(name string, kind Kind) *Attribute {
	return &Attribute{
		Name:    name,
		Kind:    kind,
		aliases: make(map[string]*Value),
	}
}

// AddAlias registers a symbolic alias for a value. The value's kind must
// match the attribute's kind, and alias names must be unique.
func (a *Attribute) AddAlias(name string, v *Value) error {
	if v.Kind() != a.Kind {
		return fmt.Errorf("alias %q: value kind %q does not match attribute kind %q",
			name, v.Kind(), a.Kind)
	}
	if _, dup := a.aliases[name]; dup {
		return fmt.Errorf("alias %q already defined for attribute %q", name, a.Name)
	}

	a.aliases[name] = v.Copy()
	a.order = append(a.order, name)
	return nil
}

// Alias returns the value a symbolic name maps to, or nil.
func (a *Attribute) Alias(name string) *Value {
	return a.aliases[name]
}

// AliasByValue returns the symbolic name for a value, if one is defined.
// The first alias registered for a given value wins.
func (a *Attribute) AliasByValue(v *Value) (string, bool) {
	if v.Kind() != a.Kind {
		return "", false
	}
	for _, name := range a.order {
		if cmp, err := Compare(a.aliases[name], v); err == nil && cmp == 0 {
			return name, true
		}
	}
	return "", false
}
