package types

// Property value types accepted by class layouts.
const (
	PropertyText      = "text"
	PropertyInteger   = "integer"
	PropertyBoolean   = "boolean"
	PropertyReference = "reference"
)

// PropertyDef is one slot of a class's fixed-order property layout. For
// reference-typed slots Target names the class the reference must point at.
type PropertyDef struct {
	Name   string
	Type   string
	Target KnownClass
}

// Reference is a typed pointer from one entity's property to another
// entity. Existing=true means the target must already be durably
// persisted; Existing=false means the target is expected to be created
// within the same pending batch.
type Reference struct {
	Target   string
	Existing bool
}

// RawRef is the wire form of a relation-typed argument value.
type RawRef struct {
	Target   string `json:"target"`
	Existing bool   `json:"existing"`
}

// RawValue is one positional argument from a ledger mutation, prior to
// decoding against a class layout. Exactly one of Value or Ref is set; a
// zero RawValue marks an absent slot (the property is left untouched on
// update).
type RawValue struct {
	Value any     `json:"value,omitempty"`
	Ref   *RawRef `json:"ref,omitempty"`
}

// Absent reports whether the slot carries no value.
func (v RawValue) Absent() bool {
	return v.Value == nil && v.Ref == nil
}

// Bag is a decoded property bag: named, typed values for one entity of one
// class. Scalars are coerced to string, int64, or bool during decoding.
// Only names present in Values or Refs are applied by update handlers.
type Bag struct {
	Class  KnownClass
	Values map[string]any
	Refs   map[string]Reference
}

// Has reports whether the named property is present in the bag.
func (b *Bag) Has(name string) bool {
	if _, ok := b.Values[name]; ok {
		return true
	}
	_, ok := b.Refs[name]
	return ok
}

// Text returns the named scalar as a string, or the empty string when the
// property is absent or not text.
func (b *Bag) Text(name string) string {
	s, _ := b.Values[name].(string)
	return s
}

// Int returns the named scalar as an int64, or zero when absent.
func (b *Bag) Int(name string) int64 {
	n, _ := b.Values[name].(int64)
	return n
}

// Bool returns the named scalar as a bool, or false when absent.
func (b *Bag) Bool(name string) bool {
	t, _ := b.Values[name].(bool)
	return t
}

// RefTarget returns the target id of the named reference, or the empty
// string when the reference is absent.
func (b *Bag) RefTarget(name string) string {
	return b.Refs[name].Target
}
