// Package types defines the primitive value domain shared by every stage
// of the query pipeline after lexing: parsed AST literals, catalog
// attribute types, and row values.
package types

import "fmt"

// ValueType identifies which of the three primitive kinds a Value holds.
type ValueType int

const (
	Integer ValueType = iota
	Boolean
	Text
)

func (t ValueType) String() string {
	switch t {
	case Integer:
		return "INTEGER"
	case Boolean:
		return "BOOLEAN"
	case Text:
		return "TEXT"
	default:
		return "UNKNOWN"
	}
}

// Value is a tagged union over the three primitive types. The zero Value
// is not meaningful; always construct through NewInteger/NewBoolean/NewText.
type Value struct {
	typ     ValueType
	intVal  int32
	boolVal bool
	textVal string
}

func NewInteger(v int32) Value { return Value{typ: Integer, intVal: v} }
func NewBoolean(v bool) Value  { return Value{typ: Boolean, boolVal: v} }
func NewText(v string) Value   { return Value{typ: Text, textVal: v} }

func (v Value) Type() ValueType { return v.typ }

// Int returns the integer payload. Callers must check Type() == Integer first.
func (v Value) Int() int32 { return v.intVal }

// Bool returns the boolean payload. Callers must check Type() == Boolean first.
func (v Value) Bool() bool { return v.boolVal }

// Str returns the text payload. Callers must check Type() == Text first.
func (v Value) Str() string { return v.textVal }

func (v Value) String() string {
	switch v.typ {
	case Integer:
		return fmt.Sprintf("%d", v.intVal)
	case Boolean:
		return fmt.Sprintf("%t", v.boolVal)
	case Text:
		return v.textVal
	default:
		return "<invalid>"
	}
}

// Equal compares two values of the same type. Callers are expected to have
// already type-checked that both sides share a ValueType; Equal panics
// otherwise since that invariant is enforced upstream by the translator.
func (v Value) Equal(other Value) bool {
	if v.typ != other.typ {
		panic("types: Equal called on mismatched value types")
	}
	switch v.typ {
	case Integer:
		return v.intVal == other.intVal
	case Boolean:
		return v.boolVal == other.boolVal
	case Text:
		return v.textVal == other.textVal
	default:
		return false
	}
}
