package decl

import "sizegen/internal/source"

// Shape classifies how a type declaration carries its fields.
type Shape uint8

const (
	// ShapeUnit is a fieldless (marker) type.
	ShapeUnit Shape = iota
	// ShapeNamed carries fields accessed by identifier.
	ShapeNamed
	// ShapePositional carries fields accessed by zero-based index.
	ShapePositional
	// ShapeUnion is a variant type. Generation refuses it outright.
	ShapeUnion
)

func (s Shape) String() string {
	switch s {
	case ShapeUnit:
		return "unit"
	case ShapeNamed:
		return "named"
	case ShapePositional:
		return "positional"
	case ShapeUnion:
		return "union"
	}
	return "unknown"
}

// Annotation is a bare marker attached to a field, e.g. `dignore`.
type Annotation struct {
	Name string
	Span source.Span
}

// Field is one slot of a declaration. Name is set for named shapes; Index
// is the zero-based position for positional shapes (and the declaration
// order for named ones). Type is an opaque reference that is passed through
// to the emitted code and never inspected.
type Field struct {
	Name        string
	Index       uint32
	Type        string
	Annotations []Annotation
	Span        source.Span
}

// HasAnnotation reports whether the field carries the given marker.
func (f *Field) HasAnnotation(name string) bool {
	for i := range f.Annotations {
		if f.Annotations[i].Name == name {
			return true
		}
	}
	return false
}

// TypeParam is one generic parameter of a declaration. Const-style
// parameters (IsConst) pass through bound augmentation untouched.
type TypeParam struct {
	Name      string
	IsConst   bool
	ConstType string
	Bounds    []string
	Span      source.Span
}

// Type is the structural description of one type declaration, as delivered
// by the external declaration reader. The generator borrows it read-only
// for the duration of one generation call.
type Type struct {
	Name   string
	Params []TypeParam
	Where  []string
	Shape  Shape
	Fields []Field
	Span   source.Span
}
