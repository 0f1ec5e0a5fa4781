package gen

import (
	"fmt"

	"sizegen/internal/decl"
	"sizegen/internal/source"
)

// Term is one addend of the size sum. Besides the accessor it keeps the
// originating field's identity and span, so a downstream failure on this
// term can be attributed to the field rather than to the synthesized
// function as a whole.
type Term struct {
	Accessor   string // "self.inner" or "self.0"
	FieldName  string // empty for positional fields
	FieldIndex uint32
	Span       source.Span
}

// SumExpr is the additive size expression: an implicit leading zero term
// plus one Term per surviving field, in declaration order.
type SumExpr struct {
	Terms []Term
}

// BuildSum builds the sum expression for the selected fields. A unit shape
// yields the zero term alone (empty Terms). Named fields are accessed by
// identifier, positional fields by zero-based index.
func BuildSum(shape decl.Shape, fields []decl.Field) SumExpr {
	if shape == decl.ShapeUnit {
		return SumExpr{}
	}
	terms := make([]Term, 0, len(fields))
	for i := range fields {
		f := &fields[i]
		var accessor string
		switch shape {
		case decl.ShapeNamed:
			accessor = "self." + f.Name
		case decl.ShapePositional:
			accessor = fmt.Sprintf("self.%d", f.Index)
		default:
			continue
		}
		terms = append(terms, Term{
			Accessor:   accessor,
			FieldName:  f.Name,
			FieldIndex: f.Index,
			Span:       f.Span,
		})
	}
	return SumExpr{Terms: terms}
}
