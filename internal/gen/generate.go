package gen

import (
	"fmt"

	"sizegen/internal/decl"
)

// UnsupportedShapeError is returned when a declaration's shape has no
// derivable size implementation. Union types fail hard rather than getting
// a silently wrong zero-size implementation.
type UnsupportedShapeError struct {
	TypeName string
	Shape    decl.Shape
}

func (e *UnsupportedShapeError) Error() string {
	return fmt.Sprintf("cannot derive size-on-disk for %s: %s types are not supported", e.TypeName, e.Shape)
}

// Generate synthesizes the size-on-disk implementation for one declaration.
// It is pure and self-contained: the declaration is borrowed read-only, no
// state survives the call, and the same input always produces a
// byte-identical artifact. On refusal no artifact is produced at all.
func Generate(t *decl.Type, opts Options) (*Artifact, error) {
	opts = opts.withDefaults()
	if t.Shape == decl.ShapeUnion {
		return nil, &UnsupportedShapeError{TypeName: t.Name, Shape: t.Shape}
	}

	params := AugmentBounds(t.Params, opts.Capability)
	fields := SelectFields(t.Fields, IgnoreAnnotation)
	sum := BuildSum(t.Shape, fields)
	return Emit(t, params, sum, opts), nil
}
