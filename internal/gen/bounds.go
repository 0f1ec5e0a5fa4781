package gen

import "sizegen/internal/decl"

// AugmentBounds returns a new parameter list where every type parameter
// additionally requires the capability. Const-style parameters pass through
// untouched. The input slice and its bound lists are never mutated; an
// empty list returns empty.
//
// The capability is appended even when a parameter never occurs in any
// field type: the over-constraint is deliberate, not inferred from usage.
// It is also appended without checking for an existing identical bound;
// a duplicate constraint is harmless downstream.
func AugmentBounds(params []decl.TypeParam, capability string) []decl.TypeParam {
	if len(params) == 0 {
		return nil
	}
	out := make([]decl.TypeParam, len(params))
	for i := range params {
		p := params[i]
		bounds := append([]string(nil), p.Bounds...)
		if !p.IsConst {
			bounds = append(bounds, capability)
		}
		p.Bounds = bounds
		out[i] = p
	}
	return out
}
