// Package gen synthesizes size-on-disk implementations from structural type
// declarations. The pipeline is strictly linear: augment the generic bounds,
// select the non-ignored fields, build the additive size expression, then
// emit the implementation block. Every step is a pure function over the
// decl model; Generate wires them together for one declaration.
package gen
