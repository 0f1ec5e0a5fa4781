// Package diag defines the diagnostic model for sizegen: severities, stable
// codes, spans pointing back into declaration sources, a bounded Bag
// collector, and renderers for both golden-file and human output.
//
// Diagnostics are values; phases report them through a Reporter and never
// panic on user input. Error locality is the point: a diagnostic about a
// field carries that field's span, not the span of whatever artifact the
// generator was producing at the time.
package diag
