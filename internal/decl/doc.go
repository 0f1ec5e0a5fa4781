// Package decl models type declarations the way the generator consumes
// them: a name, a generic parameter list, a shape, and an ordered field
// list with marker annotations. The structural parsing itself is delegated
// to the TOML decoder; this package only validates the cheap contract
// points and attaches source spans for diagnostic locality.
package decl
