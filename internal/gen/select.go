package gen

import "sizegen/internal/decl"

// IgnoreAnnotation is the single marker recognized by the field selector.
// Any other annotation on a field is inert.
const IgnoreAnnotation = "dignore"

// SelectFields returns the sub-sequence of fields whose annotation set does
// not contain the ignore marker, preserving declaration order.
func SelectFields(fields []decl.Field, ignore string) []decl.Field {
	out := make([]decl.Field, 0, len(fields))
	for i := range fields {
		if fields[i].HasAnnotation(ignore) {
			continue
		}
		out = append(out, fields[i])
	}
	return out
}
