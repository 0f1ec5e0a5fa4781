package gen

import (
	"strings"

	"sizegen/internal/decl"
	"sizegen/internal/source"
)

// Origin maps one generated term back to the field it came from.
type Origin struct {
	FieldName  string
	FieldIndex uint32
	Span       source.Span // field span in the declaration source
	Line       uint32      // 1-based line of the term in the artifact text
}

// Artifact is the generated implementation for one declaration. It has no
// lifecycle of its own: produced once per invocation and handed back to the
// caller for insertion into the compiled program.
type Artifact struct {
	TypeName string
	Text     []byte
	Origins  []Origin
}

// Emit renders the complete implementation block: the capability impl for
// the named type with the augmented generics and preserved where-clauses,
// containing a single size function that returns the sum expression.
//
// Each term is emitted on its own line so that a downstream compiler error
// about a field type missing the capability lands on exactly one term; the
// returned origin table ties that line back to the field's source span.
func Emit(t *decl.Type, params []decl.TypeParam, sum SumExpr, opts Options) *Artifact {
	opts = opts.withDefaults()
	w := NewWriter(opts)

	w.WriteString("impl")
	if len(params) > 0 {
		w.WriteString("<")
		for i := range params {
			if i > 0 {
				w.WriteString(", ")
			}
			w.WriteString(renderParam(&params[i]))
		}
		w.WriteString(">")
	}
	w.WriteString(" " + opts.Capability + " for " + t.Name)
	if len(params) > 0 {
		w.WriteString("<")
		for i := range params {
			if i > 0 {
				w.WriteString(", ")
			}
			w.WriteString(params[i].Name)
		}
		w.WriteString(">")
	}

	if len(t.Where) > 0 {
		w.Newline()
		w.WriteString("where")
		w.Newline()
		w.IndentPush()
		for _, pred := range t.Where {
			w.WriteString(pred + ",")
			w.Newline()
		}
		w.IndentPop()
		w.WriteString("{")
	} else {
		w.WriteString(" {")
	}
	w.Newline()

	w.IndentPush()
	w.WriteString("fn " + opts.Method + "(&self) -> usize {")
	w.Newline()

	w.IndentPush()
	w.WriteString("0")
	w.Newline()

	w.IndentPush()
	origins := make([]Origin, 0, len(sum.Terms))
	for i := range sum.Terms {
		term := &sum.Terms[i]
		origins = append(origins, Origin{
			FieldName:  term.FieldName,
			FieldIndex: term.FieldIndex,
			Span:       term.Span,
			Line:       w.Line(),
		})
		w.WriteString("+ " + opts.Capability + "::" + opts.Method + "(&" + term.Accessor + ")")
		w.Newline()
	}
	w.IndentPop()
	w.IndentPop()

	w.WriteString("}")
	w.Newline()
	w.IndentPop()
	w.WriteString("}")
	w.Newline()

	return &Artifact{
		TypeName: t.Name,
		Text:     w.Bytes(),
		Origins:  origins,
	}
}

func renderParam(p *decl.TypeParam) string {
	if p.IsConst {
		s := "const " + p.Name
		if p.ConstType != "" {
			s += ": " + p.ConstType
		}
		return s
	}
	if len(p.Bounds) == 0 {
		return p.Name
	}
	return p.Name + ": " + strings.Join(p.Bounds, " + ")
}
