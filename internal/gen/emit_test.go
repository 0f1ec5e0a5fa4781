package gen

import (
	"testing"

	"sizegen/internal/decl"
)

func emitFor(t *testing.T, typ *decl.Type, opts Options) *Artifact {
	t.Helper()
	params := AugmentBounds(typ.Params, opts.withDefaults().Capability)
	fields := SelectFields(typ.Fields, IgnoreAnnotation)
	sum := BuildSum(typ.Shape, fields)
	return Emit(typ, params, sum, opts)
}

func TestEmitNamedStruct(t *testing.T) {
	typ := &decl.Type{
		Name:  "Point",
		Shape: decl.ShapeNamed,
		Fields: []decl.Field{
			{Name: "x", Index: 0, Type: "u64"},
			{Name: "y", Index: 1, Type: "u64"},
		},
	}

	got := emitFor(t, typ, Options{})

	want := `impl SizedOnDisk for Point {
    fn size(&self) -> usize {
        0
            + SizedOnDisk::size(&self.x)
            + SizedOnDisk::size(&self.y)
    }
}
`
	if string(got.Text) != want {
		t.Fatalf("artifact mismatch:\ngot:\n%s\nwant:\n%s", got.Text, want)
	}
}

func TestEmitUnitStruct(t *testing.T) {
	typ := &decl.Type{Name: "Marker", Shape: decl.ShapeUnit}

	got := emitFor(t, typ, Options{})

	want := `impl SizedOnDisk for Marker {
    fn size(&self) -> usize {
        0
    }
}
`
	if string(got.Text) != want {
		t.Fatalf("artifact mismatch:\ngot:\n%s\nwant:\n%s", got.Text, want)
	}
}

func TestEmitPositionalStruct(t *testing.T) {
	typ := &decl.Type{
		Name:  "Pair",
		Shape: decl.ShapePositional,
		Fields: []decl.Field{
			{Index: 0, Type: "u32"},
			{Index: 1, Type: "String"},
		},
	}

	got := emitFor(t, typ, Options{})

	want := `impl SizedOnDisk for Pair {
    fn size(&self) -> usize {
        0
            + SizedOnDisk::size(&self.0)
            + SizedOnDisk::size(&self.1)
    }
}
`
	if string(got.Text) != want {
		t.Fatalf("artifact mismatch:\ngot:\n%s\nwant:\n%s", got.Text, want)
	}
}

func TestEmitGenericStruct(t *testing.T) {
	typ := &decl.Type{
		Name:  "Wrapper",
		Shape: decl.ShapeNamed,
		Params: []decl.TypeParam{
			{Name: "T", Bounds: []string{"Clone"}},
		},
		Fields: []decl.Field{
			{Name: "inner", Index: 0, Type: "T"},
		},
	}

	got := emitFor(t, typ, Options{})

	want := `impl<T: Clone + SizedOnDisk> SizedOnDisk for Wrapper<T> {
    fn size(&self) -> usize {
        0
            + SizedOnDisk::size(&self.inner)
    }
}
`
	if string(got.Text) != want {
		t.Fatalf("artifact mismatch:\ngot:\n%s\nwant:\n%s", got.Text, want)
	}
}

func TestEmitConstParamPassesThrough(t *testing.T) {
	typ := &decl.Type{
		Name:  "Arr",
		Shape: decl.ShapeNamed,
		Params: []decl.TypeParam{
			{Name: "N", IsConst: true, ConstType: "usize"},
			{Name: "T"},
		},
		Fields: []decl.Field{
			{Name: "items", Index: 0, Type: "[T; N]"},
		},
	}

	got := emitFor(t, typ, Options{})

	want := `impl<const N: usize, T: SizedOnDisk> SizedOnDisk for Arr<N, T> {
    fn size(&self) -> usize {
        0
            + SizedOnDisk::size(&self.items)
    }
}
`
	if string(got.Text) != want {
		t.Fatalf("artifact mismatch:\ngot:\n%s\nwant:\n%s", got.Text, want)
	}
}

func TestEmitWhereClause(t *testing.T) {
	typ := &decl.Type{
		Name:  "Holder",
		Shape: decl.ShapeNamed,
		Params: []decl.TypeParam{
			{Name: "T"},
		},
		Where: []string{"T: Send"},
		Fields: []decl.Field{
			{Name: "value", Index: 0, Type: "T"},
		},
	}

	got := emitFor(t, typ, Options{})

	want := `impl<T: SizedOnDisk> SizedOnDisk for Holder<T>
where
    T: Send,
{
    fn size(&self) -> usize {
        0
            + SizedOnDisk::size(&self.value)
    }
}
`
	if string(got.Text) != want {
		t.Fatalf("artifact mismatch:\ngot:\n%s\nwant:\n%s", got.Text, want)
	}
}

func TestEmitQualifiedCapability(t *testing.T) {
	typ := &decl.Type{
		Name:  "Point",
		Shape: decl.ShapeNamed,
		Fields: []decl.Field{
			{Name: "x", Index: 0, Type: "u64"},
		},
	}

	got := emitFor(t, typ, Options{Capability: "crate::types::SizedOnDisk"})

	want := `impl crate::types::SizedOnDisk for Point {
    fn size(&self) -> usize {
        0
            + crate::types::SizedOnDisk::size(&self.x)
    }
}
`
	if string(got.Text) != want {
		t.Fatalf("artifact mismatch:\ngot:\n%s\nwant:\n%s", got.Text, want)
	}
}

func TestEmitOriginsPointAtTermLines(t *testing.T) {
	typ := &decl.Type{
		Name:  "Point",
		Shape: decl.ShapeNamed,
		Fields: []decl.Field{
			{Name: "x", Index: 0, Type: "u64"},
			{Name: "y", Index: 1, Type: "u64"},
		},
	}

	got := emitFor(t, typ, Options{})

	if len(got.Origins) != 2 {
		t.Fatalf("expected 2 origins, got %d", len(got.Origins))
	}
	// Line 1 impl, 2 fn, 3 zero, 4-5 terms.
	if got.Origins[0].Line != 4 || got.Origins[0].FieldName != "x" {
		t.Fatalf("origin 0 = %+v, want x on line 4", got.Origins[0])
	}
	if got.Origins[1].Line != 5 || got.Origins[1].FieldName != "y" {
		t.Fatalf("origin 1 = %+v, want y on line 5", got.Origins[1])
	}
}

func TestEmitTabs(t *testing.T) {
	typ := &decl.Type{
		Name:  "Marker",
		Shape: decl.ShapeUnit,
	}

	got := emitFor(t, typ, Options{UseTabs: true})

	want := "impl SizedOnDisk for Marker {\n\tfn size(&self) -> usize {\n\t\t0\n\t}\n}\n"
	if string(got.Text) != want {
		t.Fatalf("artifact mismatch:\ngot:\n%q\nwant:\n%q", got.Text, want)
	}
}
