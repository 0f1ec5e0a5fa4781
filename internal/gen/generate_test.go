package gen

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"sizegen/internal/decl"
)

func TestGenerateRefusesUnion(t *testing.T) {
	typ := &decl.Type{
		Name:  "Either",
		Shape: decl.ShapeUnion,
		Fields: []decl.Field{
			{Name: "left", Index: 0, Type: "u32"},
			{Name: "right", Index: 1, Type: "u64"},
		},
	}

	artifact, err := Generate(typ, Options{})
	if err == nil {
		t.Fatal("expected union refusal, got nil error")
	}
	if artifact != nil {
		t.Fatalf("refusal must not produce an artifact, got %+v", artifact)
	}

	var use *UnsupportedShapeError
	if !errors.As(err, &use) {
		t.Fatalf("expected UnsupportedShapeError, got %T: %v", err, err)
	}
	if use.TypeName != "Either" || use.Shape != decl.ShapeUnion {
		t.Fatalf("error carries wrong identity: %+v", use)
	}
	if !strings.Contains(err.Error(), "union") {
		t.Fatalf("error message should name the shape: %q", err.Error())
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	typ := &decl.Type{
		Name:  "Point",
		Shape: decl.ShapeNamed,
		Fields: []decl.Field{
			{Name: "x", Index: 0, Type: "u64"},
			{Name: "y", Index: 1, Type: "u64"},
		},
	}

	first, err := Generate(typ, Options{})
	if err != nil {
		t.Fatalf("first generation failed: %v", err)
	}
	second, err := Generate(typ, Options{})
	if err != nil {
		t.Fatalf("second generation failed: %v", err)
	}
	if !bytes.Equal(first.Text, second.Text) {
		t.Fatalf("generation not byte-identical:\n%s\nvs\n%s", first.Text, second.Text)
	}
	if !reflect.DeepEqual(first.Origins, second.Origins) {
		t.Fatalf("origin tables differ:\n%+v\nvs\n%+v", first.Origins, second.Origins)
	}
}

func TestGenerateDoesNotMutateInput(t *testing.T) {
	typ := &decl.Type{
		Name:  "Wrapper",
		Shape: decl.ShapeNamed,
		Params: []decl.TypeParam{
			{Name: "T", Bounds: []string{"Clone"}},
		},
		Fields: []decl.Field{
			{Name: "inner", Index: 0, Type: "T"},
			{Name: "cache", Index: 1, Type: "Vec<u8>",
				Annotations: []decl.Annotation{{Name: IgnoreAnnotation}}},
		},
	}

	if _, err := Generate(typ, Options{}); err != nil {
		t.Fatalf("generation failed: %v", err)
	}

	if len(typ.Params[0].Bounds) != 1 || typ.Params[0].Bounds[0] != "Clone" {
		t.Fatalf("input bounds mutated: %v", typ.Params[0].Bounds)
	}
	if len(typ.Fields) != 2 {
		t.Fatalf("input fields mutated: %d fields", len(typ.Fields))
	}
}

func TestGenerateIgnoredFieldLeavesNoTrace(t *testing.T) {
	typ := &decl.Type{
		Name:  "Cached",
		Shape: decl.ShapeNamed,
		Fields: []decl.Field{
			{Name: "data", Index: 0, Type: "Vec<u8>"},
			{Name: "cache", Index: 1, Type: "HashMap<u64, u64>",
				Annotations: []decl.Annotation{{Name: IgnoreAnnotation}}},
		},
	}

	artifact, err := Generate(typ, Options{})
	if err != nil {
		t.Fatalf("generation failed: %v", err)
	}
	if strings.Contains(string(artifact.Text), "cache") {
		t.Fatalf("ignored field leaked into artifact:\n%s", artifact.Text)
	}
	if len(artifact.Origins) != 1 || artifact.Origins[0].FieldName != "data" {
		t.Fatalf("ignored field leaked into origins: %+v", artifact.Origins)
	}
}

func TestGenerateAllParamsGetBound(t *testing.T) {
	typ := &decl.Type{
		Name:  "Multi",
		Shape: decl.ShapeNamed,
		Params: []decl.TypeParam{
			{Name: "A"},
			{Name: "B"},
			{Name: "C"},
		},
		Fields: []decl.Field{
			// B and C never occur in a field type; they are bound anyway.
			{Name: "a", Index: 0, Type: "A"},
		},
	}

	artifact, err := Generate(typ, Options{})
	if err != nil {
		t.Fatalf("generation failed: %v", err)
	}

	head := strings.SplitN(string(artifact.Text), "\n", 2)[0]
	want := "impl<A: SizedOnDisk, B: SizedOnDisk, C: SizedOnDisk> SizedOnDisk for Multi<A, B, C> {"
	if head != want {
		t.Fatalf("impl head = %q, want %q", head, want)
	}
}
