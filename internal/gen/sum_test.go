package gen

import (
	"testing"

	"sizegen/internal/decl"
)

func TestBuildSumNamed(t *testing.T) {
	fields := []decl.Field{
		{Name: "x", Index: 0},
		{Name: "y", Index: 1},
	}

	sum := BuildSum(decl.ShapeNamed, fields)

	if len(sum.Terms) != 2 {
		t.Fatalf("expected 2 terms, got %d", len(sum.Terms))
	}
	if sum.Terms[0].Accessor != "self.x" || sum.Terms[1].Accessor != "self.y" {
		t.Fatalf("unexpected accessors: %s, %s", sum.Terms[0].Accessor, sum.Terms[1].Accessor)
	}
}

func TestBuildSumPositional(t *testing.T) {
	fields := []decl.Field{
		{Index: 0},
		{Index: 1},
		{Index: 2},
	}

	sum := BuildSum(decl.ShapePositional, fields)

	want := []string{"self.0", "self.1", "self.2"}
	if len(sum.Terms) != len(want) {
		t.Fatalf("expected %d terms, got %d", len(want), len(sum.Terms))
	}
	for i, w := range want {
		if sum.Terms[i].Accessor != w {
			t.Fatalf("term %d accessor = %s, want %s", i, sum.Terms[i].Accessor, w)
		}
	}
}

func TestBuildSumPositionalKeepsOriginalIndexAfterSelection(t *testing.T) {
	// Field 1 was dropped by selection; the survivor keeps accessor self.2.
	fields := []decl.Field{
		{Index: 0},
		{Index: 2},
	}

	sum := BuildSum(decl.ShapePositional, fields)

	if sum.Terms[1].Accessor != "self.2" {
		t.Fatalf("expected accessor self.2, got %s", sum.Terms[1].Accessor)
	}
}

func TestBuildSumUnit(t *testing.T) {
	sum := BuildSum(decl.ShapeUnit, nil)
	if len(sum.Terms) != 0 {
		t.Fatalf("unit shape must yield the zero term alone, got %d terms", len(sum.Terms))
	}
}

func TestBuildSumCarriesFieldIdentity(t *testing.T) {
	fields := []decl.Field{{Name: "inner", Index: 7}}

	sum := BuildSum(decl.ShapeNamed, fields)

	if sum.Terms[0].FieldName != "inner" || sum.Terms[0].FieldIndex != 7 {
		t.Fatalf("term lost field identity: %+v", sum.Terms[0])
	}
}
