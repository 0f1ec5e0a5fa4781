package diag

import (
	"strings"
	"testing"

	"sizegen/internal/source"
)

func goldenFixture(t *testing.T) (*source.FileSet, source.FileID) {
	t.Helper()
	fs := source.NewFileSetWithBase(".")
	id := fs.AddVirtual("decl/point.rs", []byte("struct Point {\n    x: u64,\n}\n"))
	return fs, id
}

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs, id := goldenFixture(t)

	diags := []Diagnostic{
		{
			Severity: SevError,
			Code:     ManBadSpan,
			Message:  "span must be [start, end]",
			Primary:  source.Span{File: id, Start: 19, End: 20},
		},
		{
			Severity: SevWarning,
			Code:     ManUnattributedSpan,
			Message:  "span given without a source file, dropping",
			Primary:  source.Span{File: id, Start: 7, End: 12},
		},
	}

	got := FormatGoldenDiagnostics(diags, fs, false)

	want := strings.Join([]string{
		"warning MAN1010 decl/point.rs:1:8 span given without a source file, dropping",
		"error MAN1007 decl/point.rs:2:5 span must be [start, end]",
	}, "\n")
	if got != want {
		t.Fatalf("golden mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatGoldenDiagnosticsIncludesNotes(t *testing.T) {
	fs, id := goldenFixture(t)

	diags := []Diagnostic{
		{
			Severity: SevError,
			Code:     ManDuplicateType,
			Message:  "duplicate type declaration: Point",
			Primary:  source.Span{File: id, Start: 7, End: 12},
			Notes: []Note{
				{Span: source.Span{File: id, Start: 19, End: 20}, Msg: "first declared here"},
			},
		},
	}

	got := FormatGoldenDiagnostics(diags, fs, true)

	if !strings.Contains(got, "note MAN1006 decl/point.rs:2:5 first declared here") {
		t.Fatalf("note missing from golden output:\n%s", got)
	}
}

func TestFormatGoldenDiagnosticsSkipsUnattributed(t *testing.T) {
	fs, _ := goldenFixture(t)

	diags := []Diagnostic{
		{Severity: SevError, Code: ManMissingTypeName, Message: "declaration without a name"},
	}

	if got := FormatGoldenDiagnostics(diags, fs, false); got != "" {
		t.Fatalf("unattributed diagnostic should be skipped, got %q", got)
	}
}

func TestFormatGoldenDiagnosticsSanitizesMessages(t *testing.T) {
	fs, id := goldenFixture(t)

	diags := []Diagnostic{
		{
			Severity: SevError,
			Code:     ManInfo,
			Message:  "multi\nline\r\nmessage",
			Primary:  source.Span{File: id, Start: 0, End: 6},
		},
	}

	got := FormatGoldenDiagnostics(diags, fs, false)
	if strings.ContainsAny(got, "\r") || strings.Count(got, "\n") != 0 {
		t.Fatalf("message not flattened: %q", got)
	}
	if !strings.HasSuffix(got, "multi line message") {
		t.Fatalf("unexpected sanitized message: %q", got)
	}
}

func TestCodeIDs(t *testing.T) {
	cases := []struct {
		code Code
		want string
	}{
		{ManMissingTypeName, "MAN1001"},
		{GenUnsupportedShape, "GEN2001"},
		{IOLoadFileError, "IO4001"},
		{UnknownCode, "E0000"},
	}
	for _, tc := range cases {
		if got := tc.code.ID(); got != tc.want {
			t.Fatalf("ID(%d) = %q, want %q", tc.code, got, tc.want)
		}
	}
}
