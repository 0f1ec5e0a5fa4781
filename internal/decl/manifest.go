package decl

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"

	"sizegen/internal/diag"
	"sizegen/internal/source"
)

// ManifestName is the default manifest file name discovered by the CLI.
const ManifestName = "sizegen.toml"

// CapabilityConfig names the size-on-disk capability the emitted code
// delegates to. Path may be fully qualified (crate::types::SizedOnDisk).
type CapabilityConfig struct {
	Path   string `toml:"path"`
	Method string `toml:"method"`
}

// OutputConfig controls where and how artifacts are written.
type OutputConfig struct {
	Dir     string `toml:"dir"`
	Suffix  string `toml:"suffix"`
	Origins bool   `toml:"origins"`
}

// Manifest is a resolved sizegen.toml: configuration plus the ordered list
// of declarations that survived validation.
type Manifest struct {
	Path       string
	Root       string
	Capability CapabilityConfig
	Output     OutputConfig
	Types      []Type
}

// Raw TOML shapes. Resolution into the decl model happens in resolve*.

type manifestFile struct {
	Capability CapabilityConfig `toml:"capability"`
	Output     OutputConfig     `toml:"output"`
	Types      []typeTable      `toml:"type"`
}

type typeTable struct {
	Name   string       `toml:"name"`
	Shape  string       `toml:"shape"`
	Source string       `toml:"source"`
	Span   []uint32     `toml:"span"`
	Where  []string     `toml:"where"`
	Params []paramTable `toml:"param"`
	Fields []fieldTable `toml:"field"`
}

type paramTable struct {
	Name   string   `toml:"name"`
	Const  bool     `toml:"const"`
	Type   string   `toml:"type"`
	Bounds []string `toml:"bounds"`
	Span   []uint32 `toml:"span"`
}

type fieldTable struct {
	Name        string   `toml:"name"`
	Type        string   `toml:"type"`
	Annotations []string `toml:"annotations"`
	Span        []uint32 `toml:"span"`
}

// FindManifest walks up from startDir looking for sizegen.toml.
func FindManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadManifest decodes and resolves a manifest. Declarations that fail
// validation are dropped whole (never half-resolved) and reported through
// the reporter; hard I/O and TOML syntax failures return an error instead.
// Attributed source files are loaded into fs so field spans resolve to
// real line/column positions.
func LoadManifest(path string, fs *source.FileSet, reporter diag.Reporter) (*Manifest, error) {
	var raw manifestFile
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}

	m := &Manifest{
		Path:       path,
		Root:       filepath.Dir(path),
		Capability: raw.Capability,
		Output:     raw.Output,
	}
	if !meta.IsDefined("capability", "path") {
		m.Capability.Path = "SizedOnDisk"
	} else if strings.TrimSpace(m.Capability.Path) == "" {
		reporter.Report(diag.ManMissingCapability, diag.SevError, source.Span{},
			fmt.Sprintf("%s: [capability].path is empty", path), nil)
		return nil, fmt.Errorf("%s: empty [capability].path", path)
	}
	if m.Capability.Method == "" {
		m.Capability.Method = "size"
	}
	if m.Output.Dir == "" {
		m.Output.Dir = "generated"
	}
	if m.Output.Suffix == "" {
		m.Output.Suffix = ".size.rs"
	}

	seen := make(map[string]bool, len(raw.Types))
	for i := range raw.Types {
		t, ok := resolveType(&raw.Types[i], m.Root, fs, reporter)
		if !ok {
			continue
		}
		if seen[t.Name] {
			reporter.Report(diag.ManDuplicateType, diag.SevError, t.Span,
				fmt.Sprintf("duplicate type declaration: %s", t.Name), nil)
			continue
		}
		seen[t.Name] = true
		m.Types = append(m.Types, t)
	}
	return m, nil
}

func resolveType(raw *typeTable, root string, fs *source.FileSet, reporter diag.Reporter) (Type, bool) {
	if strings.TrimSpace(raw.Name) == "" {
		reporter.Report(diag.ManMissingTypeName, diag.SevError, source.Span{},
			"declaration without a name", nil)
		return Type{}, false
	}

	shape, ok := parseShape(raw.Shape)
	if !ok {
		reporter.Report(diag.ManUnknownShape, diag.SevError, source.Span{},
			fmt.Sprintf("%s: unknown shape %q", raw.Name, raw.Shape), nil)
		return Type{}, false
	}

	fileID, hasFile := loadAttributedSource(raw.Source, root, fs, reporter)

	t := Type{
		Name:  raw.Name,
		Shape: shape,
		Where: append([]string(nil), raw.Where...),
	}
	t.Span, ok = resolveSpan(raw.Span, fileID, hasFile, raw.Name, reporter)
	if !ok {
		return Type{}, false
	}

	if !resolveParams(&t, raw, fileID, hasFile, reporter) {
		return Type{}, false
	}
	if !resolveFields(&t, raw, fileID, hasFile, reporter) {
		return Type{}, false
	}
	return t, true
}

func resolveParams(t *Type, raw *typeTable, fileID source.FileID, hasFile bool, reporter diag.Reporter) bool {
	seen := make(map[string]bool, len(raw.Params))
	for i := range raw.Params {
		p := &raw.Params[i]
		if strings.TrimSpace(p.Name) == "" {
			reporter.Report(diag.ManMissingTypeName, diag.SevError, t.Span,
				fmt.Sprintf("%s: generic parameter without a name", t.Name), nil)
			return false
		}
		if seen[p.Name] {
			reporter.Report(diag.ManDuplicateParam, diag.SevError, t.Span,
				fmt.Sprintf("%s: duplicate type parameter %s", t.Name, p.Name), nil)
			return false
		}
		seen[p.Name] = true

		span, ok := resolveSpan(p.Span, fileID, hasFile, t.Name, reporter)
		if !ok {
			return false
		}
		t.Params = append(t.Params, TypeParam{
			Name:      p.Name,
			IsConst:   p.Const,
			ConstType: p.Type,
			Bounds:    append([]string(nil), p.Bounds...),
			Span:      span,
		})
	}
	return true
}

func resolveFields(t *Type, raw *typeTable, fileID source.FileID, hasFile bool, reporter diag.Reporter) bool {
	if t.Shape == ShapeUnit && len(raw.Fields) > 0 {
		reporter.Report(diag.ManFieldsOnUnitShape, diag.SevError, t.Span,
			fmt.Sprintf("%s: unit shape must not declare fields", t.Name), nil)
		return false
	}

	for i := range raw.Fields {
		f := &raw.Fields[i]
		switch t.Shape {
		case ShapeNamed, ShapeUnion:
			if strings.TrimSpace(f.Name) == "" {
				reporter.Report(diag.ManFieldNameRequired, diag.SevError, t.Span,
					fmt.Sprintf("%s: field #%d needs a name for shape %s", t.Name, i, t.Shape), nil)
				return false
			}
		case ShapePositional:
			if f.Name != "" {
				reporter.Report(diag.ManFieldNameForbidden, diag.SevError, t.Span,
					fmt.Sprintf("%s: positional field #%d must not be named (%s)", t.Name, i, f.Name), nil)
				return false
			}
		}

		span, ok := resolveSpan(f.Span, fileID, hasFile, t.Name, reporter)
		if !ok {
			return false
		}

		idx, err := safecast.Conv[uint32](i)
		if err != nil {
			panic(fmt.Errorf("field index overflow: %w", err))
		}
		field := Field{
			Name:  f.Name,
			Index: idx,
			Type:  f.Type,
			Span:  span,
		}
		for _, a := range f.Annotations {
			if strings.TrimSpace(a) == "" {
				reporter.Report(diag.ManEmptyAnnotationName, diag.SevError, span,
					fmt.Sprintf("%s: field #%d has an empty annotation", t.Name, i), nil)
				return false
			}
			field.Annotations = append(field.Annotations, Annotation{Name: a, Span: span})
		}
		t.Fields = append(t.Fields, field)
	}
	return true
}

func parseShape(s string) (Shape, bool) {
	switch s {
	case "unit", "":
		return ShapeUnit, true
	case "named":
		return ShapeNamed, true
	case "positional":
		return ShapePositional, true
	case "union":
		return ShapeUnion, true
	}
	return ShapeUnit, false
}

func loadAttributedSource(rel, root string, fs *source.FileSet, reporter diag.Reporter) (source.FileID, bool) {
	if rel == "" {
		return 0, false
	}
	path := rel
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, filepath.FromSlash(rel))
	}
	if f, ok := fs.GetByPath(path); ok {
		return f.ID, true
	}
	id, err := fs.Load(path)
	if err != nil {
		reporter.Report(diag.IOLoadFileError, diag.SevError, source.Span{},
			"failed to load attributed source: "+err.Error(), nil)
		return 0, false
	}
	return id, true
}

func resolveSpan(raw []uint32, fileID source.FileID, hasFile bool, typeName string, reporter diag.Reporter) (source.Span, bool) {
	if len(raw) == 0 {
		return source.Span{}, true
	}
	if len(raw) != 2 || raw[0] > raw[1] {
		reporter.Report(diag.ManBadSpan, diag.SevError, source.Span{},
			fmt.Sprintf("%s: span must be [start, end] with start <= end", typeName), nil)
		return source.Span{}, false
	}
	if !hasFile {
		reporter.Report(diag.ManUnattributedSpan, diag.SevWarning, source.Span{},
			fmt.Sprintf("%s: span given without a source file, dropping", typeName), nil)
		return source.Span{}, true
	}
	return source.Span{File: fileID, Start: raw[0], End: raw[1]}, true
}
