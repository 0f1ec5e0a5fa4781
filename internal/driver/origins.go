package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"sizegen/internal/gen"
	"sizegen/internal/source"
)

// Current schema version - increment when OriginsPayload format changes.
const originsSchemaVersion uint16 = 1

// OriginRecord localizes one generated term: which line of the artifact it
// sits on, which field produced it, and where that field lives in the
// declaration source. Downstream tooling uses this to re-point a
// capability-missing compile error from the artifact to the field.
type OriginRecord struct {
	FieldName  string
	FieldIndex uint32
	Line       uint32 // 1-based line in the artifact text
	SourcePath string // empty when the field had no source attribution
	SpanStart  uint32
	SpanEnd    uint32
	SrcLine    uint32 // 1-based, 0 when unattributed
	SrcCol     uint32
}

// OriginsPayload is the msgpack sidecar written next to an artifact.
type OriginsPayload struct {
	Schema     uint16
	TypeName   string
	Capability string
	Records    []OriginRecord
}

func buildOriginsPayload(a *gen.Artifact, fs *source.FileSet, capability string) *OriginsPayload {
	payload := &OriginsPayload{
		Schema:     originsSchemaVersion,
		TypeName:   a.TypeName,
		Capability: capability,
		Records:    make([]OriginRecord, 0, len(a.Origins)),
	}
	for _, o := range a.Origins {
		rec := OriginRecord{
			FieldName:  o.FieldName,
			FieldIndex: o.FieldIndex,
			Line:       o.Line,
			SpanStart:  o.Span.Start,
			SpanEnd:    o.Span.End,
		}
		if path, pos, ok := resolveOrigin(fs, o.Span); ok {
			rec.SourcePath = path
			rec.SrcLine = pos.Line
			rec.SrcCol = pos.Col
		}
		payload.Records = append(payload.Records, rec)
	}
	return payload
}

// resolveOrigin resolves a span against the file set, treating the zero
// span (no attribution) and dangling file IDs as unresolved.
func resolveOrigin(fs *source.FileSet, span source.Span) (path string, pos source.LineCol, ok bool) {
	if fs == nil || (span == source.Span{}) {
		return "", source.LineCol{}, false
	}
	defer func() {
		if recover() != nil {
			path, pos, ok = "", source.LineCol{}, false
		}
	}()
	file := fs.Get(span.File)
	start, _ := fs.Resolve(span)
	return file.Path, start, true
}

// WriteOrigins serializes the payload to disk, atomically.
func WriteOrigins(path string, payload *OriginsPayload) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(payload); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// ReadOrigins deserializes a sidecar, rejecting unknown schema versions.
func ReadOrigins(path string) (*OriginsPayload, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	var payload OriginsPayload
	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}
	if payload.Schema != originsSchemaVersion {
		return nil, fmt.Errorf("origin sidecar %s: %w", path, errSchemaMismatch)
	}
	return &payload, nil
}

var errSchemaMismatch = errors.New("unsupported schema version")
