package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"sizegen/internal/decl"
	"sizegen/internal/diag"
	"sizegen/internal/gen"
	"sizegen/internal/source"
)

// Result is the outcome of generating one declaration.
type Result struct {
	TypeName    string
	Path        string // artifact path, empty when nothing was written
	OriginsPath string // origin sidecar path, empty when not written
	Artifact    *gen.Artifact
	Bag         *diag.Bag
}

// BatchOptions controls a batch generation run.
type BatchOptions struct {
	OutDir         string // output directory; manifest [output].dir when empty
	Suffix         string // artifact suffix; manifest [output].suffix when empty
	Origins        bool   // write msgpack origin sidecars
	Jobs           int    // parallel workers; GOMAXPROCS when <= 0
	MaxDiagnostics int
	DryRun         bool // generate and diagnose, write nothing
	GenOpts        gen.Options
}

// ManifestRun bundles everything a single manifest invocation produced.
type ManifestRun struct {
	Manifest    *decl.Manifest
	FileSet     *source.FileSet
	ManifestBag *diag.Bag
	Results     []Result
}

// HasErrors reports whether the manifest or any declaration produced an
// error diagnostic.
func (r *ManifestRun) HasErrors() bool {
	if r.ManifestBag.HasErrors() {
		return true
	}
	for i := range r.Results {
		if r.Results[i].Bag.HasErrors() {
			return true
		}
	}
	return false
}

// RunManifest loads a manifest and generates every declaration in it.
// CLI flags in opts override the manifest's [output] section when set.
func RunManifest(ctx context.Context, manifestPath string, opts BatchOptions) (*ManifestRun, error) {
	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = 100
	}

	fs := source.NewFileSetWithBase(filepath.Dir(manifestPath))
	bag := diag.NewBag(opts.MaxDiagnostics)
	m, err := decl.LoadManifest(manifestPath, fs, diag.BagReporter{Bag: bag})
	if err != nil {
		return nil, err
	}

	if opts.OutDir == "" {
		opts.OutDir = filepath.Join(m.Root, m.Output.Dir)
	}
	if opts.Suffix == "" {
		opts.Suffix = m.Output.Suffix
	}
	if !opts.Origins {
		opts.Origins = m.Output.Origins
	}
	if opts.GenOpts.Capability == "" {
		opts.GenOpts.Capability = m.Capability.Path
	}
	if opts.GenOpts.Method == "" {
		opts.GenOpts.Method = m.Capability.Method
	}

	results, err := GenerateSet(ctx, m.Types, fs, opts)
	if err != nil {
		return nil, err
	}
	return &ManifestRun{
		Manifest:    m,
		FileSet:     fs,
		ManifestBag: bag,
		Results:     results,
	}, nil
}

// GenerateSet generates all declarations independently and in parallel.
// Each declaration is self-contained, so the only coordination is the job
// limit; results land at per-goroutine indices and keep declaration order.
// Per-declaration failures become diagnostics in the result's Bag; only
// infrastructure failures (output I/O) abort the batch.
func GenerateSet(ctx context.Context, types []decl.Type, fs *source.FileSet, opts BatchOptions) ([]Result, error) {
	if len(types) == 0 {
		return nil, nil
	}
	if opts.Jobs <= 0 {
		opts.Jobs = runtime.GOMAXPROCS(0)
	}
	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = 100
	}

	if !opts.DryRun {
		if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	results := make([]Result, len(types))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(opts.Jobs, len(types)))

	for i := range types {
		g.Go(func(i int) func() error {
			return func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				t := &types[i]
				bag := diag.NewBag(opts.MaxDiagnostics)
				results[i] = Result{TypeName: t.Name, Bag: bag}

				artifact, err := gen.Generate(t, opts.GenOpts)
				if err != nil {
					bag.Add(diag.NewError(diag.GenUnsupportedShape, t.Span, err.Error()))
					return nil
				}
				results[i].Artifact = artifact

				if opts.DryRun {
					return nil
				}

				path := filepath.Join(opts.OutDir, t.Name+opts.Suffix)
				if err := writeFileAtomic(path, artifact.Text); err != nil {
					return fmt.Errorf("%s: %w", t.Name, err)
				}
				results[i].Path = path

				if opts.Origins {
					opath := originsPath(opts.OutDir, t.Name, opts.Suffix)
					payload := buildOriginsPayload(artifact, fs, opts.GenOpts.Capability)
					if err := WriteOrigins(opath, payload); err != nil {
						return fmt.Errorf("%s: %w", t.Name, err)
					}
					results[i].OriginsPath = opath
				}
				return nil
			}
		}(i))
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// originsPath derives the sidecar path: Point + ".size.rs" gets
// Point.size.origins.mp next to Point.size.rs.
func originsPath(dir, name, suffix string) string {
	base := strings.TrimSuffix(suffix, filepath.Ext(suffix))
	return filepath.Join(dir, name+base+".origins.mp")
}

// writeFileAtomic writes via a temp file and rename so a failed run never
// leaves a partial artifact behind.
func writeFileAtomic(path string, content []byte) error {
	f, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(content); err != nil {
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
