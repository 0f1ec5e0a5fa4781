package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sizegen/internal/decl"
	"sizegen/internal/diag"
	"sizegen/internal/driver"
)

var (
	generateOut     string
	generateSuffix  string
	generateOrigins bool
	generateJobs    int
)

func init() {
	generateCmd.Flags().StringVar(&generateOut, "out", "", "output directory (defaults to manifest [output].dir)")
	generateCmd.Flags().StringVar(&generateSuffix, "suffix", "", "artifact file suffix (defaults to manifest [output].suffix)")
	generateCmd.Flags().BoolVar(&generateOrigins, "origins", false, "write origin sidecars next to artifacts")
	generateCmd.Flags().IntVar(&generateJobs, "jobs", 0, "parallel workers (0 = GOMAXPROCS)")
}

var generateCmd = &cobra.Command{
	Use:   "generate [dir|manifest]",
	Short: "Generate size-on-disk implementations from a manifest",
	Long: `Generate reads a declaration manifest (sizegen.toml), derives a
size-on-disk implementation for every declared type, and writes one
artifact per type into the output directory. With no argument the
manifest is discovered by walking up from the current directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch(cmd, args, false)
	},
}

// runBatch drives both generate and check; check is a dry run.
func runBatch(cmd *cobra.Command, args []string, dryRun bool) error {
	manifestPath, err := resolveManifestArg(args)
	if err != nil {
		return err
	}

	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	maxDiags, _ := cmd.Root().PersistentFlags().GetInt("max-diagnostics")

	opts := driver.BatchOptions{
		OutDir:         generateOut,
		Suffix:         generateSuffix,
		Origins:        generateOrigins,
		Jobs:           generateJobs,
		MaxDiagnostics: maxDiags,
		DryRun:         dryRun,
	}

	run, err := driver.RunManifest(cmd.Context(), manifestPath, opts)
	if err != nil {
		return err
	}

	reportRun(cmd, run)

	if run.HasErrors() {
		return errors.New("generation finished with errors")
	}

	if !quiet {
		out := cmd.OutOrStdout()
		if dryRun {
			fmt.Fprintf(out, "ok: %d declaration(s) in %s\n", len(run.Results), manifestPath)
		} else {
			for i := range run.Results {
				if run.Results[i].Path != "" {
					fmt.Fprintf(out, "wrote %s\n", run.Results[i].Path)
				}
				if run.Results[i].OriginsPath != "" {
					fmt.Fprintf(out, "wrote %s\n", run.Results[i].OriginsPath)
				}
			}
		}
	}
	return nil
}

// resolveManifestArg maps the optional positional argument onto a manifest
// path: nothing means discovery from the working directory, a directory
// means discovery from there, a file is taken verbatim.
func resolveManifestArg(args []string) (string, error) {
	start := "."
	if len(args) == 1 {
		st, err := os.Stat(args[0])
		if err != nil {
			return "", err
		}
		if !st.IsDir() {
			return args[0], nil
		}
		start = args[0]
	}

	path, found, err := decl.FindManifest(start)
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("no %s found in %s or any parent directory", decl.ManifestName, start)
	}
	return path, nil
}

// reportRun renders every diagnostic the run produced to stderr, sorted
// and deduplicated across the manifest bag and all per-type bags.
func reportRun(cmd *cobra.Command, run *driver.ManifestRun) {
	maxDiags, _ := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if maxDiags <= 0 {
		maxDiags = 100
	}

	merged := diag.NewBag(maxDiags)
	merged.Merge(run.ManifestBag)
	for i := range run.Results {
		merged.Merge(run.Results[i].Bag)
	}
	if merged.Len() == 0 {
		return
	}
	merged.Sort()
	merged.Dedup()

	colorFlag, _ := cmd.Root().PersistentFlags().GetString("color")
	useColor := colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stderr))

	diag.Render(cmd.ErrOrStderr(), merged, run.FileSet, diag.RenderOpts{
		Color:     useColor,
		ShowNotes: true,
		PathMode:  "relative",
	})
}
