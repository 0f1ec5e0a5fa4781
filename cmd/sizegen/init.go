package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"sizegen/internal/decl"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a starter declaration manifest",
	Long: `Init creates a sizegen.toml in the target directory (the current
directory when omitted) with one example declaration. It refuses to
overwrite an existing manifest.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	var target string
	if len(args) == 0 || args[0] == "." {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		target = wd
	} else {
		arg := args[0]
		if !filepath.IsAbs(arg) {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			target = filepath.Join(wd, arg)
		} else {
			target = arg
		}
	}

	if st, err := os.Stat(target); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err = os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %q: %w", target, err)
			}
		} else {
			return err
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	manifestPath := filepath.Join(target, decl.ManifestName)
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("manifest already exists: %s", manifestPath)
	}

	if err := os.WriteFile(manifestPath, []byte(starterManifest()), os.FileMode(0o600)); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	rel := manifestPath
	if wd, err := os.Getwd(); err == nil {
		if r, err2 := filepath.Rel(wd, manifestPath); err2 == nil {
			rel = r
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", rel)
	return nil
}

// starterManifest returns a minimal manifest with one named-shape example.
func starterManifest() string {
	return `# sizegen declaration manifest

[capability]
path = "SizedOnDisk"
method = "size"

[output]
dir = "generated"
suffix = ".size.rs"

[[type]]
name = "Point"
shape = "named"

[[type.field]]
name = "x"
type = "u64"

[[type.field]]
name = "y"
type = "u64"
`
}
