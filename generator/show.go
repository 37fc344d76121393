package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"znkr.io/patchview/generator/edits"
	"znkr.io/patchview/generator/render"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <old> <new>",
		Short: "Prints the differences between two files as unified diff",
		Long: "Prints the differences between two files as unified diff. A missing file or\n" +
			"/dev/null is treated as an empty file. The exit code is 0 even if the files differ.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, ".")
			if err != nil {
				return err
			}
			opts, err := cfg.EditOptions()
			if err != nil {
				return err
			}

			nameA, a, err := readInput(args[0])
			if err != nil {
				return err
			}
			nameB, b, err := readInput(args[1])
			if err != nil {
				return err
			}
			if nameA == "" && nameB == "" {
				return fmt.Errorf("neither %s nor %s exist", args[0], args[1])
			}

			s, err := edits.Script(nameA, nameB, a, b, cfg.Context, opts...)
			if err != nil {
				return err
			}
			return render.Unified(cmd.OutOrStdout(), s)
		},
	}
}

// readInput reads the file name. It returns an empty name for files that don't exist.
func readInput(name string) (string, string, error) {
	if name == os.DevNull {
		return "", "", nil
	}
	b, err := os.ReadFile(name)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", "", nil
	case err != nil:
		return "", "", fmt.Errorf("reading input: %v", err)
	}
	return filepath.ToSlash(filepath.Clean(name)), string(b), nil
}
