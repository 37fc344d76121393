// Command patchview shows diffs between files as unified diffs and serves or packs review sites
// with side-by-side patches.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"znkr.io/patchview/generator/config"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "patchview [command]",
		Short:         "Diffs and side-by-side patch reviews",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("config", "", "configuration file (default <dir>/"+config.FileName+")")
	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newPackCmd())
	return rootCmd
}

// loadConfig loads the configuration for dir and applies the flags of cmd.
func loadConfig(cmd *cobra.Command, dir string) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	if path == "" {
		path = config.Path(dir)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %v", err)
	}
	if err := cfg.Override(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("invalid flags: %v", err)
	}
	return cfg, nil
}
