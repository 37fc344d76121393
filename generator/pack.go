package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"znkr.io/patchview/generator/pack"
)

func newPackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pack <out.tar> [dir]",
		Short: "Packs the review site in dir into a .tar file",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := siteDir(args[1:])
			if err != nil {
				return err
			}
			s, err := loadSite(cmd, dir)
			if err != nil {
				return fmt.Errorf("loading site: %v", err)
			}
			return pack.PackFile(args[0], s)
		},
	}
}
