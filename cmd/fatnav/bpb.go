package main

import (
	"github.com/spf13/cobra"
)

func bpbCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bpb IMAGE",
		Short: "print the BIOS parameter block of an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nav, err := a.open(args[0], "")
			if err != nil {
				return a.fail(err)
			}
			defer nav.Close()

			geo, err := nav.Geometry()
			if err != nil {
				return a.fail(err)
			}
			printGeometry(cmd.OutOrStdout(), geo)
			return nil
		},
	}
	return cmd
}
