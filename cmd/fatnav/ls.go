package main

import (
	"github.com/spf13/cobra"
)

func lsCmd(a *app) *cobra.Command {
	var long bool

	cmd := &cobra.Command{
		Use:   "ls IMAGE [DIR]",
		Short: "list a directory of an image",
		Long: `List the visible entries of a directory of an image.
DIR is a slash separated path from the root directory, every part an 8.3 name.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var dir string
			if len(args) > 1 {
				dir = args[1]
			}

			nav, err := a.open(args[0], dir)
			if err != nil {
				return a.fail(err)
			}
			defer nav.Close()

			entries, err := nav.List()
			if err != nil {
				return a.fail(err)
			}
			printEntries(cmd.OutOrStdout(), entries, long)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&long, "long", "l", false, "Print mode, size, modification time and first cluster")

	return cmd
}
