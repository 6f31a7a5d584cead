package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

var errRootEntry = errors.New("the root directory has no directory entry")

func statCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stat IMAGE PATH",
		Short: "print the directory entry of a file or directory",
		Long: `Print the directory entry of a file or directory.
A trailing slash is ignored. The root directory has no entry to print.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := strings.TrimRight(args[1], "/")
			if p == "" {
				return a.fail(errRootEntry)
			}
			dir, name := splitFile(p)

			nav, err := a.open(args[0], dir)
			if err != nil {
				return a.fail(err)
			}
			defer nav.Close()

			entry, err := nav.Stat(name)
			if err != nil {
				return a.fail(err)
			}
			printEntry(cmd.OutOrStdout(), entry)
			return nil
		},
	}
	return cmd
}
