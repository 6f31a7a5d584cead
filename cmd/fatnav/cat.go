package main

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func catCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cat IMAGE PATH",
		Short: "print the content of a file",
		Long: `Print the content of a file.
PATH is a slash separated path from the root directory. Unlike ls, hidden
and system files can be read.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			nav, err := a.open(args[0], "")
			if err != nil {
				return a.fail(err)
			}
			defer nav.Close()

			view, err := nav.Fs()
			if err != nil {
				return a.fail(err)
			}

			data, err := afero.ReadFile(view, args[1])
			if err != nil {
				return a.fail(err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	return cmd
}
