package main

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
)

func main() {
	cmd := newCmd(afero.NewReadOnlyFs(afero.NewOsFs()))
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
