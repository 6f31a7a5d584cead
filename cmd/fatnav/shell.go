package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/aligator/fatnav"
	"github.com/spf13/cobra"
)

const prompt = "mfs> "

func shellCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shell [IMAGE]",
		Short: "browse images interactively",
		Long: `Browse images interactively.
Commands:
  open IMAGE   open an image, closing the open one
  close        close the image
  bpb          print the BIOS parameter block
  ls [-l]      list the current directory
  cd NAME      change into a subdirectory, ".." is the parent
  pwd          print the current directory
  stat NAME    print a directory entry
  read NAME    print the content of a file
  quit         leave the shell`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := &shell{
				app: a,
				nav: a.navigator(),
				out: cmd.OutOrStdout(),
			}
			defer s.closeImage()

			if len(args) > 0 {
				s.exec("open " + args[0])
			}
			return s.run(cmd.InOrStdin())
		},
	}
	return cmd
}

// shell runs one command per input line against a single Navigator.
type shell struct {
	app *app
	nav *fatnav.Navigator
	out io.Writer
}

// run reads commands from in until quit or the end of the input.
func (s *shell) run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, prompt)
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}
		if quit := s.exec(scanner.Text()); quit {
			return nil
		}
	}
}

// exec runs a single command line and reports whether the shell should quit.
// Failures are printed, they never end the shell.
func (s *shell) exec(line string) bool {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return false
	}

	command, args := tokens[0], tokens[1:]
	var err error
	switch command {
	case "quit", "exit":
		return true
	case "open":
		if len(args) != 1 {
			s.usage("open IMAGE")
			return false
		}
		err = s.nav.Open(args[0])
	case "close":
		err = s.nav.Close()
	case "bpb":
		var geo fatnav.Geometry
		if geo, err = s.nav.Geometry(); err == nil {
			printGeometry(s.out, geo)
		}
	case "ls":
		long := len(args) > 0 && args[0] == "-l"
		var entries []fatnav.DirEntry
		if entries, err = s.nav.List(); err == nil {
			printEntries(s.out, entries, long)
		}
	case "cd":
		if len(args) != 1 {
			s.usage("cd NAME")
			return false
		}
		err = s.nav.ChangeDir(args[0])
	case "pwd":
		var cwd string
		if cwd, err = s.nav.Cwd(); err == nil {
			fmt.Fprintln(s.out, cwd)
		}
	case "stat":
		if len(args) != 1 {
			s.usage("stat NAME")
			return false
		}
		var entry fatnav.DirEntry
		if entry, err = s.nav.Stat(args[0]); err == nil {
			printEntry(s.out, entry)
		}
	case "read":
		if len(args) != 1 {
			s.usage("read NAME")
			return false
		}
		var data []byte
		if data, err = s.nav.ReadFile(args[0]); err == nil {
			_, err = s.out.Write(data)
		}
	default:
		fmt.Fprintf(s.out, "Error: unknown command %q\n", command)
		return false
	}

	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", s.app.fail(err))
	}
	return false
}

func (s *shell) usage(synopsis string) {
	fmt.Fprintf(s.out, "Error: usage: %s\n", synopsis)
}

func (s *shell) closeImage() {
	if s.nav.IsOpen() {
		if err := s.nav.Close(); err != nil {
			s.app.log.WithError(err).Warn("closing the image failed")
		}
	}
}
