package main

import (
	"io"
	"strings"

	"github.com/aligator/fatnav"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// app holds what all subcommands share.
type app struct {
	fs     afero.Fs
	log    *logrus.Logger
	debug  bool
	strict bool
}

func (a *app) navigator() *fatnav.Navigator {
	opts := []fatnav.Option{fatnav.WithLogger(a.log)}
	if a.strict {
		opts = append(opts, fatnav.WithStrictChecks())
	}
	return fatnav.New(a.fs, opts...)
}

// open opens image and changes into every directory of dir, which is a slash separated path.
func (a *app) open(image, dir string) (*fatnav.Navigator, error) {
	nav := a.navigator()
	if err := nav.Open(image); err != nil {
		return nil, err
	}

	for _, name := range splitPath(dir) {
		if err := nav.ChangeDir(name); err != nil {
			_ = nav.Close()
			return nil, err
		}
	}
	return nav, nil
}

// fail logs the full error in debug mode and returns the short message for the user.
func (a *app) fail(err error) error {
	a.log.WithError(err).Debug("command failed")
	return newUserError(err)
}

func splitPath(p string) []string {
	var parts []string
	for _, part := range strings.Split(p, "/") {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

// splitFile splits a path into its directory and the final name.
func splitFile(p string) (string, string) {
	i := strings.LastIndex(p, "/")
	if i < 0 {
		return "", p
	}
	return p[:i], p[i+1:]
}

func newCmd(fs afero.Fs) *cobra.Command {
	a := &app{
		fs:  fs,
		log: logrus.New(),
	}

	cmd := &cobra.Command{
		Use:   "fatnav",
		Short: "browse FAT32 images without mounting them",
		Long: `Browse FAT32 images without mounting them.
Images are only read, never written.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(a.log, cmd.ErrOrStderr(), a.debug)
			return nil
		},
	}

	cmd.AddCommand(bpbCmd(a))
	cmd.AddCommand(lsCmd(a))
	cmd.AddCommand(statCmd(a))
	cmd.AddCommand(catCmd(a))
	cmd.AddCommand(shellCmd(a))

	cmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Print debug logs and the full trail of errors")
	cmd.PersistentFlags().BoolVar(&a.strict, "strict", false, "Reject images whose boot sector a FAT32 driver would not accept")

	return cmd
}

func setupLogging(log *logrus.Logger, out io.Writer, debug bool) {
	log.SetOutput(out)
	log.SetLevel(logrus.WarnLevel)
	if debug {
		log.SetLevel(logrus.DebugLevel)
	}
}
