package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/diskfs/go-diskfs/filesystem/fat32"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

const defaultSize = 32 * 1024 * 1024

// main builds sample FAT32 images to browse with fatnav.
func main() {
	if err := newCmd(afero.NewOsFs()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newCmd(fs afero.Fs) *cobra.Command {
	var (
		size  int64
		label string
	)

	cmd := &cobra.Command{
		Use:   "mkimage OUTPUT [PATH...]",
		Short: "create a FAT32 image",
		Long: `Create a FAT32 image at OUTPUT and fill it with PATHs.
A PATH ending with a slash is created as a directory, any other PATH as a
file which contains its own path. Parent directories are created as needed.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return buildImage(fs, args[0], size, label, args[1:])
		},
	}

	cmd.Flags().Int64Var(&size, "size", defaultSize, "Size of the image in bytes")
	cmd.Flags().StringVar(&label, "label", "FATNAV", "Volume label")

	return cmd
}

// buildImage formats output as FAT32 and creates paths in it.
func buildImage(fs afero.Fs, output string, size int64, label string, paths []string) error {
	f, err := fs.OpenFile(output, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", output, err)
	}
	// Close the file without defer to report its error.
	err = fill(f, size, label, paths)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	return err
}

func fill(f afero.File, size int64, label string, paths []string) error {
	if err := f.Truncate(size); err != nil {
		return fmt.Errorf("could not resize image: %w", err)
	}

	image, err := fat32.Create(f, size, 0, 512, label)
	if err != nil {
		return fmt.Errorf("could not format image: %w", err)
	}

	for _, p := range paths {
		isDir := strings.HasSuffix(p, "/")
		p = "/" + strings.Trim(p, "/")
		if isDir {
			if err := image.Mkdir(p); err != nil {
				return fmt.Errorf("could not create directory %s: %w", p, err)
			}
			log.WithField("path", p).Info("created directory")
			continue
		}

		file, err := image.OpenFile(p, os.O_CREATE|os.O_RDWR)
		if err != nil {
			return fmt.Errorf("could not create file %s: %w", p, err)
		}
		if _, err := file.Write([]byte(p + "\n")); err != nil {
			return fmt.Errorf("could not write file %s: %w", p, err)
		}
		log.WithField("path", p).Info("created file")
	}
	return nil
}
