// Package fatnav browses FAT32 disk images without mounting them.
//
// A Navigator opens one image at a time, keeps the entries of the current
// directory in memory and moves through the directory tree by following
// cluster chains through the File Allocation Table. It never writes to the image.
package fatnav

import (
	"strings"

	"github.com/aligator/fatnav/checkpoint"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Option configures a Navigator.
type Option func(*Navigator)

// WithLogger sets the logger used for diagnostics. The default is the logrus standard logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(n *Navigator) {
		n.log = log
	}
}

// WithStrictChecks makes Open reject images whose boot sector would not pass
// the checks of a FAT32 driver, see Geometry.Validate.
func WithStrictChecks() Option {
	return func(n *Navigator) {
		n.strict = true
	}
}

// Navigator is a session on a single FAT32 image.
// It is either closed or has exactly one image open. It is not safe for concurrent use.
type Navigator struct {
	fs     afero.Fs
	log    logrus.FieldLogger
	strict bool

	imagePath string
	volume    *Volume

	// The currently loaded directory.
	dirs    []string
	entries []DirEntry
}

// New creates a closed Navigator which opens images from fs.
func New(fs afero.Fs, opts ...Option) *Navigator {
	n := &Navigator{
		fs:  fs,
		log: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// IsOpen reports whether an image is open.
func (n *Navigator) IsOpen() bool {
	return n.volume != nil
}

// Open opens the image at path and loads its root directory.
// An already open image is closed first. If opening fails, the Navigator stays closed.
func (n *Navigator) Open(path string) error {
	if n.IsOpen() {
		if err := n.Close(); err != nil {
			n.log.WithError(err).WithField("image", n.imagePath).Warn("closing the previous image failed")
		}
	}

	file, err := n.fs.Open(path)
	if err != nil {
		return checkpoint.Wrapf(err, "%w: %s", ErrCannotOpenImage, path)
	}

	volume, err := n.load(file)
	if err != nil {
		if closeErr := file.Close(); closeErr != nil {
			n.log.WithError(closeErr).WithField("image", path).Warn("closing the rejected image failed")
		}
		return checkpoint.From(err)
	}

	geo := volume.Geometry()
	entries, err := n.readDir(volume, geo.RootCluster)
	if err != nil {
		if closeErr := volume.Close(); closeErr != nil {
			n.log.WithError(closeErr).WithField("image", path).Warn("closing the rejected image failed")
		}
		return checkpoint.From(err)
	}

	n.imagePath = path
	n.volume = volume
	n.dirs = nil
	n.entries = entries

	n.log.WithFields(logrus.Fields{
		"image":           path,
		"bytesPerCluster": geo.BytesPerCluster,
		"fatRegion":       geo.FATRegionStart,
		"dataRegion":      geo.DataRegionStart,
		"rootCluster":     geo.RootCluster,
	}).Debug("opened image")

	return nil
}

func (n *Navigator) load(file afero.File) (*Volume, error) {
	info, err := file.Stat()
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrCannotOpenImage)
	}
	if info.IsDir() {
		return nil, checkpoint.Wrapf(ErrCannotOpenImage, "%w: %s is a directory", ErrCannotOpenImage, file.Name())
	}

	volume, err := newVolume(file, n.strict)
	if err != nil {
		return nil, checkpoint.From(err)
	}

	if volume.Geometry().RootCluster != defaultRootCluster {
		n.log.WithField("rootCluster", volume.Geometry().RootCluster).Warn("root directory does not start at cluster 2")
	}
	return volume, nil
}

// Close releases the image and forgets the loaded directory.
// The Navigator is closed afterwards even if releasing the image failed.
func (n *Navigator) Close() error {
	if !n.IsOpen() {
		return checkpoint.From(ErrImageNotOpen)
	}

	err := n.volume.Close()

	n.log.WithField("image", n.imagePath).Debug("closed image")
	n.imagePath = ""
	n.volume = nil
	n.dirs = nil
	n.entries = nil

	return checkpoint.From(err)
}

// Geometry returns the geometry of the open image.
func (n *Navigator) Geometry() (Geometry, error) {
	if !n.IsOpen() {
		return Geometry{}, checkpoint.From(ErrImageNotOpen)
	}
	return n.volume.Geometry(), nil
}

// List returns the visible entries of the current directory in on-disk order.
func (n *Navigator) List() ([]DirEntry, error) {
	if !n.IsOpen() {
		return nil, checkpoint.From(ErrImageNotOpen)
	}

	visible := make([]DirEntry, 0, len(n.entries))
	for _, e := range n.entries {
		if e.IsVisible() {
			visible = append(visible, e)
		}
	}
	return visible, nil
}

// Cwd returns the path of the current directory, "/" being the root.
func (n *Navigator) Cwd() (string, error) {
	if !n.IsOpen() {
		return "", checkpoint.From(ErrImageNotOpen)
	}
	return "/" + strings.Join(n.dirs, "/"), nil
}

// ChangeDir makes the subdirectory name the current directory.
// All clusters of the directory are loaded. On failure the current directory stays as it was.
func (n *Navigator) ChangeDir(name string) error {
	if !n.IsOpen() {
		return checkpoint.From(ErrImageNotOpen)
	}

	entry, found, err := n.lookup(name)
	if err != nil {
		return checkpoint.From(err)
	}
	if !found {
		return checkpoint.Wrapf(ErrDirectoryNotFound, "%w: %s", ErrDirectoryNotFound, name)
	}
	if !entry.IsDir() {
		return checkpoint.Wrapf(ErrNotADirectory, "%w: %s", ErrNotADirectory, name)
	}

	cluster := entry.Cluster()
	if cluster == 0 {
		// ".." of a first level directory points to the root as cluster 0.
		cluster = n.volume.Geometry().RootCluster
	}

	entries, err := n.readDir(n.volume, cluster)
	if err != nil {
		return checkpoint.From(err)
	}

	n.entries = entries
	switch {
	case cluster == n.volume.Geometry().RootCluster:
		n.dirs = nil
	case entry.Name == dotName:
	case entry.Name[0] == '.' && entry.Name[1] == '.':
		if len(n.dirs) > 0 {
			n.dirs = n.dirs[:len(n.dirs)-1]
		}
	default:
		n.dirs = append(n.dirs, entry.ShortName())
	}

	n.log.WithFields(logrus.Fields{
		"dir":     name,
		"cluster": cluster,
		"entries": len(entries),
	}).Debug("changed directory")
	return nil
}

// Stat returns the entry called name in the current directory.
func (n *Navigator) Stat(name string) (DirEntry, error) {
	if !n.IsOpen() {
		return DirEntry{}, checkpoint.From(ErrImageNotOpen)
	}

	entry, found, err := n.lookup(name)
	if err != nil {
		return DirEntry{}, checkpoint.From(err)
	}
	if !found {
		return DirEntry{}, checkpoint.Wrapf(ErrFileNotFound, "%w: %s", ErrFileNotFound, name)
	}
	return entry, nil
}

// ReadFile returns the content of the regular file called name in the current directory.
func (n *Navigator) ReadFile(name string) ([]byte, error) {
	entry, err := n.Stat(name)
	if err != nil {
		return nil, checkpoint.From(err)
	}
	if entry.IsDir() {
		return nil, checkpoint.Wrapf(ErrIsADirectory, "%w: %s", ErrIsADirectory, name)
	}
	if entry.FileSize == 0 {
		return []byte{}, nil
	}

	data, err := n.volume.ReadChain(entry.Cluster())
	if err != nil {
		return nil, checkpoint.From(err)
	}
	if int64(len(data)) < int64(entry.FileSize) {
		return nil, checkpoint.Wrapf(ErrCorruptChain, "%w: %s has %d bytes in its chain but a size of %d", ErrCorruptChain, name, len(data), entry.FileSize)
	}
	return data[:entry.FileSize], nil
}

// Fs returns a read-only filesystem view of the open image, addressed by
// paths from the root directory. It can not be used after the image is closed.
func (n *Navigator) Fs() (*Fs, error) {
	if !n.IsOpen() {
		return nil, checkpoint.From(ErrImageNotOpen)
	}
	return newFs(n.volume, n.imagePath), nil
}

// lookup finds the first entry of the current directory matching name.
func (n *Navigator) lookup(name string) (DirEntry, bool, error) {
	// Reject names which can never match, even in a directory without entries.
	if name != "." && !strings.HasPrefix(name, "..") {
		if _, err := ExpandName(name); err != nil {
			return DirEntry{}, false, checkpoint.From(err)
		}
	}

	for _, e := range n.entries {
		ok, err := MatchName(name, e)
		if err != nil {
			return DirEntry{}, false, checkpoint.From(err)
		}
		if ok {
			return e, true, nil
		}
	}
	return DirEntry{}, false, nil
}

// readDir loads the entries of the directory starting at cluster, following its whole chain.
func (n *Navigator) readDir(volume *Volume, cluster uint32) ([]DirEntry, error) {
	entries, err := volume.ReadDir(cluster)
	if err != nil {
		return nil, checkpoint.From(err)
	}

	n.log.WithFields(logrus.Fields{
		"cluster": cluster,
		"records": len(entries),
	}).Debug("read directory")
	return entries, nil
}
