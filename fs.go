package fatnav

import (
	"os"
	"path"
	"strings"
	"syscall"
	"time"

	"github.com/aligator/fatnav/checkpoint"
	"github.com/spf13/afero"
)

// Fs is a read-only afero.Fs on a FAT32 volume.
// Every call resolves its path from the root directory, names are matched
// like ChangeDir does. Unlike List, hidden and system entries are part of
// directory listings. Dot entries, volume labels and long name records never are.
type Fs struct {
	volume *Volume
	image  string
}

var _ afero.Fs = (*Fs)(nil)

func newFs(volume *Volume, image string) *Fs {
	return &Fs{
		volume: volume,
		image:  image,
	}
}

// rootEntry stands in for the root directory, which has no entry of its own.
func (fs *Fs) rootEntry() DirEntry {
	root := fs.volume.Geometry().RootCluster
	return DirEntry{
		Name:           dotName,
		Attr:           AttrDirectory,
		FirstClusterHI: uint16(root >> 16),
		FirstClusterLO: uint16(root),
	}
}

// isListed reports whether the record is a file or directory of its own.
func (e DirEntry) isListed() bool {
	if e.IsFree() || e.IsDeleted() || e.Attr.Has(AttrVolumeID) {
		return false
	}
	return e.Name[0] != '.'
}

func splitPath(name string) []string {
	cleaned := strings.Trim(path.Clean("/"+name), "/")
	if cleaned == "" {
		return nil
	}
	return strings.Split(cleaned, "/")
}

// readDir returns the listed entries of the directory entry dir.
func (fs *Fs) readDir(dir DirEntry) ([]DirEntry, error) {
	entries, err := fs.volume.ReadDir(dir.Cluster())
	if err != nil {
		return nil, checkpoint.From(err)
	}

	listed := entries[:0]
	for _, e := range entries {
		if e.isListed() {
			listed = append(listed, e)
		}
	}
	return listed, nil
}

// resolve walks from the root directory to name.
func (fs *Fs) resolve(op, name string) (DirEntry, error) {
	entry := fs.rootEntry()
	for _, part := range splitPath(name) {
		if !entry.IsDir() {
			return DirEntry{}, checkpoint.Wrap(ErrNotADirectory, &os.PathError{Op: op, Path: name, Err: syscall.ENOTDIR})
		}

		entries, err := fs.readDir(entry)
		if err != nil {
			return DirEntry{}, checkpoint.From(err)
		}

		found := false
		for _, e := range entries {
			ok, err := MatchName(part, e)
			if err != nil {
				return DirEntry{}, checkpoint.Wrap(err, &os.PathError{Op: op, Path: name, Err: os.ErrNotExist})
			}
			if ok {
				entry, found = e, true
				break
			}
		}
		if !found {
			return DirEntry{}, checkpoint.Wrap(ErrFileNotFound, &os.PathError{Op: op, Path: name, Err: os.ErrNotExist})
		}
	}
	return entry, nil
}

func (fs *Fs) Open(name string) (afero.File, error) {
	entry, err := fs.resolve("open", name)
	if err != nil {
		return nil, err
	}
	return &File{
		volume: fs.volume,
		fs:     fs,
		name:   name,
		entry:  entry,
	}, nil
}

// OpenFile only supports opening for reading, any other flag fails with syscall.EPERM.
func (fs *Fs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if flag&(os.O_WRONLY|os.O_RDWR|os.O_APPEND|os.O_CREATE|os.O_TRUNC) != 0 {
		return nil, &os.PathError{Op: "open", Path: name, Err: syscall.EPERM}
	}
	return fs.Open(name)
}

func (fs *Fs) Stat(name string) (os.FileInfo, error) {
	entry, err := fs.resolve("stat", name)
	if err != nil {
		return nil, err
	}
	return entry.FileInfo(), nil
}

func (fs *Fs) Name() string {
	return "FatFs(" + fs.image + ")"
}

func (fs *Fs) Create(name string) (afero.File, error) {
	return nil, &os.PathError{Op: "create", Path: name, Err: syscall.EPERM}
}

func (fs *Fs) Mkdir(name string, perm os.FileMode) error {
	return &os.PathError{Op: "mkdir", Path: name, Err: syscall.EPERM}
}

func (fs *Fs) MkdirAll(path string, perm os.FileMode) error {
	return &os.PathError{Op: "mkdir", Path: path, Err: syscall.EPERM}
}

func (fs *Fs) Remove(name string) error {
	return &os.PathError{Op: "remove", Path: name, Err: syscall.EPERM}
}

func (fs *Fs) RemoveAll(path string) error {
	return &os.PathError{Op: "remove", Path: path, Err: syscall.EPERM}
}

func (fs *Fs) Rename(oldname, newname string) error {
	return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: syscall.EPERM}
}

func (fs *Fs) Chmod(name string, mode os.FileMode) error {
	return &os.PathError{Op: "chmod", Path: name, Err: syscall.EPERM}
}

func (fs *Fs) Chown(name string, uid, gid int) error {
	return &os.PathError{Op: "chown", Path: name, Err: syscall.EPERM}
}

func (fs *Fs) Chtimes(name string, atime time.Time, mtime time.Time) error {
	return &os.PathError{Op: "chtimes", Path: name, Err: syscall.EPERM}
}
