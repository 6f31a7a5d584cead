package fatnav

import (
	"io/fs"
)

// GoDirEntry is a directory entry as returned by GoFile.ReadDir.
type GoDirEntry struct {
	fs.FileInfo
}

func (g GoDirEntry) Type() fs.FileMode {
	return g.FileInfo.Mode().Type()
}

func (g GoDirEntry) Info() (fs.FileInfo, error) {
	return g.FileInfo, nil
}

// GoFile adds fs.ReadDirFile to File.
type GoFile struct {
	*File
}

func (g GoFile) ReadDir(n int) ([]fs.DirEntry, error) {
	entries, err := g.File.Readdir(n)

	goEntries := make([]fs.DirEntry, len(entries))
	for i, e := range entries {
		goEntries[i] = GoDirEntry{e}
	}

	return goEntries, err
}

// GoFs just wraps the afero FAT implementation to be compatible with fs.FS.
type GoFs struct {
	*Fs
}

// NewGoFS exposes a filesystem view as fs.FS.
func NewGoFS(view *Fs) GoFs {
	return GoFs{view}
}

func (g GoFs) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}

	file, err := g.Fs.Open(name)
	if err != nil {
		return nil, err
	}
	return GoFile{file.(*File)}, nil
}

func (g GoFs) Stat(name string) (fs.FileInfo, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrInvalid}
	}
	return g.Fs.Stat(name)
}
