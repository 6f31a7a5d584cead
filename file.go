package fatnav

import (
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/aligator/fatnav/checkpoint"
	"github.com/spf13/afero"
)

// These errors may occur while processing a file.
var (
	ErrReadFile = errors.New("could not read file completely")
	ErrSeekFile = errors.New("could not seek inside of the file")
	ErrReadDir  = errors.New("could not read the directory")
)

// File is a file or directory opened through Fs. It is read-only.
type File struct {
	volume *Volume
	fs     *Fs
	name   string
	entry  DirEntry
	closed bool

	// offset is the read position for files and the number of returned entries for directories.
	offset int64

	// Loaded on first use.
	clusters []uint32
	children []DirEntry
}

var _ afero.File = (*File)(nil)

func (f *File) Close() error {
	if f.closed {
		return &os.PathError{Op: "close", Path: f.name, Err: os.ErrClosed}
	}
	f.closed = true
	f.clusters = nil
	f.children = nil
	return nil
}

func (f *File) check(op string) error {
	if f.closed {
		return &os.PathError{Op: op, Path: f.name, Err: os.ErrClosed}
	}
	if f.entry.IsDir() {
		return checkpoint.Wrap(ErrIsADirectory, &os.PathError{Op: op, Path: f.name, Err: syscall.EISDIR})
	}
	return nil
}

// readAt reads from the clusters holding off up to the file size.
func (f *File) readAt(p []byte, off int64) (int, error) {
	size := int64(f.entry.FileSize)
	if off >= size {
		return 0, io.EOF
	}

	bytesPerCluster := f.volume.Geometry().BytesPerCluster
	if f.clusters == nil {
		clusters, err := f.volume.Chain(f.entry.Cluster())
		if err != nil {
			return 0, checkpoint.Wrap(err, ErrReadFile)
		}
		if int64(len(clusters))*bytesPerCluster < size {
			return 0, checkpoint.Wrapf(ErrCorruptChain, "%w: %s has %d clusters but a size of %d", ErrCorruptChain, f.name, len(clusters), size)
		}
		f.clusters = clusters
	}

	end := off + int64(len(p))
	if end > size {
		end = size
	}

	n := 0
	for pos := off; pos < end; {
		within := pos % bytesPerCluster
		chunk := bytesPerCluster - within
		if chunk > end-pos {
			chunk = end - pos
		}

		clusterOffset, err := f.volume.Geometry().ClusterOffset(f.clusters[pos/bytesPerCluster])
		if err != nil {
			return n, checkpoint.Wrap(err, ErrReadFile)
		}
		if err := f.volume.readFull(p[n:n+int(chunk)], clusterOffset+within); err != nil {
			return n, checkpoint.Wrap(err, ErrReadFile)
		}

		n += int(chunk)
		pos += chunk
	}

	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (f *File) Read(p []byte) (n int, err error) {
	if err := f.check("read"); err != nil {
		return 0, err
	}
	if len(p) == 0 {
		return 0, nil
	}

	n, err = f.readAt(p, f.offset)
	f.offset += int64(n)
	if err == io.EOF && n > 0 {
		return n, nil
	}
	return n, err
}

func (f *File) ReadAt(p []byte, off int64) (n int, err error) {
	if err := f.check("read"); err != nil {
		return 0, err
	}
	if off < 0 {
		return 0, checkpoint.Wrap(ErrReadFile, &os.PathError{Op: "readat", Path: f.name, Err: syscall.EINVAL})
	}
	return f.readAt(p, off)
}

// Seek jumps to a specific offset in the file. This affects all Read operation except ReadAt.
// May return a syscall.EINVAL error if the whence value is invalid.
// May return an afero.ErrOutOfRange error if the offset is out of range.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	if err := f.check("seek"); err != nil {
		return 0, err
	}

	size := int64(f.entry.FileSize)
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		offset = f.offset + offset
	case io.SeekEnd:
		offset = size + offset
	default:
		return 0, checkpoint.Wrap(ErrSeekFile, fmt.Errorf("%w, offset: %v, whence: %v", syscall.EINVAL, offset, whence))
	}

	if offset < 0 || offset > size {
		return 0, checkpoint.Wrap(afero.ErrOutOfRange, fmt.Errorf("%w, offset: %v, whence: %v", ErrSeekFile, offset, whence))
	}

	f.offset = offset
	return offset, nil
}

func (f *File) Write(p []byte) (n int, err error) {
	return 0, &os.PathError{Op: "write", Path: f.name, Err: syscall.EPERM}
}

func (f *File) WriteAt(p []byte, off int64) (n int, err error) {
	return 0, &os.PathError{Op: "write", Path: f.name, Err: syscall.EPERM}
}

func (f *File) WriteString(s string) (ret int, err error) {
	return f.Write([]byte(s))
}

func (f *File) Truncate(size int64) error {
	return &os.PathError{Op: "truncate", Path: f.name, Err: syscall.EPERM}
}

func (f *File) Sync() error {
	return nil
}

func (f *File) Name() string {
	return f.name
}

// Readdir reads the contents of a directory like os.File.Readdir:
// with count > 0 at most count entries and io.EOF at the end of the directory,
// otherwise all remaining entries.
// May return syscall.ENOTDIR if the current File is no directory.
func (f *File) Readdir(count int) ([]os.FileInfo, error) {
	entries, err := f.readdir(count)
	if err != nil {
		return nil, err
	}

	result := make([]os.FileInfo, len(entries))
	for i := range entries {
		result[i] = entries[i].FileInfo()
	}
	return result, nil
}

func (f *File) Readdirnames(count int) ([]string, error) {
	entries, err := f.readdir(count)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(entries))
	for i, entry := range entries {
		names[i] = entry.ShortName()
	}
	return names, nil
}

func (f *File) readdir(count int) ([]DirEntry, error) {
	if f.closed {
		return nil, &os.PathError{Op: "readdir", Path: f.name, Err: os.ErrClosed}
	}
	if !f.entry.IsDir() {
		return nil, checkpoint.Wrap(ErrReadDir, &os.PathError{Op: "readdir", Path: f.name, Err: syscall.ENOTDIR})
	}

	if f.children == nil {
		children, err := f.fs.readDir(f.entry)
		if err != nil {
			return nil, checkpoint.Wrap(err, ErrReadDir)
		}
		f.children = children
	}

	rest := f.children[f.offset:]
	if count > 0 {
		if len(rest) == 0 {
			return nil, io.EOF
		}
		if len(rest) > count {
			rest = rest[:count]
		}
	}
	f.offset += int64(len(rest))
	return rest, nil
}

func (f *File) Stat() (os.FileInfo, error) {
	if f.closed {
		return nil, &os.PathError{Op: "stat", Path: f.name, Err: os.ErrClosed}
	}
	return f.entry.FileInfo(), nil
}
