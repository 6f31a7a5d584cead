package fatnav

import (
	"os"
	"time"
)

// FileInfo exposes the entry as os.FileInfo.
func (e DirEntry) FileInfo() os.FileInfo {
	return entryFileInfo{e}
}

type entryFileInfo struct {
	entry DirEntry
}

func (e entryFileInfo) Name() string {
	return e.entry.ShortName()
}

func (e entryFileInfo) Size() int64 {
	return int64(e.entry.FileSize)
}

func (e entryFileInfo) Mode() os.FileMode {
	mode := os.FileMode(0444)
	if !e.entry.Attr.Has(AttrReadOnly) {
		mode |= 0222
	}
	if e.IsDir() {
		mode |= os.ModeDir | 0111
	}
	return mode
}

func (e entryFileInfo) ModTime() time.Time {
	return e.entry.ModTime()
}

func (e entryFileInfo) IsDir() bool {
	return e.entry.IsDir()
}

func (e entryFileInfo) Sys() interface{} {
	return e.entry
}
