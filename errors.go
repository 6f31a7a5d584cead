package fatnav

import "errors"

// These errors may occur while navigating a volume.
// They are returned decorated by checkpoint, so compare them with errors.Is.
var (
	ErrTruncatedImage    = errors.New("truncated image")
	ErrInvalidGeometry   = errors.New("invalid geometry")
	ErrInvalidCluster    = errors.New("invalid cluster")
	ErrCorruptChain      = errors.New("corrupt cluster chain")
	ErrCannotOpenImage   = errors.New("could not open image")
	ErrImageNotOpen      = errors.New("image not open")
	ErrNameTooLong       = errors.New("name too long")
	ErrInvalidName       = errors.New("invalid name")
	ErrDirectoryNotFound = errors.New("directory not found")
	ErrNotADirectory     = errors.New("not a directory")
	ErrIsADirectory      = errors.New("is a directory")
	ErrFileNotFound      = errors.New("file not found")
)
