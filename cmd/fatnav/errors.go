package main

import (
	"errors"

	"github.com/aligator/fatnav"
	"github.com/aligator/fatnav/checkpoint"
)

// userMessages are shown instead of the error trail, checked in order.
var userMessages = []struct {
	err     error
	message string
}{
	{fatnav.ErrImageNotOpen, "image not open"},
	{fatnav.ErrCannotOpenImage, "could not open image"},
	{fatnav.ErrTruncatedImage, "image is truncated"},
	{fatnav.ErrInvalidGeometry, "not a FAT32 image"},
	{fatnav.ErrNameTooLong, "name does not fit into 8.3"},
	{fatnav.ErrInvalidName, "invalid name"},
	{fatnav.ErrDirectoryNotFound, "directory not found"},
	{fatnav.ErrNotADirectory, "not a directory"},
	{fatnav.ErrIsADirectory, "is a directory"},
	{fatnav.ErrFileNotFound, "file not found"},
	{fatnav.ErrInvalidCluster, "invalid cluster"},
	{fatnav.ErrCorruptChain, "corrupt cluster chain"},
}

// userMessage returns the one line description of err shown to users.
func userMessage(err error) string {
	for _, m := range userMessages {
		if errors.Is(err, m.err) {
			return m.message
		}
	}
	return checkpoint.Message(err)
}

// userError replaces the text of an error with its user message.
type userError struct {
	err error
}

func newUserError(err error) error {
	if err == nil {
		return nil
	}
	return userError{err: err}
}

func (e userError) Error() string {
	return userMessage(e.err)
}

func (e userError) Unwrap() error {
	return e.err
}
