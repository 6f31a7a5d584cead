// Package checkpoint decorates errors with the location they passed through,
// which gives a lightweight trace of how a failure travelled up the navigator.
// Every description attached to a checkpoint stays visible to errors.Is and errors.As.
package checkpoint

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"
)

// From records the caller location on err.
// It returns nil if err == nil and passes io.EOF and io.ErrUnexpectedEOF through
// untouched, since callers compare those with ==.
func From(err error) error {
	if err == nil || err == io.EOF || err == io.ErrUnexpectedEOF {
		return err
	}
	return newCheckpoint(err, nil)
}

// Wrap records the caller location on prev and describes it with err.
// Returns nil if prev == nil, so it can be used directly on a call result:
//  return checkpoint.Wrap(img.Close(), ErrCannotOpenImage)
// The result matches both err and prev with errors.Is.
func Wrap(prev, err error) error {
	if prev == nil || prev == io.EOF {
		return prev
	}
	return newCheckpoint(err, prev)
}

// Wrapf is like Wrap but builds the description from a format string.
// Use %w in format to keep a sentinel matchable.
func Wrapf(prev error, format string, a ...interface{}) error {
	if prev == nil || prev == io.EOF {
		return prev
	}
	return newCheckpoint(fmt.Errorf(format, a...), prev)
}

// Message returns the description of the outermost checkpoint without any
// location information. For other errors it is just err.Error().
func Message(err error) string {
	if err == nil {
		return ""
	}
	var c *checkpoint
	if errors.As(err, &c) && c.err != nil {
		return c.err.Error()
	}
	return err.Error()
}

type checkpoint struct {
	err  error
	prev error

	callerOk bool
	file     string
	line     int
}

func newCheckpoint(err, prev error) *checkpoint {
	// Skip newCheckpoint and the exported constructor.
	_, file, line, ok := runtime.Caller(2)
	return &checkpoint{
		err:      err,
		prev:     prev,
		callerOk: ok,
		file:     filepath.Base(file),
		line:     line,
	}
}

func (e *checkpoint) location() string {
	if !e.callerOk {
		return "unknown"
	}
	return fmt.Sprintf("%s:%d", e.file, e.line)
}

func (e *checkpoint) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "File: %s\n\t%v", e.location(), e.err)

	if e.prev == nil {
		return b.String()
	}

	prev := e.prev.Error()
	if _, ok := e.prev.(*checkpoint); !ok {
		prev = "File: unknown\n\t" + strings.ReplaceAll(prev, "\n", "\n\t")
	}
	b.WriteString("\n")
	b.WriteString(prev)
	return b.String()
}

func (e *checkpoint) Unwrap() error {
	return e.prev
}

func (e *checkpoint) Is(target error) bool {
	return errors.Is(e.err, target)
}

func (e *checkpoint) As(target interface{}) bool {
	return errors.As(e.err, target)
}
