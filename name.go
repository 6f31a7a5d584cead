package fatnav

import (
	"bytes"
	"strings"

	"github.com/aligator/fatnav/checkpoint"
	"golang.org/x/text/encoding/charmap"
)

const (
	baseLength      = 8
	extensionLength = 3
)

// Short names are stored in the OEM code page. Code page 437 is what
// DOS and most formatters use.
var oemCodePage = charmap.CodePage437

var dotName = [11]byte{'.', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' '}

// ShortName renders the 8.3 name of the entry as "BASE.EXT" without padding.
func (e DirEntry) ShortName() string {
	raw := e.Name
	if raw[0] == kanjiMarker {
		raw[0] = deletedMarker
	}

	base := bytes.TrimRight(raw[:baseLength], " ")
	ext := bytes.TrimRight(raw[baseLength:], " ")

	name := decodeOEM(base)
	if len(ext) > 0 {
		name += "." + decodeOEM(ext)
	}
	return name
}

func decodeOEM(b []byte) string {
	s, err := oemCodePage.NewDecoder().Bytes(b)
	if err != nil {
		// Every byte has a mapping in code page 437.
		return string(b)
	}
	return string(s)
}

// ExpandName converts user input into the fixed 11 byte on-disk form:
// the base padded to 8 bytes followed by the extension padded to 3 bytes,
// upper-cased and without the separating dot.
// Input is split at its first dot. May return ErrNameTooLong if a part does not
// fit and ErrInvalidName if the input can not be represented in the OEM code page.
func ExpandName(input string) ([11]byte, error) {
	var name [11]byte

	encoded, err := oemCodePage.NewEncoder().Bytes([]byte(input))
	if err != nil {
		return name, checkpoint.Wrapf(err, "%w: %q", ErrInvalidName, input)
	}

	base, ext := encoded, []byte(nil)
	if i := bytes.IndexByte(encoded, '.'); i >= 0 {
		base, ext = encoded[:i], encoded[i+1:]
	}

	if len(base) > baseLength || len(ext) > extensionLength {
		return name, checkpoint.Wrapf(ErrNameTooLong, "%w: %q does not fit into 8.3", ErrNameTooLong, input)
	}

	for i := range name {
		name[i] = ' '
	}
	copy(name[:baseLength], upperASCII(base))
	copy(name[baseLength:], upperASCII(ext))

	if name[0] == deletedMarker {
		name[0] = kanjiMarker
	}
	return name, nil
}

func upperASCII(b []byte) []byte {
	upper := make([]byte, len(b))
	for i, c := range b {
		if 'a' <= c && c <= 'z' {
			c -= 'a' - 'A'
		}
		upper[i] = c
	}
	return upper
}

// MatchName reports whether input names the entry.
// Input starting with ".." matches on the first two raw bytes and "." matches only
// the "." entry, all other input is expanded to 8.3 and compared case-insensitive.
// Deleted, free and volume-id entries (long name records included) never match.
func MatchName(input string, e DirEntry) (bool, error) {
	if e.IsDeleted() || e.IsFree() || e.Attr.Has(AttrVolumeID) {
		return false, nil
	}

	switch {
	case strings.HasPrefix(input, ".."):
		return e.Name[0] == '.' && e.Name[1] == '.', nil
	case input == ".":
		return e.Name == dotName, nil
	}

	expanded, err := ExpandName(input)
	if err != nil {
		return false, checkpoint.From(err)
	}
	return expanded == e.Name, nil
}
