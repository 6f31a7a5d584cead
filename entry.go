package fatnav

import (
	"bytes"
	"encoding/binary"

	"github.com/aligator/fatnav/checkpoint"
)

// DecodeEntries splits a directory's raw clusters into 32 byte records.
// It decodes up to the end of b and does not stop at the end of directory
// marker, free and deleted records are part of the result.
// A trailing partial record is ignored.
func DecodeEntries(b []byte) ([]DirEntry, error) {
	count := len(b) / dirEntrySize
	if count == 0 {
		return nil, nil
	}

	entries := make([]DirEntry, count)
	err := binary.Read(bytes.NewReader(b[:count*dirEntrySize]), binary.LittleEndian, entries)
	if err != nil {
		return nil, checkpoint.From(err)
	}
	return entries, nil
}

// Cluster returns the first cluster of the entry's data.
func (e DirEntry) Cluster() uint32 {
	return uint32(e.FirstClusterHI)<<16 | uint32(e.FirstClusterLO)
}

// IsDir reports whether the directory attribute is set.
func (e DirEntry) IsDir() bool {
	return e.Attr.Has(AttrDirectory)
}

// IsDeleted reports whether the entry was deleted.
func (e DirEntry) IsDeleted() bool {
	return e.Name[0] == deletedMarker
}

// IsFree reports whether the record was never used.
func (e DirEntry) IsFree() bool {
	return e.Name[0] == 0x00
}

// IsVisible reports whether the entry shows up in a listing.
// Only read-only, directory and archive entries are listed. Hidden, system
// and volume-id entries, and with them long name records, are suppressed even
// if one of the listed bits is set too.
func (e DirEntry) IsVisible() bool {
	if e.IsDeleted() {
		return false
	}
	return e.Attr.Has(AttrReadOnly|AttrDirectory|AttrArchive) &&
		!e.Attr.Has(AttrHidden|AttrSystem|AttrVolumeID)
}
