package fatnav

import (
	"bytes"
	"encoding/binary"
	"reflect"
	"testing"
)

func encodeEntries(t *testing.T, entries ...DirEntry) []byte {
	t.Helper()

	buf := &bytes.Buffer{}
	if err := binary.Write(buf, binary.LittleEndian, entries); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDecodeEntries(t *testing.T) {
	hello := newEntry("HELLO   TXT", AttrArchive, 0x00030004, 1234)
	docs := newEntry("DOCS       ", AttrDirectory, 5, 0)

	tests := []struct {
		name  string
		input []byte
		want  []DirEntry
	}{
		{
			name:  "empty",
			input: nil,
			want:  nil,
		},
		{
			name:  "less than a record",
			input: make([]byte, 31),
			want:  nil,
		},
		{
			name:  "two records",
			input: encodeEntries(t, hello, docs),
			want:  []DirEntry{hello, docs},
		},
		{
			name:  "free records are kept",
			input: append(encodeEntries(t, hello), make([]byte, 64)...),
			want:  []DirEntry{hello, {}, {}},
		},
		{
			name:  "trailing partial record is ignored",
			input: append(encodeEntries(t, hello, docs), 'X', 'Y'),
			want:  []DirEntry{hello, docs},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeEntries(tt.input)
			if err != nil {
				t.Fatalf("DecodeEntries() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DecodeEntries() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecodeEntries_Layout(t *testing.T) {
	raw := make([]byte, dirEntrySize)
	copy(raw, "README  MD ")
	raw[11] = byte(AttrArchive | AttrReadOnly)
	binary.LittleEndian.PutUint16(raw[20:], 0x0001)
	binary.LittleEndian.PutUint16(raw[22:], 41936)
	binary.LittleEndian.PutUint16(raw[24:], 20890)
	binary.LittleEndian.PutUint16(raw[26:], 0x0002)
	binary.LittleEndian.PutUint32(raw[28:], 4711)

	entries, err := DecodeEntries(raw)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("DecodeEntries() returned %d entries, want 1", len(entries))
	}

	e := entries[0]
	if e.ShortName() != "README.MD" {
		t.Errorf("ShortName() = %v, want README.MD", e.ShortName())
	}
	if e.Attr != AttrArchive|AttrReadOnly {
		t.Errorf("Attr = %v, want %v", e.Attr, AttrArchive|AttrReadOnly)
	}
	if e.Cluster() != 0x00010002 {
		t.Errorf("Cluster() = 0x%X, want 0x10002", e.Cluster())
	}
	if e.WriteTime != 41936 || e.WriteDate != 20890 {
		t.Errorf("WriteTime, WriteDate = %v, %v, want 41936, 20890", e.WriteTime, e.WriteDate)
	}
	if e.FileSize != 4711 {
		t.Errorf("FileSize = %v, want 4711", e.FileSize)
	}
}

// Decoding the same bytes twice has to give the same entries.
func TestDecodeEntries_Repeatable(t *testing.T) {
	input := encodeEntries(t,
		newEntry("A       TXT", AttrArchive, 3, 1),
		newEntry("\xE5DELETEDTXT", AttrArchive, 4, 1),
		newEntry("SUB        ", AttrDirectory, 5, 0),
	)

	first, err := DecodeEntries(input)
	if err != nil {
		t.Fatal(err)
	}
	second, err := DecodeEntries(input)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("DecodeEntries() = %v on the second run, want %v", second, first)
	}
	if !bytes.Equal(encodeEntries(t, first...), input) {
		t.Error("decoded entries do not encode back to the input")
	}
}

func TestDirEntry_Cluster(t *testing.T) {
	tests := []struct {
		name string
		hi   uint16
		lo   uint16
		want uint32
	}{
		{name: "zero", want: 0},
		{name: "low only", lo: 0x1234, want: 0x1234},
		{name: "high only", hi: 0x0ABC, want: 0x0ABC0000},
		{name: "both", hi: 0x0001, lo: 0xFFFF, want: 0x0001FFFF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := DirEntry{FirstClusterHI: tt.hi, FirstClusterLO: tt.lo}
			if got := e.Cluster(); got != tt.want {
				t.Errorf("DirEntry.Cluster() = 0x%X, want 0x%X", got, tt.want)
			}
		})
	}
}

func TestDirEntry_IsVisible(t *testing.T) {
	tests := []struct {
		name  string
		entry DirEntry
		want  bool
	}{
		{name: "archive file", entry: newEntry("FILE    TXT", AttrArchive, 3, 1), want: true},
		{name: "read-only file", entry: newEntry("FILE    TXT", AttrReadOnly, 3, 1), want: true},
		{name: "directory", entry: newEntry("DIR        ", AttrDirectory, 3, 0), want: true},
		{name: "read-only directory", entry: newEntry("DIR        ", AttrDirectory|AttrReadOnly, 3, 0), want: true},
		{name: "dot", entry: newEntry(".          ", AttrDirectory, 3, 0), want: true},
		{name: "dotdot", entry: newEntry("..         ", AttrDirectory, 0, 0), want: true},
		{name: "no attribute", entry: newEntry("FILE    TXT", 0, 3, 1), want: false},
		{name: "hidden file", entry: newEntry("FILE    TXT", AttrArchive|AttrHidden, 3, 1), want: false},
		{name: "system file", entry: newEntry("FILE    TXT", AttrArchive|AttrSystem, 3, 1), want: false},
		{name: "hidden directory", entry: newEntry("DIR        ", AttrDirectory|AttrHidden, 3, 0), want: false},
		{name: "volume label", entry: newEntry("MY VOLUME  ", AttrVolumeID, 0, 0), want: false},
		{name: "volume label with archive bit", entry: newEntry("MY VOLUME  ", AttrVolumeID|AttrArchive, 0, 0), want: false},
		{name: "long name record", entry: newEntry("AH\x00e\x00l\x00l\x00o", AttrLongName, 0, 0), want: false},
		{name: "deleted file", entry: newEntry("\xE5ILE    TXT", AttrArchive, 3, 1), want: false},
		{name: "deleted directory", entry: newEntry("\xE5IR        ", AttrDirectory, 3, 0), want: false},
		{name: "escaped 0xE5", entry: newEntry("\x05ILE    TXT", AttrArchive, 3, 1), want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.IsVisible(); got != tt.want {
				t.Errorf("DirEntry.IsVisible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDirEntry_Markers(t *testing.T) {
	free := DirEntry{}
	if !free.IsFree() {
		t.Error("zeroed entry is not free")
	}
	if free.IsDeleted() {
		t.Error("zeroed entry is deleted")
	}

	deleted := newEntry("\xE5ILE    TXT", AttrArchive, 3, 1)
	if !deleted.IsDeleted() {
		t.Error("0xE5 entry is not deleted")
	}
	if deleted.IsFree() {
		t.Error("0xE5 entry is free")
	}

	escaped := newEntry("\x05ILE    TXT", AttrArchive, 3, 1)
	if escaped.IsDeleted() {
		t.Error("0x05 entry is deleted")
	}
}
