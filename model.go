// File model contains the structs which match the on-disk structures of a FAT32 volume.

package fatnav

const (
	bootSectorSize = 512
	dirEntrySize   = 32
	fatEntrySize   = 4

	// deletedMarker in the first name byte marks a deleted entry.
	deletedMarker = 0xE5
	// kanjiMarker in the first name byte stands for a real 0xE5 character.
	kanjiMarker = 0x05

	bootSignatureOffset = 510
	bootSignature       = 0xAA55
)

// bootSector is the FAT32 layout of the first sector, BPB included.
// Decoded with encoding/binary, so field order and sizes are the on-disk ones.
type bootSector struct {
	JumpBoot            [3]byte
	OEMName             [8]byte
	BytesPerSector      uint16
	SectorsPerCluster   byte
	ReservedSectorCount uint16
	NumFATs             byte
	RootEntryCount      uint16
	TotalSectors16      uint16
	Media               byte
	FATSize16           uint16
	SectorsPerTrack     uint16
	NumberOfHeads       uint16
	HiddenSectors       uint32
	TotalSectors32      uint32

	// FAT32 specific part.
	FATSize32      uint32
	ExtFlags       uint16
	FSVersion      uint16
	RootCluster    uint32
	FSInfo         uint16
	BkBootSector   uint16
	Reserved       [12]byte
	DriveNumber    byte
	Reserved1      byte
	BootSignature  byte
	VolumeID       uint32
	VolumeLabel    [11]byte
	FileSystemType [8]byte
}

// Attr is the attribute bitmask of a directory entry.
type Attr uint8

const (
	AttrReadOnly  Attr = 0x01
	AttrHidden    Attr = 0x02
	AttrSystem    Attr = 0x04
	AttrVolumeID  Attr = 0x08
	AttrDirectory Attr = 0x10
	AttrArchive   Attr = 0x20
	AttrLongName       = AttrReadOnly | AttrHidden | AttrSystem | AttrVolumeID
)

// Has reports whether any of the bits in mask are set.
func (a Attr) Has(mask Attr) bool {
	return a&mask != 0
}

// DirEntry is a single 32 byte short-name directory record.
type DirEntry struct {
	Name            [11]byte
	Attr            Attr
	NTReserved      byte
	CreateTimeTenth byte
	CreateTime      uint16
	CreateDate      uint16
	LastAccessDate  uint16
	FirstClusterHI  uint16
	WriteTime       uint16
	WriteDate       uint16
	FirstClusterLO  uint16
	FileSize        uint32
}
