package fatnav

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/aligator/fatnav/checkpoint"
)

// defaultRootCluster is where FAT32 formatters put the root directory.
const defaultRootCluster = 2

// maxFATEntries is the most entries a FAT with 28 bit cluster numbers can address.
const maxFATEntries = endOfChainMinimum

// Geometry contains the layout of a FAT32 volume as read from its boot sector.
// It never changes while a volume is open.
type Geometry struct {
	BytesPerSector      uint16
	SectorsPerCluster   uint8
	ReservedSectorCount uint16
	NumFATs             uint8
	FATSize             uint32

	RootCluster    uint32
	TotalSectors   uint32
	OEMName        string
	VolumeLabel    string
	FileSystemType string

	// Byte offsets and sizes derived from the fields above.
	FATRegionStart  int64
	DataRegionStart int64
	BytesPerCluster int64

	jumpBoot  [3]byte
	signature uint16
}

// ParseBootSector reads the BPB from the first sector of an image.
// Only the values needed to walk the volume are checked here, see Validate for the strict checks.
func ParseBootSector(b []byte) (Geometry, error) {
	if len(b) < bootSectorSize {
		return Geometry{}, checkpoint.Wrapf(ErrTruncatedImage, "%w: boot sector needs %d bytes, got %d", ErrTruncatedImage, bootSectorSize, len(b))
	}

	bs := bootSector{}
	if err := binary.Read(bytes.NewReader(b), binary.LittleEndian, &bs); err != nil {
		return Geometry{}, checkpoint.Wrap(err, ErrTruncatedImage)
	}

	switch {
	case bs.BytesPerSector == 0:
		return Geometry{}, checkpoint.Wrapf(ErrInvalidGeometry, "%w: bytes per sector is 0", ErrInvalidGeometry)
	case bs.SectorsPerCluster == 0:
		return Geometry{}, checkpoint.Wrapf(ErrInvalidGeometry, "%w: sectors per cluster is 0", ErrInvalidGeometry)
	case bs.NumFATs == 0:
		return Geometry{}, checkpoint.Wrapf(ErrInvalidGeometry, "%w: no FAT present", ErrInvalidGeometry)
	case bs.FATSize32 == 0:
		// A FAT12/16 volume keeps its FAT size in FATSize16 only.
		return Geometry{}, checkpoint.Wrapf(ErrInvalidGeometry, "%w: FAT32 size is 0", ErrInvalidGeometry)
	case int64(bs.FATSize32)*int64(bs.BytesPerSector)/fatEntrySize > maxFATEntries:
		return Geometry{}, checkpoint.Wrapf(ErrInvalidGeometry, "%w: FAT of %d sectors has more entries than FAT32 can address", ErrInvalidGeometry, bs.FATSize32)
	}

	g := Geometry{
		BytesPerSector:      bs.BytesPerSector,
		SectorsPerCluster:   bs.SectorsPerCluster,
		ReservedSectorCount: bs.ReservedSectorCount,
		NumFATs:             bs.NumFATs,
		FATSize:             bs.FATSize32,
		RootCluster:         bs.RootCluster,
		TotalSectors:        bs.TotalSectors32,
		OEMName:             strings.TrimRight(string(bs.OEMName[:]), " \x00"),
		VolumeLabel:         strings.TrimRight(string(bs.VolumeLabel[:]), " \x00"),
		FileSystemType:      strings.TrimRight(string(bs.FileSystemType[:]), " \x00"),
		jumpBoot:            bs.JumpBoot,
		signature:           binary.LittleEndian.Uint16(b[bootSignatureOffset:]),
	}
	if g.TotalSectors == 0 {
		g.TotalSectors = uint32(bs.TotalSectors16)
	}
	if g.RootCluster < 2 {
		g.RootCluster = defaultRootCluster
	}

	bps := int64(g.BytesPerSector)
	g.FATRegionStart = int64(g.ReservedSectorCount) * bps
	g.DataRegionStart = g.FATRegionStart + int64(g.NumFATs)*int64(g.FATSize)*bps
	g.BytesPerCluster = bps * int64(g.SectorsPerCluster)

	return g, nil
}

// Validate applies the checks a FAT32 driver would do before mounting.
// Images produced by unusual tools may fail here while still being navigable.
func (g Geometry) Validate() error {
	// Check for valid jump instructions.
	if !(g.jumpBoot[0] == 0xEB && g.jumpBoot[2] == 0x90) && g.jumpBoot[0] != 0xE9 {
		return checkpoint.Wrapf(ErrInvalidGeometry, "%w: no valid jump instruction at the beginning", ErrInvalidGeometry)
	}

	switch g.BytesPerSector {
	case 512, 1024, 2048, 4096:
	default:
		return checkpoint.Wrapf(ErrInvalidGeometry, "%w: invalid sector size %d", ErrInvalidGeometry, g.BytesPerSector)
	}

	// Sectors per cluster has to be a power of two and the cluster not more than 32K.
	if g.SectorsPerCluster&(g.SectorsPerCluster-1) != 0 {
		return checkpoint.Wrapf(ErrInvalidGeometry, "%w: sectors per cluster %d is no power of two", ErrInvalidGeometry, g.SectorsPerCluster)
	}
	if g.BytesPerCluster > 32*1024 {
		return checkpoint.Wrapf(ErrInvalidGeometry, "%w: cluster size %d exceeds 32K", ErrInvalidGeometry, g.BytesPerCluster)
	}

	if g.ReservedSectorCount == 0 {
		return checkpoint.Wrapf(ErrInvalidGeometry, "%w: reserved sector count is 0", ErrInvalidGeometry)
	}

	if g.signature != bootSignature {
		return checkpoint.Wrapf(ErrInvalidGeometry, "%w: boot signature 0x%04X", ErrInvalidGeometry, g.signature)
	}

	return nil
}

// ClusterOffset translates a cluster number into the byte offset of its first byte.
// Clusters 0 and 1 do not exist in the data region.
func (g Geometry) ClusterOffset(cluster uint32) (int64, error) {
	if cluster < 2 {
		return 0, checkpoint.Wrapf(ErrInvalidCluster, "%w: %d", ErrInvalidCluster, cluster)
	}
	return g.DataRegionStart + int64(cluster-2)*g.BytesPerCluster, nil
}

// FATEntries returns how many entries one copy of the FAT holds.
// ParseBootSector guarantees that this fits into 28 bits.
func (g Geometry) FATEntries() uint32 {
	return uint32(int64(g.FATSize) * int64(g.BytesPerSector) / fatEntrySize)
}

// RootDirOffset is the byte offset of the root directory's first cluster.
func (g Geometry) RootDirOffset() int64 {
	offset, _ := g.ClusterOffset(g.RootCluster)
	return offset
}

func (g Geometry) String() string {
	return fmt.Sprintf("FAT32 volume %q: %d bytes/sector, %d sectors/cluster, %d reserved, %d FATs of %d sectors",
		g.VolumeLabel, g.BytesPerSector, g.SectorsPerCluster, g.ReservedSectorCount, g.NumFATs, g.FATSize)
}
