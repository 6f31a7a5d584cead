package fatnav

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/spf13/afero"
)

const (
	testEOC  = 0x0FFFFFFF
	testFree = 0x00000000
)

// testBootSector is the geometry of most test images:
// 512 bytes per sector, 1 sector per cluster, 32 reserved sectors and a single FAT of 1 sector.
// The data region starts at 32*512 + 1*1*512 = 16896.
func testBootSector() bootSector {
	return bootSector{
		JumpBoot:            [3]byte{0xEB, 0x58, 0x90},
		OEMName:             [8]byte{'f', 'a', 't', 'n', 'a', 'v', ' ', ' '},
		BytesPerSector:      512,
		SectorsPerCluster:   1,
		ReservedSectorCount: 32,
		NumFATs:             1,
		Media:               0xF8,
		FATSize32:           1,
		RootCluster:         2,
		BootSignature:       0x29,
		VolumeLabel:         [11]byte{'T', 'E', 'S', 'T', ' ', ' ', ' ', ' ', ' ', ' ', ' '},
		FileSystemType:      [8]byte{'F', 'A', 'T', '3', '2', ' ', ' ', ' '},
	}
}

// bootSectorBytes encodes bs into a full sector with the 0x55AA signature.
func bootSectorBytes(t testing.TB, bs bootSector) []byte {
	t.Helper()

	buf := &bytes.Buffer{}
	if err := binary.Write(buf, binary.LittleEndian, bs); err != nil {
		t.Fatalf("could not encode boot sector: %v", err)
	}

	b := make([]byte, bootSectorSize)
	copy(b, buf.Bytes())
	binary.LittleEndian.PutUint16(b[bootSignatureOffset:], bootSignature)
	return b
}

// testImage assembles a FAT32 image in memory.
type testImage struct {
	t    testing.TB
	geo  Geometry
	data []byte
}

// newTestImage creates an image with the given boot sector and number of data clusters.
// The root directory cluster is already terminated in the FAT.
func newTestImage(t testing.TB, bs bootSector, clusters int) *testImage {
	t.Helper()

	boot := bootSectorBytes(t, bs)
	geo, err := ParseBootSector(boot)
	if err != nil {
		t.Fatalf("invalid test boot sector: %v", err)
	}

	img := &testImage{
		t:    t,
		geo:  geo,
		data: make([]byte, geo.DataRegionStart+int64(clusters)*geo.BytesPerCluster),
	}
	copy(img.data, boot)

	img.setFAT(0, 0x0FFFFFF8)
	img.setFAT(1, testEOC)
	img.setFAT(geo.RootCluster, testEOC)
	return img
}

// setFAT writes value into the FAT entry of cluster in every FAT copy.
func (img *testImage) setFAT(cluster uint32, value uint32) *testImage {
	fatBytes := int64(img.geo.FATSize) * int64(img.geo.BytesPerSector)
	for i := int64(0); i < int64(img.geo.NumFATs); i++ {
		offset := img.geo.FATRegionStart + i*fatBytes + int64(cluster)*fatEntrySize
		binary.LittleEndian.PutUint32(img.data[offset:], value)
	}
	return img
}

// chain links the clusters in order and terminates the last one.
func (img *testImage) chain(clusters ...uint32) *testImage {
	for i, cluster := range clusters {
		if i == len(clusters)-1 {
			img.setFAT(cluster, testEOC)
		} else {
			img.setFAT(cluster, clusters[i+1])
		}
	}
	return img
}

// writeEntries writes entries from the start of cluster on.
func (img *testImage) writeEntries(cluster uint32, entries ...DirEntry) *testImage {
	img.t.Helper()

	offset, err := img.geo.ClusterOffset(cluster)
	if err != nil {
		img.t.Fatal(err)
	}

	buf := &bytes.Buffer{}
	if err := binary.Write(buf, binary.LittleEndian, entries); err != nil {
		img.t.Fatalf("could not encode entries: %v", err)
	}
	copy(img.data[offset:], buf.Bytes())
	return img
}

// writeData writes raw bytes from the start of cluster on.
func (img *testImage) writeData(cluster uint32, data []byte) *testImage {
	img.t.Helper()

	offset, err := img.geo.ClusterOffset(cluster)
	if err != nil {
		img.t.Fatal(err)
	}
	copy(img.data[offset:], data)
	return img
}

// fs stores the image as /test.img in a fresh in-memory filesystem.
func (img *testImage) fs() afero.Fs {
	img.t.Helper()

	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/test.img", img.data, 0644); err != nil {
		img.t.Fatalf("could not store image: %v", err)
	}
	return fs
}

// volume opens the image directly from memory.
func (img *testImage) volume() *Volume {
	return &Volume{img: memImage{bytes.NewReader(img.data)}, geo: img.geo}
}

type memImage struct {
	*bytes.Reader
}

func (memImage) Close() error { return nil }

// rawName builds an 11 byte name field, s must already be padded.
func rawName(s string) [11]byte {
	var name [11]byte
	copy(name[:], s)
	return name
}

// newEntry builds a directory record.
func newEntry(name string, attr Attr, cluster uint32, size uint32) DirEntry {
	return DirEntry{
		Name:           rawName(name),
		Attr:           attr,
		FirstClusterHI: uint16(cluster >> 16),
		FirstClusterLO: uint16(cluster),
		FileSize:       size,
	}
}
