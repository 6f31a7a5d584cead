package fatnav

import (
	"io"

	"github.com/aligator/fatnav/checkpoint"
)

// image is the backing store of an open volume. afero.File satisfies it.
// It mainly exists to be able to mock the image in tests.
// Generated mock using mockgen:
//  mockgen -source=volume.go -destination=volume_mock.go -package fatnav
type image interface {
	ReadAt(p []byte, off int64) (n int, err error)
	Close() error
}

// Volume is an image together with the geometry read from its boot sector.
// All reads are positioned reads, nothing is cached.
type Volume struct {
	img image
	geo Geometry
}

// newVolume reads and checks the boot sector of img.
func newVolume(img image, strict bool) (*Volume, error) {
	v := &Volume{img: img}

	b := make([]byte, bootSectorSize)
	if err := v.readFull(b, 0); err != nil {
		return nil, checkpoint.From(err)
	}

	geo, err := ParseBootSector(b)
	if err != nil {
		return nil, checkpoint.From(err)
	}

	if strict {
		if err := geo.Validate(); err != nil {
			return nil, checkpoint.From(err)
		}
	}

	v.geo = geo
	return v, nil
}

// Geometry returns the geometry of the volume.
func (v *Volume) Geometry() Geometry {
	return v.geo
}

// readFull fills p from off. A short read ending in nil, io.EOF or
// io.ErrUnexpectedEOF means the image ends before the geometry says it should.
func (v *Volume) readFull(p []byte, off int64) error {
	n, err := v.img.ReadAt(p, off)
	if n == len(p) {
		return nil
	}
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return checkpoint.From(err)
	}
	return checkpoint.Wrapf(io.ErrUnexpectedEOF, "%w: read %d of %d bytes at offset %d", ErrTruncatedImage, n, len(p), off)
}

// ReadCluster returns the content of a single data cluster.
func (v *Volume) ReadCluster(cluster uint32) ([]byte, error) {
	offset, err := v.geo.ClusterOffset(cluster)
	if err != nil {
		return nil, checkpoint.From(err)
	}

	b := make([]byte, v.geo.BytesPerCluster)
	if err := v.readFull(b, offset); err != nil {
		return nil, checkpoint.From(err)
	}
	return b, nil
}

// ReadChain returns the content of all clusters of the chain starting at first.
func (v *Volume) ReadChain(first uint32) ([]byte, error) {
	clusters, err := v.Chain(first)
	if err != nil {
		return nil, checkpoint.From(err)
	}

	data := make([]byte, 0, int64(len(clusters))*v.geo.BytesPerCluster)
	for _, cluster := range clusters {
		b, err := v.ReadCluster(cluster)
		if err != nil {
			return nil, checkpoint.From(err)
		}
		data = append(data, b...)
	}
	return data, nil
}

// ReadDir decodes all records of the directory starting at cluster.
// Cluster 0 is how ".." entries refer to the root directory.
func (v *Volume) ReadDir(cluster uint32) ([]DirEntry, error) {
	if cluster == 0 {
		cluster = v.geo.RootCluster
	}

	data, err := v.ReadChain(cluster)
	if err != nil {
		return nil, checkpoint.From(err)
	}

	entries, err := DecodeEntries(data)
	if err != nil {
		return nil, checkpoint.From(err)
	}
	return entries, nil
}

// Close releases the image.
func (v *Volume) Close() error {
	return checkpoint.From(v.img.Close())
}
