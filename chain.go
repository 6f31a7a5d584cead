package fatnav

import (
	"encoding/binary"
	"fmt"

	"github.com/aligator/fatnav/checkpoint"
)

const (
	// fatEntryMask keeps the 28 bits of a FAT32 entry that address clusters.
	fatEntryMask = 0x0FFFFFFF

	badClusterMarker  = 0x0FFFFFF7
	endOfChainMinimum = 0x0FFFFFF8
)

// ClusterKind classifies the content of a FAT entry.
type ClusterKind uint8

const (
	// NextCluster means the chain continues at ClusterRef.Cluster.
	NextCluster ClusterKind = iota
	// EndOfChain means the cluster was the last one.
	EndOfChain
	// FreeOrBad means the cluster is not part of any chain.
	FreeOrBad
)

func (k ClusterKind) String() string {
	switch k {
	case NextCluster:
		return "next"
	case EndOfChain:
		return "end of chain"
	case FreeOrBad:
		return "free or bad"
	}
	return fmt.Sprintf("ClusterKind(%d)", uint8(k))
}

// ClusterRef is what the FAT says about the cluster following another one.
type ClusterRef struct {
	Kind    ClusterKind
	Cluster uint32
}

// classifyFATEntry interprets a raw FAT32 entry. The upper 4 bits are reserved and ignored.
func classifyFATEntry(raw uint32) ClusterRef {
	value := raw & fatEntryMask
	switch {
	case value >= endOfChainMinimum:
		return ClusterRef{Kind: EndOfChain}
	case value <= 1, value == badClusterMarker:
		return ClusterRef{Kind: FreeOrBad}
	}
	return ClusterRef{Kind: NextCluster, Cluster: value}
}

// NextCluster looks up the FAT entry of cluster.
func (v *Volume) NextCluster(cluster uint32) (ClusterRef, error) {
	if cluster < 2 || cluster >= v.geo.FATEntries() {
		return ClusterRef{}, checkpoint.Wrapf(ErrInvalidCluster, "%w: %d is outside of the FAT (%d entries)", ErrInvalidCluster, cluster, v.geo.FATEntries())
	}

	b := make([]byte, fatEntrySize)
	if err := v.readFull(b, v.geo.FATRegionStart+int64(cluster)*fatEntrySize); err != nil {
		return ClusterRef{}, checkpoint.From(err)
	}

	return classifyFATEntry(binary.LittleEndian.Uint32(b)), nil
}

// Chain follows the FAT from first until the end of chain marker and returns
// every cluster on the way, first included.
func (v *Volume) Chain(first uint32) ([]uint32, error) {
	chain := []uint32{first}
	seen := map[uint32]struct{}{first: {}}
	for cluster := first; ; {
		ref, err := v.NextCluster(cluster)
		if err != nil {
			return nil, checkpoint.From(err)
		}

		switch ref.Kind {
		case EndOfChain:
			return chain, nil
		case FreeOrBad:
			return nil, checkpoint.Wrapf(ErrCorruptChain, "%w: cluster %d of chain %d is free or bad", ErrCorruptChain, cluster, first)
		}

		if _, ok := seen[ref.Cluster]; ok {
			return nil, checkpoint.Wrapf(ErrCorruptChain, "%w: chain %d loops back to cluster %d", ErrCorruptChain, first, ref.Cluster)
		}
		seen[ref.Cluster] = struct{}{}
		chain = append(chain, ref.Cluster)
		cluster = ref.Cluster
	}
}
