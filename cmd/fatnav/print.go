package main

import (
	"fmt"
	"io"

	"github.com/aligator/fatnav"
)

const timeLayout = "2006-01-02 15:04"

func printGeometry(w io.Writer, geo fatnav.Geometry) {
	fmt.Fprintf(w, "BPB_BytsPerSec: %d (0x%X)\n", geo.BytesPerSector, geo.BytesPerSector)
	fmt.Fprintf(w, "BPB_SecPerClus: %d (0x%X)\n", geo.SectorsPerCluster, geo.SectorsPerCluster)
	fmt.Fprintf(w, "BPB_RsvdSecCnt: %d (0x%X)\n", geo.ReservedSectorCount, geo.ReservedSectorCount)
	fmt.Fprintf(w, "BPB_NumFATs:    %d (0x%X)\n", geo.NumFATs, geo.NumFATs)
	fmt.Fprintf(w, "BPB_FATSz32:    %d (0x%X)\n", geo.FATSize, geo.FATSize)
	fmt.Fprintf(w, "BPB_RootClus:   %d (0x%X)\n", geo.RootCluster, geo.RootCluster)
	fmt.Fprintf(w, "FAT region:     %d (0x%X)\n", geo.FATRegionStart, geo.FATRegionStart)
	fmt.Fprintf(w, "Data region:    %d (0x%X)\n", geo.DataRegionStart, geo.DataRegionStart)
	fmt.Fprintf(w, "Cluster size:   %d (0x%X)\n", geo.BytesPerCluster, geo.BytesPerCluster)
}

func printEntries(w io.Writer, entries []fatnav.DirEntry, long bool) {
	for _, e := range entries {
		if long {
			printEntry(w, e)
			continue
		}
		fmt.Fprintln(w, e.ShortName())
	}
}

// printEntry prints mode, size, modification time, first cluster and name of e.
func printEntry(w io.Writer, e fatnav.DirEntry) {
	info := e.FileInfo()

	modified := "-"
	if !info.ModTime().IsZero() {
		modified = info.ModTime().Format(timeLayout)
	}
	fmt.Fprintf(w, "%s %10d %16s %8d %s\n", info.Mode(), info.Size(), modified, e.Cluster(), info.Name())
}
