package fatnav

import (
	"time"
)

// ModTime combines the write date and time of the entry.
// If the date is invalid it returns time.Time{}.
func (e DirEntry) ModTime() time.Time {
	writeDate := ParseDate(e.WriteDate)
	writeTime := ParseTime(e.WriteTime)

	// A zero writeTime is a valid midnight, only the date can tell if the stamp is unset.
	if writeDate.IsZero() {
		return time.Time{}
	}

	return time.Date(writeDate.Year(), writeDate.Month(), writeDate.Day(), writeTime.Hour(), writeTime.Minute(), writeTime.Second(), 0, time.UTC)
}

// ParseDate decodes a FAT date stamp relative to the MS-DOS epoch of 1980-01-01:
//  Bits 0–4: day of month, 1–31.
//  Bits 5–8: month of year, 1–12.
//  Bits 9–15: years since 1980, 0–127.
// The result is at 00:00:00 UTC.
//
// Day or month 0 are invalid and yield time.Time{}, so IsZero can be used to detect them.
// A month above 12 rolls over into the next year.
func ParseDate(input uint16) time.Time {
	day := input & 0x1F
	month := input & 0x1E0 >> 5
	year := input & 0xFE00 >> 9

	if day == 0 || month == 0 {
		return time.Time{}
	}

	return time.Date(1980+int(year), time.Month(month), int(day), 0, 0, 0, 0, time.UTC)
}

// ParseTime decodes a FAT time stamp with a granularity of 2 seconds:
//  Bits 0–4: 2-second count, 0–29.
//  Bits 5–10: minutes, 0–59.
//  Bits 11–15: hours, 0–23.
// The result is on January 1 of year 1, so midnight is time.Time{}.
//
// Out of range values are added up but capped at 23:59:59.
func ParseTime(input uint16) time.Time {
	seconds := int(input&0x1F) * 2
	minutes := input & 0x7E0 >> 5
	hours := input & 0xF800 >> 11

	result := time.Date(1, 1, 1, int(hours), int(minutes), seconds, 0, time.UTC)
	if result.Day() > 1 {
		return time.Date(1, 1, 1, 23, 59, 59, 0, time.UTC)
	}
	return result
}
