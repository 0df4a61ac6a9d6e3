package format

import "time"

// filetimeEpochDelta is the number of 100ns intervals between the FILETIME
// epoch (1601-01-01) and the Unix epoch (1970-01-01).
const filetimeEpochDelta = 116444736000000000

// FiletimeToTime converts a Windows FILETIME (100ns intervals since
// 1601-01-01 UTC) to a time.Time. The zero FILETIME maps to the zero Time.
func FiletimeToTime(ft uint64) time.Time {
	if ft == 0 {
		return time.Time{}
	}
	ns := (int64(ft) - filetimeEpochDelta) * 100
	return time.Unix(0, ns).UTC()
}

// TimeToFiletime converts a time.Time to a Windows FILETIME. The zero Time
// maps to the zero FILETIME.
func TimeToFiletime(t time.Time) uint64 {
	if t.IsZero() {
		return 0
	}
	return uint64(t.UnixNano()/100 + filetimeEpochDelta)
}
