package format

import "time"

const (
	// filetimeOffset is the gap between the FILETIME epoch (1601-01-01) and
	// the Unix epoch, in 100ns units.
	filetimeOffset = 116444736000000000
	filetimeUnit   = 100 // one FILETIME tick is 100ns
)

// FiletimeToTime converts a Windows FILETIME value to a UTC time.Time.
// Values at or before the Unix epoch collapse to the epoch, which keeps
// synthetic and zeroed timestamps from rendering as 1601.
func FiletimeToTime(v uint64) time.Time {
	if v <= filetimeOffset {
		return time.Unix(0, 0).UTC()
	}
	ns := int64((v - filetimeOffset) * filetimeUnit)
	return time.Unix(ns/int64(time.Second), ns%int64(time.Second)).UTC()
}

// TimeToFiletime converts a time.Time to a Windows FILETIME value.
func TimeToFiletime(t time.Time) uint64 {
	ns := t.UnixNano()
	if ns < 0 {
		ns = 0
	}
	return uint64(ns)/filetimeUnit + filetimeOffset
}
