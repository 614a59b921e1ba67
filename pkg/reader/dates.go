// pkg/reader/dates.go

package reader

import (
	"math"
	"time"
)

var (
	dosEpoch  = time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)
	oleEpoch  = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	hfsEpoch  = time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)
	fileEpoch = time.Date(1601, 1, 1, 0, 0, 0, 0, time.UTC)
)

// dates are bounded to +-100,000,000 days around 1970, the range a
// viewer can render
const maxEpochMillis = 8.64e15

func fromMillis(ms float64) (time.Time, bool) {
	if math.IsNaN(ms) || math.IsInf(ms, 0) || math.Abs(ms) > maxEpochMillis {
		return time.Time{}, false
	}
	sec, frac := math.Modf(ms / 1000)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC(), true
}

// DOSDateTime decodes a packed MS-DOS time word followed by a date word.
func DOSDateTime(b []byte, off int, e Endianness) Result[time.Time] {
	if _, err := span(b, off, 4); err != OK {
		return Fail[time.Time](err)
	}
	t := Uint16(b, off, e).Value
	d := Uint16(b, off+2, e).Value

	sec := int(t&0x1f) * 2
	minute := int(t>>5) & 0x3f
	hour := int(t >> 11)
	day := int(d & 0x1f)
	month := int(d>>5) & 0x0f
	year := dosEpoch.Year() + int(d>>9)

	if day == 0 || month == 0 || month > 12 || hour > 23 || minute > 59 || sec > 59 {
		return Fail[time.Time](InvalidDate)
	}
	v := time.Date(year, time.Month(month), day, hour, minute, sec, 0, time.UTC)
	// time.Date normalizes Feb 30 into March
	if v.Day() != day || int(v.Month()) != month {
		return Fail[time.Time](InvalidDate)
	}
	return Ok(v)
}

// OLEDate decodes a double counting days since 1899-12-30.
func OLEDate(b []byte, off int, e Endianness) Result[time.Time] {
	days := Float64(b, off, e)
	if !days.OK() {
		return Fail[time.Time](days.Err)
	}
	ms := days.Value*86400000 + float64(oleEpoch.UnixMilli())
	v, ok := fromMillis(ms)
	if !ok {
		return Fail[time.Time](InvalidDate)
	}
	return Ok(v)
}

// UnixDate decodes unsigned 32-bit seconds since 1970.
func UnixDate(b []byte, off int, e Endianness) Result[time.Time] {
	s := Uint32(b, off, e)
	if !s.OK() {
		return Fail[time.Time](s.Err)
	}
	return Ok(time.Unix(int64(s.Value), 0).UTC())
}

// HFSDate decodes unsigned 32-bit seconds since 1904.
func HFSDate(b []byte, off int, e Endianness) Result[time.Time] {
	s := Uint32(b, off, e)
	if !s.OK() {
		return Fail[time.Time](s.Err)
	}
	return Ok(hfsEpoch.Add(time.Duration(s.Value) * time.Second))
}

// HFSPlusDate shares the HFS encoding.
func HFSPlusDate(b []byte, off int, e Endianness) Result[time.Time] {
	return HFSDate(b, off, e)
}

// FileTime decodes a Windows FILETIME, 100ns ticks since 1601.
func FileTime(b []byte, off int, e Endianness) Result[time.Time] {
	ticks := Uint64(b, off, e)
	if !ticks.OK() {
		return Fail[time.Time](ticks.Err)
	}
	ms := float64(ticks.Value/10000) + float64(fileEpoch.UnixMilli())
	v, ok := fromMillis(ms)
	if !ok {
		return Fail[time.Time](InvalidDate)
	}
	return Ok(v.Add(time.Duration(ticks.Value%10000) * 100))
}
