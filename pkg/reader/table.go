// pkg/reader/table.go

package reader

import (
	"fmt"
	"strconv"
	"time"
)

// Field is one row of the interpreter panel. Value holds the placeholder
// text when Err is set.
type Field struct {
	Name  string
	Value string
	Err   ErrorKind
}

func field[T any](name string, r Result[T], format func(T) string) Field {
	if !r.OK() {
		return Field{Name: name, Value: r.Err.String(), Err: r.Err}
	}
	return Field{Name: name, Value: format(r.Value)}
}

func itoa[T int8 | int16 | int32 | int64](v T) string   { return strconv.FormatInt(int64(v), 10) }
func utoa[T uint8 | uint16 | uint32 | uint64](v T) string { return strconv.FormatUint(uint64(v), 10) }
func ftoa(v float64) string                               { return strconv.FormatFloat(v, 'g', -1, 64) }
func dtoa(v time.Time) string                             { return v.Format(time.RFC3339Nano) }

// Table decodes the window at off every supported way, in display order.
// A failing row never prevents the following ones.
func Table(b []byte, off int, e Endianness) []Field {
	return []Field{
		field("binary", Binary(b, off), func(s string) string { return s }),
		field("uint8", Uint8(b, off), utoa[uint8]),
		field("int8", Int8(b, off), itoa[int8]),
		field("uint16", Uint16(b, off, e), utoa[uint16]),
		field("int16", Int16(b, off, e), itoa[int16]),
		field("uint24", Uint24(b, off, e), utoa[uint32]),
		field("int24", Int24(b, off, e), itoa[int32]),
		field("uint32", Uint32(b, off, e), utoa[uint32]),
		field("int32", Int32(b, off, e), itoa[int32]),
		field("uint64", Uint64(b, off, e), utoa[uint64]),
		field("int64", Int64(b, off, e), itoa[int64]),
		field("float16", Float16(b, off, e), ftoa),
		field("float32", Float32(b, off, e), func(v float32) string {
			return strconv.FormatFloat(float64(v), 'g', -1, 32)
		}),
		field("float64", Float64(b, off, e), ftoa),
		field("uleb128", LEB128(b, off), func(v VarInt[uint64]) string {
			return fmt.Sprintf("%d (%d bytes)", v.Value, v.Size)
		}),
		field("sleb128", SLEB128(b, off), func(v VarInt[int64]) string {
			return fmt.Sprintf("%d (%d bytes)", v.Value, v.Size)
		}),
		field("rational", Rational32(b, off, e), Rational[uint32].String),
		field("srational", SRational32(b, off, e), Rational[int32].String),
		field("dos datetime", DOSDateTime(b, off, e), dtoa),
		field("ole date", OLEDate(b, off, e), dtoa),
		field("unix date", UnixDate(b, off, e), dtoa),
		field("hfs date", HFSDate(b, off, e), dtoa),
		field("hfs+ date", HFSPlusDate(b, off, e), dtoa),
		field("filetime", FileTime(b, off, e), dtoa),
		field("utf-8", UTF8Char(b, off), func(c Char) string { return strconv.QuoteRune(c.Rune) }),
		field("utf-16", UTF16Char(b, off, e), func(c Char) string { return strconv.QuoteRune(c.Rune) }),
	}
}
