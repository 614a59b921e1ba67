// pkg/source/typed.go

package source

import (
	"time"

	"BinView/pkg/reader"
)

// widest fixed-size decode plus room for a 10 byte LEB128
const interpretWindow = 16

// decode runs fn over the loaded bytes at off. A window cut short by the end
// of the source or by a missing chunk reports InsufficientBytes.
func decode[T any](s *Source, off int64, width int, fn func(w []byte) reader.Result[T]) reader.Result[T] {
	if off < 0 || off >= s.Size() {
		return reader.Fail[T](reader.InvalidOffset)
	}
	r := fn(s.ReadBytes(off, int64(width)))
	if r.Err == reader.InvalidOffset {
		return reader.Fail[T](reader.InsufficientBytes)
	}
	return r
}

func (s *Source) ReadUint8(off int64) reader.Result[uint8] {
	return decode(s, off, 1, func(w []byte) reader.Result[uint8] { return reader.Uint8(w, 0) })
}

func (s *Source) ReadInt8(off int64) reader.Result[int8] {
	return decode(s, off, 1, func(w []byte) reader.Result[int8] { return reader.Int8(w, 0) })
}

func (s *Source) ReadUint16(off int64, e reader.Endianness) reader.Result[uint16] {
	return decode(s, off, 2, func(w []byte) reader.Result[uint16] { return reader.Uint16(w, 0, e) })
}

func (s *Source) ReadInt16(off int64, e reader.Endianness) reader.Result[int16] {
	return decode(s, off, 2, func(w []byte) reader.Result[int16] { return reader.Int16(w, 0, e) })
}

func (s *Source) ReadUint24(off int64, e reader.Endianness) reader.Result[uint32] {
	return decode(s, off, 3, func(w []byte) reader.Result[uint32] { return reader.Uint24(w, 0, e) })
}

func (s *Source) ReadInt24(off int64, e reader.Endianness) reader.Result[int32] {
	return decode(s, off, 3, func(w []byte) reader.Result[int32] { return reader.Int24(w, 0, e) })
}

func (s *Source) ReadUint32(off int64, e reader.Endianness) reader.Result[uint32] {
	return decode(s, off, 4, func(w []byte) reader.Result[uint32] { return reader.Uint32(w, 0, e) })
}

func (s *Source) ReadInt32(off int64, e reader.Endianness) reader.Result[int32] {
	return decode(s, off, 4, func(w []byte) reader.Result[int32] { return reader.Int32(w, 0, e) })
}

func (s *Source) ReadUint64(off int64, e reader.Endianness) reader.Result[uint64] {
	return decode(s, off, 8, func(w []byte) reader.Result[uint64] { return reader.Uint64(w, 0, e) })
}

func (s *Source) ReadInt64(off int64, e reader.Endianness) reader.Result[int64] {
	return decode(s, off, 8, func(w []byte) reader.Result[int64] { return reader.Int64(w, 0, e) })
}

func (s *Source) ReadFloat16(off int64, e reader.Endianness) reader.Result[float64] {
	return decode(s, off, 2, func(w []byte) reader.Result[float64] { return reader.Float16(w, 0, e) })
}

func (s *Source) ReadFloat32(off int64, e reader.Endianness) reader.Result[float32] {
	return decode(s, off, 4, func(w []byte) reader.Result[float32] { return reader.Float32(w, 0, e) })
}

func (s *Source) ReadFloat64(off int64, e reader.Endianness) reader.Result[float64] {
	return decode(s, off, 8, func(w []byte) reader.Result[float64] { return reader.Float64(w, 0, e) })
}

func (s *Source) ReadLEB128(off int64) reader.Result[reader.VarInt[uint64]] {
	return decode(s, off, 10, func(w []byte) reader.Result[reader.VarInt[uint64]] { return reader.LEB128(w, 0) })
}

func (s *Source) ReadSLEB128(off int64) reader.Result[reader.VarInt[int64]] {
	return decode(s, off, 10, func(w []byte) reader.Result[reader.VarInt[int64]] { return reader.SLEB128(w, 0) })
}

func (s *Source) ReadRational(off int64, e reader.Endianness) reader.Result[reader.Rational[uint32]] {
	return decode(s, off, 8, func(w []byte) reader.Result[reader.Rational[uint32]] { return reader.Rational32(w, 0, e) })
}

func (s *Source) ReadSRational(off int64, e reader.Endianness) reader.Result[reader.Rational[int32]] {
	return decode(s, off, 8, func(w []byte) reader.Result[reader.Rational[int32]] { return reader.SRational32(w, 0, e) })
}

func (s *Source) ReadDOSDateTime(off int64, e reader.Endianness) reader.Result[time.Time] {
	return decode(s, off, 4, func(w []byte) reader.Result[time.Time] { return reader.DOSDateTime(w, 0, e) })
}

func (s *Source) ReadOLEDate(off int64, e reader.Endianness) reader.Result[time.Time] {
	return decode(s, off, 8, func(w []byte) reader.Result[time.Time] { return reader.OLEDate(w, 0, e) })
}

func (s *Source) ReadUnixDate(off int64, e reader.Endianness) reader.Result[time.Time] {
	return decode(s, off, 4, func(w []byte) reader.Result[time.Time] { return reader.UnixDate(w, 0, e) })
}

func (s *Source) ReadHFSDate(off int64, e reader.Endianness) reader.Result[time.Time] {
	return decode(s, off, 4, func(w []byte) reader.Result[time.Time] { return reader.HFSDate(w, 0, e) })
}

func (s *Source) ReadHFSPlusDate(off int64, e reader.Endianness) reader.Result[time.Time] {
	return decode(s, off, 4, func(w []byte) reader.Result[time.Time] { return reader.HFSPlusDate(w, 0, e) })
}

func (s *Source) ReadFileTime(off int64, e reader.Endianness) reader.Result[time.Time] {
	return decode(s, off, 8, func(w []byte) reader.Result[time.Time] { return reader.FileTime(w, 0, e) })
}

func (s *Source) ReadUTF8Char(off int64) reader.Result[reader.Char] {
	return decode(s, off, 4, func(w []byte) reader.Result[reader.Char] { return reader.UTF8Char(w, 0) })
}

func (s *Source) ReadUTF16Char(off int64, e reader.Endianness) reader.Result[reader.Char] {
	return decode(s, off, 4, func(w []byte) reader.Result[reader.Char] { return reader.UTF16Char(w, 0, e) })
}

func (s *Source) ReadBinary(off int64) reader.Result[string] {
	return decode(s, off, 1, func(w []byte) reader.Result[string] { return reader.Binary(w, 0) })
}

// ReadString decodes n bytes at off in the named encoding.
func (s *Source) ReadString(off int64, n int, enc string) reader.Result[string] {
	if n < 0 {
		return reader.Fail[string](reader.InsufficientBytes)
	}
	if n == 0 && off >= 0 && off < s.Size() {
		return reader.Ok("")
	}
	return decode(s, off, n, func(w []byte) reader.Result[string] { return reader.String(w, 0, n, enc) })
}

// Interpret decodes the loaded bytes at off every supported way. Rows past
// the loaded data carry their placeholder instead of a value.
func (s *Source) Interpret(off int64, e reader.Endianness) []reader.Field {
	if off < 0 || off >= s.Size() {
		return reader.Table(nil, 0, e)
	}
	w := s.ReadBytes(off, interpretWindow)
	fields := reader.Table(w, 0, e)
	for i := range fields {
		if fields[i].Err == reader.InvalidOffset {
			fields[i].Err = reader.InsufficientBytes
			fields[i].Value = reader.InsufficientBytes.String()
		}
	}
	return fields
}
