// pkg/reader/numbers.go

package reader

import (
	"bytes"
	"math"

	"github.com/kaitai-io/kaitai_struct_go_runtime/kaitai"
)

// span returns b[off:off+n] or why it is not available.
func span(b []byte, off, n int) ([]byte, ErrorKind) {
	if off < 0 || off >= len(b) {
		return nil, InvalidOffset
	}
	if n > len(b)-off {
		return nil, InsufficientBytes
	}
	return b[off : off+n], OK
}

func assemble(b []byte, e Endianness) uint64 {
	var v uint64
	if e == BigEndian {
		for _, c := range b {
			v = v<<8 | uint64(c)
		}
		return v
	}
	for i := len(b) - 1; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

// signed reinterprets the low bits of u as a two's-complement value.
func signed(u uint64, bits uint) int64 {
	if bits == 64 {
		return int64(u)
	}
	if u >= 1<<(bits-1) {
		return int64(u) - int64(1)<<bits
	}
	return int64(u)
}

func unsignedN(b []byte, off, n int, e Endianness) (uint64, ErrorKind) {
	w, err := span(b, off, n)
	if err != OK {
		return 0, err
	}
	return assemble(w, e), OK
}

func Uint8(b []byte, off int) Result[uint8] {
	v, err := unsignedN(b, off, 1, LittleEndian)
	if err != OK {
		return Fail[uint8](err)
	}
	return Ok(uint8(v))
}

func Int8(b []byte, off int) Result[int8] {
	v, err := unsignedN(b, off, 1, LittleEndian)
	if err != OK {
		return Fail[int8](err)
	}
	return Ok(int8(signed(v, 8)))
}

func Uint16(b []byte, off int, e Endianness) Result[uint16] {
	v, err := unsignedN(b, off, 2, e)
	if err != OK {
		return Fail[uint16](err)
	}
	return Ok(uint16(v))
}

func Int16(b []byte, off int, e Endianness) Result[int16] {
	v, err := unsignedN(b, off, 2, e)
	if err != OK {
		return Fail[int16](err)
	}
	return Ok(int16(signed(v, 16)))
}

func Uint24(b []byte, off int, e Endianness) Result[uint32] {
	v, err := unsignedN(b, off, 3, e)
	if err != OK {
		return Fail[uint32](err)
	}
	return Ok(uint32(v))
}

func Int24(b []byte, off int, e Endianness) Result[int32] {
	v, err := unsignedN(b, off, 3, e)
	if err != OK {
		return Fail[int32](err)
	}
	return Ok(int32(signed(v, 24)))
}

func Uint32(b []byte, off int, e Endianness) Result[uint32] {
	v, err := unsignedN(b, off, 4, e)
	if err != OK {
		return Fail[uint32](err)
	}
	return Ok(uint32(v))
}

func Int32(b []byte, off int, e Endianness) Result[int32] {
	v, err := unsignedN(b, off, 4, e)
	if err != OK {
		return Fail[int32](err)
	}
	return Ok(int32(signed(v, 32)))
}

func Uint64(b []byte, off int, e Endianness) Result[uint64] {
	v, err := unsignedN(b, off, 8, e)
	if err != OK {
		return Fail[uint64](err)
	}
	return Ok(v)
}

func Int64(b []byte, off int, e Endianness) Result[int64] {
	v, err := unsignedN(b, off, 8, e)
	if err != OK {
		return Fail[int64](err)
	}
	return Ok(signed(v, 64))
}

// Float16 decodes an IEEE-754 binary16 value. Subnormals and NaN patterns
// are rejected, signed zeros and infinities are kept.
func Float16(b []byte, off int, e Endianness) Result[float64] {
	v, err := unsignedN(b, off, 2, e)
	if err != OK {
		return Fail[float64](err)
	}
	h := uint16(v)
	neg := h&0x8000 != 0
	exp := int(h>>10) & 0x1f
	frac := h & 0x3ff

	var f float64
	switch {
	case exp == 0 && frac == 0:
		f = 0
	case exp == 0:
		return Fail[float64](InvalidNumber)
	case exp == 0x1f && frac == 0:
		f = math.Inf(1)
	case exp == 0x1f:
		return Fail[float64](InvalidNumber)
	default:
		f = math.Ldexp(1+float64(frac)/1024, exp-15)
	}
	if neg {
		f = math.Copysign(f, -1)
	}
	return Ok(f)
}

func stream(w []byte) *kaitai.Stream {
	return kaitai.NewStream(bytes.NewReader(w))
}

func Float32(b []byte, off int, e Endianness) Result[float32] {
	w, err := span(b, off, 4)
	if err != OK {
		return Fail[float32](err)
	}
	var f float32
	var rerr error
	if e == BigEndian {
		f, rerr = stream(w).ReadF4be()
	} else {
		f, rerr = stream(w).ReadF4le()
	}
	if rerr != nil {
		return Fail[float32](InsufficientBytes)
	}
	return Ok(f)
}

func Float64(b []byte, off int, e Endianness) Result[float64] {
	w, err := span(b, off, 8)
	if err != OK {
		return Fail[float64](err)
	}
	var f float64
	var rerr error
	if e == BigEndian {
		f, rerr = stream(w).ReadF8be()
	} else {
		f, rerr = stream(w).ReadF8le()
	}
	if rerr != nil {
		return Fail[float64](InsufficientBytes)
	}
	return Ok(f)
}

// leb128 accumulates 7 bits per byte while the continuation bit is set.
// It returns the raw value, the shift reached and the terminating byte.
func leb128(b []byte, off int, sign bool) (uint64, uint, byte, int, ErrorKind) {
	if off < 0 || off >= len(b) {
		return 0, 0, 0, 0, InvalidOffset
	}
	var v uint64
	var shift uint
	for i := off; i < len(b); i++ {
		if shift >= 64 {
			return 0, 0, 0, 0, InvalidNumber
		}
		c := b[i]
		// the 10th byte only has room for the top bit
		if shift == 63 && !lastGroupFits(c&0x7f, sign) {
			return 0, 0, 0, 0, InvalidNumber
		}
		v |= uint64(c&0x7f) << shift
		shift += 7
		if c&0x80 == 0 {
			return v, shift, c, i - off + 1, OK
		}
	}
	return 0, 0, 0, 0, InsufficientBytes
}

func lastGroupFits(g byte, sign bool) bool {
	if sign {
		return g == 0 || g == 0x7f
	}
	return g <= 1
}

// LEB128 decodes an unsigned little-endian base-128 integer.
func LEB128(b []byte, off int) Result[VarInt[uint64]] {
	v, _, _, n, err := leb128(b, off, false)
	if err != OK {
		return Fail[VarInt[uint64]](err)
	}
	return Ok(VarInt[uint64]{Value: v, Size: n})
}

// SLEB128 decodes a signed little-endian base-128 integer.
func SLEB128(b []byte, off int) Result[VarInt[int64]] {
	v, shift, last, n, err := leb128(b, off, true)
	if err != OK {
		return Fail[VarInt[int64]](err)
	}
	if shift < 64 && last&0x40 != 0 {
		v |= ^uint64(0) << shift
	}
	return Ok(VarInt[int64]{Value: int64(v), Size: n})
}

// Rational32 reads an unsigned numerator and denominator.
func Rational32(b []byte, off int, e Endianness) Result[Rational[uint32]] {
	if _, err := span(b, off, 8); err != OK {
		return Fail[Rational[uint32]](err)
	}
	num := Uint32(b, off, e).Value
	den := Uint32(b, off+4, e).Value
	if den == 0 {
		return Fail[Rational[uint32]](InvalidNumber)
	}
	return Ok(Rational[uint32]{num, den})
}

// SRational32 reads a signed numerator and denominator.
func SRational32(b []byte, off int, e Endianness) Result[Rational[int32]] {
	if _, err := span(b, off, 8); err != OK {
		return Fail[Rational[int32]](err)
	}
	num := Int32(b, off, e).Value
	den := Int32(b, off+4, e).Value
	if den == 0 {
		return Fail[Rational[int32]](InvalidNumber)
	}
	return Ok(Rational[int32]{num, den})
}
