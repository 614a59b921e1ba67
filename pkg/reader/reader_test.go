package reader

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegers(t *testing.T) {
	assert.Equal(t, Ok(uint16(0x0201)), Uint16([]byte{0x01, 0x02}, 0, LittleEndian))
	assert.Equal(t, Ok(uint16(0x0102)), Uint16([]byte{0x01, 0x02}, 0, BigEndian))

	assert.Equal(t, Ok(int8(-1)), Int8([]byte{0xff}, 0))
	assert.Equal(t, Ok(uint8(255)), Uint8([]byte{0xff}, 0))

	assert.Equal(t, Ok(int16(-2)), Int16([]byte{0xfe, 0xff}, 0, LittleEndian))
	assert.Equal(t, Ok(uint32(0x030201)), Uint24([]byte{1, 2, 3}, 0, LittleEndian))
	assert.Equal(t, Ok(int32(-1)), Int24([]byte{0xff, 0xff, 0xff}, 0, BigEndian))
	assert.Equal(t, Ok(int32(0x7fffff)), Int24([]byte{0x7f, 0xff, 0xff}, 0, BigEndian))
	assert.Equal(t, Ok(uint32(0xdeadbeef)), Uint32([]byte{0xde, 0xad, 0xbe, 0xef}, 0, BigEndian))
	assert.Equal(t, Ok(int32(math.MinInt32)), Int32([]byte{0, 0, 0, 0x80}, 0, LittleEndian))

	max := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
	assert.Equal(t, Ok(uint64(math.MaxUint64)), Uint64(max, 0, LittleEndian))
	assert.Equal(t, Ok(int64(-1)), Int64(max, 0, LittleEndian))
	assert.Equal(t, Ok(int64(math.MinInt64)), Int64([]byte{0x80, 0, 0, 0, 0, 0, 0, 0}, 0, BigEndian))
	assert.Equal(t, Ok(uint64(0x0102030405060708)), Uint64([]byte{1, 2, 3, 4, 5, 6, 7, 8}, 0, BigEndian))
}

func TestWindowErrors(t *testing.T) {
	b := []byte{1, 2, 3}
	assert.Equal(t, InvalidOffset, Uint8(b, -1).Err)
	assert.Equal(t, InvalidOffset, Uint8(b, 3).Err)
	assert.Equal(t, InsufficientBytes, Uint32(b, 0, LittleEndian).Err)
	assert.Equal(t, InsufficientBytes, Uint16(b, 2, BigEndian).Err)
	assert.Equal(t, InvalidOffset, Uint8(nil, 0).Err)
	assert.Equal(t, "Insufficient bytes", Uint64(b, 0, BigEndian).String())
}

func TestFloat16(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want float64
		err  ErrorKind
	}{
		{"one", []byte{0x3c, 0x00}, 1, OK},
		{"minus two", []byte{0xc0, 0x00}, -2, OK},
		{"max", []byte{0x7b, 0xff}, 65504, OK},
		{"half", []byte{0x38, 0x00}, 0.5, OK},
		{"zero", []byte{0x00, 0x00}, 0, OK},
		{"inf", []byte{0x7c, 0x00}, math.Inf(1), OK},
		{"minus inf", []byte{0xfc, 0x00}, math.Inf(-1), OK},
		{"subnormal", []byte{0x00, 0x01}, 0, InvalidNumber},
		{"nan", []byte{0x7e, 0x00}, 0, InvalidNumber},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Float16(tt.in, 0, BigEndian)
			require.Equal(t, tt.err, r.Err)
			if tt.err == OK {
				assert.Equal(t, tt.want, r.Value)
			}
		})
	}

	negZero := Float16([]byte{0x00, 0x80}, 0, LittleEndian)
	require.True(t, negZero.OK())
	assert.True(t, math.Signbit(negZero.Value))
}

func TestFloat32And64(t *testing.T) {
	assert.Equal(t, Ok(float32(1)), Float32([]byte{0x3f, 0x80, 0, 0}, 0, BigEndian))
	assert.Equal(t, Ok(float32(1)), Float32([]byte{0, 0, 0x80, 0x3f}, 0, LittleEndian))
	assert.Equal(t, Ok(float64(-2)), Float64([]byte{0xc0, 0, 0, 0, 0, 0, 0, 0}, 0, BigEndian))
	assert.Equal(t, InsufficientBytes, Float64([]byte{0, 0, 0}, 0, BigEndian).Err)
}

func TestLEB128(t *testing.T) {
	r := LEB128([]byte{0xe5, 0x8e, 0x26}, 0)
	require.True(t, r.OK())
	assert.Equal(t, uint64(624485), r.Value.Value)
	assert.Equal(t, 3, r.Value.Size)

	r = LEB128([]byte{0x00, 0x7f}, 1)
	assert.Equal(t, VarInt[uint64]{Value: 127, Size: 1}, r.Value)

	max := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01}
	r = LEB128(max, 0)
	require.True(t, r.OK())
	assert.Equal(t, uint64(math.MaxUint64), r.Value.Value)
	assert.Equal(t, 10, r.Value.Size)

	assert.Equal(t, InsufficientBytes, LEB128([]byte{0x80, 0x80}, 0).Err)
	assert.Equal(t, InvalidOffset, LEB128([]byte{0x01}, 4).Err)

	tooLong := []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x01}
	assert.Equal(t, InvalidNumber, LEB128(tooLong, 0).Err)
	overflow := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x02}
	assert.Equal(t, InvalidNumber, LEB128(overflow, 0).Err)
}

func TestSLEB128(t *testing.T) {
	r := SLEB128([]byte{0x9b, 0xf1, 0x59}, 0)
	require.True(t, r.OK())
	assert.Equal(t, int64(-624485), r.Value.Value)
	assert.Equal(t, 3, r.Value.Size)

	assert.Equal(t, int64(-1), SLEB128([]byte{0x7f}, 0).Value.Value)
	assert.Equal(t, int64(63), SLEB128([]byte{0x3f}, 0).Value.Value)
	assert.Equal(t, int64(-128), SLEB128([]byte{0x80, 0x7f}, 0).Value.Value)

	minusOne := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x7f}
	r = SLEB128(minusOne, 0)
	require.True(t, r.OK())
	assert.Equal(t, int64(-1), r.Value.Value)

	assert.Equal(t, InsufficientBytes, SLEB128([]byte{0xff}, 0).Err)
}

func TestRational(t *testing.T) {
	r := Rational32([]byte{1, 0, 0, 0, 0, 0, 0, 0}, 0, LittleEndian)
	assert.Equal(t, InvalidNumber, r.Err)

	ok := Rational32([]byte{0, 0, 0, 1, 0, 0, 0, 4}, 0, BigEndian)
	require.True(t, ok.OK())
	assert.Equal(t, 0.25, ok.Value.Float64())
	assert.Equal(t, "1/4", ok.Value.String())

	s := SRational32([]byte{0xff, 0xff, 0xff, 0xff, 2, 0, 0, 0}, 0, LittleEndian)
	require.True(t, s.OK())
	assert.Equal(t, Rational[int32]{-1, 2}, s.Value)
	assert.Equal(t, InvalidNumber, SRational32(make([]byte, 8), 0, LittleEndian).Err)
	assert.Equal(t, InsufficientBytes, SRational32(make([]byte, 7), 0, LittleEndian).Err)
}

func TestDates(t *testing.T) {
	// 2021-06-15 13:45:30: time 0x6DAF, date 0x52CF
	dos := DOSDateTime([]byte{0xaf, 0x6d, 0xcf, 0x52}, 0, LittleEndian)
	require.True(t, dos.OK())
	assert.Equal(t, time.Date(2021, 6, 15, 13, 45, 30, 0, time.UTC), dos.Value)

	assert.Equal(t, InvalidDate, DOSDateTime([]byte{0, 0, 0, 0}, 0, LittleEndian).Err)
	// Feb 30 1980
	feb30 := uint16(0<<9 | 2<<5 | 30)
	assert.Equal(t, InvalidDate, DOSDateTime([]byte{0, 0, byte(feb30), byte(feb30 >> 8)}, 0, LittleEndian).Err)

	ole := OLEDate([]byte{0x40, 0xe5, 0x50, 0, 0, 0, 0, 0}, 0, BigEndian) // 43648.0
	require.True(t, ole.OK())
	assert.Equal(t, time.Date(2019, 7, 2, 0, 0, 0, 0, time.UTC), ole.Value)
	assert.Equal(t, InvalidDate, OLEDate([]byte{0x7f, 0xf0, 0, 0, 0, 0, 0, 0}, 0, BigEndian).Err)
	assert.Equal(t, InvalidDate, OLEDate([]byte{0x7f, 0xef, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, 0, BigEndian).Err)

	unix := UnixDate([]byte{0x5f, 0x5e, 0x10, 0x00}, 0, BigEndian)
	require.True(t, unix.OK())
	assert.Equal(t, time.Unix(0x5f5e1000, 0).UTC(), unix.Value)

	hfs := HFSDate([]byte{0, 0, 0, 0}, 0, BigEndian)
	require.True(t, hfs.OK())
	assert.Equal(t, time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC), hfs.Value)
	assert.Equal(t, HFSDate([]byte{1, 2, 3, 4}, 0, BigEndian), HFSPlusDate([]byte{1, 2, 3, 4}, 0, BigEndian))

	// 1970-01-01 as FILETIME
	ft := FileTime([]byte{0x00, 0x80, 0x3e, 0xd5, 0xde, 0xb1, 0x9d, 0x01}, 0, LittleEndian)
	require.True(t, ft.OK())
	assert.Equal(t, time.Unix(0, 0).UTC(), ft.Value)
}

func TestUTF8Char(t *testing.T) {
	r := UTF8Char([]byte("A"), 0)
	assert.Equal(t, Ok(Char{'A', 1}), r)

	r = UTF8Char([]byte("é"), 0)
	assert.Equal(t, Ok(Char{'é', 2}), r)

	r = UTF8Char([]byte("€"), 0)
	assert.Equal(t, Ok(Char{'€', 3}), r)

	r = UTF8Char([]byte("😀"), 0)
	assert.Equal(t, Ok(Char{'😀', 4}), r)

	assert.Equal(t, Null, UTF8Char([]byte{0}, 0).Err)
	assert.Equal(t, InvalidCharacter, UTF8Char([]byte{0x07}, 0).Err)
	assert.Equal(t, InvalidCharacter, UTF8Char([]byte{0x80}, 0).Err)
	assert.Equal(t, InvalidCharacter, UTF8Char([]byte{0xc0, 0x80}, 0).Err)
	assert.Equal(t, InsufficientBytes, UTF8Char([]byte{0xe2, 0x82}, 0).Err)
}

func TestUTF16Char(t *testing.T) {
	assert.Equal(t, Ok(Char{'A', 2}), UTF16Char([]byte{0x41, 0x00}, 0, LittleEndian))
	assert.Equal(t, Ok(Char{'A', 2}), UTF16Char([]byte{0x00, 0x41}, 0, BigEndian))

	pair := []byte{0x3d, 0xd8, 0x00, 0xde}
	assert.Equal(t, Ok(Char{'😀', 4}), UTF16Char(pair, 0, LittleEndian))

	assert.Equal(t, Null, UTF16Char([]byte{0, 0}, 0, LittleEndian).Err)
	assert.Equal(t, InsufficientBytes, UTF16Char([]byte{0x3d, 0xd8}, 0, LittleEndian).Err)
	assert.Equal(t, InvalidCharacter, UTF16Char([]byte{0x3d, 0xd8, 0x41, 0x00}, 0, LittleEndian).Err)
	assert.Equal(t, InvalidCharacter, UTF16Char([]byte{0x00, 0xde}, 0, LittleEndian).Err)
}

func TestBinary(t *testing.T) {
	assert.Equal(t, Ok("10100101"), Binary([]byte{0xa5}, 0))
	assert.Equal(t, Ok("00000001"), Binary([]byte{0x01}, 0))
	assert.Equal(t, InvalidOffset, Binary(nil, 0).Err)
}

func TestString(t *testing.T) {
	assert.Equal(t, Ok("héllo"), String([]byte("héllo"), 0, 6, "utf-8"))
	assert.Equal(t, Ok("hi"), String([]byte{'h', 0, 'i', 0}, 0, 4, "utf16le"))
	assert.Equal(t, Ok("é"), String([]byte{0xe9}, 0, 1, "latin1"))
	assert.Equal(t, InvalidCharacter, String([]byte{0xff, 0xfe}, 0, 2, "utf-8").Err)
	assert.Equal(t, InvalidCharacter, String([]byte("abc"), 0, 3, "ebcdic").Err)
	assert.Equal(t, InsufficientBytes, String([]byte("abc"), 1, 3, "utf-8").Err)
	assert.Contains(t, Encodings(), "shift_jis")
}

func TestParseEndianness(t *testing.T) {
	e, err := ParseEndianness("BE")
	require.NoError(t, err)
	assert.Equal(t, BigEndian, e)
	e, err = ParseEndianness("le")
	require.NoError(t, err)
	assert.Equal(t, LittleEndian, e)
	_, err = ParseEndianness("middle")
	assert.Error(t, err)
}

func TestTableKeepsGoingPastFailures(t *testing.T) {
	rows := Table([]byte{0xff, 0x00}, 0, LittleEndian)
	byName := make(map[string]Field, len(rows))
	for _, f := range rows {
		byName[f.Name] = f
	}
	assert.Equal(t, "255", byName["uint8"].Value)
	assert.Equal(t, "-1", byName["int8"].Value)
	assert.Equal(t, "255", byName["uint16"].Value)
	assert.Equal(t, InsufficientBytes, byName["uint32"].Err)
	assert.Equal(t, "Insufficient bytes", byName["uint32"].Value)
	assert.Equal(t, "11111111", byName["binary"].Value)
	assert.Equal(t, InvalidCharacter, byName["utf-8"].Err)
	assert.Equal(t, "'ÿ'", byName["utf-16"].Value)
}
