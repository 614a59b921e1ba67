// pkg/reader/result.go

package reader

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrorKind names why a value could not be decoded.
type ErrorKind uint8

const (
	OK ErrorKind = iota
	InvalidOffset
	InsufficientBytes
	InvalidNumber
	InvalidDate
	Null
	InvalidCharacter
)

func (k ErrorKind) String() string {
	switch k {
	case OK:
		return "OK"
	case InvalidOffset:
		return "Invalid offset"
	case InsufficientBytes:
		return "Insufficient bytes"
	case InvalidNumber:
		return "Invalid number"
	case InvalidDate:
		return "Invalid date"
	case Null:
		return "Null"
	case InvalidCharacter:
		return "Invalid character"
	default:
		return fmt.Sprintf("ErrorKind(%d)", uint8(k))
	}
}

// Result is either a decoded value or the reason it could not be decoded.
type Result[T any] struct {
	Value T
	Err   ErrorKind
}

func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

func Fail[T any](k ErrorKind) Result[T] {
	return Result[T]{Err: k}
}

func (r Result[T]) OK() bool {
	return r.Err == OK
}

// Get returns the value and whether it is valid.
func (r Result[T]) Get() (T, bool) {
	return r.Value, r.Err == OK
}

func (r Result[T]) String() string {
	if r.Err != OK {
		return r.Err.String()
	}
	return fmt.Sprint(r.Value)
}

// Endianness is the byte order of a multi-byte value.
type Endianness uint8

const (
	LittleEndian Endianness = iota
	BigEndian
)

func (e Endianness) String() string {
	if e == BigEndian {
		return "be"
	}
	return "le"
}

// ParseEndianness accepts "le", "be" and their long forms.
func ParseEndianness(s string) (Endianness, error) {
	switch strings.ToLower(s) {
	case "le", "little", "little-endian", "":
		return LittleEndian, nil
	case "be", "big", "big-endian":
		return BigEndian, nil
	}
	return LittleEndian, errors.Errorf("unknown endianness %q", s)
}

// VarInt is a decoded variable-length integer and the bytes it consumed.
type VarInt[T int64 | uint64] struct {
	Value T
	Size  int
}

// Char is a decoded character and the bytes it consumed.
type Char struct {
	Rune rune
	Size int
}

func (c Char) String() string {
	return string(c.Rune)
}

// Rational is a numerator / denominator pair with a non-zero denominator.
type Rational[T int32 | uint32] struct {
	Num T
	Den T
}

func (r Rational[T]) Float64() float64 {
	return float64(r.Num) / float64(r.Den)
}

func (r Rational[T]) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}
