// pkg/reader/chars.go

package reader

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/kaitai-io/kaitai_struct_go_runtime/kaitai"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode/utf32"

	xunicode "golang.org/x/text/encoding/unicode"
)

// utf8Len returns the sequence length announced by a leading byte, or 0.
func utf8Len(lead byte) int {
	switch {
	case lead < 0x80:
		return 1
	case lead&0xe0 == 0xc0:
		return 2
	case lead&0xf0 == 0xe0:
		return 3
	case lead&0xf8 == 0xf0:
		return 4
	}
	return 0
}

// UTF8Char decodes one UTF-8 encoded character.
func UTF8Char(b []byte, off int) Result[Char] {
	if off < 0 || off >= len(b) {
		return Fail[Char](InvalidOffset)
	}
	n := utf8Len(b[off])
	if n == 0 {
		return Fail[Char](InvalidCharacter)
	}
	if n > len(b)-off {
		return Fail[Char](InsufficientBytes)
	}
	r, size := utf8.DecodeRune(b[off : off+n])
	if size != n || (r == utf8.RuneError && n > 1) {
		return Fail[Char](InvalidCharacter)
	}
	return checkChar(r, n)
}

func checkChar(r rune, n int) Result[Char] {
	switch {
	case r == 0:
		return Fail[Char](Null)
	case unicode.IsControl(r):
		return Fail[Char](InvalidCharacter)
	}
	return Ok(Char{Rune: r, Size: n})
}

// UTF16Char decodes one UTF-16 code unit, or a surrogate pair.
func UTF16Char(b []byte, off int, e Endianness) Result[Char] {
	hi := Uint16(b, off, e)
	if !hi.OK() {
		return Fail[Char](hi.Err)
	}
	u := rune(hi.Value)
	switch {
	case u == 0:
		return Fail[Char](Null)
	case u >= 0xdc00 && u <= 0xdfff:
		// low surrogate without its high half
		return Fail[Char](InvalidCharacter)
	case u >= 0xd800 && u <= 0xdbff:
		lo := Uint16(b, off+2, e)
		if !lo.OK() {
			if lo.Err == InvalidOffset {
				return Fail[Char](InsufficientBytes)
			}
			return Fail[Char](lo.Err)
		}
		r := utf16.DecodeRune(u, rune(lo.Value))
		if r == unicode.ReplacementChar {
			return Fail[Char](InvalidCharacter)
		}
		return checkChar(r, 4)
	}
	return checkChar(u, 2)
}

// Binary renders one byte as eight '0'/'1' digits.
func Binary(b []byte, off int) Result[string] {
	v := Uint8(b, off)
	if !v.OK() {
		return Fail[string](v.Err)
	}
	return Ok(fmt.Sprintf("%08b", v.Value))
}

var encodings = map[string]encoding.Encoding{
	"utf-8":        xunicode.UTF8,
	"utf-16le":     xunicode.UTF16(xunicode.LittleEndian, xunicode.IgnoreBOM),
	"utf-16be":     xunicode.UTF16(xunicode.BigEndian, xunicode.IgnoreBOM),
	"utf-32le":     utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM),
	"utf-32be":     utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM),
	"iso-8859-1":   charmap.ISO8859_1,
	"windows-1252": charmap.Windows1252,
	"cp437":        charmap.CodePage437,
	"shift_jis":    japanese.ShiftJIS,
}

var encodingAliases = map[string]string{
	"utf8":    "utf-8",
	"ascii":   "windows-1252",
	"latin1":  "iso-8859-1",
	"utf16le": "utf-16le",
	"utf16be": "utf-16be",
	"utf32le": "utf-32le",
	"utf32be": "utf-32be",
	"sjis":    "shift_jis",
}

// Encodings lists the names accepted by String.
func Encodings() []string {
	names := make([]string, 0, len(encodings))
	for name := range encodings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupEncoding resolves an encoding name or alias.
func LookupEncoding(name string) (encoding.Encoding, bool) {
	name = strings.ToLower(name)
	if alias, ok := encodingAliases[name]; ok {
		name = alias
	}
	enc, ok := encodings[name]
	return enc, ok
}

// String decodes n bytes at off in the named encoding. Undecodable input
// and unknown encodings yield InvalidCharacter.
func String(b []byte, off, n int, enc string) Result[string] {
	e, ok := LookupEncoding(enc)
	if !ok {
		return Fail[string](InvalidCharacter)
	}
	w, err := span(b, off, n)
	if err != OK {
		return Fail[string](err)
	}
	s, derr := kaitai.BytesToStr(w, e.NewDecoder())
	if derr != nil {
		return Fail[string](InvalidCharacter)
	}
	// the x/text decoders substitute U+FFFD for malformed input
	if strings.ContainsRune(s, utf8.RuneError) {
		return Fail[string](InvalidCharacter)
	}
	return Ok(s)
}
