package x11

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

var char2b = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

// EncodeChar2b converts s into the CHAR2B strings used by the 16-bit text
// requests: one big-endian pair per character. Core fonts cannot address
// characters outside the Basic Multilingual Plane; those become U+FFFD.
func EncodeChar2b(s string) []byte {
	s = strings.Map(func(r rune) rune {
		if r > 0xffff {
			return '�'
		}
		return r
	}, strings.ToValidUTF8(s, "�"))
	// valid BMP-only input cannot fail to encode
	b, _ := char2b.NewEncoder().Bytes([]byte(s))
	return b
}

// EncodeLatin1 converts s to ISO 8859-1, the encoding of STRING properties
// and of PolyText8. Unrepresentable characters are replaced.
func EncodeLatin1(s string) []byte {
	b, err := encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder()).Bytes([]byte(s))
	if err != nil {
		return []byte(s)
	}
	return b
}

// DecodeLatin1 converts ISO 8859-1 bytes to a string.
func DecodeLatin1(b []byte) (string, error) {
	s, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return "", errors.Wrap(err, "x11: decode latin-1")
	}
	return string(s), nil
}
