// Package charset decodes the legacy single-byte code pages named by the
// EMV Issuer Code Table Index (tag 9F11) into UTF-8. The index designates
// a part of ISO/IEC 8859 directly: index 5 means ISO 8859-5, and so on.
//
// Parts 2 to 10 and 13 to 15 are backed by the golang.org/x/text charmap
// tables. Part 1 (Latin-1) is decoded by rule, with no table dependency:
// its positions map one-to-one onto Unicode code points. Part 11
// (Latin/Thai) is absent from charmap and is likewise decoded by rule.
// Part 12 was abandoned by ISO and never assigned.
package charset

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var (
	// ErrEmptyInput is returned when there is nothing to decode.
	ErrEmptyInput = errors.New("charset: no input")

	// ErrUnsupportedPage is returned for a code page outside 1-15, or 12.
	ErrUnsupportedPage = errors.New("charset: unsupported code page")

	// ErrMalformedInput is returned when a byte decodes to a control
	// character or has no assignment in the page. Callers distinguish it
	// from ErrUnsupportedPage to pick a display-name fallback.
	ErrMalformedInput = errors.New("charset: malformed input")
)

var pages = map[byte]*charmap.Charmap{
	2:  charmap.ISO8859_2,
	3:  charmap.ISO8859_3,
	4:  charmap.ISO8859_4,
	5:  charmap.ISO8859_5,
	6:  charmap.ISO8859_6,
	7:  charmap.ISO8859_7,
	8:  charmap.ISO8859_8,
	9:  charmap.ISO8859_9,
	10: charmap.ISO8859_10,
	13: charmap.ISO8859_13,
	14: charmap.ISO8859_14,
	15: charmap.ISO8859_15,
}

// IsSupported reports whether the code page can be decoded: parts 1 to 15
// of ISO/IEC 8859, except the abandoned part 12.
func IsSupported(page byte) bool {
	return page >= 1 && page <= 15 && page != 12
}

// FromTableIndex maps an Issuer Code Table Index byte to a decodable code
// page. The index names the ISO 8859 part directly, so this only rejects
// indices no decoder exists for.
func FromTableIndex(index byte) (byte, bool) {
	if !IsSupported(index) {
		return 0, false
	}
	return index, true
}

// Decode converts input through the given code page to UTF-8.
//
// Conversion stops at the first 0x00 byte, the terminator convention of
// the card records this data comes from; input that starts with one
// decodes to an empty string, not an error. Control characters (below
// 0x20, DEL, or decoding into the 0x7F-0x9F range) and bytes with no
// assignment in the page are rejected as malformed.
func Decode(page byte, input []byte) (string, error) {
	if len(input) == 0 {
		return "", ErrEmptyInput
	}
	if !IsSupported(page) {
		return "", fmt.Errorf("%w: %d", ErrUnsupportedPage, page)
	}

	var sb strings.Builder
	for _, b := range input {
		if b == 0x00 {
			break
		}
		r, ok := decodeByte(page, b)
		if !ok {
			return "", fmt.Errorf("%w: byte 0x%02X in page %d", ErrMalformedInput, b, page)
		}
		sb.WriteRune(r)
	}
	return sb.String(), nil
}

func decodeByte(page, b byte) (rune, bool) {
	if b < 0x20 || b == 0x7F {
		return 0, false
	}

	switch page {
	case 1:
		if b >= 0x80 && b <= 0x9F {
			return 0, false
		}
		return rune(b), true
	case 11:
		return thaiRune(b)
	}

	r := pages[page].DecodeByte(b)
	if r == utf8.RuneError || r < 0x20 || (r >= 0x7F && r <= 0x9F) {
		return 0, false
	}
	return r, true
}

// thaiRune implements ISO/IEC 8859-11: the Thai block sits at a fixed
// offset of 0x0D60 from the high half of the page, with two unassigned
// gaps (0xDB-0xDE and 0xFC-0xFF).
func thaiRune(b byte) (rune, bool) {
	switch {
	case b < 0x80:
		return rune(b), true
	case b == 0xA0:
		return '\u00a0', true
	case b >= 0xA1 && b <= 0xDA, b >= 0xDF && b <= 0xFB:
		return rune(b) + 0x0D60, true
	}
	return 0, false
}
