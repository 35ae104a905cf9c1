package tlv

import "strings"

// SanitizePrintable copies data without its control bytes (below 0x20,
// and DEL). Bytes 0x80 and above are kept: they are meaningful under the
// code page the caller decodes with afterwards.
func SanitizePrintable(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for _, b := range data {
		if b >= 0x20 && b != 0x7F {
			out = append(out, b)
		}
	}
	return out
}

// SanitizeAlphanumeric keeps only ASCII letters, digits and spaces.
// Everything else is dropped, with no further validation: this is the
// lenient filter applied to the Application Label, which a terminal must
// accept even when malformed.
func SanitizeAlphanumeric(data []byte) string {
	var sb strings.Builder
	sb.Grow(len(data))
	for _, b := range data {
		switch {
		case b >= 'A' && b <= 'Z', b >= 'a' && b <= 'z', b >= '0' && b <= '9', b == ' ':
			sb.WriteByte(b)
		}
	}
	return sb.String()
}

// MakeSafeASCII replaces every byte outside the printable ASCII range
// with a dot, for display of raw values.
func MakeSafeASCII(data []byte) string {
	return strings.Map(func(r rune) rune {
		if r >= 32 && r <= 126 {
			return r
		}
		return '.'
	}, string(data))
}
