package convert

import (
	"unicode/utf16"

	"github.com/wippyai/textconv/charset"
)

// WideFromString returns s as a terminated UTF-16 string.
func WideFromString(s string) []uint16 {
	return append(utf16.Encode([]rune(s)), 0)
}

// StringFromWide decodes w up to its first zero unit.
// Unpaired surrogates become U+FFFD.
func StringFromWide(w []uint16) string {
	if i := charset.Scan(w, len(w)); i >= 0 {
		w = w[:i]
	}
	return string(utf16.Decode(w))
}
