package transcoder

import (
	"bytes"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/wippyai/textconv/errors"
)

// Transcoder converts between a narrow code page and UTF-16.
//
// The *Len methods report how many destination units a full conversion occupies.
// Widen and Narrow fill dst with the largest prefix of whole characters that fits
// and return the number of units written. A short dst is not an error; malformed
// input is, and is reported without writing a partial result.
type Transcoder interface {
	WidenLen(src []byte) (int, error)
	Widen(dst []uint16, src []byte) (int, error)
	NarrowLen(src []uint16) (int, error)
	Narrow(dst []byte, src []uint16) (int, error)
}

const defaultChar = '?'

// CodePage is a Transcoder backed by a golang.org/x/text encoding.
// It holds no mutable state and is safe for concurrent use.
type CodePage struct {
	enc         encoding.Encoding
	sbcs        *charmap.Charmap
	name        string
	id          uint32
	maxCharSize int
	defaultChar byte
	utf8        bool
	c1          bool
}

// Option configures a CodePage.
type Option func(*CodePage)

// WithDefaultChar sets the byte substituted for characters the code page cannot represent.
func WithDefaultChar(b byte) Option {
	return func(cp *CodePage) {
		cp.defaultChar = b
	}
}

// Info describes a code page.
type Info struct {
	Name        string
	ID          uint32
	MaxCharSize int
	DefaultChar byte
}

// Info returns the code page description.
func (cp *CodePage) Info() Info {
	return Info{
		ID:          cp.id,
		Name:        cp.name,
		MaxCharSize: cp.maxCharSize,
		DefaultChar: cp.defaultChar,
	}
}

// Name returns the IANA name of the code page.
func (cp *CodePage) Name() string {
	return cp.name
}

// WidenLen returns the number of UTF-16 units src decodes to.
//
// On the Windows ANSI code pages (874, 1250-1258) a byte in 0x80-0x9F that the
// code page leaves undefined decodes to the C1 control U+0080+b, as Windows
// does. Undefined bytes elsewhere are malformed.
func (cp *CodePage) WidenLen(src []byte) (int, error) {
	text, err := cp.decode(src)
	if err != nil {
		return 0, err
	}
	n := 0
	for len(text) > 0 {
		r, size := utf8.DecodeRune(text)
		text = text[size:]
		n += utf16.RuneLen(r)
	}
	return n, nil
}

// Widen decodes src into dst. A surrogate pair is never split.
func (cp *CodePage) Widen(dst []uint16, src []byte) (int, error) {
	text, err := cp.decode(src)
	if err != nil {
		return 0, err
	}
	n := 0
	for len(text) > 0 {
		r, size := utf8.DecodeRune(text)
		if utf16.RuneLen(r) == 2 {
			if n+2 > len(dst) {
				break
			}
			r1, r2 := utf16.EncodeRune(r)
			dst[n], dst[n+1] = uint16(r1), uint16(r2)
			n += 2
		} else {
			if n+1 > len(dst) {
				break
			}
			dst[n] = uint16(r)
			n++
		}
		text = text[size:]
	}
	return n, nil
}

// NarrowLen returns the number of bytes src encodes to, counting one default
// char for every character the code page cannot represent.
func (cp *CodePage) NarrowLen(src []uint16) (int, error) {
	runes, err := decodeUTF16(src)
	if err != nil {
		return 0, err
	}
	enc := cp.newEncoder()
	var scratch [utf8.UTFMax]byte
	n := 0
	for _, r := range runes {
		n += len(cp.encodeRune(enc, r, scratch[:0]))
	}
	return n, nil
}

// Narrow encodes src into dst. A multi-byte character is never split.
func (cp *CodePage) Narrow(dst []byte, src []uint16) (int, error) {
	runes, err := decodeUTF16(src)
	if err != nil {
		return 0, err
	}
	enc := cp.newEncoder()
	var scratch [utf8.UTFMax]byte
	n := 0
	for _, r := range runes {
		b := cp.encodeRune(enc, r, scratch[:0])
		if n+len(b) > len(dst) {
			break
		}
		n += copy(dst[n:], b)
	}
	return n, nil
}

// decode validates src as a whole and returns it as UTF-8.
func (cp *CodePage) decode(src []byte) ([]byte, error) {
	switch {
	case cp.utf8:
		for i := 0; i < len(src); {
			r, size := utf8.DecodeRune(src[i:])
			if r == utf8.RuneError && size <= 1 {
				return nil, errors.Malformed(errors.PhaseTranscode, cp.name, i, src[i:])
			}
			i += size
		}
		return src, nil

	case cp.sbcs != nil:
		out := make([]byte, 0, len(src))
		for i, b := range src {
			r := cp.sbcs.DecodeByte(b)
			if r == utf8.RuneError && cp.c1 && isC1(rune(b)) {
				r = rune(b)
			}
			if r == utf8.RuneError {
				return nil, errors.Malformed(errors.PhaseTranscode, cp.name, i, src[i:])
			}
			out = utf8.AppendRune(out, r)
		}
		return out, nil
	}

	out, err := cp.enc.NewDecoder().Bytes(src)
	if err != nil {
		return nil, errors.New(errors.PhaseTranscode, errors.KindMalformed).
			Encoding(cp.name).
			Cause(err).
			Detail("decode %d bytes", len(src)).
			Build()
	}
	// x/text decoders substitute U+FFFD for invalid sequences. Encodings that
	// can represent U+FFFD itself must round trip to be accepted.
	if i := bytes.IndexRune(out, utf8.RuneError); i >= 0 && !cp.roundTrips(out, src) {
		return nil, errors.New(errors.PhaseTranscode, errors.KindMalformed).
			Encoding(cp.name).
			Value(utf8.RuneCount(out[:i])).
			Detail("invalid sequence at character %d", utf8.RuneCount(out[:i])).
			Build()
	}
	return out, nil
}

// roundTrips reports whether text encodes back to exactly src.
func (cp *CodePage) roundTrips(text, src []byte) bool {
	re, err := cp.enc.NewEncoder().Bytes(text)
	return err == nil && bytes.Equal(re, src)
}

func isC1(r rune) bool {
	return r >= 0x80 && r <= 0x9F
}

func (cp *CodePage) newEncoder() *encoding.Encoder {
	if cp.utf8 || cp.sbcs != nil {
		return nil
	}
	return cp.enc.NewEncoder()
}

// encodeRune appends the narrow form of r to buf, substituting the default char
// for characters outside the code page.
func (cp *CodePage) encodeRune(enc *encoding.Encoder, r rune, buf []byte) []byte {
	switch {
	case cp.utf8:
		return utf8.AppendRune(buf, r)
	case cp.sbcs != nil:
		if b, ok := cp.sbcs.EncodeRune(r); ok {
			return append(buf, b)
		}
		if cp.c1 && isC1(r) && cp.sbcs.DecodeByte(byte(r)) == utf8.RuneError {
			return append(buf, byte(r))
		}
		return append(buf, cp.defaultChar)
	}

	var in [utf8.UTFMax]byte
	out, err := enc.Bytes(utf8.AppendRune(in[:0], r))
	if err != nil || len(out) == 0 {
		return append(buf, cp.defaultChar)
	}
	return append(buf, out...)
}

// decodeUTF16 decodes src strictly; unpaired surrogates are malformed.
func decodeUTF16(src []uint16) ([]rune, error) {
	runes := make([]rune, 0, len(src))
	for i := 0; i < len(src); i++ {
		u := src[i]
		switch {
		case u < 0xD800 || u > 0xDFFF:
			runes = append(runes, rune(u))
		case u < 0xDC00 && i+1 < len(src) && src[i+1] >= 0xDC00 && src[i+1] <= 0xDFFF:
			runes = append(runes, utf16.DecodeRune(rune(u), rune(src[i+1])))
			i++
		default:
			return nil, errors.Malformed(errors.PhaseTranscode, "utf-16", i, []byte{byte(u), byte(u >> 8)})
		}
	}
	return runes, nil
}

var _ Transcoder = (*CodePage)(nil)
