// Package transcoder converts between narrow code page text and UTF-16.
//
// It is the character-set service behind every cross-encoding conversion in
// textconv. The rest of the library only relies on the Transcoder interface:
//
//	WidenLen(src)      → UTF-16 units needed for src
//	Widen(dst, src)    → fill dst, whole characters only
//	NarrowLen(src)     → bytes needed for src
//	Narrow(dst, src)   → fill dst, whole characters only
//
// # Code Pages
//
// CodePage implements Transcoder on top of golang.org/x/text. Code pages are
// selected by Windows id or IANA name:
//
//	cp, err := transcoder.New(1252)
//	cp, err := transcoder.ByName("shift_jis")
//
// Single-byte code pages decode per byte. Multi-byte code pages (932, 936, 949,
// 950, 51932, 54936) go through the x/text decoders. Stateful encodings such as
// ISO-2022-JP are rejected because a prefix of their output is not self-contained.
//
// # Malformed Input
//
// A byte undefined in the code page, an invalid multi-byte sequence, invalid
// UTF-8 under code page 65001, or an unpaired UTF-16 surrogate fails the whole
// call with errors.KindMalformed. The source is validated completely before
// anything is written, so the result never depends on the destination size.
//
// Characters that exist in UTF-16 but not in the code page are not malformed;
// they are replaced by the default char ('?' unless WithDefaultChar is given).
package transcoder
