// Package textconv converts terminated strings between a narrow 8-bit code page
// encoding and wide UTF-16.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	textconv/            Root package with Memory and Allocator interfaces
//	├── charset/         Encoding tags, length determination, terminator scans
//	├── transcoder/      Code page <-> UTF-16 conversion on golang.org/x/text
//	├── convert/         Bounded, unbounded and dispatched conversions on slices
//	├── memconv/         The same conversions on linear memory
//	├── host/            wazero host module exposing memconv to wasm guests
//	├── config/          TOML configuration and logger setup
//	├── errors/          Structured error types
//	└── cmd/textconv/    Command line tool
//
// # Quick Start
//
// Convert into a caller buffer, truncating silently:
//
//	cp, _ := transcoder.New(transcoder.CP1252)
//	c := convert.New(cp)
//
//	dst := make([]uint16, 4)
//	n, err := c.NarrowToWideBuf(dst, []byte("abcdefghij"), 10)
//	// n == 3, dst holds "abc" and a terminator
//
// Convert into an exactly sized result:
//
//	wide, n, err := c.NarrowToWide([]byte("hello\x00"), charset.Terminated)
//	// n == 5, len(wide) == 6, wide[5] == 0
//
// Select the operation from encoding tags:
//
//	out, n, err := c.Alloc(convert.WideView(wide, charset.Terminated), charset.Narrow)
//
// # Encodings
//
// charset.Narrow strings are byte sequences in the configured code page.
// charset.Wide strings are UTF-16 code units. charset.Default is an alias that
// resolves to charset.BuildDefault (wide unless built with the textconv_narrow
// tag) or to a configured default; it is resolved by config and host before any
// conversion runs.
//
// # Lengths
//
// Every source carries an explicit unit count or charset.Terminated. A
// terminated source is scanned for its first zero unit, up to a configurable
// limit (charset.DefaultMaxScan units); a scan that reaches the limit fails with
// errors.KindUnterminated.
//
// # Errors
//
// All errors are *errors.Error values carrying a Phase and a Kind. Truncation
// in the bounded operations is not an error. Malformed input is
// errors.KindMalformed and never produces a partial result. Allocation failure
// is errors.KindAllocation and returns no buffer and no length.
//
// # Thread Safety
//
// Converter and CodePage hold no mutable state and are safe for concurrent use.
package textconv
