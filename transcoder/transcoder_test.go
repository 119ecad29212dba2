package transcoder

import (
	"bytes"
	"testing"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/wippyai/textconv/errors"
)

func mustCodePage(t *testing.T, id uint32, opts ...Option) *CodePage {
	t.Helper()
	cp, err := New(id, opts...)
	if err != nil {
		t.Fatalf("New(%d): %v", id, err)
	}
	return cp
}

func TestCodePage_Widen(t *testing.T) {
	tests := []struct {
		name string
		id   uint32
		src  []byte
		want []uint16
	}{
		{"ascii 1252", 1252, []byte("hello"), utf16.Encode([]rune("hello"))},
		{"latin 1252", 1252, []byte{'c', 'a', 'f', 0xE9}, utf16.Encode([]rune("café"))},
		{"euro 1252", 1252, []byte{0x80}, []uint16{0x20AC}},
		{"embedded nul", 1252, []byte{'a', 0, 'b'}, []uint16{'a', 0, 'b'}},
		{"shift_jis", 932, []byte{0x82, 0xA0}, []uint16{0x3042}},
		{"gbk", 936, []byte{0xD6, 0xD0}, []uint16{0x4E2D}},
		{"utf-8 supplementary", 65001, []byte("a\U0001F600"), []uint16{'a', 0xD83D, 0xDE00}},
		{"gb18030 replacement char", 54936, []byte{0x84, 0x31, 0xA4, 0x37}, []uint16{0xFFFD}},
		{"undefined 1252 bytes as c1", 1252, []byte{0x81, 0x8D, 0x8F, 0x90, 0x9D}, []uint16{0x81, 0x8D, 0x8F, 0x90, 0x9D}},
		{"undefined 1250 byte as c1", 1250, []byte{0x81}, []uint16{0x81}},
		{"empty", 1252, nil, []uint16{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cp := mustCodePage(t, tt.id)

			n, err := cp.WidenLen(tt.src)
			if err != nil {
				t.Fatalf("WidenLen: %v", err)
			}
			if n != len(tt.want) {
				t.Fatalf("WidenLen = %d, want %d", n, len(tt.want))
			}

			dst := make([]uint16, n)
			written, err := cp.Widen(dst, tt.src)
			if err != nil {
				t.Fatalf("Widen: %v", err)
			}
			if written != n {
				t.Fatalf("Widen wrote %d, want %d", written, n)
			}
			for i := range tt.want {
				if dst[i] != tt.want[i] {
					t.Errorf("dst[%d] = %#x, want %#x", i, dst[i], tt.want[i])
				}
			}
		})
	}
}

func TestCodePage_Narrow(t *testing.T) {
	tests := []struct {
		name string
		id   uint32
		src  string
		want []byte
	}{
		{"ascii 1252", 1252, "hello", []byte("hello")},
		{"latin 1252", 1252, "café", []byte{'c', 'a', 'f', 0xE9}},
		{"unmappable 1252", 1252, "a中b", []byte("a?b")},
		{"shift_jis", 932, "あ", []byte{0x82, 0xA0}},
		{"gbk", 936, "中", []byte{0xD6, 0xD0}},
		{"gbk unmappable", 936, "\U0001F600", []byte("?")},
		{"utf-8", 65001, "é\U0001F600", []byte("é\U0001F600")},
		{"c1 1252", 1252, "a\u0081\u009d", []byte{'a', 0x81, 0x9D}},
		{"c1 defined in 1252", 1252, "\u0080", []byte("?")},
		{"gb18030 replacement char", 54936, "\uFFFD", []byte{0x84, 0x31, 0xA4, 0x37}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cp := mustCodePage(t, tt.id)
			src := utf16.Encode([]rune(tt.src))

			n, err := cp.NarrowLen(src)
			if err != nil {
				t.Fatalf("NarrowLen: %v", err)
			}
			if n != len(tt.want) {
				t.Fatalf("NarrowLen = %d, want %d", n, len(tt.want))
			}

			dst := make([]byte, n)
			written, err := cp.Narrow(dst, src)
			if err != nil {
				t.Fatalf("Narrow: %v", err)
			}
			if !bytes.Equal(dst[:written], tt.want) {
				t.Errorf("Narrow = %x, want %x", dst[:written], tt.want)
			}
		})
	}
}

func TestCodePage_DefaultChar(t *testing.T) {
	cp := mustCodePage(t, 1252, WithDefaultChar('_'))
	dst := make([]byte, 3)
	n, err := cp.Narrow(dst, utf16.Encode([]rune("a中b")))
	if err != nil {
		t.Fatalf("Narrow: %v", err)
	}
	if string(dst[:n]) != "a_b" {
		t.Errorf("Narrow = %q, want %q", dst[:n], "a_b")
	}
	if cp.Info().DefaultChar != '_' {
		t.Errorf("Info().DefaultChar = %q", cp.Info().DefaultChar)
	}
}

func TestCodePage_Truncation(t *testing.T) {
	t.Run("surrogate pair not split", func(t *testing.T) {
		cp := mustCodePage(t, CPUTF8)
		dst := make([]uint16, 2)
		n, err := cp.Widen(dst, []byte("a\U0001F600"))
		if err != nil {
			t.Fatalf("Widen: %v", err)
		}
		if n != 1 || dst[0] != 'a' {
			t.Errorf("Widen = %d %v, want 1 [a]", n, dst[:n])
		}
	})

	t.Run("surrogate pair fits exactly", func(t *testing.T) {
		cp := mustCodePage(t, CPUTF8)
		dst := make([]uint16, 3)
		n, err := cp.Widen(dst, []byte("a\U0001F600"))
		if err != nil {
			t.Fatalf("Widen: %v", err)
		}
		if n != 3 || dst[0] != 'a' || dst[1] != 0xD83D || dst[2] != 0xDE00 {
			t.Errorf("Widen = %d %x, want 3 [61 d83d de00]", n, dst[:n])
		}
	})

	t.Run("multibyte char not split", func(t *testing.T) {
		cp := mustCodePage(t, 932)
		dst := make([]byte, 2)
		n, err := cp.Narrow(dst, utf16.Encode([]rune("aあ")))
		if err != nil {
			t.Fatalf("Narrow: %v", err)
		}
		if n != 1 || dst[0] != 'a' {
			t.Errorf("Narrow = %d %q, want 1 \"a\"", n, dst[:n])
		}
	})

	t.Run("zero capacity", func(t *testing.T) {
		cp := mustCodePage(t, 1252)
		n, err := cp.Widen(nil, []byte("abc"))
		if err != nil || n != 0 {
			t.Errorf("Widen(nil) = %d, %v", n, err)
		}
	})
}

func TestCodePage_Malformed(t *testing.T) {
	t.Run("invalid utf-8", func(t *testing.T) {
		cp := mustCodePage(t, CPUTF8)
		_, err := cp.WidenLen([]byte{'a', 0xFF, 'b'})
		if !errors.IsKind(err, errors.KindMalformed) {
			t.Fatalf("err = %v, want malformed", err)
		}
	})

	t.Run("validated before filling", func(t *testing.T) {
		cp := mustCodePage(t, CPUTF8)
		dst := make([]uint16, 1)
		n, err := cp.Widen(dst, []byte{'a', 0xFF})
		if !errors.IsKind(err, errors.KindMalformed) {
			t.Fatalf("err = %v, want malformed", err)
		}
		if n != 0 || dst[0] != 0 {
			t.Errorf("malformed input wrote %d units", n)
		}
	})

	t.Run("truncated gbk lead byte", func(t *testing.T) {
		cp := mustCodePage(t, 936)
		_, err := cp.WidenLen([]byte{'a', 0x81})
		if !errors.IsKind(err, errors.KindMalformed) {
			t.Fatalf("err = %v, want malformed", err)
		}
	})

	t.Run("invalid gb18030 sequence", func(t *testing.T) {
		cp := mustCodePage(t, 54936)
		_, err := cp.WidenLen([]byte{'a', 0x84, 0x31, 0xFF, 0x37})
		if !errors.IsKind(err, errors.KindMalformed) {
			t.Fatalf("err = %v, want malformed", err)
		}
	})

	t.Run("undefined byte outside c1 range", func(t *testing.T) {
		undefined := -1
		for b := 0xA0; b < 256; b++ {
			if charmap.Windows874.DecodeByte(byte(b)) == utf8.RuneError {
				undefined = b
				break
			}
		}
		if undefined < 0 {
			t.Skip("windows-874 has no undefined high bytes in this x/text version")
		}
		cp := mustCodePage(t, 874)
		_, err := cp.WidenLen([]byte{byte(undefined)})
		if !errors.IsKind(err, errors.KindMalformed) {
			t.Fatalf("err = %v, want malformed", err)
		}
	})

	t.Run("undefined single byte", func(t *testing.T) {
		undefined := -1
		for b := 0; b < 256; b++ {
			if charmap.ISO8859_3.DecodeByte(byte(b)) == utf8.RuneError {
				undefined = b
				break
			}
		}
		if undefined < 0 {
			t.Skip("ISO-8859-3 has no undefined bytes in this x/text version")
		}
		cp := mustCodePage(t, 28593)
		_, err := cp.WidenLen([]byte{'a', byte(undefined)})
		if !errors.IsKind(err, errors.KindMalformed) {
			t.Fatalf("err = %v, want malformed", err)
		}
	})

	t.Run("unpaired surrogates", func(t *testing.T) {
		cp := mustCodePage(t, 1252)
		for _, src := range [][]uint16{
			{0xD800, 'a'},
			{'a', 0xDC00},
			{'a', 0xD800},
		} {
			if _, err := cp.NarrowLen(src); !errors.IsKind(err, errors.KindMalformed) {
				t.Errorf("NarrowLen(%x) err = %v, want malformed", src, err)
			}
			if _, err := cp.Narrow(make([]byte, 8), src); !errors.IsKind(err, errors.KindMalformed) {
				t.Errorf("Narrow(%x) err = %v, want malformed", src, err)
			}
		}
	})
}

func TestNewAndByName(t *testing.T) {
	cp := mustCodePage(t, CP1252)
	if cp.Name() != "windows-1252" {
		t.Errorf("Name() = %q", cp.Name())
	}
	if info := cp.Info(); info.ID != 1252 || info.MaxCharSize != 1 || info.DefaultChar != '?' {
		t.Errorf("Info() = %+v", info)
	}

	if _, err := New(12345); !errors.IsKind(err, errors.KindUnsupported) {
		t.Errorf("New(12345) err = %v, want unsupported", err)
	}

	tests := []struct {
		name     string
		wantID   uint32
		wantKind errors.Kind
	}{
		{"1252", 1252, ""},
		{"cp936", 936, ""},
		{"CP65001", 65001, ""},
		{"Shift_JIS", 932, ""},
		{"", 0, errors.KindInvalidInput},
		{"no-such-charset", 0, errors.KindUnsupported},
		{"ISO-2022-JP", 0, errors.KindUnsupported},
		{"utf-16", 0, errors.KindUnsupported},
		{"cp99999", 0, errors.KindUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cp, err := ByName(tt.name)
			if tt.wantKind != "" {
				if !errors.IsKind(err, tt.wantKind) {
					t.Fatalf("ByName(%q) err = %v, want %s", tt.name, err, tt.wantKind)
				}
				return
			}
			if err != nil {
				t.Fatalf("ByName(%q): %v", tt.name, err)
			}
			if cp.Info().ID != tt.wantID {
				t.Errorf("ByName(%q).ID = %d, want %d", tt.name, cp.Info().ID, tt.wantID)
			}
		})
	}
}

func TestSupported(t *testing.T) {
	infos := Supported()
	if len(infos) != len(codePages) {
		t.Fatalf("Supported() has %d entries, want %d", len(infos), len(codePages))
	}
	found := false
	for i, info := range infos {
		if i > 0 && infos[i-1].ID >= info.ID {
			t.Fatalf("Supported() not sorted at %d", i)
		}
		if info.ID == CP1252 {
			found = true
		}
		if _, err := New(info.ID); err != nil {
			t.Errorf("New(%d) from Supported(): %v", info.ID, err)
		}
	}
	if !found {
		t.Error("Supported() is missing 1252")
	}
}
