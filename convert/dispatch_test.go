package convert

import (
	"bytes"
	"slices"
	"testing"

	"github.com/wippyai/textconv/charset"
	"github.com/wippyai/textconv/errors"
)

func TestRoutesComplete(t *testing.T) {
	for from := range 2 {
		for to := range 2 {
			if boundedRoutes[from][to] == nil || allocRoutes[from][to] == nil || measureRoutes[from][to] == nil {
				t.Errorf("missing route [%d][%d]", from, to)
			}
		}
	}
}

func TestConvert_MatchesDirect(t *testing.T) {
	c := newConverter(t, 1252)
	narrow := []byte("dispatch \xe9 test\x00")
	wide := WideFromString("dispatch é test")

	for _, capacity := range []int{1, 5, 64} {
		t.Run("narrow to narrow", func(t *testing.T) {
			want := make([]byte, capacity)
			wn, werr := c.NarrowToNarrowBuf(want, narrow, charset.Terminated)
			got := make([]byte, capacity)
			gn, gerr := c.Convert(NarrowBuffer(got), NarrowView(narrow, charset.Terminated))
			if gn != wn || gerr != werr || !bytes.Equal(got, want) {
				t.Errorf("cap %d: Convert = %d %q, direct = %d %q", capacity, gn, got, wn, want)
			}
		})
		t.Run("narrow to wide", func(t *testing.T) {
			want := make([]uint16, capacity)
			wn, werr := c.NarrowToWideBuf(want, narrow, charset.Terminated)
			got := make([]uint16, capacity)
			gn, gerr := c.Convert(WideBuffer(got), NarrowView(narrow, charset.Terminated))
			if gn != wn || gerr != werr || !slices.Equal(got, want) {
				t.Errorf("cap %d: Convert = %d %v, direct = %d %v", capacity, gn, got, wn, want)
			}
		})
		t.Run("wide to narrow", func(t *testing.T) {
			want := make([]byte, capacity)
			wn, werr := c.WideToNarrowBuf(want, wide, charset.Terminated)
			got := make([]byte, capacity)
			gn, gerr := c.Convert(NarrowBuffer(got), WideView(wide, charset.Terminated))
			if gn != wn || gerr != werr || !bytes.Equal(got, want) {
				t.Errorf("cap %d: Convert = %d %q, direct = %d %q", capacity, gn, got, wn, want)
			}
		})
		t.Run("wide to wide", func(t *testing.T) {
			want := make([]uint16, capacity)
			wn, werr := c.WideToWideBuf(want, wide, charset.Terminated)
			got := make([]uint16, capacity)
			gn, gerr := c.Convert(WideBuffer(got), WideView(wide, charset.Terminated))
			if gn != wn || gerr != werr || !slices.Equal(got, want) {
				t.Errorf("cap %d: Convert = %d %v, direct = %d %v", capacity, gn, got, wn, want)
			}
		})
	}
}

func TestAlloc_MatchesDirect(t *testing.T) {
	c := newConverter(t, 1252)
	narrow := []byte("alloc \x80 test")
	wide := WideFromString("alloc € test")

	out, n, err := c.Alloc(NarrowView(narrow, len(narrow)), charset.Narrow)
	want, wn, _ := c.NarrowToNarrow(narrow, len(narrow))
	if err != nil || n != wn || !bytes.Equal(out.Narrow, want) || out.Enc != charset.Narrow {
		t.Errorf("narrow to narrow = %q %d %v", out.Narrow, n, err)
	}

	out, n, err = c.Alloc(NarrowView(narrow, len(narrow)), charset.Wide)
	wwant, wn, _ := c.NarrowToWide(narrow, len(narrow))
	if err != nil || n != wn || !slices.Equal(out.Wide, wwant) || out.Enc != charset.Wide {
		t.Errorf("narrow to wide = %v %d %v", out.Wide, n, err)
	}
	if !slices.Equal(out.Wide, wide) {
		t.Errorf("narrow to wide = %q, want %q", StringFromWide(out.Wide), StringFromWide(wide))
	}

	out, n, err = c.Alloc(WideView(wide, charset.Terminated), charset.Narrow)
	want, wn, _ = c.WideToNarrow(wide, charset.Terminated)
	if err != nil || n != wn || !bytes.Equal(out.Narrow, want) {
		t.Errorf("wide to narrow = %q %d %v", out.Narrow, n, err)
	}

	dup, err := c.Dup(WideView(wide, charset.Terminated), charset.Wide)
	if err != nil || !slices.Equal(dup.Wide, wide) {
		t.Errorf("wide to wide = %v %v", dup.Wide, err)
	}
}

func TestDispatch_UnresolvedTags(t *testing.T) {
	c := newConverter(t, 1252)
	src := View{Enc: charset.Default, Narrow: []byte("x")}

	if _, err := c.Convert(NarrowBuffer(make([]byte, 4)), src); !errors.IsKind(err, errors.KindInvalidInput) {
		t.Errorf("Convert err = %v, want invalid input", err)
	}
	if out, n, err := c.Alloc(NarrowView([]byte("x"), 1), charset.Encoding(0)); !errors.IsKind(err, errors.KindInvalidInput) || out.Narrow != nil || n != 0 {
		t.Errorf("Alloc = %v %d %v, want invalid input", out, n, err)
	}
	if _, err := c.Measure(NarrowView([]byte("x"), 1), charset.Default); !errors.IsKind(err, errors.KindInvalidInput) {
		t.Errorf("Measure err = %v, want invalid input", err)
	}
}

func TestAlloc_FailureReturnsEmpty(t *testing.T) {
	c := newConverter(t, 1252, WithAllocator(&failingAllocator{}))
	out, n, err := c.Alloc(NarrowView([]byte("abc"), 3), charset.Wide)
	if !errors.IsKind(err, errors.KindAllocation) {
		t.Fatalf("err = %v, want allocation", err)
	}
	if out.Wide != nil || out.Narrow != nil || n != 0 {
		t.Errorf("failed Alloc returned %v %d", out, n)
	}
}

func TestMeasure(t *testing.T) {
	c := newConverter(t, 932)
	tests := []struct {
		name string
		src  View
		to   charset.Encoding
		want int
	}{
		{"narrow to narrow", NarrowView([]byte{0x82, 0xA0, 'a', 0}, charset.Terminated), charset.Narrow, 3},
		{"narrow to wide", NarrowView([]byte{0x82, 0xA0, 'a', 0}, charset.Terminated), charset.Wide, 2},
		{"wide to narrow", WideView(WideFromString("あa"), charset.Terminated), charset.Narrow, 3},
		{"wide to wide", WideView(WideFromString("あa"), charset.Terminated), charset.Wide, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Measure(tt.src, tt.to)
			if err != nil || got != tt.want {
				t.Errorf("Measure = %d %v, want %d", got, err, tt.want)
			}
		})
	}
}

func TestBuffer_Bytes(t *testing.T) {
	b := WideBuffer([]uint16{0x3042, 'a', 0})
	if got := b.Bytes(2); !bytes.Equal(got, []byte{0x42, 0x30, 'a', 0}) {
		t.Errorf("Bytes = %x", got)
	}
	if b.Cap() != 3 {
		t.Errorf("Cap = %d", b.Cap())
	}
	nb := NarrowBuffer([]byte("xyz"))
	if got := nb.Bytes(2); string(got) != "xy" {
		t.Errorf("Bytes = %q", got)
	}
	if v := nb.View(2); v.Enc != charset.Narrow || v.Len != 2 {
		t.Errorf("View = %+v", v)
	}
}

func TestNewBuffer(t *testing.T) {
	w := NewBuffer(charset.Wide, 4)
	if w.Enc != charset.Wide || len(w.Wide) != 4 || w.Narrow != nil {
		t.Errorf("wide buffer = %+v", w)
	}
	n := NewBuffer(charset.Narrow, 3)
	if n.Enc != charset.Narrow || n.Cap() != 3 || n.Wide != nil {
		t.Errorf("narrow buffer = %+v", n)
	}
}
