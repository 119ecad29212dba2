package transcoder

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"

	"github.com/wippyai/textconv/errors"
)

// CP1252 is the Western European code page used when nothing else is configured.
const CP1252 uint32 = 1252

// CPUTF8 is the UTF-8 code page.
const CPUTF8 uint32 = 65001

type codePageEntry struct {
	enc         encoding.Encoding
	name        string
	maxCharSize int
}

// Windows code page ids with an x/text equivalent.
var codePages = map[uint32]codePageEntry{
	437:   {charmap.CodePage437, "IBM437", 1},
	850:   {charmap.CodePage850, "IBM850", 1},
	852:   {charmap.CodePage852, "IBM852", 1},
	855:   {charmap.CodePage855, "IBM855", 1},
	858:   {charmap.CodePage858, "IBM00858", 1},
	860:   {charmap.CodePage860, "IBM860", 1},
	862:   {charmap.CodePage862, "IBM862", 1},
	863:   {charmap.CodePage863, "IBM863", 1},
	865:   {charmap.CodePage865, "IBM865", 1},
	866:   {charmap.CodePage866, "IBM866", 1},
	874:   {charmap.Windows874, "windows-874", 1},
	932:   {japanese.ShiftJIS, "Shift_JIS", 2},
	936:   {simplifiedchinese.GBK, "GBK", 2},
	949:   {korean.EUCKR, "EUC-KR", 2},
	950:   {traditionalchinese.Big5, "Big5", 2},
	1250:  {charmap.Windows1250, "windows-1250", 1},
	1251:  {charmap.Windows1251, "windows-1251", 1},
	1252:  {charmap.Windows1252, "windows-1252", 1},
	1253:  {charmap.Windows1253, "windows-1253", 1},
	1254:  {charmap.Windows1254, "windows-1254", 1},
	1255:  {charmap.Windows1255, "windows-1255", 1},
	1256:  {charmap.Windows1256, "windows-1256", 1},
	1257:  {charmap.Windows1257, "windows-1257", 1},
	1258:  {charmap.Windows1258, "windows-1258", 1},
	10000: {charmap.Macintosh, "macintosh", 1},
	10007: {charmap.MacintoshCyrillic, "x-mac-cyrillic", 1},
	20866: {charmap.KOI8R, "KOI8-R", 1},
	21866: {charmap.KOI8U, "KOI8-U", 1},
	28591: {charmap.ISO8859_1, "ISO-8859-1", 1},
	28592: {charmap.ISO8859_2, "ISO-8859-2", 1},
	28593: {charmap.ISO8859_3, "ISO-8859-3", 1},
	28594: {charmap.ISO8859_4, "ISO-8859-4", 1},
	28595: {charmap.ISO8859_5, "ISO-8859-5", 1},
	28596: {charmap.ISO8859_6, "ISO-8859-6", 1},
	28597: {charmap.ISO8859_7, "ISO-8859-7", 1},
	28598: {charmap.ISO8859_8, "ISO-8859-8", 1},
	28599: {charmap.ISO8859_9, "ISO-8859-9", 1},
	28603: {charmap.ISO8859_13, "ISO-8859-13", 1},
	28605: {charmap.ISO8859_15, "ISO-8859-15", 1},
	51932: {japanese.EUCJP, "EUC-JP", 3},
	54936: {simplifiedchinese.GB18030, "GB18030", 4},
	65001: {unicode.UTF8, "UTF-8", 4},
}

// Encodings that keep shift state between characters or are not byte oriented.
var rejectedNames = map[string]bool{
	"ISO-2022-JP": true,
	"HZ-GB-2312":  true,
	"UTF-16":      true,
	"UTF-16BE":    true,
	"UTF-16LE":    true,
	"UTF-32":      true,
	"UTF-32BE":    true,
	"UTF-32LE":    true,
}

// New returns the code page with the given Windows id.
func New(id uint32, opts ...Option) (*CodePage, error) {
	entry, ok := codePages[id]
	if !ok {
		return nil, errors.Unsupported(errors.PhaseTranscode, "code page "+strconv.FormatUint(uint64(id), 10))
	}
	return newCodePage(id, entry, opts), nil
}

// ByName resolves a code page from a Windows id ("1252", "cp1252") or an IANA
// name ("windows-1252", "latin1", "shift_jis").
func ByName(name string, opts ...Option) (*CodePage, error) {
	s := strings.TrimSpace(name)
	if s == "" {
		return nil, errors.InvalidInput(errors.PhaseTranscode, "empty code page name")
	}
	digits := strings.TrimPrefix(strings.ToLower(s), "cp")
	if id, err := strconv.ParseUint(digits, 10, 32); err == nil {
		return New(uint32(id), opts...)
	}

	enc, err := ianaindex.IANA.Encoding(s)
	if err != nil {
		return nil, errors.New(errors.PhaseTranscode, errors.KindUnsupported).
			Cause(err).
			Detail("unknown code page %q", s).
			Build()
	}
	if enc == nil {
		return nil, errors.Unsupported(errors.PhaseTranscode, "code page "+s+" has no implementation")
	}
	canonical, err := ianaindex.IANA.Name(enc)
	if err != nil {
		canonical = s
	}
	if rejectedNames[strings.ToUpper(canonical)] {
		return nil, errors.New(errors.PhaseTranscode, errors.KindUnsupported).
			Encoding(canonical).
			Detail("not a stateless narrow encoding").
			Build()
	}

	for id, entry := range codePages {
		if entry.enc == enc {
			return newCodePage(id, entry, opts), nil
		}
	}
	maxCharSize := 4
	if _, ok := enc.(*charmap.Charmap); ok {
		maxCharSize = 1
	}
	return newCodePage(0, codePageEntry{enc: enc, name: canonical, maxCharSize: maxCharSize}, opts), nil
}

func newCodePage(id uint32, entry codePageEntry, opts []Option) *CodePage {
	cp := &CodePage{
		enc:         entry.enc,
		name:        entry.name,
		id:          id,
		maxCharSize: entry.maxCharSize,
		defaultChar: defaultChar,
		utf8:        entry.enc == unicode.UTF8,
		c1:          id == 874 || (id >= 1250 && id <= 1258),
	}
	if m, ok := entry.enc.(*charmap.Charmap); ok {
		cp.sbcs = m
	}
	for _, opt := range opts {
		opt(cp)
	}
	return cp
}

// Supported lists the code pages New accepts, ordered by id.
func Supported() []Info {
	infos := make([]Info, 0, len(codePages))
	for id, entry := range codePages {
		infos = append(infos, Info{
			ID:          id,
			Name:        entry.name,
			MaxCharSize: entry.maxCharSize,
			DefaultChar: defaultChar,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}
