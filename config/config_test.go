package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/wippyai/textconv/charset"
	"github.com/wippyai/textconv/convert"
	"github.com/wippyai/textconv/errors"
)

func TestDefault(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("Default().Validate(): %v", err)
	}
	if c.Encoding() != charset.BuildDefault {
		t.Errorf("Encoding() = %s, want %s", c.Encoding(), charset.BuildDefault)
	}
	cp, err := c.Transcoder()
	if err != nil {
		t.Fatalf("Transcoder(): %v", err)
	}
	if cp.Info().ID != 1252 {
		t.Errorf("code page = %d, want 1252", cp.Info().ID)
	}
}

func TestParse(t *testing.T) {
	c, err := Parse([]byte(`
default_encoding = "narrow"
code_page = "shift_jis"
default_char = "_"
max_scan = 64
max_alloc = 16

[log]
level = "debug"
format = "json"
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Encoding() != charset.Narrow {
		t.Errorf("Encoding() = %s", c.Encoding())
	}
	if c.MaxScan != 64 || c.MaxAlloc != 16 {
		t.Errorf("limits = %d %d", c.MaxScan, c.MaxAlloc)
	}
	cp, err := c.Transcoder()
	if err != nil {
		t.Fatalf("Transcoder(): %v", err)
	}
	if info := cp.Info(); info.ID != 932 || info.DefaultChar != '_' {
		t.Errorf("Info() = %+v", info)
	}

	conv, err := c.Converter()
	if err != nil {
		t.Fatalf("Converter(): %v", err)
	}
	if conv.MaxScan() != 64 {
		t.Errorf("MaxScan() = %d", conv.MaxScan())
	}
	if _, _, err := conv.NarrowToNarrow(make([]byte, 20), 20); !errors.IsKind(err, errors.KindAllocation) {
		t.Errorf("max_alloc not applied: %v", err)
	}
	out, err := conv.Narrow(convert.WideFromString("a\U0001F600"))
	if err != nil || string(out) != "a_\x00" {
		t.Errorf("Narrow = %q %v", out, err)
	}

	log, err := c.Logger()
	if err != nil {
		t.Fatalf("Logger(): %v", err)
	}
	_ = log.Sync()
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", `code_page = `},
		{"unknown key", `codepage = "1252"`},
		{"unknown section key", "[log]\ncolor = true"},
		{"bad encoding", `default_encoding = "ebcdic"`},
		{"bad code page", `code_page = "cp99999"`},
		{"stateful code page", `code_page = "ISO-2022-JP"`},
		{"long default char", `default_char = "ab"`},
		{"negative scan", `max_scan = -1`},
		{"negative alloc", `max_alloc = -5`},
		{"bad level", "[log]\nlevel = \"loud\""},
		{"bad format", "[log]\nformat = \"xml\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			var e *errors.Error
			if !asError(err, &e) || e.Phase != errors.PhaseConfig {
				t.Errorf("err = %v, want a config phase error", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "textconv.toml")
	if err := os.WriteFile(path, []byte("default_encoding = \"wide\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Encoding() != charset.Wide || c.CodePage != "1252" {
		t.Errorf("Load = %+v", c)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func asError(err error, target **errors.Error) bool {
	e, ok := err.(*errors.Error)
	if ok {
		*target = e
	}
	return ok
}
