package charset

import (
	"strings"

	"github.com/wippyai/textconv/errors"
)

// Encoding identifies the unit width of a string.
type Encoding uint8

const (
	Narrow  Encoding = 1 // 8-bit code page units
	Wide    Encoding = 2 // 16-bit UTF-16 units
	Default Encoding = 3 // alias for BuildDefault or a configured default
)

func (e Encoding) String() string {
	switch e {
	case Narrow:
		return "narrow"
	case Wide:
		return "wide"
	case Default:
		return "default"
	}
	return "invalid"
}

// Valid reports whether e is a concrete tag (Narrow or Wide).
func (e Encoding) Valid() bool {
	return e == Narrow || e == Wide
}

// UnitSize returns the size of one unit in bytes, or 0 for a non-concrete tag.
func (e Encoding) UnitSize() int {
	switch e {
	case Narrow:
		return 1
	case Wide:
		return 2
	}
	return 0
}

// Resolve maps the Default alias to def. If def is not concrete either,
// BuildDefault is used. Concrete and unknown tags are returned unchanged.
func (e Encoding) Resolve(def Encoding) Encoding {
	if e != Default {
		return e
	}
	if def.Valid() {
		return def
	}
	return BuildDefault
}

// Parse reads an encoding name. Empty and "default" yield the Default alias.
func Parse(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default", "t":
		return Default, nil
	case "narrow", "a", "ansi", "mbcs":
		return Narrow, nil
	case "wide", "w", "unicode", "utf-16", "utf16":
		return Wide, nil
	}
	return 0, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
		Value(s).
		Detail("unknown encoding %q", s).
		Build()
}

// Check verifies both tags are concrete. It is called before any dispatch.
func Check(from, to Encoding) error {
	if !from.Valid() {
		return errors.New(errors.PhaseConvert, errors.KindInvalidInput).
			Value(from).
			Detail("source encoding %s is not resolved", from).
			Build()
	}
	if !to.Valid() {
		return errors.New(errors.PhaseConvert, errors.KindInvalidInput).
			Value(to).
			Detail("destination encoding %s is not resolved", to).
			Build()
	}
	return nil
}
