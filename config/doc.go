// Package config loads textconv settings from TOML.
//
//	default_encoding = "wide"   # narrow | wide | "" for the build default
//	code_page = "1252"          # Windows id or IANA name
//	default_char = "?"
//	max_scan = 1048576          # terminator scan limit in units
//	max_alloc = 268435456       # largest unbounded result in units
//
//	[log]
//	level = "info"
//	format = "console"          # console | json
//
// The empty default_encoding resolves to charset.BuildDefault here, so the
// Default alias never reaches the conversion packages.
package config
