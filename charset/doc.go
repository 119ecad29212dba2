// Package charset models the two string encodings handled by textconv and the length
// arithmetic shared by every conversion.
//
// # Encoding Tags
//
//	Narrow   8-bit units, interpreted through a code page
//	Wide     16-bit UTF-16 units
//	Default  alias for the build default; must be resolved before use
//
// BuildDefault is Wide, or Narrow when built with the textconv_narrow tag.
// Resolve the Default alias once at the outermost boundary (configuration or a host
// ABI call) and pass concrete tags inward:
//
//	enc := charset.Default.Resolve(cfgDefault)
//
// # Lengths
//
// A source length is either an explicit unit count or Terminated, meaning the
// length is found by scanning for the first zero unit. Scans never read past the
// slice and never look at more than maxScan units; a slice end found within the
// limit acts as the terminator.
//
// A destination capacity includes the terminator, so a bounded conversion writes at
// most capacity-1 content units. An allocated destination holds exactly n+1 units.
package charset
