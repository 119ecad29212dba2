//go:build !textconv_narrow

package charset

// BuildDefault is the encoding the Default alias resolves to in this build.
const BuildDefault = Wide
