// Package host exposes string conversion to WebAssembly guests as a wazero
// host module named "textconv".
//
// Exported functions (all parameters and results are i32):
//
//	convert_inbuf(src, src_type, src_len, dst, dst_type, dst_cap) -> written
//	convert_alloc(src, src_type, src_len, dst_type, out_len_ptr)  -> ptr
//	measure(src, src_type, src_len, dst_type)                     -> units
//
// Encoding tags are 0 (the host's default), 1 (narrow) and 2 (wide). A src_len
// of -1 scans for the terminator. Wide strings are little-endian UTF-16.
//
// convert_inbuf and measure return a negative code on failure:
//
//	-1 invalid input   -2 malformed     -3 allocation
//	-4 out of bounds   -5 unterminated  -6 unsupported
//
// convert_alloc allocates (n+1) units through the calling module's exported
// cabi_realloc and returns 0 on failure. The length is written to out_len_ptr
// only on success, and only when out_len_ptr is not 0.
//
// Usage:
//
//	h := host.New(memconv.New(conv), charset.Wide)
//	if _, err := h.Instantiate(ctx, runtime); err != nil {
//	    return err
//	}
package host
