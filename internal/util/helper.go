package util

import "bytes"

// TrimNUL converts a fixed-width field to a string, dropping trailing NUL
// padding. HSE packs names and timestamps as NUL-padded byte fields.
func TrimNUL(data []byte) string {
	if i := bytes.IndexByte(data, 0); i >= 0 {
		data = data[:i]
	}

	return string(data)
}

// PadRight returns s as a byte slice zero-padded to width bytes.
// The caller must ensure len(s) <= width.
func PadRight(s string, width int) []byte {
	buf := make([]byte, width)
	copy(buf, s)

	return buf
}
