package dbgeng

import "bytes"

// The engine interfaces bound here are the ANSI variants; strings cross the
// boundary as NUL terminated byte buffers.

// cString converts s into a NUL terminated buffer. Interior NUL bytes
// cannot be represented and produce an ArgumentError naming arg.
func cString(arg, s string) ([]byte, error) {
	if bytes.IndexByte([]byte(s), 0) >= 0 {
		return nil, &ArgumentError{Arg: arg, Reason: "string contains a NUL byte"}
	}
	buf := make([]byte, len(s)+1)
	copy(buf, s)
	return buf, nil
}

// cStringToGo decodes a NUL terminated buffer, stopping at the first NUL.
func cStringToGo(buf []byte) string {
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		buf = buf[:i]
	}
	return string(buf)
}
