package power

import "strings"

// trimResponse keeps what the firmware answered before the NUL padding
// acpi_call appends to its buffer.
func trimResponse(buf []byte) string {
	s := strings.TrimSpace(string(buf))
	if i := strings.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
