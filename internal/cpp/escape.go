package cpp

import (
	"fmt"
	"strings"
)

// QuoteString renders s as a double-quoted C++ string literal. Bytes outside
// printable ASCII are hex-escaped; a printable character after a hex escape
// is itself escaped so the hex sequence cannot swallow it.
func QuoteString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	prevHex := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			b.WriteString(`\"`)
			prevHex = false
		case '\\':
			b.WriteString(`\\`)
			prevHex = false
		case '\n':
			b.WriteString(`\n`)
			prevHex = false
		case '\t':
			b.WriteString(`\t`)
			prevHex = false
		case '\r':
			b.WriteString(`\r`)
			prevHex = false
		default:
			if c < 0x20 || c >= 0x7f {
				fmt.Fprintf(&b, `\x%02x`, c)
				prevHex = true
				continue
			}
			if prevHex && isHexDigit(c) {
				fmt.Fprintf(&b, `\x%02x`, c)
				prevHex = true
				continue
			}
			b.WriteByte(c)
			prevHex = false
		}
	}
	b.WriteByte('"')
	return b.String()
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
