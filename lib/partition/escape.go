package partition

import (
	"strings"
)

// DefaultPartitionName replaces empty partition values in paths
const DefaultPartitionName = "__HIVE_DEFAULT_PARTITION__"

// escapeChars marks the bytes that are escaped in path names: control
// characters, characters with a meaning in paths or uris, and the characters
// Hive reserves for partition names
var escapeChars = func() (set [128]bool) {
	for c := 0x01; c <= 0x1F; c++ {
		set[c] = true
	}
	for _, c := range []byte{'"', '#', '%', '\'', '*', '/', ':', '=', '?', '\\', 0x7F, '{', '[', ']', '^'} {
		set[c] = true
	}
	return
}()

const upperHex = "0123456789ABCDEF"

func needsEscape(c byte) bool {
	return c < 0x80 && escapeChars[c]
}

// EscapePathName escapes a key or value for use as part of a partition path.
// Every reserved byte is replaced by %XX (upper case hex). Non-ASCII
// characters are kept as they are.
func EscapePathName(s string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if needsEscape(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s) + 2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if needsEscape(c) {
			sb.WriteByte('%')
			sb.WriteByte(upperHex[c>>4])
			sb.WriteByte(upperHex[c&0x0F])
		} else {
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// UnescapePathName reverses EscapePathName. Sequences that are not a valid
// %XX escape are kept unchanged.
func UnescapePathName(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '%' && i+2 < len(s) {
			if hi, ok := fromHex(s[i+1]); ok {
				if lo, ok := fromHex(s[i+2]); ok {
					sb.WriteByte(hi<<4 | lo)
					i += 2
					continue
				}
			}
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

func fromHex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
