package query

import "strings"

const upperhex = "0123456789ABCDEF"

// RequoteURL percent-encodes the bytes of a rendered URL that may not appear in a
// request line (spaces, quotes, non-ASCII) while leaving OData punctuation such as
// $, ', (, ), /, =, & and existing %XX escapes untouched.
func RequoteURL(raw string) string {
	var sb strings.Builder
	sb.Grow(len(raw) + 16)
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c == '%' && i+2 < len(raw) && isHex(raw[i+1]) && isHex(raw[i+2]):
			sb.WriteByte(c)
		case c != '%' && keepInURL(c):
			sb.WriteByte(c)
		default:
			sb.WriteByte('%')
			sb.WriteByte(upperhex[c>>4])
			sb.WriteByte(upperhex[c&15])
		}
	}
	return sb.String()
}

func keepInURL(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-._~!#$&'()*+,/:;=?@[]", c) >= 0
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}
