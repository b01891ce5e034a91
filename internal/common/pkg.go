package common

import "strings"

// ShortQualified shortens every package path inside a qualified type expression
// to its alias, e.g. "Box[example.com/shop/model.Item]" -> "Box[model.Item]".
func ShortQualified(expr string) string {
	var b strings.Builder

	b.Grow(len(expr))

	start := 0
	for i := 0; i < len(expr); i++ {
		switch expr[i] {
		case '[', ']', ',', ' ', '*':
			b.WriteString(shortenToken(expr[start:i]))
			b.WriteByte(expr[i])
			start = i + 1
		}
	}

	b.WriteString(shortenToken(expr[start:]))

	return b.String()
}

func shortenToken(tok string) string {
	slash := strings.LastIndexByte(tok, '/')
	if slash < 0 {
		return tok
	}

	return tok[slash+1:]
}
