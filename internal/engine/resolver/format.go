// # internal/engine/resolver/format.go
package resolver

import (
	"strings"

	"relight/internal/engine/syntax"
)

// formatMacros take a format string whose `{name}` placeholders capture
// variables from the surrounding scope.
var formatMacros = map[string]bool{
	"format":       true,
	"format_args":  true,
	"print":        true,
	"println":      true,
	"eprint":       true,
	"eprintln":     true,
	"write":        true,
	"writeln":      true,
	"panic":        true,
	"assert":       true,
	"debug_assert": true,
	"unreachable":  true,
	"todo":         true,
}

// placeholder is one `{...}` inside a format string.
type placeholder struct {
	full syntax.TextRange
	arg  syntax.TextRange
	name string
}

// named reports a placeholder that captures a variable, as opposed to an
// implicit `{}` or explicit positional `{0}` one.
func (p placeholder) named() bool {
	if p.name == "" {
		return false
	}
	c := p.name[0]
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= 0x80
}

// placeholders scans the text of a string literal token starting at
// offset base. Doubled braces are escapes.
func placeholders(text string, base int) []placeholder {
	open := strings.IndexByte(text, '"')
	end := strings.LastIndexByte(text, '"')
	if open < 0 || end <= open {
		return nil
	}
	var out []placeholder
	for i := open + 1; i < end; i++ {
		switch text[i] {
		case '}':
			if i+1 < end && text[i+1] == '}' {
				i++
			}
		case '{':
			if i+1 < end && text[i+1] == '{' {
				i++
				continue
			}
			closing := strings.IndexByte(text[i+1:end], '}')
			if closing < 0 {
				return out
			}
			inner := text[i+1 : i+1+closing]
			arg := inner
			if colon := strings.IndexByte(inner, ':'); colon >= 0 {
				arg = inner[:colon]
			}
			arg = strings.TrimRight(arg, " ")
			start := base + i + 1
			out = append(out, placeholder{
				full: syntax.NewRange(base+i, base+i+closing+2),
				arg:  syntax.NewRange(start, start+len(arg)),
				name: arg,
			})
			i += closing + 1
		}
	}
	return out
}
