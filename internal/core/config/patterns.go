// # internal/core/config/patterns.go
package config

import (
	"path"
	"strings"
)

// HasWildcard reports whether pattern contains glob metacharacters.
func HasWildcard(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// NormalizePattern cleans a source pattern. A bare directory name such as
// `target` or `vendor/` becomes `**/target/**`.
func NormalizePattern(pattern string) string {
	p := strings.TrimSpace(strings.ReplaceAll(pattern, "\\", "/"))
	if p == "" {
		return ""
	}
	if HasWildcard(p) {
		return p
	}
	if strings.HasSuffix(p, ".rs") {
		return path.Clean(p)
	}
	p = strings.Trim(path.Clean(p), "/")
	if p == "" || p == "." {
		return ""
	}
	return "**/" + p + "/**"
}
