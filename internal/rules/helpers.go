package rules

import (
	"regexp"
	"strings"

	"github.com/scan-io-git/qgate/internal/config"
)

// checked reports whether a named region is subject to documentation and
// annotation rules: public names and always-checked special forms.
func checked(name string, naming config.Naming) bool {
	for _, special := range naming.AlwaysCheck {
		if name == special {
			return true
		}
	}
	return !strings.HasPrefix(name, naming.PrivatePrefix)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// wordsPattern builds a case-insensitive alternation of literal words.
func wordsPattern(words []string, prefix, suffix string) *regexp.Regexp {
	quoted := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			quoted = append(quoted, regexp.QuoteMeta(w))
		}
	}
	if len(quoted) == 0 {
		return nil
	}
	return regexp.MustCompile(`(?i)` + prefix + `(` + strings.Join(quoted, "|") + `)` + suffix)
}

// lineAt returns the raw text of a 1-based line, or "".
func lineAt(lines []string, n int) string {
	if n < 1 || n > len(lines) {
		return ""
	}
	return lines[n-1]
}
