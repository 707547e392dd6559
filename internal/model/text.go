package model

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	inlineCodeRe = regexp.MustCompile("`[^`]+`")
	markupRe     = regexp.MustCompile(`[#*_\[\]()>|]`)
)

// SplitLines splits raw text into lines, accepting \n, \r\n and \r endings.
// A trailing line terminator does not produce an extra empty line.
func SplitLines(src []byte) []string {
	if len(src) == 0 {
		return nil
	}
	text := strings.ReplaceAll(string(src), "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Slugify converts heading text into its anchor slug: trimmed, lower-cased,
// everything except letters, digits, underscores, whitespace and hyphens
// removed, whitespace runs collapsed into a single hyphen.
func Slugify(text string) string {
	var kept strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(text)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || unicode.IsSpace(r) {
			kept.WriteRune(r)
		}
	}

	var slug strings.Builder
	inSpace := false
	for _, r := range kept.String() {
		if unicode.IsSpace(r) {
			if !inSpace {
				slug.WriteByte('-')
			}
			inSpace = true
			continue
		}
		inSpace = false
		slug.WriteRune(r)
	}
	return slug.String()
}

// CountWords counts prose words in a line, ignoring inline code spans and
// markup characters.
func CountWords(line string) int {
	line = inlineCodeRe.ReplaceAllString(line, "")
	line = markupRe.ReplaceAllString(line, " ")
	return len(strings.Fields(line))
}
