// Package normalize cleans raw post text: unicode canonicalization, invisible
// character removal, vertical-text repair, and whitespace normalization.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	// Zero-width spaces/joiners, BOM, and soft hyphen left behind by scrapers.
	invisibleRe = regexp.MustCompile("[\u200B\u200C\u200D\uFEFF\u00AD]")

	spaceRunRe = regexp.MustCompile(`[ \t]+`)
	blankRunRe = regexp.MustCompile(`\n{3,}`)
)

// Normalize cleans text without semantic loss. It is total (always returns a
// string, possibly empty) and idempotent: normalizing already-normalized text
// returns the same text.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	t := norm.NFKC.String(text)
	t = invisibleRe.ReplaceAllString(t, "")
	t = repairVerticalText(t)
	t = collapseDuplicateWords(t)
	t = spaceRunRe.ReplaceAllString(t, " ")
	t = blankRunRe.ReplaceAllString(t, "\n\n")

	lines := strings.Split(t, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// repairVerticalText rejoins runs of three or more single alphanumeric
// characters each isolated on its own line, a scraping artifact where text is
// rendered one character per line. Shorter runs are left untouched.
func repairVerticalText(text string) string {
	lines := strings.Split(text, "\n")
	var out []string
	var run []string

	flush := func() {
		if len(run) >= 3 {
			out = append(out, strings.Join(run, ""))
		} else {
			out = append(out, run...)
		}
		run = run[:0]
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if isSingleAlnum(trimmed) {
			run = append(run, trimmed)
			continue
		}
		flush()
		out = append(out, line)
	}
	flush()

	return strings.Join(out, "\n")
}

func isSingleAlnum(s string) bool {
	runes := []rune(s)
	if len(runes) != 1 {
		return false
	}
	return unicode.IsLetter(runes[0]) || unicode.IsDigit(runes[0])
}

// collapseDuplicateWords removes a word that immediately repeats itself on the
// same line ("insteadof380 insteadof380" -> "insteadof380"), another artifact
// of vertical-text rendering. Runs of any length collapse to one occurrence.
func collapseDuplicateWords(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		words := strings.Fields(line)
		if len(words) < 2 {
			continue
		}
		out := words[:1]
		for _, w := range words[1:] {
			if w != out[len(out)-1] {
				out = append(out, w)
			}
		}
		if len(out) != len(words) {
			lines[i] = strings.Join(out, " ")
		}
	}
	return strings.Join(lines, "\n")
}
