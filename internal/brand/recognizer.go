// Package brand identifies which marketplace an insight talks about.
// Recognition runs in two passes: an exact alias catalog lookup, then a
// fuzzy fallback that tolerates common misspellings.
package brand

import "strings"

// Unknown is returned when no catalog entry matches.
const Unknown = "Unknown"

// entry maps a canonical brand name to its lowercase aliases. Catalog order
// matters: earlier brands win when several aliases appear in one text.
type entry struct {
	Name    string
	Aliases []string
}

var catalog = []entry{
	{"eBay", []string{"ebay", "e-bay", "e bay"}},
	{"Fanatics Collect", []string{"fanatics collect", "fanatics live", "fanatics"}},
	{"WhatNot", []string{"whatnot", "what not"}},
	{"Alt", []string{"alt marketplace", "alt.xyz"}},
	{"Loupe", []string{"loupe"}},
	{"Goldin", []string{"goldin", "goldin auctions"}},
	{"PSA", []string{"psa vault", "psa"}},
	{"COMC", []string{"comc", "checkoutmycards", "check out my cards"}},
	{"Heritage", []string{"heritage auctions", "heritage"}},
	{"TCGplayer", []string{"tcgplayer", "tcg player"}},
}

// fuzzyThreshold is the minimum similarity ratio for the fuzzy fallback.
// At 0.88 a single slip in a longer name ("tcgplayerr") still resolves,
// while short names must match exactly.
const fuzzyThreshold = 0.88

// Recognize returns the canonical brand name mentioned in text, or Unknown.
// The exact pass scans the catalog in order. The fuzzy pass compares the
// whole lowered input against each alias, so it only resolves inputs that
// are themselves little more than a misspelled brand name; any surrounding
// sentence dilutes the ratio below the cutoff. That imprecision is a known
// property of this recognizer and is kept as-is.
func Recognize(text string) string {
	lower := strings.ToLower(text)

	for _, e := range catalog {
		for _, alias := range e.Aliases {
			if containsWord(lower, alias) {
				return e.Name
			}
		}
	}

	whole := strings.Join(strings.Fields(lower), " ")
	for _, e := range catalog {
		for _, alias := range e.Aliases {
			if similarityRatio(whole, alias) >= fuzzyThreshold {
				return e.Name
			}
		}
	}

	return Unknown
}

// containsWord reports whether needle occurs in haystack on word boundaries.
// Multi-word aliases use plain substring search since their internal space
// already anchors them.
func containsWord(haystack, needle string) bool {
	idx := 0
	for {
		i := strings.Index(haystack[idx:], needle)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(needle)
		leftOK := start == 0 || !isWordChar(haystack[start-1])
		rightOK := end == len(haystack) || !isWordChar(haystack[end])
		if leftOK && rightOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9'
}
