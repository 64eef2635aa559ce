package brand

import "testing"

func TestRecognize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"exact ebay", "my ebay order never shipped", "eBay"},
		{"case insensitive", "eBay fees keep going up", "eBay"},
		{"hyphenated alias", "bought it on e-bay last week", "eBay"},
		{"whatnot", "whatnot live breaks are great", "WhatNot"},
		{"split alias", "saw it on what not yesterday", "WhatNot"},
		{"psa vault", "card stuck in the psa vault for months", "PSA"},
		{"catalog order on tie", "moved from ebay to whatnot", "eBay"},
		{"fanatics collect before fanatics", "fanatics collect app is slow", "Fanatics Collect"},
		{"comc", "sent my cards to comc for consignment", "COMC"},
		{"fuzzy near-bare mention", "tcgplayerr", "TCGplayer"},
		{"fuzzy tolerates extra whitespace", "  tcg  player  ", "TCGplayer"},
		{"fuzzy diluted by sentence", "i sold a card on tcgplayerr last week", Unknown},
		{"fuzzy long name in sentence stays unknown", "tcgplayerr keeps rejecting my listing", Unknown},
		{"short typo stays unknown", "ebey is down again", Unknown},
		{"word boundary", "scalper prices are insane", Unknown},
		{"no brand", "my order never arrived and support ignores me", Unknown},
		{"empty", "", Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Recognize(tt.text); got != tt.want {
				t.Errorf("Recognize(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"ebay", "ebay", 0},
		{"ebay", "eaby", 1}, // transposition counts once
		{"ebay", "", 4},
		{"kitten", "sitting", 3},
		{"goldin", "golden", 1},
	}
	for _, tt := range tests {
		if got := levenshteinDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSimilarityRatio(t *testing.T) {
	if got := similarityRatio("ebay", "ebay"); got != 1.0 {
		t.Errorf("identical strings ratio = %v, want 1.0", got)
	}
	if got := similarityRatio("", ""); got != 1.0 {
		t.Errorf("empty strings ratio = %v, want 1.0", got)
	}
	if got := similarityRatio("tcgplayer", "tcgplayerr"); got < fuzzyThreshold {
		t.Errorf("one extra char on long name ratio = %v, want >= %v", got, fuzzyThreshold)
	}
}
