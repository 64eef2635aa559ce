package signals

import (
	"reflect"
	"testing"
)

func TestTagPrimaryLadder(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		primary string
	}{
		{
			name:    "trust outranks vault",
			text:    "PSA vault isn't trustworthy anymore, items stuck for months",
			primary: SubtagTrust,
		},
		{
			name:    "churn outranks trust",
			text:    "Done with ebay, too many scam listings, switched to whatnot for my graded cards",
			primary: SubtagChurn,
		},
		{
			name:    "grading turnaround",
			text:    "PSA turnaround is at 3 months now for my graded submission",
			primary: SubtagGrading,
		},
		{
			name:    "payments",
			text:    "checkout keeps failing, payment error on my graded card purchase",
			primary: SubtagPayments,
		},
		{
			name:    "unpaid item is payments",
			text:    "another non-paying buyer on my slab auction, unpaid item strike",
			primary: SubtagPayments,
		},
		{
			name:    "fees",
			text:    "final value fee increase is ridiculous for trading card sellers",
			primary: SubtagFees,
		},
		{
			name:    "vault alone",
			text:    "how does the ebay vault auction work for graded cards",
			primary: SubtagVault,
		},
		{
			name:    "off-domain stays general",
			text:    "shipping delay on my furniture, package lost twice",
			primary: SubtagGeneral,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tag("", tt.text)
			if got.Primary != tt.primary {
				t.Errorf("Tag().Primary = %q, want %q (all=%v)", got.Primary, tt.primary, got.All)
			}
			if !contains(got.All, got.Primary) {
				t.Errorf("primary %q missing from all subtags %v", got.Primary, got.All)
			}
		})
	}
}

func TestTagVaultDelayCombination(t *testing.T) {
	got := Tag("", "my card has been stuck in the psa vault for months")
	if len(got.All) == 0 || got.All[0] != SubtagVaultDelay {
		t.Fatalf("All = %v, want %q first", got.All, SubtagVaultDelay)
	}
	if !got.Flags.Vault {
		t.Error("Vault flag not set")
	}
}

func TestTagPaymentNoiseExclusion(t *testing.T) {
	got := Tag("", "got scammed at checkout, opened a chargeback on my graded card")
	if got.Flags.PaymentIssue {
		t.Error("PaymentIssue set despite scam/chargeback noise")
	}
	if !got.Flags.TrustIssue {
		t.Error("TrustIssue not set for scam mention")
	}
}

func TestTagPriceGuideGate(t *testing.T) {
	withContext := Tag("", "the ebay price guide comps are way off for my pokemon cards")
	if !withContext.Flags.PriceGuide {
		t.Error("PriceGuide flag not set with explicit product context")
	}
	generic := Tag("", "what's the price guide say about this riftbound card on ebay")
	if generic.Flags.PriceGuide {
		t.Error("PriceGuide flag set despite exclusion phrase")
	}
}

func TestTagNoSignals(t *testing.T) {
	got := Tag("", "had a sandwich for lunch today")
	want := Result{
		Primary: SubtagGeneral,
		All:     []string{SubtagGeneral},
	}
	if got.Primary != want.Primary || !reflect.DeepEqual(got.All, want.All) {
		t.Errorf("Tag() = %+v, want primary General with [General]", got)
	}
	if got.InDomain {
		t.Error("InDomain = true for hobby-free text")
	}
}

func TestTagFallbackLadder(t *testing.T) {
	tests := []struct {
		text    string
		primary string
	}{
		{"sent a big box to comc for consignment, waiting on processing", "COMC"},
		{"thinking about grading this raw pikachu, worth it?", "Grading"},
		{"the ebay mobile app watchlist keeps logging me out", "App & UX"},
		{"ebay customer service gave no response after three calls", "Customer Service"},
	}
	for _, tt := range tests {
		got := Tag("", tt.text)
		if got.Primary != tt.primary {
			t.Errorf("Tag(%q).Primary = %q, want %q", tt.text, got.Primary, tt.primary)
		}
	}
}
