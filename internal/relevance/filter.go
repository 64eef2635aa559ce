// Package relevance decides whether a raw post is in-domain marketplace
// feedback or noise. The decision is an ordered list of rules evaluated
// top-down; the first rule that matches governs.
package relevance

import (
	"regexp"
	"strings"
)

// Sale and trade listing markers. These posts are inventory, not feedback.
var saleTradeMarkers = []string{
	"[h]", "[w]", "[fs]", "[ft]", "[wts]", "[wtb]", "[wtt]",
	"for sale", "selling my", "looking to sell", "paypal only",
	"prices include shipping", "shipping included", "obo",
	"timestamps", "pm me", "dm me",
}

// Bot and moderator boilerplate.
var botMarkers = []string{
	"i am a bot", "this action was performed automatically", "automoderator",
	"this is a reminder", "this post has been removed", "your post has been",
	"your submission has been", "please read the rules", "this thread is locked",
	"daily newbie thread", "weekly thread", "megathread", "this is an automated",
}

// Promotional listing markers (ads, not feedback).
var promoMarkers = []string{
	"ebay.com/itm", "#ad", "buy it now", "free shipping", "ships free",
	"just listed", "new listing", "bid now", "shop now", "order now",
	"use code", "promo code", "discount code", "coupon", "ending soon",
}

// Off-domain category markers. Entries with surrounding spaces are spacing
// guards against partial-word collisions ("car" inside "card").
var offDomainMarkers = []string{
	"shoes", "sneakers", "louboutin", "jordan shoe", "nike shoe", "adidas", "yeezy",
	"clothing", "clothes", "shirt", "pants", "dress", "jacket", "jeans",
	"thrift", "goodwill", "salvation army", "mystery box",
	"laptop", "computer", "iphone", "electronics", "ram stick", "cpu",
	"furniture", "appliance", " car ", "vehicle", "motorcycle",
	"woodworking", "hand tool", "power tool", "workbench", "dovetail",
	"plywood", "lumber", "sawdust", "chisel", "jointer",
	"playstation", "xbox", "nintendo", "video game",
}

// Collection-flex and showcase phrases. One is tolerated; two or more marks
// the post as hobby chatter rather than feedback.
var flexNoisePhrases = []string{
	"just pulled", "look what i found", "mail day", "new pickup", "got this today",
	"rate my collection", "how did i do", "my grail", "finally got",
	"check out my", "showing off", "proud of", "lucky pull",
	"arrived safely", "just arrived", "mail call", "haul",
	"added to collection", "newest addition", "beyond happy", "so happy",
	"beautiful card", "stunning", "gorgeous", "amazing pull", "fire pull",
	"hit of the day", "hit of the week", "biggest hit", "insane hit",
	"pc addition", "personal collection", "new pc", "grail acquired",
}

// painRe is the broad pain-point indicator set: complaints, confusion, and
// requests. A post with no pain indicator carries no actionable signal.
var painRe = regexp.MustCompile(`(?i)\b(problem|issue|broken|damaged|lost|missing|wrong|frustrated|annoying|terrible|horrible|worst|awful|can.?t|won.?t|doesn.?t work|not working|failed|error|help me|question|how do i|how can i|why is|why does|anyone else|is this normal|should i|what should|complaint|disappointed|upset|angry|ridiculous|waiting|still waiting|been waiting|no response|no update|overcharged|extra fee|hidden fee|too expensive|slow|delay|delayed|late|took forever|taking forever|scam|scammed|fake|counterfeit|not authentic|refund|return|money back|chargeback|dispute|unpaid|didn.?t pay|won.?t pay|non.?paying|case opened)\b`)

// Home forums for the primary marketplace: pain there is on-topic by default.
var homeForums = map[string]bool{
	"ebay":             true,
	"ebayselleradvice": true,
	"flipping":         true,
}

// Partner services whose mention alone is on-topic evidence.
var partnerMarkers = []string{"comc", "check out my cards", "checkoutmycards"}

// Result carries the relevance decision and the name of the rule that made it.
type Result struct {
	Relevant bool
	Rule     string
}

// Check evaluates the ordered rule list over the combined title+body text and
// an optional origin label (subreddit or forum section). It is a total
// function: every input yields a decision.
func Check(text, origin string) Result {
	lower := strings.ToLower(text)
	originLower := strings.ToLower(origin)

	if containsAny(lower, saleTradeMarkers) {
		return Result{false, "sale_listing"}
	}
	if containsAny(lower, botMarkers) {
		return Result{false, "bot_message"}
	}
	if containsAny(lower, promoMarkers) {
		return Result{false, "promotional"}
	}
	if containsAny(lower, offDomainMarkers) {
		return Result{false, "off_domain"}
	}
	if hasVerticalCorruption(text) {
		return Result{false, "vertical_text"}
	}
	if countAny(lower, flexNoisePhrases) >= 2 {
		return Result{false, "flex_noise"}
	}
	if !painRe.MatchString(text) {
		return Result{false, "no_pain_signal"}
	}
	if homeForums[originLower] {
		return Result{true, "home_forum"}
	}
	if strings.Contains(lower, "ebay") {
		return Result{true, "marketplace_mention"}
	}
	if strings.Contains(lower, "psa vault") ||
		(strings.Contains(lower, "psa") && strings.Contains(lower, "vault")) {
		return Result{true, "partner_service"}
	}
	if containsAny(lower, partnerMarkers) {
		return Result{true, "partner_service"}
	}
	return Result{false, "no_marketplace_evidence"}
}

// IsRelevant is the boolean form of Check.
func IsRelevant(text, origin string) bool {
	return Check(text, origin).Relevant
}

// hasVerticalCorruption reports unrecoverable scrape noise: five or more
// single-character lines among the first thirty lines.
func hasVerticalCorruption(text string) bool {
	lines := strings.Split(text, "\n")
	if len(lines) > 30 {
		lines = lines[:30]
	}
	count := 0
	for _, line := range lines {
		if len(strings.TrimSpace(line)) == 1 {
			count++
			if count >= 5 {
				return true
			}
		}
	}
	return false
}

func containsAny(text string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

func countAny(text string, markers []string) int {
	n := 0
	for _, m := range markers {
		if strings.Contains(text, m) {
			n++
		}
	}
	return n
}
