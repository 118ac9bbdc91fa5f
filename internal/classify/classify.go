// Package classify decides whether an announcement denotes a listing
// event. Case-insensitive substring heuristics over a fixed two-locale
// vocabulary; tuned for recall, so false positives are expected.
package classify

import "strings"

var listingPhrases = []string{
	"will be available on binance alpha",
	"new listing",
	"will list",
	"launchpool",
	"launchpad",
	"listing",
	// Korean: listing notice, listing, trading start, deposit
	"상장 안내",
	"상장",
	"거래 개시",
	"입금",
}

var noisePhrases = []string{
	"promotion",
	"fee",
	"update",
	"amendment",
	"contest",
	"campaign",
	// Korean: event, fee, promotion
	"이벤트",
	"수수료",
	"프로모션",
}

// IsListing reports whether text mentions a listing event.
func IsListing(text string) bool {
	return containsAny(text, listingPhrases)
}

// IsNoise reports whether text matches administrative or promotional
// vocabulary (fee schedules, contests, delisting amendments and the like).
func IsNoise(text string) bool {
	return containsAny(text, noisePhrases)
}

// Qualifies applies the listing vocabulary to title and brief. A noisy
// title rejects the announcement even when a listing phrase matches too.
func Qualifies(title, brief string) bool {
	if IsNoise(title) {
		return false
	}
	return IsListing(title) || IsListing(brief)
}

func containsAny(text string, phrases []string) bool {
	low := strings.ToLower(text)
	for _, phrase := range phrases {
		if strings.Contains(low, phrase) {
			return true
		}
	}
	return false
}
