// Package risk flags red-flag signals in decoded facts and web evidence.
package risk

import (
	"net/url"
	"sort"
	"strings"

	"github.com/vinscope/vinscope/pkg/decode"
	"github.com/vinscope/vinscope/pkg/search"
)

// LabelMultipleAuctions is added when the identifier shows up on two or
// more auction sites, a strong signal of prior salvage history.
const LabelMultipleAuctions = "multiple_auctions"

// Matching is substring-based rather than word-boundary based: recall is
// preferred over precision here, so "fire" also matches "fire-rated".
var keywords = []string{
	"salvage",
	"totaled",
	"total loss",
	"accident",
	"crash",
	"flood",
	"hail",
	"fire",
	"theft",
	"stolen",
	"copart",
	"iaai",
	"manheim",
	"odometer rollback",
	"mileage rollback",
	"write-off",
	"damaged",
	"repairable",
}

// auctionHosts match against the hit link host, not the page text.
var auctionHosts = []string{
	"copart.com",
	"iaai.com",
	"manheim.com",
	"bidfax.info",
	"poctra.com",
	"bid.cars",
	"autoastat.com",
	"stat.vin",
}

// Evaluate scans the textual serialization of hits and facts for risk
// keywords and counts auction-site hits. The result is a deduplicated,
// sorted label set; empty means nothing was flagged. Deterministic, no I/O.
func Evaluate(facts decode.Facts, hits []search.Hit) []string {
	blob := strings.ToLower(serialize(facts, hits))

	found := make(map[string]bool)
	for _, keyword := range keywords {
		if strings.Contains(blob, keyword) {
			found[keyword] = true
		}
	}

	auctionCount := 0
	for _, hit := range hits {
		if isAuctionLink(hit.Link) {
			auctionCount++
		}
	}
	if auctionCount >= 2 {
		found[LabelMultipleAuctions] = true
	}

	labels := make([]string, 0, len(found))
	for label := range found {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

func serialize(facts decode.Facts, hits []search.Hit) string {
	var b strings.Builder
	for _, hit := range hits {
		b.WriteString(hit.Title)
		b.WriteByte('\n')
		b.WriteString(hit.Link)
		b.WriteByte('\n')
		b.WriteString(hit.Snippet)
		b.WriteByte('\n')
	}
	for name, value := range facts.Fields() {
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteByte('\n')
	}
	return b.String()
}

func isAuctionLink(link string) bool {
	parsed, err := url.Parse(link)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	for _, auction := range auctionHosts {
		if host == auction || strings.HasSuffix(host, "."+auction) {
			return true
		}
	}
	return false
}
