// Package confidence scores the trustworthiness of extracted claims against
// the source records retrieved by their originating phase. All functions are
// pure and deterministic: identical inputs always produce identical scores.
package confidence

import (
	"net/url"
	"strings"
)

// Fixed credibility tier scores. An unrecognized source gets the neutral
// default rather than a penalty.
const (
	credOfficialFiling = 1.0
	credTranscript     = 0.9
	credMajorOutlet    = 0.8
	credTradePress     = 0.6
	credBlogSocial     = 0.4
	credUnknown        = 0.5
)

var (
	tier1Keywords = []string{"investor relations", "ir.", "investors.", "sec filing", "10-k", "10-q", "8-k", "proxy statement"}
	tier1Domains  = []string{"sec.gov", "ir.", "investors."}

	tier2Keywords = []string{"earnings call", "earnings transcript", "annual report", "quarterly report", "press release"}
	tier2Domains  = []string{"seekingalpha.com", "fool.com"}

	tier3Keywords = []string{"interview", "conference", "keynote", "summit"}
	tier3Domains  = []string{"wsj.com", "ft.com", "bloomberg.com", "reuters.com", "cnbc.com"}

	tier4Domains = []string{"techcrunch.com", "theverge.com", "wired.com", "forbes.com", "businessinsider.com"}

	tier5Keywords = []string{"blog", "twitter", "linkedin post", "facebook"}
	tier5Domains  = []string{"medium.com", "blog.", "twitter.com", "x.com", "linkedin.com", "facebook.com"}
)

// scoreCredibility classifies the claim's source description and cited URL
// into one of five credibility tiers. Malformed URLs are treated as absent.
func scoreCredibility(source, citedURL string) float64 {
	sourceLower := strings.ToLower(source)
	domain := domainOf(citedURL)

	switch {
	case matchesAny(sourceLower, tier1Keywords) || domainMatches(domain, tier1Domains):
		return credOfficialFiling
	case matchesAny(sourceLower, tier2Keywords) || domainMatches(domain, tier2Domains):
		return credTranscript
	case matchesAny(sourceLower, tier3Keywords) || domainMatches(domain, tier3Domains):
		return credMajorOutlet
	case domainMatches(domain, tier4Domains):
		return credTradePress
	case matchesAny(sourceLower, tier5Keywords) || domainMatches(domain, tier5Domains):
		return credBlogSocial
	default:
		return credUnknown
	}
}

// domainOf extracts the lowercase host from a URL, or "" if unparseable.
func domainOf(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.ToLower(u.Host)
}

func matchesAny(s string, keywords []string) bool {
	if s == "" {
		return false
	}
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// domainMatches reports whether the domain starts with or contains one of
// the patterns. Prefix patterns like "ir." match subdomain conventions.
func domainMatches(domain string, patterns []string) bool {
	if domain == "" {
		return false
	}
	for _, p := range patterns {
		if strings.HasPrefix(domain, p) || strings.Contains(domain, p) {
			return true
		}
	}
	return false
}
