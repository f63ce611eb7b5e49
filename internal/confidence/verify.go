package confidence

import (
	"net/url"
	"strings"

	"github.com/sells-group/account-intel/internal/model"
)

// URL verification outcomes.
const (
	verifyExactMatch  = 1.0
	verifyPathMatch   = 0.9
	verifyDomainMatch = 0.7
	// verifyNotFound is a penalty, not a rejection: search ran and the cited
	// URL did not appear in any retrieved source.
	verifyNotFound = 0.3
	// verifyNoSources applies when verification was structurally impossible
	// (no source records at all, e.g. search disabled). Deliberately higher
	// than the not-found penalty; do not unify the two.
	verifyNoSources = 0.6
)

// scoreVerification compares the claim's cited URL against the source
// records retrieved by the same phase.
func scoreVerification(citedURL string, sources []model.SourceRecord) float64 {
	if len(sources) == 0 {
		return verifyNoSources
	}
	if citedURL == "" {
		return verifyNotFound
	}

	cited := normalizeURL(citedURL)

	// Exact match first.
	for _, s := range sources {
		if normalizeURL(s.URL) == cited {
			return verifyExactMatch
		}
	}

	citedDomain, citedPath, ok := splitURL(cited)
	if !ok {
		return verifyNotFound
	}

	// Domain + path match (query parameters ignored).
	for _, s := range sources {
		d, p, sok := splitURL(normalizeURL(s.URL))
		if sok && d == citedDomain && p == citedPath {
			return verifyPathMatch
		}
	}

	// Domain-only match.
	for _, s := range sources {
		d, _, sok := splitURL(normalizeURL(s.URL))
		if sok && d == citedDomain {
			return verifyDomainMatch
		}
	}

	return verifyNotFound
}

func normalizeURL(raw string) string {
	return strings.TrimSpace(strings.ToLower(raw))
}

// splitURL returns (host, path-without-trailing-slash) or ok=false when the
// URL has no parseable host.
func splitURL(raw string) (domain, path string, ok bool) {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", "", false
	}
	return u.Host, strings.TrimRight(u.Path, "/"), true
}
