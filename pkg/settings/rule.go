// ABOUTME: Cache-expiry rule value type
// ABOUTME: Expiry duration scoped by optional content type and path selectors

package settings

// CacheExpiryRule overrides cache expiry for content matching its selectors.
// An empty ContentTypeAlias or XPath leaves that axis unscoped.
type CacheExpiryRule struct {
	Expires          int    // Expiry duration in caller-defined units, > 0
	ContentTypeAlias string // Optional content-type scope
	XPath            string // Optional path scope
}

// NewCacheExpiryRule builds a rule with optional selectors.
func NewCacheExpiryRule(expires int, contentTypeAlias, xPath string) CacheExpiryRule {
	return CacheExpiryRule{
		Expires:          expires,
		ContentTypeAlias: contentTypeAlias,
		XPath:            xPath,
	}
}

// Equal reports whether r and other have identical fields.
func (r CacheExpiryRule) Equal(other CacheExpiryRule) bool {
	return r.Expires == other.Expires &&
		r.ContentTypeAlias == other.ContentTypeAlias &&
		r.XPath == other.XPath
}

// Valid reports whether the rule has a positive expiry, the only form the
// config file can hold.
func (r CacheExpiryRule) Valid() bool {
	return r.Expires > 0
}

// IndexRule returns the position of rule in rules, or -1.
func IndexRule(rules []CacheExpiryRule, rule CacheExpiryRule) int {
	for i, r := range rules {
		if r.Equal(rule) {
			return i
		}
	}
	return -1
}
