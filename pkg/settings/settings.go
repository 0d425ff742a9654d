// ABOUTME: Flattened, typed view of the full-text search configuration
// ABOUTME: Defaults and set-like list helpers

package settings

import "slices"

// Default values applied before the document is read.
const (
	DefaultTitleField         = "nodeName"
	DefaultIndexingActiveKey  = "FullTextIndexingActive"
	DefaultFullTextContent    = "FullTextContent"
	DefaultFullTextPath       = "FullTextPath"
	DefaultFullTextLastCached = "FullTextLastCached"
)

// Settings is derived state, recomputed from the document on every load.
type Settings struct {
	Enabled           bool
	DefaultTitleField string
	IndexingActiveKey string

	DisallowedContentTypeAliases []string
	DisallowedPropertyAliases    []string
	XPathsToRemove               []string

	FullTextContentField    string
	FullTextPathField       string
	FullTextLastCachedField string

	CacheExpiryRules []CacheExpiryRule
}

// Defaults returns the built-in settings with every list empty.
func Defaults() Settings {
	return Settings{
		Enabled:                      true,
		DefaultTitleField:            DefaultTitleField,
		IndexingActiveKey:            DefaultIndexingActiveKey,
		DisallowedContentTypeAliases: []string{},
		DisallowedPropertyAliases:    []string{},
		XPathsToRemove:               []string{},
		FullTextContentField:         DefaultFullTextContent,
		FullTextPathField:            DefaultFullTextPath,
		FullTextLastCachedField:      DefaultFullTextLastCached,
		CacheExpiryRules:             []CacheExpiryRule{},
	}
}

// Clone returns a deep copy of s.
func (s Settings) Clone() Settings {
	out := s
	out.DisallowedContentTypeAliases = slices.Clone(s.DisallowedContentTypeAliases)
	out.DisallowedPropertyAliases = slices.Clone(s.DisallowedPropertyAliases)
	out.XPathsToRemove = slices.Clone(s.XPathsToRemove)
	out.CacheExpiryRules = slices.Clone(s.CacheExpiryRules)
	return out
}

// AddUnique appends value unless it is already present.
func AddUnique(list []string, value string) []string {
	if slices.Contains(list, value) {
		return list
	}
	return append(list, value)
}

// RemoveValue deletes the first occurrence of value, if any.
func RemoveValue(list []string, value string) []string {
	i := slices.Index(list, value)
	if i < 0 {
		return list
	}
	return slices.Delete(list, i, i+1)
}

// AddRule appends rule unless an equal rule is already present.
func AddRule(rules []CacheExpiryRule, rule CacheExpiryRule) []CacheExpiryRule {
	if IndexRule(rules, rule) >= 0 {
		return rules
	}
	return append(rules, rule)
}

// RemoveRule deletes the first rule equal to rule, if any.
func RemoveRule(rules []CacheExpiryRule, rule CacheExpiryRule) []CacheExpiryRule {
	i := IndexRule(rules, rule)
	if i < 0 {
		return rules
	}
	return slices.Delete(rules, i, i+1)
}
