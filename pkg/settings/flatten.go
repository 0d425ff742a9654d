// ABOUTME: Pure document-to-settings flattening
// ABOUTME: Applies present, non-blank nodes over the defaults

package settings

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/nainya/ftsconfig/pkg/document"
)

// Warning describes a document entry that was skipped while flattening.
type Warning struct {
	Message string
	Fields  map[string]any
}

// Flatten derives Settings from the root element. It starts from Defaults
// and never mutates root. Skipped entries are reported as warnings.
func Flatten(root *etree.Element) (Settings, []Warning) {
	s := Defaults()
	if root == nil {
		return s, nil
	}

	if v, ok := document.Attr(root, AttrEnabled); ok && strings.EqualFold(v, "false") {
		s.Enabled = false
	}

	if indexing := document.Child(root, NodeIndexing); indexing != nil {
		overrideText(&s.DefaultTitleField, document.Child(indexing, NodeDefaultTitleField))
		overrideText(&s.IndexingActiveKey, document.Child(indexing, NodeIndexingActiveKey))

		s.DisallowedContentTypeAliases = appendTexts(s.DisallowedContentTypeAliases,
			document.Path(indexing, NodeDisallowedAliases, NodeContentTypes))
		s.DisallowedPropertyAliases = appendTexts(s.DisallowedPropertyAliases,
			document.Path(indexing, NodeDisallowedAliases, NodeProperties))
		s.XPathsToRemove = appendTexts(s.XPathsToRemove,
			document.Child(indexing, NodeXPathsToRemove))

		if fields := document.Child(indexing, NodeExamineFieldNames); fields != nil {
			overrideText(&s.FullTextContentField, document.Child(fields, NodeFullTextContent))
			overrideText(&s.FullTextPathField, document.Child(fields, NodeFullTextPath))
			overrideText(&s.FullTextLastCachedField, document.Child(fields, NodeFullTextLastCached))
		}
	}

	var warnings []Warning
	rules := document.Child(root, NodeCacheExpiryRules)
	for i, node := range document.Children(rules, NodeAdd) {
		rule, err := parseRule(node)
		if err != nil {
			warnings = append(warnings, Warning{
				Message: "Skipping cache expiry rule",
				Fields:  map[string]any{"index": i, "error": err.Error()},
			})
			continue
		}
		s.CacheExpiryRules = append(s.CacheExpiryRules, rule)
	}

	return s, warnings
}

func overrideText(dst *string, node *etree.Element) {
	if node == nil {
		return
	}
	if text := document.Text(node); !document.IsBlank(text) {
		*dst = text
	}
}

func appendTexts(list []string, container *etree.Element) []string {
	for _, node := range document.Children(container, NodeAdd) {
		if text := document.Text(node); !document.IsBlank(text) {
			list = append(list, text)
		}
	}
	return list
}

// parseRule accepts an add node only when expires is a positive integer.
func parseRule(node *etree.Element) (CacheExpiryRule, error) {
	raw, ok := document.Attr(node, AttrExpires)
	if !ok {
		return CacheExpiryRule{}, fmt.Errorf("missing %q attribute", AttrExpires)
	}
	expires, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return CacheExpiryRule{}, fmt.Errorf("invalid %q value %q", AttrExpires, raw)
	}
	contentTypeAlias, _ := document.Attr(node, AttrContentTypeAlias)
	xPath, _ := document.Attr(node, AttrXPath)
	rule := NewCacheExpiryRule(expires, contentTypeAlias, xPath)
	if !rule.Valid() {
		return CacheExpiryRule{}, fmt.Errorf("non-positive %q value %d", AttrExpires, expires)
	}
	return rule, nil
}
