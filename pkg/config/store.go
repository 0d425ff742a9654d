// ABOUTME: File-persisted full-text search configuration store
// ABOUTME: Reconciles defaults, the XML document on disk and the flattened view

package config

import (
	"errors"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/beevik/etree"

	"github.com/nainya/ftsconfig/pkg/document"
	"github.com/nainya/ftsconfig/pkg/settings"
)

const (
	// ConfigPathSetting names the external setting that overrides the
	// config file location.
	ConfigPathSetting = "FullTextSearch.ConfigPath"

	// DefaultConfigPath is used when ConfigPathSetting is absent.
	DefaultConfigPath = "App_Plugins/FullTextSearch.config"
)

// Operation names reported to an Observer.
const (
	OperationLoad = "load"
	OperationSave = "save"
)

// Option configures a Store.
type Option func(*Store)

// WithObserver registers an observer for loads, saves and changes to the
// flattened view. It may be given more than once.
func WithObserver(o Observer) Option {
	return func(s *Store) { s.observers = append(s.observers, o) }
}

// Store owns the config document and the settings flattened from it.
// All methods are serialized by a single mutex.
type Store struct {
	mu        sync.Mutex
	log       Logger
	observers []Observer
	path      string

	doc     *document.Document
	root    *etree.Element
	current settings.Settings
	saveErr error
}

// New builds a store and loads the config file. It never fails: a missing
// file yields a fresh document and an unreadable one leaves the defaults in
// place, with the problem reported to log.
func New(log Logger, provider SettingsProvider, resolver BasePathResolver, opts ...Option) *Store {
	if log == nil {
		log = nopLogger{}
	}

	s := &Store{
		log:  log,
		path: ResolvePath(provider, resolver),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.current = settings.Defaults()
	s.doc = document.New()
	s.root, _ = s.doc.Root()

	if err := s.load(); err != nil {
		s.log.Error(err, "Error parsing FullTextSearch config", map[string]any{"path": s.path})
	}
	return s
}

// ResolvePath joins the base directory with the configured relative path.
// An absolute override is returned unchanged.
func ResolvePath(provider SettingsProvider, resolver BasePathResolver) string {
	rel := DefaultConfigPath
	if provider != nil {
		if v, ok := provider.Setting(ConfigPathSetting); ok && !document.IsBlank(v) {
			rel = v
		}
	}
	if filepath.IsAbs(rel) {
		return rel
	}
	if resolver == nil {
		resolver = WorkingDirResolver{}
	}
	return filepath.Join(resolver.BasePath(), rel)
}

// load reads the file into a new document and flattens it. The current
// document is only replaced once the new one has a valid root.
func (s *Store) load() error {
	start := time.Now()

	doc, err := document.Load(s.path)
	if errors.Is(err, document.ErrNotFound) {
		s.log.Warn("Couldn't find config file, creating one instead", map[string]any{"path": s.path})
		doc, err = document.New(), nil
	}
	if err != nil {
		s.observeOperation(OperationLoad, start, err)
		return err
	}

	root, err := doc.Root()
	if err != nil {
		s.observeOperation(OperationLoad, start, err)
		return err
	}

	s.doc, s.root = doc, root
	s.loadConfigLocked()
	s.observeOperation(OperationLoad, start, nil)
	return nil
}

// LoadConfig re-flattens the in-memory document, discarding incremental
// list changes that were not written back with a Set call.
func (s *Store) LoadConfig() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadConfigLocked()
}

func (s *Store) loadConfigLocked() {
	flat, warnings := settings.Flatten(s.root)
	for _, w := range warnings {
		s.log.Warn(w.Message, w.Fields)
	}
	s.current = flat
	s.notifySettingsLocked()
}

func (s *Store) notifySettingsLocked() {
	for _, o := range s.observers {
		o.ObserveSettings(s.current.Clone())
	}
}

// ResetToDefaults replaces the flattened view with the built-in defaults.
// The document is left untouched.
func (s *Store) ResetToDefaults() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = settings.Defaults()
	s.notifySettingsLocked()
}

// Settings returns a copy of the flattened view.
func (s *Store) Settings() settings.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// Path returns the resolved config file path.
func (s *Store) Path() string {
	return s.path
}

// XML returns the in-memory document in indented form.
func (s *Store) XML() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.String()
}

// Save writes the document to disk and re-flattens it. On failure the error
// is logged, in-memory state is left as it was, and false is returned.
func (s *Store) Save() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	if err := s.doc.WriteFile(s.path); err != nil {
		s.saveErr = err
		s.log.Error(err, "Error saving FullTextSearch config", map[string]any{"path": s.path})
		s.observeOperation(OperationSave, start, err)
		return false
	}

	s.saveErr = nil
	s.loadConfigLocked()
	s.observeOperation(OperationSave, start, nil)
	return true
}

// LastSaveError returns the error of the most recent failed Save, or nil
// when the last Save succeeded.
func (s *Store) LastSaveError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveErr
}

func (s *Store) observeOperation(op string, start time.Time, err error) {
	d := time.Since(start)
	for _, o := range s.observers {
		o.ObserveOperation(op, d, err)
	}
}

// SetEnabled writes the root enabled attribute.
func (s *Store) SetEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.root.CreateAttr(settings.AttrEnabled, strconv.FormatBool(enabled))
}

// SetDefaultTitleField writes Indexing/DefaultTitleField.
func (s *Store) SetDefaultTitleField(value string) {
	s.setText(value, settings.NodeIndexing, settings.NodeDefaultTitleField)
}

// SetIndexingActiveKey writes Indexing/IndexingActiveKey.
func (s *Store) SetIndexingActiveKey(value string) {
	s.setText(value, settings.NodeIndexing, settings.NodeIndexingActiveKey)
}

// SetFullTextContentField writes Indexing/ExamineFieldNames/FullTextContent.
func (s *Store) SetFullTextContentField(value string) {
	s.setText(value, settings.NodeIndexing, settings.NodeExamineFieldNames, settings.NodeFullTextContent)
}

// SetFullTextPathField writes Indexing/ExamineFieldNames/FullTextPath.
func (s *Store) SetFullTextPathField(value string) {
	s.setText(value, settings.NodeIndexing, settings.NodeExamineFieldNames, settings.NodeFullTextPath)
}

// SetFullTextLastCachedField writes Indexing/ExamineFieldNames/FullTextLastCached.
func (s *Store) SetFullTextLastCachedField(value string) {
	s.setText(value, settings.NodeIndexing, settings.NodeExamineFieldNames, settings.NodeFullTextLastCached)
}

func (s *Store) setText(value string, path ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	document.GetOrCreatePath(s.root, path...).SetText(value)
}

// AddDisallowedContentType adds value to the flattened list only.
func (s *Store) AddDisallowedContentType(value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.DisallowedContentTypeAliases = settings.AddUnique(s.current.DisallowedContentTypeAliases, value)
	s.notifySettingsLocked()
}

// RemoveDisallowedContentType removes value from the flattened list only.
func (s *Store) RemoveDisallowedContentType(value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.DisallowedContentTypeAliases = settings.RemoveValue(s.current.DisallowedContentTypeAliases, value)
	s.notifySettingsLocked()
}

// SetDisallowedContentTypes replaces Indexing/DisallowedAliases/ContentTypes.
func (s *Store) SetDisallowedContentTypes(values []string) {
	s.replaceList(values, settings.NodeIndexing, settings.NodeDisallowedAliases, settings.NodeContentTypes)
}

// AddDisallowedProperty adds value to the flattened list only.
func (s *Store) AddDisallowedProperty(value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.DisallowedPropertyAliases = settings.AddUnique(s.current.DisallowedPropertyAliases, value)
	s.notifySettingsLocked()
}

// RemoveDisallowedProperty removes value from the flattened list only.
func (s *Store) RemoveDisallowedProperty(value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.DisallowedPropertyAliases = settings.RemoveValue(s.current.DisallowedPropertyAliases, value)
	s.notifySettingsLocked()
}

// SetDisallowedProperties replaces Indexing/DisallowedAliases/Properties.
func (s *Store) SetDisallowedProperties(values []string) {
	s.replaceList(values, settings.NodeIndexing, settings.NodeDisallowedAliases, settings.NodeProperties)
}

// AddXPathToRemove adds value to the flattened list only.
func (s *Store) AddXPathToRemove(value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.XPathsToRemove = settings.AddUnique(s.current.XPathsToRemove, value)
	s.notifySettingsLocked()
}

// RemoveXPathToRemove removes value from the flattened list only.
func (s *Store) RemoveXPathToRemove(value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.XPathsToRemove = settings.RemoveValue(s.current.XPathsToRemove, value)
	s.notifySettingsLocked()
}

// SetXPathsToRemove replaces Indexing/XpathsToRemove.
func (s *Store) SetXPathsToRemove(values []string) {
	s.replaceList(values, settings.NodeIndexing, settings.NodeXPathsToRemove)
}

func (s *Store) replaceList(values []string, path ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	container := document.GetOrCreatePath(s.root, path...)
	document.ReplaceTextChildren(container, settings.NodeAdd, values)
}

// AddCacheExpiryRule adds rule to the flattened list unless an equal rule
// is present. Rules without a positive expiry are logged and ignored.
func (s *Store) AddCacheExpiryRule(rule settings.CacheExpiryRule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !rule.Valid() {
		s.log.Warn("Rejecting cache expiry rule", ruleFields(rule))
		return
	}
	s.current.CacheExpiryRules = settings.AddRule(s.current.CacheExpiryRules, rule)
	s.notifySettingsLocked()
}

// RemoveCacheExpiryRule removes the rule equal to rule from the flattened list.
func (s *Store) RemoveCacheExpiryRule(rule settings.CacheExpiryRule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.CacheExpiryRules = settings.RemoveRule(s.current.CacheExpiryRules, rule)
	s.notifySettingsLocked()
}

// SetCacheExpiryRules replaces CacheExpiryRules with one add node per rule.
// Rules without a positive expiry are logged and not written.
func (s *Store) SetCacheExpiryRules(rules []settings.CacheExpiryRule) {
	s.mu.Lock()
	defer s.mu.Unlock()

	container := document.GetOrCreateNode(s.root, settings.NodeCacheExpiryRules)
	document.ClearChildren(container)
	for _, rule := range rules {
		if !rule.Valid() {
			s.log.Warn("Rejecting cache expiry rule", ruleFields(rule))
			continue
		}
		add := container.CreateElement(settings.NodeAdd)
		if !document.IsBlank(rule.ContentTypeAlias) {
			add.CreateAttr(settings.AttrContentTypeAlias, rule.ContentTypeAlias)
		}
		if !document.IsBlank(rule.XPath) {
			add.CreateAttr(settings.AttrXPath, rule.XPath)
		}
		add.CreateAttr(settings.AttrExpires, strconv.Itoa(rule.Expires))
	}
}

func ruleFields(rule settings.CacheExpiryRule) map[string]any {
	return map[string]any{
		"expires":          rule.Expires,
		"contentTypeAlias": rule.ContentTypeAlias,
		"xPath":            rule.XPath,
	}
}
