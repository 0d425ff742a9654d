package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/nainya/ftsconfig/pkg/config"
	"github.com/nainya/ftsconfig/pkg/settings"
)

func TestObserveOperation(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ObserveOperation(config.OperationSave, time.Millisecond, nil)
	m.ObserveOperation(config.OperationSave, time.Millisecond, errors.New("denied"))
	m.ObserveOperation(config.OperationSave, time.Millisecond, errors.New("denied"))

	if got := testutil.ToFloat64(m.ConfigOperationsTotal.WithLabelValues("save", "success")); got != 1 {
		t.Errorf("Expected 1 successful save, got %v", got)
	}
	if got := testutil.ToFloat64(m.ConfigOperationsTotal.WithLabelValues("save", "error")); got != 2 {
		t.Errorf("Expected 2 failed saves, got %v", got)
	}
}

func TestObserveSettings(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	s := settings.Defaults()
	s.Enabled = false
	s.DisallowedPropertyAliases = []string{"a", "b"}
	s.CacheExpiryRules = []settings.CacheExpiryRule{settings.NewCacheExpiryRule(30, "news", "")}
	m.ObserveSettings(s)

	if got := testutil.ToFloat64(m.ListEntries.WithLabelValues(config.ListDisallowedProperties)); got != 2 {
		t.Errorf("Expected 2 disallowed properties, got %v", got)
	}
	if got := testutil.ToFloat64(m.ListEntries.WithLabelValues(config.ListXPathsToRemove)); got != 0 {
		t.Errorf("Expected 0 xpaths, got %v", got)
	}
	if got := testutil.ToFloat64(m.CacheExpiryRules); got != 1 {
		t.Errorf("Expected 1 rule, got %v", got)
	}
	if got := testutil.ToFloat64(m.Enabled); got != 0 {
		t.Errorf("Expected enabled gauge 0, got %v", got)
	}
}

func TestRegistriesAreIndependent(t *testing.T) {
	NewMetrics(prometheus.NewRegistry())
	NewMetrics(prometheus.NewRegistry())
}

func TestGaugesFollowIncrementalChanges(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	store := config.New(nil, config.StaticSettings{}, config.DirResolver(t.TempDir()), config.WithObserver(m))

	store.AddDisallowedProperty("a")
	store.AddDisallowedProperty("b")
	store.AddCacheExpiryRule(settings.NewCacheExpiryRule(30, "news", ""))
	if got := testutil.ToFloat64(m.ListEntries.WithLabelValues(config.ListDisallowedProperties)); got != 2 {
		t.Errorf("Expected 2 disallowed properties, got %v", got)
	}
	if got := testutil.ToFloat64(m.CacheExpiryRules); got != 1 {
		t.Errorf("Expected 1 rule, got %v", got)
	}

	store.ResetToDefaults()
	if got := testutil.ToFloat64(m.ListEntries.WithLabelValues(config.ListDisallowedProperties)); got != 0 {
		t.Errorf("Expected gauge reset to 0, got %v", got)
	}
	if got := testutil.ToFloat64(m.CacheExpiryRules); got != 0 {
		t.Errorf("Expected rule gauge reset to 0, got %v", got)
	}
}
