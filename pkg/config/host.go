// ABOUTME: Collaborators consumed by the config store
// ABOUTME: Logging sink, external setting lookup, base directory resolution

package config

import (
	"os"
	"strings"
	"time"

	"github.com/nainya/ftsconfig/pkg/settings"
)

// Logger is the sink the store reports warnings and errors to.
type Logger interface {
	Warn(msg string, fields map[string]any)
	Error(err error, msg string, fields map[string]any)
}

// SettingsProvider looks up a named external setting.
type SettingsProvider interface {
	Setting(name string) (string, bool)
}

// BasePathResolver resolves the directory the config path is relative to.
type BasePathResolver interface {
	BasePath() string
}

// Observer is notified after every load and save.
type Observer interface {
	ObserveOperation(operation string, duration time.Duration, err error)
	ObserveSettings(s settings.Settings)
}

type nopLogger struct{}

func (nopLogger) Warn(string, map[string]any)         {}
func (nopLogger) Error(error, string, map[string]any) {}

// StaticSettings is a map-backed SettingsProvider.
type StaticSettings map[string]string

// Setting implements SettingsProvider.
func (s StaticSettings) Setting(name string) (string, bool) {
	v, ok := s[name]
	return v, ok
}

// EnvSettings reads settings from environment variables. A setting name is
// upper-cased with dots replaced by underscores, then prefixed with Prefix:
// "FullTextSearch.ConfigPath" becomes FULLTEXTSEARCH_CONFIGPATH.
type EnvSettings struct {
	Prefix string
}

// EnvName returns the environment variable consulted for name.
func (e EnvSettings) EnvName(name string) string {
	return e.Prefix + strings.ToUpper(strings.ReplaceAll(name, ".", "_"))
}

// Setting implements SettingsProvider. Empty variables count as absent.
func (e EnvSettings) Setting(name string) (string, bool) {
	v, ok := os.LookupEnv(e.EnvName(name))
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// DirResolver always resolves to the same directory.
type DirResolver string

// BasePath implements BasePathResolver.
func (d DirResolver) BasePath() string { return string(d) }

// WorkingDirResolver resolves to the process working directory.
type WorkingDirResolver struct{}

// BasePath implements BasePathResolver.
func (WorkingDirResolver) BasePath() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}
