// Package settings manages persistent user settings for the verinet CLI.
package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Settings holds persistent user preferences
type Settings struct {
	// SolverPath overrides the solver binary resolved from PATH
	SolverPath string `json:"solver_path,omitempty"`

	// SolverTimeout bounds one solver invocation (e.g. "30s")
	SolverTimeout string `json:"solver_timeout,omitempty"`

	// SuitesDir is the default --dir for verinet run
	SuitesDir string `json:"suites_dir,omitempty"`

	// DumpDir is where mismatching queries are written
	DumpDir string `json:"dump_dir,omitempty"`

	// RedisAddr enables the shared verdict cache when set
	RedisAddr string `json:"redis_addr,omitempty"`
}

// DefaultSettingsPath returns the default path for the settings file
func DefaultSettingsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "verinet_settings.json"
	}
	return filepath.Join(home, ".verinet", "settings.json")
}

// Load reads settings from the default location
func Load() (*Settings, error) {
	return LoadFrom(DefaultSettingsPath())
}

// LoadFrom reads settings from a specific path
func LoadFrom(path string) (*Settings, error) {
	s := &Settings{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty settings if file doesn't exist
			return s, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, s); err != nil {
		return nil, err
	}

	return s, nil
}

// Save writes settings to the default location
func (s *Settings) Save() error {
	return s.SaveTo(DefaultSettingsPath())
}

// SaveTo writes settings to a specific path
func (s *Settings) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// GetSolverPath returns the solver binary (with fallback)
func (s *Settings) GetSolverPath() string {
	if s.SolverPath != "" {
		return s.SolverPath
	}
	return "z3"
}

// GetSolverTimeout returns the parsed solver timeout, or 0 when unset
// or unparseable (callers substitute their own default).
func (s *Settings) GetSolverTimeout() time.Duration {
	d, err := time.ParseDuration(s.SolverTimeout)
	if err != nil {
		return 0
	}
	return d
}

// GetSuitesDir returns the suites directory (with fallback)
func (s *Settings) GetSuitesDir() string {
	if s.SuitesDir != "" {
		return s.SuitesDir
	}
	return "suites"
}

// GetDumpDir returns the query dump directory (with fallback)
func (s *Settings) GetDumpDir() string {
	if s.DumpDir != "" {
		return s.DumpDir
	}
	return ".verinet/queries"
}

// Clear resets all settings to defaults
func (s *Settings) Clear() {
	*s = Settings{}
}
