// Package store owns bugboard's local state: the global JSON config, a
// sqlite cache of fetched bugs, and best-effort TUI state.
package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bugboard/internal/board"
)

// Config is the global bugboard configuration.
type Config struct {
	// BaseURL is the tracker's root (e.g. "https://bugzilla.example.org").
	BaseURL string `json:"baseUrl,omitempty"`

	// Product scopes which bugs are fetched onto the board.
	Product string `json:"product,omitempty"`

	// SprintMarker is the whiteboard substring that marks sprint membership.
	SprintMarker string `json:"sprintMarker,omitempty"`

	// QAFlagName is the tracker flag used for QA verification state.
	QAFlagName string `json:"qaFlagName,omitempty"`

	// Unassigned is the tracker's sentinel "nobody" assignee.
	Unassigned string `json:"unassigned,omitempty"`

	// DoneWindowDays bounds how long fixed bugs stay visible in Done.
	DoneWindowDays int `json:"doneWindowDays,omitempty"`

	// APIKeyFile points at a file containing the tracker API key. Key
	// material never lives in the config itself.
	APIKeyFile string `json:"apiKeyFile,omitempty"`

	// Assignees is an optional list shown in the assignee picker, so the
	// picker works without a tracker round-trip.
	Assignees []string `json:"assignees,omitempty"`
}

// Rules converts the configured knobs into board rules, falling back to the
// defaults for anything unset.
func (c Config) Rules() board.Rules {
	r := board.DefaultRules()
	if strings.TrimSpace(c.SprintMarker) != "" {
		r.SprintMarker = strings.TrimSpace(c.SprintMarker)
	}
	if strings.TrimSpace(c.QAFlagName) != "" {
		r.QAFlagName = strings.TrimSpace(c.QAFlagName)
	}
	if strings.TrimSpace(c.Unassigned) != "" {
		r.Unassigned = strings.TrimSpace(c.Unassigned)
	}
	if c.DoneWindowDays > 0 {
		r.DoneWindow = time.Duration(c.DoneWindowDays) * 24 * time.Hour
	}
	return r
}

// APIKey reads the configured key file. Missing config or file yields an
// empty key (anonymous access), not an error.
func (c Config) APIKey() string {
	path := strings.TrimSpace(c.APIKeyFile)
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.bugboard).
	if v := strings.TrimSpace(os.Getenv("BUGBOARD_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".bugboard"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

func LoadConfig() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

func SaveConfig(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	// Unique temp file + atomic rename avoids cross-process clobbering when
	// the CLI and TUI write config concurrently.
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}
