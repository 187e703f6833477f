package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Config holds all configurable vibedrift settings.
type Config struct {
	APIURL      string `json:"api_url"`      // dashboard endpoint; empty disables upload
	APIKey      string `json:"api_key"`      // bearer token for the dashboard
	ClientID    string `json:"client_id"`    // stable machine id, minted at setup
	SessionRoot string `json:"session_root"` // override for ~/.claude/projects
	BucketTable string `json:"bucket_table"` // "classic" | "extended"
	HistoryDB   string `json:"history_db"`   // override for the local history database
}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	return Config{
		BucketTable: "classic",
	}
}

// GlobalPath returns the location of the user-wide config file.
func GlobalPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "vibedrift", "config.json"), nil
}

// LoadGlobal reads ~/.config/vibedrift/config.json.
// Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	path, err := GlobalPath()
	if err != nil {
		return nil, err
	}
	return loadFile(path, true)
}

// LoadProject reads .vibedriftrc in the current working directory.
// Returns nil (no error) if the file is absent.
func LoadProject() (*Config, error) {
	return loadFile(".vibedriftrc", false)
}

// loadFile reads and parses a JSON config file at path.
// If returnDefaults is true, returns defaults when the file is absent.
// If returnDefaults is false, returns nil when the file is absent.
func loadFile(path string, returnDefaults bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if returnDefaults {
				d := Defaults()
				return &d, nil
			}
			return nil, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// SaveGlobal writes cfg to the user-wide config file, creating the
// directory if needed.
func SaveGlobal(cfg Config) error {
	path, err := GlobalPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Merge combines global and project configs, with project taking precedence.
// Missing keys fall back to global, then defaults.
func Merge(global, project *Config) Config {
	result := Defaults()

	// Apply global values over defaults.
	if global != nil {
		if global.APIURL != "" {
			result.APIURL = global.APIURL
		}
		if global.APIKey != "" {
			result.APIKey = global.APIKey
		}
		if global.ClientID != "" {
			result.ClientID = global.ClientID
		}
		if global.SessionRoot != "" {
			result.SessionRoot = global.SessionRoot
		}
		if global.BucketTable != "" {
			result.BucketTable = global.BucketTable
		}
		if global.HistoryDB != "" {
			result.HistoryDB = global.HistoryDB
		}
	}

	// Apply project values over global.
	if project != nil {
		if project.APIURL != "" {
			result.APIURL = project.APIURL
		}
		if project.APIKey != "" {
			result.APIKey = project.APIKey
		}
		if project.ClientID != "" {
			result.ClientID = project.ClientID
		}
		if project.SessionRoot != "" {
			result.SessionRoot = project.SessionRoot
		}
		if project.BucketTable != "" {
			result.BucketTable = project.BucketTable
		}
		if project.HistoryDB != "" {
			result.HistoryDB = project.HistoryDB
		}
	}

	return result
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// HistoryDBPath resolves the local history database location, honoring the
// config override and falling back to the XDG data directory.
func (c Config) HistoryDBPath() (string, error) {
	if c.HistoryDB != "" {
		return c.HistoryDB, nil
	}
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "vibedrift", "history.duckdb"), nil
}
