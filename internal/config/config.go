package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// DirName is the name of both the global (~/.divdata) and repo-level (.divdata) config directories.
const DirName = ".divdata"

// Config holds application configuration.
type Config struct {
	// Shell is the login shell that wraps the pipeline. The external tools only
	// find their environment when run under it.
	Shell string `json:"shell,omitempty"`

	// DivdataPath is the path of the extraction binary.
	DivdataPath string `json:"divdata_path,omitempty"`

	// PipesRoot is the directory holding the pextract and pprint filters.
	PipesRoot string `json:"pipes_root,omitempty"`

	// SaveDir is the default directory for output files when --savedir is not given.
	// Empty means the current directory.
	SaveDir string `json:"save_dir,omitempty"`

	// History enables the retrieval ledger at <base dir>/divdata.db.
	History bool `json:"history,omitempty"`

	// StrictLeadingColumn makes the parser fail when the discarded leading column
	// of a pprint row is not empty. Off by default: the column is dropped silently.
	StrictLeadingColumn bool `json:"strict_leading_column,omitempty"`

	// LogLevel is one of trace|debug|info|warn|error.
	LogLevel string `json:"log_level,omitempty"`

	// LogFormat is "console" or "json".
	LogFormat string `json:"log_format,omitempty"`

	// DBMaxOpenConns limits the maximum number of open history database connections.
	// 0 means use sql.DB default.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle history database connections.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Shell:       "tcsh",
		DivdataPath: "/u/marks/luner/c38/rel/divdata",
		PipesRoot:   "/u/marks/luner/pipes/rel",
		LogLevel:    "info",
		LogFormat:   "console",
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.divdata.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// LoadWithRepo loads configuration from both global (~/.divdata) and repo (.divdata) directories.
// Repo config is found by walking upward from startDir to find the nearest .divdata/config.json.
// Repo config takes precedence for scalar values; arrays are merged (deduplicated).
// Either or both configs may be missing.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	repo, err := loadFileRaw(FindRepoConfig(startDir))
	if err != nil {
		return nil, err
	}

	// Apply defaults, then global, then repo
	return Merge(Merge(DefaultConfig(), global), repo), nil
}

// FindRepoConfig walks upward from startDir to find the nearest .divdata/config.json.
// Returns the path if found, or empty string if not found.
func FindRepoConfig(startDir string) string {
	dir := startDir
	for {
		configPath := filepath.Join(dir, DirName, "config.json")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	if configPath == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{
		Shell:          pickString(overlay.Shell, base.Shell),
		DivdataPath:    pickString(overlay.DivdataPath, base.DivdataPath),
		PipesRoot:      pickString(overlay.PipesRoot, base.PipesRoot),
		SaveDir:        pickString(overlay.SaveDir, base.SaveDir),
		LogLevel:       pickString(overlay.LogLevel, base.LogLevel),
		LogFormat:      pickString(overlay.LogFormat, base.LogFormat),
		DBMaxOpenConns: pickInt(overlay.DBMaxOpenConns, base.DBMaxOpenConns),
		DBMaxIdleConns: pickInt(overlay.DBMaxIdleConns, base.DBMaxIdleConns),
	}

	// Booleans: overlay wins if true, else base
	result.History = base.History || overlay.History
	result.StrictLeadingColumn = base.StrictLeadingColumn || overlay.StrictLeadingColumn

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

func pickString(overlay, base string) string {
	if strings.TrimSpace(overlay) != "" {
		return overlay
	}
	return base
}

func pickInt(overlay, base int) int {
	if overlay != 0 {
		return overlay
	}
	return base
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, list := range [][]string{a, b} {
		for _, s := range list {
			s = strings.TrimSpace(s)
			if s != "" && !seen[s] {
				seen[s] = true
				result = append(result, s)
			}
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
