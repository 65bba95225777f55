// Package config loads the paperstack configuration file and serves
// its settings with defaults for everything the file leaves out.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	configFileType = "yaml"
	configFileName = "config.yaml"

	// DefaultConfigDirName is the directory under the user's home that
	// holds the default configuration file.
	DefaultConfigDirName = ".paperstack"

	// EnvConfigFile overrides the configuration file location when the
	// --config flag is not given.
	EnvConfigFile = "PAPERSTACK_CONFIG"
)

// Config keys, section-qualified the way they appear in the file.
const (
	cfgKeyDataDir       = "paths.data_dir"
	cfgKeyLibraryFile   = "paths.library_file"
	cfgKeyScrapeTimeout = "scrape.timeout_seconds"
	cfgKeyColors        = "ui.colors"

	// Per-type record-id formats live under the ids section, keyed by
	// record type.
	cfgSectionIDs = "ids"
)

// Defaults served when the file omits a key.
const (
	defaultDataDir              = "~/Documents/Paperstack"
	defaultLibraryFile          = "library.db"
	defaultArticleIDFormat      = "author@2-title@10-year@4"
	defaultBookIDFormat         = "author@1-title@12-year@4"
	defaultWebsiteIDFormat      = "title@16"
	defaultScrapeTimeoutSeconds = 10
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# Paperstack configuration

paths:
  # Where the library database lives.
  data_dir: ~/Documents/Paperstack
  library_file: library.db

ids:
  # Record-id templates, one per record type. Tokens are field@N.
  article: author@2-title@10-year@4
  book: author@1-title@12-year@4
  website: title@16

scrape:
  timeout_seconds: 10

ui:
  colors: true
`

// Config serves settings read from one YAML file, falling back to
// built-in defaults for anything the file omits.
type Config struct {
	v    *viper.Viper
	path string
}

// homeDir is swappable in tests.
var homeDir = os.UserHomeDir

// Load resolves the configuration file location and reads it. The
// precedence chain is: the flag value, the PAPERSTACK_CONFIG
// environment variable, then ~/.paperstack/config.yaml. At the
// default location the directory and a commented default file are
// created on first run; a flag or environment path must already
// exist.
func Load(flagPath string) (*Config, error) {
	path, explicit, err := resolvePath(flagPath)
	if err != nil {
		return nil, err
	}

	if !explicit {
		if err := ensureDefaultConfigFile(path); err != nil {
			return nil, err
		}
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType(configFileType)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	return &Config{v: v, path: path}, nil
}

// resolvePath returns the configuration file path and whether it was
// explicitly requested (flag or environment) rather than defaulted.
func resolvePath(flagPath string) (string, bool, error) {
	if flagPath != "" {
		abs, err := filepath.Abs(flagPath)
		return abs, true, err
	}
	if env := os.Getenv(EnvConfigFile); env != "" {
		abs, err := filepath.Abs(env)
		return abs, true, err
	}
	home, err := homeDir()
	if err != nil {
		return "", false, fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, DefaultConfigDirName, configFileName), false, nil
}

// ensureDefaultConfigFile creates the config directory and a default
// config.yaml when the file does not exist yet.
func ensureDefaultConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure config dir: %w", err)
	}

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(cfgKeyDataDir, defaultDataDir)
	v.SetDefault(cfgKeyLibraryFile, defaultLibraryFile)
	v.SetDefault(cfgSectionIDs+".article", defaultArticleIDFormat)
	v.SetDefault(cfgSectionIDs+".book", defaultBookIDFormat)
	v.SetDefault(cfgSectionIDs+".website", defaultWebsiteIDFormat)
	v.SetDefault(cfgKeyScrapeTimeout, defaultScrapeTimeoutSeconds)
	v.SetDefault(cfgKeyColors, true)
}

// Path returns the file the configuration was loaded from.
func (c *Config) Path() string {
	return c.path
}

// Get returns the raw string value stored under section and key. An
// unset key with no default returns the empty string.
func (c *Config) Get(section, key string) string {
	return c.v.GetString(section + "." + key)
}

// DataDir returns the data directory with a leading ~ expanded.
func (c *Config) DataDir() (string, error) {
	return expandHome(c.v.GetString(cfgKeyDataDir))
}

// LibraryPath returns the full path of the library database file.
func (c *Config) LibraryPath() (string, error) {
	dir, err := c.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, c.v.GetString(cfgKeyLibraryFile)), nil
}

// IDFormat returns the record-id template for a record type. An
// unknown type returns the empty string; record construction rejects
// an empty template when it needs one.
func (c *Config) IDFormat(recordType string) string {
	return c.v.GetString(cfgSectionIDs + "." + recordType)
}

// ScrapeTimeout returns the network timeout for scraper requests.
// Zero or negative values fall back to the default.
func (c *Config) ScrapeTimeout() time.Duration {
	seconds := c.v.GetInt(cfgKeyScrapeTimeout)
	if seconds <= 0 {
		seconds = defaultScrapeTimeoutSeconds
	}
	return time.Duration(seconds) * time.Second
}

// ColorsEnabled reports whether console output should be colored.
func (c *Config) ColorsEnabled() bool {
	return c.v.GetBool(cfgKeyColors)
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := homeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}
