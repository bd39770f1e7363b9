package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the settings of the security controller.
type Config struct {
	// Store selects the state store backend: memory, file or sqlite.
	Store string `yaml:"store"`
	// StateFile is the path of the YAML file or SQLite database holding the state.
	StateFile string `yaml:"state_file"`
	// LogLevel is the minimum level of log messages (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`
	// MetricsFile is an optional path where metrics are written in Prometheus text format
	// when a session closes. Counters in it cover that session only.
	MetricsFile string `yaml:"metrics_file,omitempty"`
	// Classifier selects the image classifier mode: random, always or never.
	Classifier string `yaml:"classifier"`
	// ClassifierSeed seeds the random classifier; zero means a time-based seed.
	ClassifierSeed uint64 `yaml:"classifier_seed,omitempty"`
}

const (
	// StoreMemory keeps the state in memory only.
	StoreMemory = "memory"
	// StoreFile keeps the state in a YAML file.
	StoreFile = "file"
	// StoreSQLite keeps the state in a SQLite database.
	StoreSQLite = "sqlite"

	// ClassifierRandom answers randomly, like a camera pointed at a busy room.
	ClassifierRandom = "random"
	// ClassifierAlways always sees a cat.
	ClassifierAlways = "always"
	// ClassifierNever never sees a cat.
	ClassifierNever = "never"

	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "catpoint-settings.yaml"

	// DefaultStateFilename is the default filename for the YAML state store.
	DefaultStateFilename = "catpoint-state.yaml"

	// DefaultDatabaseFilename is the default filename for the SQLite state store.
	DefaultDatabaseFilename = "catpoint.db"

	// DefaultLogLevel is the default minimum log level.
	DefaultLogLevel = "info"

	// DefaultFilePermissions is the default file permission for settings and state files.
	DefaultFilePermissions = 0o600
)

var (
	// ErrNotFound is returned when the settings file does not exist.
	ErrNotFound = errors.New("settings not found")
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errUnknownStore is returned for unsupported store backends.
	errUnknownStore = errors.New("unknown store backend")
	// errUnknownClassifier is returned for unsupported classifier modes.
	errUnknownClassifier = errors.New("unknown classifier")
)

// Default returns settings with every default applied.
func Default() *Config {
	cfg := new(Config)

	//nolint:errcheck // Defaults always validate.
	_ = Validate(cfg)

	return cfg
}

// Load reads configuration from the provided path and validates it.
// A missing file is reported as ErrNotFound.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}

		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings and fills in defaults.
func Validate(settings *Config) error {
	if settings == nil {
		return errConfigIsNotSet
	}

	if settings.Store == "" {
		settings.Store = StoreFile
	}

	switch settings.Store {
	case StoreMemory:
	case StoreFile:
		if settings.StateFile == "" {
			settings.StateFile = DefaultStateFilename
		}
	case StoreSQLite:
		if settings.StateFile == "" {
			settings.StateFile = DefaultDatabaseFilename
		}
	default:
		return fmt.Errorf("%w: %q", errUnknownStore, settings.Store)
	}

	if settings.LogLevel == "" {
		settings.LogLevel = DefaultLogLevel
	}

	if settings.Classifier == "" {
		settings.Classifier = ClassifierRandom
	}

	switch settings.Classifier {
	case ClassifierRandom, ClassifierAlways, ClassifierNever:
	default:
		return fmt.Errorf("%w: %q", errUnknownClassifier, settings.Classifier)
	}

	return nil
}
