package ea

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// Config stores the settings of a population run.
type Config struct {
	Population PopulationConfig `yaml:"population"`
	Store      StoreConfig      `yaml:"store"`
}

// PopulationConfig holds the parameters of the population itself.
type PopulationConfig struct {
	Name     string `ini:"name" yaml:"name"`
	PopSize  int    `ini:"pop_size" yaml:"pop_size"`   // Target genome count, advisory.
	LogLevel string `ini:"log_level" yaml:"log_level"` // debug, info, warn or error.

	// SpeciesScoreFunc reduces each species' scores in Summarize: mean, max,
	// min, sum, median or stdev.
	SpeciesScoreFunc string `ini:"species_score_func" yaml:"species_score_func"`
}

// StoreConfig selects where checkpoints are kept.
type StoreConfig struct {
	Backend string `ini:"backend" yaml:"backend"` // "memory" or "sqlite".
	Path    string `ini:"path" yaml:"path"`       // Database file, sqlite only.
	Run     string `ini:"run" yaml:"run"`         // Run identifier; defaults to the population name.
}

// LoadConfig loads a configuration file. Files ending in .yaml or .yml are
// read as YAML, anything else as INI with [Population] and [Store] sections.
func LoadConfig(filePath string) (*Config, error) {
	var (
		config *Config
		err    error
	)
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		config, err = loadYAMLConfig(filePath)
	default:
		config, err = loadINIConfig(filePath)
	}
	if err != nil {
		return nil, err
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func loadINIConfig(filePath string) (*Config, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true,
		UnescapeValueCommentSymbols: true,
	}, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file '%s': %w", filePath, err)
	}

	config := &Config{}
	if err := cfg.Section("Population").MapTo(&config.Population); err != nil {
		return nil, fmt.Errorf("failed to map [Population] section: %w", err)
	}
	if err := cfg.Section("Store").MapTo(&config.Store); err != nil {
		return nil, fmt.Errorf("failed to map [Store] section: %w", err)
	}

	// Inline comments are kept by IgnoreInlineComment; strip them from strings.
	config.Population.Name = cleanIniString(config.Population.Name)
	config.Population.LogLevel = cleanIniString(config.Population.LogLevel)
	config.Population.SpeciesScoreFunc = cleanIniString(config.Population.SpeciesScoreFunc)
	config.Store.Backend = cleanIniString(config.Store.Backend)
	config.Store.Path = cleanIniString(config.Store.Path)
	config.Store.Run = cleanIniString(config.Store.Run)
	return config, nil
}

func loadYAMLConfig(filePath string) (*Config, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file '%s': %w", filePath, err)
	}
	defer file.Close()

	config := &Config{}
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode config file '%s': %w", filePath, err)
	}
	return config, nil
}

func (c *Config) applyDefaults() {
	c.Population.LogLevel = strings.ToLower(strings.TrimSpace(c.Population.LogLevel))
	if c.Population.LogLevel == "" {
		c.Population.LogLevel = "info"
	}
	c.Population.SpeciesScoreFunc = strings.ToLower(strings.TrimSpace(c.Population.SpeciesScoreFunc))
	if c.Population.SpeciesScoreFunc == "" {
		c.Population.SpeciesScoreFunc = "mean"
	}
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	if c.Store.Backend == "" {
		c.Store.Backend = "memory"
	}
	if c.Store.Run == "" {
		c.Store.Run = c.Population.Name
	}
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if c.Population.PopSize < 0 {
		return fmt.Errorf("config error: pop_size cannot be negative")
	}
	if _, err := c.Population.Level(); err != nil {
		return fmt.Errorf("config error: invalid log_level '%s'", c.Population.LogLevel)
	}
	if _, ok := StatFunctions[c.Population.SpeciesScoreFunc]; !ok {
		return fmt.Errorf("config error: invalid species_score_func '%s'", c.Population.SpeciesScoreFunc)
	}
	switch c.Store.Backend {
	case "memory":
	case "sqlite":
		if c.Store.Path == "" {
			return fmt.Errorf("config error: store path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("config error: invalid store backend '%s', must be one of 'memory', 'sqlite'", c.Store.Backend)
	}
	return nil
}

// Level parses LogLevel into a slog level.
func (pc *PopulationConfig) Level() (slog.Level, error) {
	var level slog.Level
	if pc.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	err := level.UnmarshalText([]byte(pc.LogLevel))
	return level, err
}

// NewPopulationFromConfig creates an empty population sized and named by config.
func NewPopulationFromConfig(config *Config, factory GenomeFactory, logger *slog.Logger) *Population {
	p := NewPopulation(config.Population.PopSize, factory)
	p.Name = config.Population.Name
	p.SpeciesScoreFunc = config.Population.SpeciesScoreFunc
	p.Logger = logger
	return p
}

// cleanIniString removes inline comments and trims whitespace from a string read from INI.
func cleanIniString(s string) string {
	if idx := strings.IndexAny(s, "#;"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
