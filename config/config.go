// Package config loads trpcgen.toml and trpcgen.yaml project files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// FileNames are looked up, in order, by Find.
var FileNames = []string{"trpcgen.toml", "trpcgen.yaml", "trpcgen.yml"}

// Config is the project configuration.
type Config struct {
	Generation Generation `toml:"generation" yaml:"generation"`
	Parsing    Parsing    `toml:"parsing" yaml:"parsing"`
	Watch      Watch      `toml:"watch" yaml:"watch"`
}

// Generation controls what is generated and where.
type Generation struct {
	OutputPath    string `toml:"output_path" yaml:"output_path"`
	RouterPattern string `toml:"router_pattern" yaml:"router_pattern"`
	RootModule    string `toml:"root_module" yaml:"root_module"`
	SingleQuotes  bool   `toml:"single_quotes" yaml:"single_quotes"`

	// Semicolons defaults to true when unset.
	Semicolons *bool `toml:"semicolons" yaml:"semicolons"`
}

// Parsing bounds the resolver and the schema flattener.
type Parsing struct {
	MaxImportDepth int    `toml:"max_import_depth" yaml:"max_import_depth"`
	MaxSchemaDepth int    `toml:"max_schema_depth" yaml:"max_schema_depth"`
	Namespace      string `toml:"namespace" yaml:"namespace"`
}

// Watch configures watch mode.
type Watch struct {
	Debounce     time.Duration `toml:"debounce" yaml:"debounce"`
	MinInterval  time.Duration `toml:"min_interval" yaml:"min_interval"`
	ExcludeDirs  []string      `toml:"exclude_dirs" yaml:"exclude_dirs"`
	ExcludeFiles []string      `toml:"exclude_files" yaml:"exclude_files"`
}

// UseSemicolons reports whether generated statements end with semicolons.
func (g Generation) UseSemicolons() bool {
	return g.Semicolons == nil || *g.Semicolons
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads a configuration file. The format follows the extension: .toml,
// or .yaml and .yml.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}

	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// Find returns the first config file present in dir.
func Find(dir string) (string, bool) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// LoadDir loads the config file found in dir, or the defaults when there
// is none.
func LoadDir(dir string) (*Config, string, error) {
	path, ok := Find(dir)
	if !ok {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.Generation.OutputPath) == "" {
		cfg.Generation.OutputPath = "./@generated"
	}
	if strings.TrimSpace(cfg.Generation.RouterPattern) == "" {
		cfg.Generation.RouterPattern = "**/*.router.ts"
	}
	if cfg.Parsing.MaxImportDepth <= 0 {
		cfg.Parsing.MaxImportDepth = 10
	}
	if cfg.Parsing.MaxSchemaDepth <= 0 {
		cfg.Parsing.MaxSchemaDepth = 20
	}
	if strings.TrimSpace(cfg.Parsing.Namespace) == "" {
		cfg.Parsing.Namespace = "z"
	}
	if cfg.Watch.Debounce <= 0 {
		cfg.Watch.Debounce = 300 * time.Millisecond
	}
	if cfg.Watch.MinInterval <= 0 {
		cfg.Watch.MinInterval = time.Second
	}
	if len(cfg.Watch.ExcludeDirs) == 0 {
		cfg.Watch.ExcludeDirs = []string{"node_modules", ".git", "dist"}
	}
}

func validate(cfg *Config) error {
	if cfg.Parsing.MaxImportDepth > 100 {
		return fmt.Errorf("parsing.max_import_depth must be at most 100, got %d", cfg.Parsing.MaxImportDepth)
	}
	if cfg.Parsing.MaxSchemaDepth > 100 {
		return fmt.Errorf("parsing.max_schema_depth must be at most 100, got %d", cfg.Parsing.MaxSchemaDepth)
	}
	if strings.ContainsAny(cfg.Parsing.Namespace, " .[]()") {
		return fmt.Errorf("parsing.namespace must be an identifier, got %q", cfg.Parsing.Namespace)
	}
	return nil
}
