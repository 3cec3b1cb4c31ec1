// Package config loads CLI settings from layered sources: built-in
// defaults, the user config file under the XDG config home, an explicit
// --config file, then CARHUB_* environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/WessleyAI/carhub/pkg/kv"
)

// AppName names the XDG directories.
const AppName = "carhub"

// Remote backends.
const (
	BackendSQL   = "sql"
	BackendNeo4j = "neo4j"
	BackendNone  = "none"
)

// Output formats.
const (
	OutputTable    = "table"
	OutputJSON     = "json"
	OutputMarkdown = "markdown"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Config is the resolved CLI configuration.
type Config struct {
	// DataDir holds the favorites and compare state.
	DataDir string `yaml:"dataDir"`
	Backend string `yaml:"backend"`
	// SQLitePath is the catalog database used by the sql backend and seed.
	SQLitePath string `yaml:"sqlitePath"`
	Neo4j      Neo4j  `yaml:"neo4j"`
	NATSURL    string `yaml:"natsUrl"`
	Output     string `yaml:"output"`
	Verbose    bool   `yaml:"verbose"`
}

// Neo4j holds graph backend credentials.
type Neo4j struct {
	URL      string `yaml:"url"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// Default returns the built-in configuration.
func Default() *Config {
	data := kv.DefaultDir()
	return &Config{
		DataDir:    data,
		Backend:    BackendSQL,
		SQLitePath: filepath.Join(data, "cars.db"),
		Neo4j:      Neo4j{URL: "bolt://localhost:7687", User: "neo4j"},
		Output:     OutputTable,
	}
}

// UserFile is the per-user config file path.
func UserFile() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// Loader resolves a Config. Zero fields fall back to the real user file and
// environment.
type Loader struct {
	UserFile string
	Getenv   func(string) string
}

// Load resolves configuration with the default loader.
func Load(explicit string) (*Config, error) {
	return Loader{}.Load(explicit)
}

// Load applies every layer over the defaults and validates the result. A
// missing user file is skipped; a missing explicit file is an error.
func (l Loader) Load(explicit string) (*Config, error) {
	if l.UserFile == "" {
		l.UserFile = UserFile()
	}
	if l.Getenv == nil {
		l.Getenv = os.Getenv
	}

	cfg := Default()
	if err := mergeFile(cfg, l.UserFile, true); err != nil {
		return nil, err
	}
	if explicit != "" {
		if err := mergeFile(cfg, explicit, false); err != nil {
			return nil, err
		}
	}
	if err := mergeEnv(cfg, l.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func mergeFile(cfg *Config, path string, optional bool) error {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func mergeEnv(cfg *Config, getenv func(string) string) error {
	strs := map[string]*string{
		"CARHUB_DATA_DIR":    &cfg.DataDir,
		"CARHUB_BACKEND":     &cfg.Backend,
		"CARHUB_SQLITE_PATH": &cfg.SQLitePath,
		"CARHUB_NEO4J_URL":   &cfg.Neo4j.URL,
		"CARHUB_NEO4J_USER":  &cfg.Neo4j.User,
		"CARHUB_NEO4J_PASS":  &cfg.Neo4j.Password,
		"CARHUB_NATS_URL":    &cfg.NATSURL,
		"CARHUB_OUTPUT":      &cfg.Output,
	}
	for key, dst := range strs {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	if v := getenv("CARHUB_VERBOSE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: CARHUB_VERBOSE=%q", ErrInvalid, v)
		}
		cfg.Verbose = b
	}
	return nil
}

// Validate checks enumerations and required paths.
func (c *Config) Validate() error {
	var errs []error
	switch c.Backend {
	case BackendSQL:
		if c.SQLitePath == "" {
			errs = append(errs, fmt.Errorf("%w: sqlitePath is required for the sql backend", ErrInvalid))
		}
	case BackendNeo4j:
		if c.Neo4j.URL == "" {
			errs = append(errs, fmt.Errorf("%w: neo4j.url is required for the neo4j backend", ErrInvalid))
		}
	case BackendNone:
	default:
		errs = append(errs, fmt.Errorf("%w: backend %q (want sql, neo4j or none)", ErrInvalid, c.Backend))
	}
	switch c.Output {
	case OutputTable, OutputJSON, OutputMarkdown:
	default:
		errs = append(errs, fmt.Errorf("%w: output %q (want table, json or markdown)", ErrInvalid, c.Output))
	}
	if c.DataDir == "" {
		errs = append(errs, fmt.Errorf("%w: dataDir is required", ErrInvalid))
	}
	return errors.Join(errs...)
}
