// Package config defines the run configuration for the eSocial ETL binary.
//
// Config is decoded from a JSON file in cmd, then ApplyEnv applies the
// ESOCIAL_* environment overrides and Validate reports issues before the
// pipeline starts.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	DefaultInputDir     = "data/input"
	DefaultOutputDir    = "data/output"
	DefaultTemplatesDir = "data/templates"
	DefaultDatabasePath = "data/db/esocial.db"
	DefaultBatchSize    = 1000
	DefaultMinFileBytes = 50
)

type Config struct {
	Job string `json:"job"`

	Input   Input   `json:"input"`
	Storage Storage `json:"storage"`
	Export  Export  `json:"export"`
	Runtime Runtime `json:"runtime"`

	// Optional external definitions. When empty, the built-in eSocial
	// layout specs and template specs are used.
	LayoutsFile   string `json:"layouts_file,omitempty"`
	TemplatesFile string `json:"templates_file,omitempty"`
}

type Input struct {
	Dir string `json:"dir"`

	// FilterByLayout enables the filename prefilter: files whose names
	// mention no known layout code (S2200, S-2200 or S_2200 spellings) are
	// skipped without being opened, and files that do name a layout are
	// checked against it after identification.
	FilterByLayout bool `json:"filter_by_layout"`

	// MinFileBytes rejects truncated files before parsing. 0 means the
	// default.
	MinFileBytes int `json:"min_file_bytes"`
}

type Storage struct {
	// Kind selects a registered backend: "sqlite", "postgres" or "mssql".
	Kind string `json:"kind"`
	DSN  string `json:"dsn"`
}

type Export struct {
	TemplatesDir string  `json:"templates_dir"`
	OutputDir    string  `json:"output_dir"`
	Options      Options `json:"options"`
}

type Runtime struct {
	BatchSize int `json:"batch_size"`
}

// Load reads a JSON config file and fills defaults and env overrides.
// An empty path yields the default configuration.
func Load(path string) (Config, error) {
	var c Config
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return Config{}, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()
		if err := json.NewDecoder(f).Decode(&c); err != nil {
			return Config{}, fmt.Errorf("decode config: %w", err)
		}
	}
	c.applyDefaults()
	c.ApplyEnv(os.Getenv)
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Job == "" {
		c.Job = "esocial_etl"
	}
	if c.Input.Dir == "" {
		c.Input.Dir = DefaultInputDir
	}
	if c.Input.MinFileBytes == 0 {
		c.Input.MinFileBytes = DefaultMinFileBytes
	}
	if c.Storage.Kind == "" {
		c.Storage.Kind = "sqlite"
	}
	if c.Storage.Kind == "sqlite" && c.Storage.DSN == "" {
		c.Storage.DSN = DefaultDatabasePath
	}
	if c.Export.TemplatesDir == "" {
		c.Export.TemplatesDir = DefaultTemplatesDir
	}
	if c.Export.OutputDir == "" {
		c.Export.OutputDir = DefaultOutputDir
	}
	if c.Runtime.BatchSize <= 0 {
		c.Runtime.BatchSize = DefaultBatchSize
	}
}

// ApplyEnv overrides path and batch settings from ESOCIAL_* variables.
// getenv is a seam for tests; pass os.Getenv in production.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("ESOCIAL_INPUT_PATH"); v != "" {
		c.Input.Dir = v
	}
	if v := getenv("ESOCIAL_OUTPUT_PATH"); v != "" {
		c.Export.OutputDir = v
	}
	if v := getenv("ESOCIAL_TEMPLATES_PATH"); v != "" {
		c.Export.TemplatesDir = v
	}
	if v := getenv("ESOCIAL_DATABASE_PATH"); v != "" && c.Storage.Kind == "sqlite" {
		c.Storage.DSN = v
	}
	if v := getenv("ESOCIAL_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			c.Runtime.BatchSize = n
		}
	}
}

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

type Issue struct {
	Severity Severity
	Path     string
	Message  string
}

// Validate reports configuration issues. Errors make the config unusable;
// warnings are advisory.
func Validate(c Config) []Issue {
	var issues []Issue

	if c.Input.Dir == "" {
		issues = append(issues, Issue{SeverityError, "input.dir", "must not be empty"})
	}
	if c.Storage.Kind == "" {
		issues = append(issues, Issue{SeverityError, "storage.kind", "must not be empty"})
	}
	if c.Storage.DSN == "" {
		issues = append(issues, Issue{SeverityError, "storage.dsn", "must not be empty"})
	}
	if c.Export.TemplatesDir == "" {
		issues = append(issues, Issue{SeverityWarning, "export.templates_dir", "empty; static template columns will be used"})
	}
	if c.Export.OutputDir == "" {
		issues = append(issues, Issue{SeverityError, "export.output_dir", "must not be empty"})
	}
	if c.Runtime.BatchSize <= 0 {
		issues = append(issues, Issue{SeverityError, "runtime.batch_size", "must be positive"})
	}
	if c.Input.MinFileBytes < 0 {
		issues = append(issues, Issue{SeverityError, "input.min_file_bytes", "must not be negative"})
	}
	return issues
}
