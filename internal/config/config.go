// Package config defines the configuration model for the travel ETL run.
//
// A pipeline file may be JSON or YAML; the format is picked from the file
// extension. Every scalar can be overridden through TRAVEL_ETL_* environment
// variables, and an optional .env file is read first. An empty pipeline file
// (or none at all) reproduces the reference run: read travel.sqlite, apply the
// default transform chain with English names, keep the result in memory.
//
// Example (trimmed):
//
//	{
//	  "job": "travel_etl",
//	  "source":    { "kind": "sqlite", "dsn": "travel.sqlite" },
//	  "transform": [
//	    { "kind": "drop", "options": { "columns": ["flight_id", "..."] } },
//	    { "kind": "localize", "options": { "locale": "en" } }
//	  ],
//	  "storage":   { "kind": "postgres", "db": { "dsn": "...", "table": "public.enriched_tickets" } }
//	}
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Pipeline is the top-level configuration object.
type Pipeline struct {
	// Job labels metrics and log lines for this run.
	Job string `json:"job" yaml:"job" env:"TRAVEL_ETL_JOB" env-default:"travel_etl"`

	Source Source `json:"source" yaml:"source"`

	// Transform lists the ordered table transforms applied after the join.
	// When empty the default chain is used (drop keys, drop irrelevant,
	// rename departure columns, localize).
	Transform []Transform `json:"transform" yaml:"transform"`

	// Storage optionally persists the final table. Kind "" keeps the result in
	// memory only.
	Storage Storage `json:"storage" yaml:"storage"`

	Metrics Metrics `json:"metrics" yaml:"metrics"`
	Log     Log     `json:"log" yaml:"log"`
}

// Source identifies the relational store holding the normalized tables.
type Source struct {
	// Kind selects the source implementation. Current value: "sqlite".
	Kind string `json:"kind" yaml:"kind" env:"TRAVEL_ETL_SOURCE_KIND" env-default:"sqlite"`

	// DSN is the SQLite file path or URI.
	DSN string `json:"dsn" yaml:"dsn" env:"TRAVEL_ETL_SOURCE_DSN" env-default:"travel.sqlite"`
}

// Transform defines a single transformation step.
type Transform struct {
	// Kind selects the transform: "drop", "rename" or "localize".
	Kind string `json:"kind" yaml:"kind"`

	// Options is interpreted by the selected transform:
	//   drop:     columns ([]string), ignore_missing (bool), label (string)
	//   rename:   mapping (object of old -> new), label (string)
	//   localize: columns ([]string), locale (string), nfc (bool)
	Options Options `json:"options" yaml:"options"`
}

// Storage selects the optional export sink.
type Storage struct {
	// Kind selects the backend: "sqlite", "postgres", "mssql" or "" (none).
	Kind string   `json:"kind" yaml:"kind" env:"TRAVEL_ETL_STORAGE_KIND"`
	DB   DBConfig `json:"db" yaml:"db"`
}

// DBConfig configures the export sink.
type DBConfig struct {
	// DSN is the backend connection string.
	DSN string `json:"dsn" yaml:"dsn" env:"TRAVEL_ETL_STORAGE_DSN"`

	// Table is the destination table, optionally schema-qualified.
	Table string `json:"table" yaml:"table" env:"TRAVEL_ETL_STORAGE_TABLE" env-default:"enriched_tickets"`

	// AutoCreateTable creates the destination table from the output columns
	// when it does not exist.
	AutoCreateTable bool `json:"auto_create_table" yaml:"auto_create_table" env:"TRAVEL_ETL_STORAGE_AUTO_CREATE"`

	// BatchSize is the number of rows per bulk insert.
	BatchSize int `json:"batch_size" yaml:"batch_size" env:"TRAVEL_ETL_STORAGE_BATCH_SIZE" env-default:"1000"`
}

// Metrics selects the metrics backend.
type Metrics struct {
	// Backend is "none", "pushgateway" or "datadog".
	Backend        string   `json:"backend" yaml:"backend" env:"METRICS_BACKEND" env-default:"none"`
	PushgatewayURL string   `json:"pushgateway_url" yaml:"pushgateway_url" env:"PUSHGATEWAY_URL"`
	DatadogAddr    string   `json:"datadog_addr" yaml:"datadog_addr" env:"DD_DOGSTATSD_ADDR"`
	Namespace      string   `json:"namespace" yaml:"namespace" env:"TRAVEL_ETL_METRICS_NAMESPACE"`
	Tags           []string `json:"tags" yaml:"tags" env:"TRAVEL_ETL_METRICS_TAGS" env-separator:","`
}

// Log configures the zap logger.
type Log struct {
	// Level is a zap level name: debug, info, warn, error.
	Level string `json:"level" yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	// Format is "json" or "console".
	Format string `json:"format" yaml:"format" env:"LOG_FORMAT" env-default:"console"`
}

// Load reads the pipeline from path (JSON or YAML by extension) and applies
// environment overrides and defaults. An empty path reads the environment
// only.
func Load(path string) (Pipeline, error) {
	var p Pipeline
	if path == "" {
		if err := cleanenv.ReadEnv(&p); err != nil {
			return Pipeline{}, fmt.Errorf("config: read env: %w", err)
		}
		return p, nil
	}
	if err := cleanenv.ReadConfig(path, &p); err != nil {
		return Pipeline{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return p, nil
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding values that are already set. Missing files
// are ignored.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	return nil
}

// MarshalJSON renders the pipeline as indented JSON, e.g. for --print-config.
func MarshalJSON(p Pipeline) ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// MarshalYAML renders the pipeline in the YAML form Load accepts.
func MarshalYAML(p Pipeline) ([]byte, error) {
	return yaml.Marshal(p)
}

// Usage describes the environment variables understood by Load.
func Usage() (string, error) {
	var p Pipeline
	return cleanenv.GetDescription(&p, nil)
}

// Exists reports whether a config file is present at path.
func Exists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}
