package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// TestLoad_JSON verifies the JSON pipeline maps onto the Go struct graph,
// including free-form transform options.
func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "pipeline.json", `{
	  "job": "nightly",
	  "source": { "kind": "sqlite", "dsn": "data/travel.sqlite" },
	  "transform": [
	    { "kind": "drop", "options": { "columns": ["flight_id", "ticket_no"], "ignore_missing": true } },
	    { "kind": "rename", "options": { "mapping": { "city": "city_departure" } } },
	    { "kind": "localize", "options": { "locale": "ru" } },
	    { "kind": "drop", "options": null }
	  ],
	  "storage": { "kind": "postgres", "db": { "dsn": "postgres://u@h/db", "table": "public.t", "auto_create_table": true } },
	  "log": { "level": "debug", "format": "json" }
	}`)

	p, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "nightly", p.Job)
	assert.Equal(t, Source{Kind: "sqlite", DSN: "data/travel.sqlite"}, p.Source)
	require.Len(t, p.Transform, 4)
	assert.Equal(t, []string{"flight_id", "ticket_no"}, p.Transform[0].Options.StringSlice("columns"))
	assert.True(t, p.Transform[0].Options.Bool("ignore_missing", false))
	assert.Equal(t, map[string]string{"city": "city_departure"}, p.Transform[1].Options.StringMap("mapping"))
	assert.Equal(t, "ru", p.Transform[2].Options.String("locale", "en"))
	assert.NotNil(t, p.Transform[3].Options, "null options decode to an empty map")

	assert.Equal(t, "postgres", p.Storage.Kind)
	assert.Equal(t, "public.t", p.Storage.DB.Table)
	assert.True(t, p.Storage.DB.AutoCreateTable)
	assert.Equal(t, 1000, p.Storage.DB.BatchSize, "default batch size")
	assert.Equal(t, Log{Level: "debug", Format: "json"}, p.Log)
	assert.Equal(t, "none", p.Metrics.Backend)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "pipeline.yaml", `
job: yaml_job
source:
  dsn: other.sqlite
transform:
  - kind: rename
    options:
      mapping:
        airport_name: airport_name_departure
  - kind: localize
    options:
      columns: [model]
      locale: en
`)

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "yaml_job", p.Job)
	assert.Equal(t, "sqlite", p.Source.Kind, "default kind")
	assert.Equal(t, "other.sqlite", p.Source.DSN)
	assert.Equal(t, map[string]string{"airport_name": "airport_name_departure"}, p.Transform[0].Options.StringMap("mapping"))
	assert.Equal(t, []string{"model"}, p.Transform[1].Options.StringSlice("columns"))
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "pipeline.json", `{"source": {"dsn": "file.sqlite"}}`)
	t.Setenv("TRAVEL_ETL_SOURCE_DSN", "env.sqlite")
	t.Setenv("METRICS_BACKEND", "pushgateway")
	t.Setenv("TRAVEL_ETL_METRICS_TAGS", "env:test,team:data")

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env.sqlite", p.Source.DSN)
	assert.Equal(t, "pushgateway", p.Metrics.Backend)
	assert.Equal(t, []string{"env:test", "team:data"}, p.Metrics.Tags)
}

func TestLoad_EnvOnlyDefaults(t *testing.T) {
	p, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "travel_etl", p.Job)
	assert.Equal(t, Source{Kind: "sqlite", DSN: "travel.sqlite"}, p.Source)
	assert.Empty(t, p.Transform)
	assert.Empty(t, p.Storage.Kind)
	assert.Equal(t, "info", p.Log.Level)
	assert.Empty(t, ValidatePipeline(p))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	path := writeFile(t, ".env", "TRAVEL_ETL_JOB=from_dotenv\n")
	t.Setenv("TRAVEL_ETL_JOB", "")
	require.NoError(t, os.Unsetenv("TRAVEL_ETL_JOB"))

	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env"), path))
	assert.Equal(t, "from_dotenv", os.Getenv("TRAVEL_ETL_JOB"))

	p, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from_dotenv", p.Job)
}

func TestMarshalJSONRoundTrip(t *testing.T) {
	t.Parallel()

	in := Pipeline{Job: "j", Source: Source{Kind: "sqlite", DSN: "x.sqlite"}, Transform: []Transform{{Kind: "localize", Options: Options{"locale": "en"}}}}
	b, err := MarshalJSON(in)
	require.NoError(t, err)

	var out Pipeline
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, in.Source, out.Source)
	assert.Equal(t, "en", out.Transform[0].Options.String("locale", ""))
}

func TestMarshalYAMLLoadsBack(t *testing.T) {
	t.Parallel()

	in := Pipeline{
		Job:       "yaml_job",
		Source:    Source{Kind: "sqlite", DSN: "x.sqlite"},
		Transform: []Transform{{Kind: "drop", Options: Options{"columns": []any{"status"}}}},
		Storage:   Storage{Kind: "sqlite", DB: DBConfig{DSN: "out.sqlite", Table: "t", BatchSize: 50}},
	}
	b, err := MarshalYAML(in)
	require.NoError(t, err)

	out, err := Load(writeFile(t, "pipeline.yaml", string(b)))
	require.NoError(t, err)
	assert.Equal(t, in.Job, out.Job)
	assert.Equal(t, in.Source, out.Source)
	assert.Equal(t, in.Storage.DB, out.Storage.DB)
	assert.Equal(t, []string{"status"}, out.Transform[0].Options.StringSlice("columns"))
}

func TestOptionsHelpers(t *testing.T) {
	t.Parallel()

	o := Options{
		"s":     "v",
		"b":     true,
		"slice": []any{"a", 1, "b"},
		"map":   map[string]any{"k": "v", "n": 2},
	}
	assert.Equal(t, "v", o.String("s", "d"))
	assert.Equal(t, "d", o.String("b", "d"))
	assert.True(t, o.Bool("b", false))
	assert.False(t, o.Bool("missing", false))
	assert.Equal(t, []string{"a", "b"}, o.StringSlice("slice"))
	assert.Nil(t, o.StringSlice("s"))
	assert.Equal(t, map[string]string{"k": "v"}, o.StringMap("map"))
	assert.Empty(t, o.StringMap("missing"))
}

func TestUsageMentionsEnv(t *testing.T) {
	t.Parallel()

	u, err := Usage()
	require.NoError(t, err)
	assert.Contains(t, u, "TRAVEL_ETL_SOURCE_DSN")
}
