package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `name: market-reporter
host: 127.0.0.1
port: 8080
log_level: INFO
storage:
  db_type: sqlite
  db_path: test.db
network:
  enabled: false
  timeout: 10
  retries: 3
  concurrent_requests: 2
data_source:
  data_retention_days: 90
  sources:
    - name: yahoo
      symbols: [TSLA, AAPL]
report:
  default_days: 30
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// -----------------------------------------------------------------------------

func TestNewConfig_Valid(t *testing.T) {
	cfg, err := NewConfig(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, "market-reporter", cfg.Name)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "sqlite", cfg.Storage.DBType)
	require.Len(t, cfg.DataSource.Sources, 1)
	assert.Equal(t, []string{"TSLA", "AAPL"}, cfg.DataSource.Sources[0].Symbols)
}

func TestNewConfig_ReportDefaults(t *testing.T) {
	cfg, err := NewConfig(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, "SemanticModel", cfg.Report.ModelName)
	assert.Equal(t, "Finance", cfg.Report.TableName)
	assert.Equal(t, "en-US", cfg.Report.Locale)
	assert.Equal(t, 1550, cfg.Report.CompatibilityLevel)
	assert.Equal(t, 300, cfg.DataSource.CacheTTLSeconds)
	assert.False(t, cfg.Report.EscapeStrings)
}

func TestNewConfig_MissingFile(t *testing.T) {
	_, err := NewConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestNewConfig_InvalidPort(t *testing.T) {
	bad := `name: x
host: 127.0.0.1
port: 80
storage: {db_type: sqlite, db_path: t.db}
network: {timeout: 10, retries: 1, concurrent_requests: 1}
data_source:
  data_retention_days: 30
  sources: [{name: yahoo}]
report: {default_days: 30}
`
	_, err := NewConfig(writeConfig(t, bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port")
}

func TestNewConfig_NoSources(t *testing.T) {
	bad := `name: x
host: 127.0.0.1
port: 8080
storage: {db_type: sqlite, db_path: t.db}
network: {timeout: 10, retries: 1, concurrent_requests: 1}
data_source:
  data_retention_days: 30
  sources: []
report: {default_days: 30}
`
	_, err := NewConfig(writeConfig(t, bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data source")
}

func TestConfig_SaveRoundTrip(t *testing.T) {
	cfg, err := NewConfig(writeConfig(t, validYAML))
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "saved.yaml")
	require.NoError(t, cfg.Save(out))

	reloaded, err := NewConfig(out)
	require.NoError(t, err)
	assert.Equal(t, cfg.Name, reloaded.Name)
	assert.Equal(t, cfg.Report.TableName, reloaded.Report.TableName)
}
