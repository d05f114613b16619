package models

// MConfig Structure
type MConfig struct {
	Name       string            `yaml:"name"`
	Host       string            `yaml:"host"`
	Port       int               `yaml:"port"`
	LogLevel   string            `yaml:"log_level"`
	Storage    MStorageConfig    `yaml:"storage"`
	Network    MNetworkConfig    `yaml:"network"`
	DataSource MDataSourceConfig `yaml:"data_source"`
	Report     MReportConfig     `yaml:"report"`
}

type MStorageConfig struct {
	DBType             string `yaml:"db_type"`
	DBPath             string `yaml:"db_path"`
	DBConnectionString string `yaml:"db_connection_string"`
}

type MNetworkConfig struct {
	Enabled            bool     `yaml:"enabled"`
	Proxies            []string `yaml:"proxies"`
	RequestTimeout     int      `yaml:"timeout"`
	MaxRetries         int      `yaml:"retries"`
	ConcurrentRequests int      `yaml:"concurrent_requests"`
	UserAgent          string   `yaml:"user_agent"`
}

type MDataSourceConfig struct {
	DataRetentionDays int             `yaml:"data_retention_days"`
	CacheTTLSeconds   int             `yaml:"cache_ttl_seconds"`
	Sources           []MSourceConfig `yaml:"sources"`
}

type MSourceConfig struct {
	Name    string   `yaml:"name"`
	Symbols []string `yaml:"symbols"`
	APIKey  string   `yaml:"api_key"` // Optional
}

// MReportConfig controls the generated template package.
type MReportConfig struct {
	ModelName          string `yaml:"model_name"`
	TableName          string `yaml:"table_name"`
	Locale             string `yaml:"locale"`
	DefaultDays        int    `yaml:"default_days"`
	CompatibilityLevel int    `yaml:"compatibility_level"`
	// EscapeStrings opts into escaping quotes/backslashes inside string
	// literals of the embedded expression. Off by default to preserve the
	// exact bytes the downstream tooling was validated against.
	EscapeStrings bool `yaml:"escape_strings"`
}
