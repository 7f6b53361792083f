package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix is the prefix of all environment variables read by Load
const EnvPrefix = "BUNDESRAT"

// Config represents the complete application configuration
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Sources  SourcesConfig  `yaml:"sources" envconfig:"SOURCES"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Export   ExportConfig   `yaml:"export" envconfig:"EXPORT"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
	Tracing  TracingConfig  `yaml:"tracing" envconfig:"TRACING"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"bundesrat.log"`
}

// SourcesConfig names the three input tables and the columns read from them
type SourcesConfig struct {
	AdminFile       string `yaml:"admin_file" envconfig:"ADMIN_FILE" default:"bundesrat.csv"`
	WikipediaDEFile string `yaml:"wikipedia_de_file" envconfig:"WIKIPEDIA_DE_FILE" default:"bundesrat-wikipedia-de.csv"`
	WikipediaESFile string `yaml:"wikipedia_es_file" envconfig:"WIKIPEDIA_ES_FILE" default:"bundesrat-wikipedia-es.csv"`

	Columns ColumnsConfig `yaml:"columns" envconfig:"COLUMNS"`
}

// ColumnsConfig holds the hard-coded header names of the source tables
type ColumnsConfig struct {
	Name             string `yaml:"name" envconfig:"NAME" default:"Name"`
	Party            string `yaml:"party" envconfig:"PARTY" default:"Party"`
	Sex              string `yaml:"sex" envconfig:"SEX" default:"Sex"`
	Kanton           string `yaml:"kanton" envconfig:"KANTON" default:"Kanton"`
	Elected          string `yaml:"elected" envconfig:"ELECTED" default:"Elected"`
	Retired          string `yaml:"retired" envconfig:"RETIRED" default:"Retired"`
	FirstDayInOffice string `yaml:"first_day_in_office" envconfig:"FIRST_DAY_IN_OFFICE" default:"FirstDayInOffice"`
	Number           string `yaml:"number" envconfig:"NUMBER" default:"Nummer"`
	Amtsjahre        string `yaml:"amtsjahre" envconfig:"AMTSJAHRE" default:"Amtsjahre"`
	Lebensdaten      string `yaml:"lebensdaten" envconfig:"LEBENSDATEN" default:"Lebensdaten"`
	ESNumber         string `yaml:"es_number" envconfig:"ES_NUMBER" default:"N°"`
	ESBorn           string `yaml:"es_born" envconfig:"ES_BORN" default:"Nacido el"`
	ESDied           string `yaml:"es_died" envconfig:"ES_DIED" default:"Fallecido el"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir     string `yaml:"data_dir" envconfig:"DATA_DIR" default:"."`
	ExportDir   string `yaml:"export_dir" envconfig:"EXPORT_DIR" default:"export"`
	PlotsDir    string `yaml:"plots_dir" envconfig:"PLOTS_DIR" default:"plots"`
	LogsDir     string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
	MetricsFile string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// ExportConfig controls which table formats are written
type ExportConfig struct {
	Formats   []string `yaml:"formats" envconfig:"FORMATS" default:"markdown,typst"`
	BOMPrefix bool     `yaml:"bom_prefix" envconfig:"BOM_PREFIX" default:"false"`
	Workbook  string   `yaml:"workbook" envconfig:"WORKBOOK" default:"tables.xlsx"`
}

// AnalysisConfig holds the expectations checked against the data
type AnalysisConfig struct {
	ExpectedActive int `yaml:"expected_active" envconfig:"EXPECTED_ACTIVE" default:"7"`
	ChartWidthPx   int `yaml:"chart_width_px" envconfig:"CHART_WIDTH_PX" default:"1000"`
}

// TracingConfig selects the OpenTelemetry span exporter
type TracingConfig struct {
	Exporter string `yaml:"exporter" envconfig:"EXPORTER" default:"none"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"traces.json"`
}

// Supported export formats
const (
	FormatMarkdown = "markdown"
	FormatTypst    = "typst"
	FormatCSV      = "csv"
	FormatXLSX     = "xlsx"
)

var supportedFormats = map[string]bool{
	FormatMarkdown: true,
	FormatTypst:    true,
	FormatCSV:      true,
	FormatXLSX:     true,
}

// Load loads configuration from .env, environment variables and an optional
// YAML file. An explicit configFile must exist; otherwise the common
// locations are probed.
func Load(configFile string) (*Config, error) {
	// .env is optional; a missing file is not an error
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile == "" {
		configFile = getConfigFilePath()
	} else if _, err := os.Stat(configFile); err != nil {
		return nil, fmt.Errorf("config file %s: %w", configFile, err)
	}

	if configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

const unsetCount = -1

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	// -1 marks expected_active as absent, so an explicit 0 survives the merge
	cfg := Config{Analysis: AnalysisConfig{ExpectedActive: unsetCount}}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config. Values explicitly set in
// the environment win; otherwise a non-empty file value replaces the default.
func mergeConfigs(fileConfig, envConfig Config) Config {
	pick := func(envKey, envVal, fileVal string) string {
		if _, set := os.LookupEnv(EnvPrefix + "_" + envKey); set || fileVal == "" {
			return envVal
		}
		return fileVal
	}

	envConfig.Logging.Level = pick("LOGGING_LEVEL", envConfig.Logging.Level, fileConfig.Logging.Level)
	envConfig.Logging.Output = pick("LOGGING_OUTPUT", envConfig.Logging.Output, fileConfig.Logging.Output)
	envConfig.Logging.FilePath = pick("LOGGING_FILE_PATH", envConfig.Logging.FilePath, fileConfig.Logging.FilePath)

	envConfig.Sources.AdminFile = pick("SOURCES_ADMIN_FILE", envConfig.Sources.AdminFile, fileConfig.Sources.AdminFile)
	envConfig.Sources.WikipediaDEFile = pick("SOURCES_WIKIPEDIA_DE_FILE", envConfig.Sources.WikipediaDEFile, fileConfig.Sources.WikipediaDEFile)
	envConfig.Sources.WikipediaESFile = pick("SOURCES_WIKIPEDIA_ES_FILE", envConfig.Sources.WikipediaESFile, fileConfig.Sources.WikipediaESFile)

	envConfig.Paths.DataDir = pick("PATHS_DATA_DIR", envConfig.Paths.DataDir, fileConfig.Paths.DataDir)
	envConfig.Paths.ExportDir = pick("PATHS_EXPORT_DIR", envConfig.Paths.ExportDir, fileConfig.Paths.ExportDir)
	envConfig.Paths.PlotsDir = pick("PATHS_PLOTS_DIR", envConfig.Paths.PlotsDir, fileConfig.Paths.PlotsDir)
	envConfig.Paths.LogsDir = pick("PATHS_LOGS_DIR", envConfig.Paths.LogsDir, fileConfig.Paths.LogsDir)
	envConfig.Paths.MetricsFile = pick("PATHS_METRICS_FILE", envConfig.Paths.MetricsFile, fileConfig.Paths.MetricsFile)

	envConfig.Export.Workbook = pick("EXPORT_WORKBOOK", envConfig.Export.Workbook, fileConfig.Export.Workbook)

	envConfig.Tracing.Exporter = pick("TRACING_EXPORTER", envConfig.Tracing.Exporter, fileConfig.Tracing.Exporter)
	envConfig.Tracing.FilePath = pick("TRACING_FILE_PATH", envConfig.Tracing.FilePath, fileConfig.Tracing.FilePath)

	if _, set := os.LookupEnv(EnvPrefix + "_EXPORT_FORMATS"); !set && len(fileConfig.Export.Formats) > 0 {
		envConfig.Export.Formats = fileConfig.Export.Formats
	}
	if _, set := os.LookupEnv(EnvPrefix + "_EXPORT_BOM_PREFIX"); !set && fileConfig.Export.BOMPrefix {
		envConfig.Export.BOMPrefix = true
	}
	if _, set := os.LookupEnv(EnvPrefix + "_ANALYSIS_EXPECTED_ACTIVE"); !set && fileConfig.Analysis.ExpectedActive != unsetCount {
		envConfig.Analysis.ExpectedActive = fileConfig.Analysis.ExpectedActive
	}
	if _, set := os.LookupEnv(EnvPrefix + "_ANALYSIS_CHART_WIDTH_PX"); !set && fileConfig.Analysis.ChartWidthPx > 0 {
		envConfig.Analysis.ChartWidthPx = fileConfig.Analysis.ChartWidthPx
	}

	// Column overrides only ever come from the file when non-empty
	envConfig.Sources.Columns = mergeColumns(fileConfig.Sources.Columns, envConfig.Sources.Columns)

	return envConfig
}

func mergeColumns(file, env ColumnsConfig) ColumnsConfig {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&env.Name, file.Name)
	set(&env.Party, file.Party)
	set(&env.Sex, file.Sex)
	set(&env.Kanton, file.Kanton)
	set(&env.Elected, file.Elected)
	set(&env.Retired, file.Retired)
	set(&env.FirstDayInOffice, file.FirstDayInOffice)
	set(&env.Number, file.Number)
	set(&env.Amtsjahre, file.Amtsjahre)
	set(&env.Lebensdaten, file.Lebensdaten)
	set(&env.ESNumber, file.ESNumber)
	set(&env.ESBorn, file.ESBorn)
	set(&env.ESDied, file.ESDied)
	return env
}

// Validate checks the configuration after flag overrides were applied
func (c *Config) Validate() error {
	return c.validate()
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Sources.AdminFile == "" || c.Sources.WikipediaDEFile == "" || c.Sources.WikipediaESFile == "" {
		return fmt.Errorf("all three source files must be configured")
	}

	if len(c.Export.Formats) == 0 {
		return fmt.Errorf("at least one export format must be specified")
	}
	for i, f := range c.Export.Formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if !supportedFormats[f] {
			return fmt.Errorf("unsupported export format: %q", f)
		}
		c.Export.Formats[i] = f
	}

	if c.Analysis.ExpectedActive < 0 {
		return fmt.Errorf("expected active members must not be negative: %d", c.Analysis.ExpectedActive)
	}
	if c.Analysis.ChartWidthPx <= 0 {
		return fmt.Errorf("chart width must be positive: %d", c.Analysis.ChartWidthPx)
	}

	switch c.Tracing.Exporter {
	case "none", "stdout", "file":
	default:
		return fmt.Errorf("unsupported trace exporter: %q", c.Tracing.Exporter)
	}

	if c.Logging.Format != "json" {
		// Logs are always JSON
		c.Logging.Format = "json"
	}

	return nil
}

// HasFormat reports whether the given export format is enabled
func (c *Config) HasFormat(format string) bool {
	for _, f := range c.Export.Formats {
		if f == format {
			return true
		}
	}
	return false
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "bundesrat.log",
		},
		Sources: SourcesConfig{
			AdminFile:       "bundesrat.csv",
			WikipediaDEFile: "bundesrat-wikipedia-de.csv",
			WikipediaESFile: "bundesrat-wikipedia-es.csv",
			Columns:         DefaultColumns(),
		},
		Paths: PathsConfig{
			DataDir:   ".",
			ExportDir: "export",
			PlotsDir:  "plots",
			LogsDir:   "logs",
		},
		Export: ExportConfig{
			Formats:  []string{FormatMarkdown, FormatTypst},
			Workbook: "tables.xlsx",
		},
		Analysis: AnalysisConfig{
			ExpectedActive: 7,
			ChartWidthPx:   1000,
		},
		Tracing: TracingConfig{
			Exporter: "none",
			FilePath: "traces.json",
		},
	}
}

// DefaultColumns returns the header names used by the published source files
func DefaultColumns() ColumnsConfig {
	return ColumnsConfig{
		Name:             "Name",
		Party:            "Party",
		Sex:              "Sex",
		Kanton:           "Kanton",
		Elected:          "Elected",
		Retired:          "Retired",
		FirstDayInOffice: "FirstDayInOffice",
		Number:           "Nummer",
		Amtsjahre:        "Amtsjahre",
		Lebensdaten:      "Lebensdaten",
		ESNumber:         "N°",
		ESBorn:           "Nacido el",
		ESDied:           "Fallecido el",
	}
}
