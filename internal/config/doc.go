// Package config provides centralized configuration management for the
// Federal Council analysis. It loads configuration from multiple sources,
// validates it, and resolves every file path the pipeline touches.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority), optionally seeded from .env
//	2. A YAML configuration file (config.yaml, configs/config.yaml or --config)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern BUNDESRAT_* for namespacing:
//
//	BUNDESRAT_PATHS_DATA_DIR=./data
//	BUNDESRAT_EXPORT_FORMATS=markdown,typst,xlsx
//	BUNDESRAT_ANALYSIS_EXPECTED_ACTIVE=7
//	BUNDESRAT_LOGGING_LEVEL=debug
//
// # Path Management
//
// Paths is the single source of truth for input tables and output locations:
//
//	paths, err := config.ResolvePaths(cfg)
//	md := paths.GetExportPath("party", "md")
//	png := paths.GetPlotPath("Durchschnittsalter.png")
package config
