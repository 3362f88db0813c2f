// Package config provides centralized configuration management for floorcheck.
// It loads configuration from several sources, validates it, and resolves
// every file location to an absolute path.
//
// # Configuration Sources
//
// Configuration is built in the following order, later sources winning:
//
//	1. Default() values
//	2. A YAML file (FLOORCHECK_CONFIG, or floorcheck.yaml / configs/floorcheck.yaml)
//	3. Environment variables
//
// # Environment Variables
//
// All environment variables follow the pattern FLOORCHECK_<SECTION>_<FIELD>:
//
//	FLOORCHECK_SERVER_PORT=8080
//	FLOORCHECK_PATHS_DATASET_FILE=datasets/dados_checklist.csv
//	FLOORCHECK_AUTH_ADMIN_PASSWORD=...
//	FLOORCHECK_SMTP_FROM=alertas@example.com
//	FLOORCHECK_SMTP_PASSWORD=...
//
// # Path Management
//
// ResolvePaths turns the configured relative paths into absolute ones
// against the base directory (the working directory unless
// FLOORCHECK_PATHS_BASE_DIR is set):
//
//	paths, err := config.ResolvePaths(cfg.Paths)
//	logFile := paths.GetLogPath("floorcheck.log")
package config
