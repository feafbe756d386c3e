// Package config loads application configuration for fold tools.
//
// Values come from a YAML file, a .env file and the process environment,
// in increasing order of precedence. Viper reads the YAML file, godotenv
// loads the .env file, and every environment variable is bound under the
// nested key variants it may stand for:
//
//	FOLDSTAT_RUN_CHUNK_SIZE=4096  ->  run.chunk_size
//
// # Usage
//
//	var cfg MyConfig
//	err := config.LoadConfig("foldstat", &cfg, config.WithEnvPrefix("FOLDSTAT"))
package config
