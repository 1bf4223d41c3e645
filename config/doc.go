// Package config provides configuration loading and validation for the
// flowstack service.
//
// It uses Viper to load configuration from a config.yml file and layers
// environment variables (optionally from a .env file) on top, so secrets
// like API keys never need to live in the YAML file.
//
// # Usage
//
//	var cfg config.Config
//	err := config.LoadConfig("flowstack", &cfg)
//
// Environment variables map onto nested keys by underscore splitting,
// e.g. OPENAI_API_KEY -> openai.api_key, SERVER_PORT -> server.port.
package config
