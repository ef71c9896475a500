// Package config loads application configuration with viper.
//
// LoadConfig reads a YAML file found in the standard locations, a .env file
// loaded with godotenv, and the process environment, then unmarshals the
// result through mapstructure tags:
//
//	var cfg bootstrap.Config
//	err := config.LoadConfig("wiredemo", &cfg, config.WithEnvPrefix("WIREKIT"))
//
// With the prefix, WIREKIT_CONTAINER_STRATEGY=eager sets container.strategy.
package config
