// Package config loads configuration structs from environment variables.
//
// Struct fields are annotated with `env` tags understood by
// github.com/caarlos0/env. A .env file in the working directory is loaded
// once, before the first parse, and silently ignored when absent.
//
//	type RedisConfig struct {
//	    URL string `env:"REDIS_URL,required" envDefault:"redis://localhost:6379/0"`
//	}
//
//	var cfg RedisConfig
//	if err := config.Load(&cfg); err != nil {
//	    // handle error
//	}
package config
