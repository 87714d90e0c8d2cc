// Package config provides functionality for managing configuration options
// for the application using command-line flags and environment variables.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
)

// Options holds the configuration values for the application.
type Options struct {
	// APIBaseURL is the base URL of the StoryPath REST backend.
	APIBaseURL string

	// Token is the static bearer token sent with every backend request.
	Token string

	// Username is the participant username for this session.
	Username string

	// Addr defines the dev backend's listening address (ip:port).
	Addr string

	// DatabaseDSN is the sqlite file path used by the dev backend.
	DatabaseDSN string

	// JWTSecret signs and verifies dev backend bearer tokens.
	JWTSecret string

	// Config is the path to the config file.
	Config string
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.APIBaseURL, "api", "http://localhost:8080/api", "backend API base URL")
	flag.StringVar(&options.Token, "t", "", "bearer token for the backend API")
	flag.StringVar(&options.Username, "u", "", "participant username")
	flag.StringVar(&options.Addr, "a", "localhost:8080", "run on ip:port server")
	flag.StringVar(&options.DatabaseDSN, "d", "storypath.db", "sqlite database path")
	flag.StringVar(&options.JWTSecret, "secret", "storypath-dev-secret", "JWT signing secret")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
}

// Parse parses the command-line flags and environment variables to set
// configuration values. It returns a pointer to the Options struct containing
// the parsed configuration values.
func Parse() *Options {
	flag.Parse()

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if v := os.Getenv("API_BASE_URL"); v != "" {
		options.APIBaseURL = v
	}
	if v := os.Getenv("STORYPATH_TOKEN"); v != "" {
		options.Token = v
	}
	if v := os.Getenv("STORYPATH_USERNAME"); v != "" {
		options.Username = v
	}
	if v := os.Getenv("SERVER_ADDRESS"); v != "" {
		options.Addr = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		options.DatabaseDSN = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		options.JWTSecret = v
	}

	return options
}
