// Package config loads and validates configuration from environment variables.
// A .env file, when present, is read first; variables already set in the
// environment win over it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the settings of both binaries: triplist (the catalog client)
// and tripsapi (the local trips service).
type Config struct {
	// APIURL is the base URL of the trips service. Defaults to
	// "http://localhost:3001".
	APIURL string

	// Timeout bounds each request to the trips service. Defaults to 10s.
	Timeout time.Duration

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// LogFile, when set, receives the logs of the interactive view, which
	// owns the terminal. Empty means those logs are discarded.
	LogFile string

	// Port is the TCP port the local trips service listens on. Defaults to "3001".
	Port string

	// CORSOrigins is the list of origins allowed to call the local trips
	// service from a browser. Set CORS_ORIGINS to a comma-separated list.
	CORSOrigins []string

	// MaxBodyBytes caps request bodies accepted by the local trips service.
	MaxBodyBytes int64

	// SeedFile is an optional json-server style db.json ({"trips":[...]})
	// loaded into the local trips service at start-up.
	SeedFile string
}

// Load reads an optional .env file from each of envFiles (".env" when none
// are given), then configuration from the environment. Missing files are
// ignored. It returns one error listing every invalid variable.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config.Load: read %s: %w", f, err)
		}
	}

	cfg := Config{
		APIURL:      strings.TrimSuffix(getEnv("TRIPS_API_URL", "http://localhost:3001"), "/"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFile:     os.Getenv("TRIPS_LOG_FILE"),
		Port:        getEnv("PORT", "3001"),
		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		SeedFile:    os.Getenv("TRIPS_SEED_FILE"),
	}

	var invalid []string

	if u, err := url.Parse(cfg.APIURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		invalid = append(invalid, fmt.Sprintf("TRIPS_API_URL=%q (want an absolute http(s) URL)", cfg.APIURL))
	}

	timeout, err := time.ParseDuration(getEnv("TRIPS_TIMEOUT", "10s"))
	if err != nil || timeout <= 0 {
		invalid = append(invalid, fmt.Sprintf("TRIPS_TIMEOUT=%q (want a positive duration such as 5s)", os.Getenv("TRIPS_TIMEOUT")))
	}
	cfg.Timeout = timeout

	if _, err := parseLevel(cfg.LogLevel); err != nil {
		invalid = append(invalid, fmt.Sprintf("LOG_LEVEL=%q (want debug, info, warn or error)", cfg.LogLevel))
	}

	if p, err := strconv.Atoi(cfg.Port); err != nil || p < 1 || p > 65535 {
		invalid = append(invalid, fmt.Sprintf("PORT=%q (want 1-65535)", cfg.Port))
	}

	maxBody, err := strconv.ParseInt(getEnv("MAX_BODY_BYTES", "1048576"), 10, 64)
	if err != nil || maxBody <= 0 {
		invalid = append(invalid, fmt.Sprintf("MAX_BODY_BYTES=%q (want a positive integer)", os.Getenv("MAX_BODY_BYTES")))
	}
	cfg.MaxBodyBytes = maxBody

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// Level returns LogLevel as a slog.Level, falling back to info.
func (c Config) Level() slog.Level {
	l, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(s))
	return l, err
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
