// Package config loads runtime configuration from environment variables,
// with an optional .env file for local development.
package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	defaultAPIBase    = "http://localhost:8080"
	defaultCinemaName = "Cineplex Theatre"
	defaultMovieTitle = "The Blockbuster Movie"
	defaultTicketsDir = "tickets"
)

// Config holds all runtime configuration values.
type Config struct {
	APIBase    string // inventory service base URL
	UseMock    bool   // run against the in-process mock inventory
	CinemaName string // cinema name shown in the summary and on tickets
	MovieTitle string // movie title shown in the summary and on tickets
	TicketsDir string // directory ticket exports are written to
	// SingleSelect restricts the booking flow to one pending seat at a
	// time; the default flow allows any subset of available seats.
	SingleSelect bool
}

// Load reads configuration, applying defaults for anything unset. A .env
// file in the working directory is honored if present. A missing API base
// with the mock disabled is a startup misconfiguration, not something to
// recover from at runtime.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		APIBase:    getEnv("CINEMA_API_BASE", defaultAPIBase),
		UseMock:    getBool("CINEMA_USE_MOCK"),
		CinemaName: getEnv("CINEMA_NAME", defaultCinemaName),
		MovieTitle: getEnv("CINEMA_MOVIE", defaultMovieTitle),
		TicketsDir: getEnv("CINEMA_TICKETS_DIR", defaultTicketsDir),

		SingleSelect: getBool("CINEMA_SINGLE_SELECT"),
	}
	if cfg.APIBase == "" && !cfg.UseMock {
		return Config{}, errors.New("CINEMA_API_BASE is empty and mock mode is off")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getBool(key string) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return false
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
