package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// LookupInt parses an integer env var, logging and ignoring malformed values.
func LookupInt(key string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, false
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("env %s invalid int: %v", key, err)
		return 0, false
	}
	return val, true
}

// LookupDuration parses a time.Duration env var, logging and ignoring malformed values.
func LookupDuration(key string) (time.Duration, bool) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, false
	}
	val, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("env %s invalid duration: %v", key, err)
		return 0, false
	}
	return val, true
}
