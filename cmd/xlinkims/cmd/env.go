package cmd

import (
	"os"
	"strconv"
	"strings"
)

// Environment variables backing flag defaults
const (
	envPPM             = "XLINKIMS_PPM"
	envPeakPPM         = "XLINKIMS_PEAK_PPM"
	envMissedCleavages = "XLINKIMS_MISSED_CLEAVAGES"
	envDigest          = "XLINKIMS_DIGEST"
	envC13             = "XLINKIMS_C13"
	envN15             = "XLINKIMS_N15"
	envStaticDelta     = "XLINKIMS_STATIC_DELTA"
	envWorkers         = "XLINKIMS_WORKERS"
)

// Unparseable values fall back to the built-in default.

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}

func envInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}
