package core

import (
	"fmt"
	"math"
	"strings"
)

// DigestRule selects which tryptic peptides digestion produces.
type DigestRule string

const (
	// DigestFull keeps fully tryptic peptides only.
	DigestFull DigestRule = "full"
	// DigestPartial keeps partially and fully tryptic peptides.
	DigestPartial DigestRule = "partial"
	// DigestNone cleaves without a residue rule.
	DigestNone DigestRule = "none"
)

// ParseDigestRule parses "full", "partial" or "none" (case-insensitive).
func ParseDigestRule(s string) (DigestRule, error) {
	switch rule := DigestRule(strings.ToLower(strings.TrimSpace(s))); rule {
	case DigestFull, DigestPartial, DigestNone:
		return rule, nil
	case "":
		return DigestFull, nil
	}
	return "", fmt.Errorf("invalid digestion rule '%s', must be full, partial, or none", s)
}

// Describe returns a one-line summary of the rule for progress output.
func (r DigestRule) Describe() string {
	switch r {
	case DigestPartial:
		return "Partially and fully tryptic peptides"
	case DigestNone:
		return "No digestion rules"
	default:
		return "Fully tryptic peptides only"
	}
}

// Settings holds the configurable parameters of a cross-link search.
type Settings struct {
	MassTolerancePPM   float64 // Feature mass window
	PeakTolerancePPM   float64 // Isotopic profile matching tolerance
	MaxMissedCleavages int
	DigestRule         DigestRule
	Labeling           Labeling
	Workers            int
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		MassTolerancePPM:   20,
		PeakTolerancePPM:   20,
		MaxMissedCleavages: 1,
		DigestRule:         DigestFull,
		Labeling:           DefaultLabeling(),
		Workers:            1,
	}
}

// ValidationError represents an error found during validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
}

// Validate checks that the settings are usable before any work starts.
func (s *Settings) Validate() error {
	var errs []string

	if !(s.MassTolerancePPM > 0) || math.IsInf(s.MassTolerancePPM, 0) {
		errs = append(errs, "mass tolerance must be a positive ppm value")
	}
	if !(s.PeakTolerancePPM > 0) || math.IsInf(s.PeakTolerancePPM, 0) {
		errs = append(errs, "peak tolerance must be a positive ppm value")
	}
	if s.MaxMissedCleavages < 0 {
		errs = append(errs, "max missed cleavages must be non-negative")
	}
	if _, err := ParseDigestRule(string(s.DigestRule)); err != nil {
		errs = append(errs, err.Error())
	}
	if math.IsNaN(s.Labeling.StaticDeltaMass) || math.IsInf(s.Labeling.StaticDeltaMass, 0) {
		errs = append(errs, "static delta mass must be finite")
	} else if !s.Labeling.UseC13 && !s.Labeling.UseN15 && s.Labeling.StaticDeltaMass == 0 {
		errs = append(errs, "static delta mass must be non-zero when both C13 and N15 labeling are disabled")
	}
	if s.Workers < 1 {
		errs = append(errs, "workers must be at least 1")
	}

	if len(errs) > 0 {
		return &ValidationError{
			Field:   "Settings",
			Message: strings.Join(errs, "; "),
		}
	}

	return nil
}
