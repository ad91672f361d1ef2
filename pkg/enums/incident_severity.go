package enums

import "fmt"

// IncidentSeverity grades a recorded incident.
type IncidentSeverity string

const (
	IncidentSeverityMinor    IncidentSeverity = "minor"
	IncidentSeverityModerate IncidentSeverity = "moderate"
	IncidentSeveritySevere   IncidentSeverity = "severe"
)

var validIncidentSeverities = []IncidentSeverity{
	IncidentSeverityMinor,
	IncidentSeverityModerate,
	IncidentSeveritySevere,
}

// IsValid reports whether the value matches the canonical incident severity enum.
func (i IncidentSeverity) IsValid() bool {
	for _, candidate := range validIncidentSeverities {
		if candidate == i {
			return true
		}
	}
	return false
}

// ParseIncidentSeverity converts the raw string to IncidentSeverity.
func ParseIncidentSeverity(value string) (IncidentSeverity, error) {
	for _, candidate := range validIncidentSeverities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid incident severity %q", value)
}
