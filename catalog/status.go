package catalog

import (
	"fmt"
	"strings"
)

// ComplianceStatus reports whether an item passed compliance review.
type ComplianceStatus string

const (
	Compliant    ComplianceStatus = "COMPLIANT"
	NonCompliant ComplianceStatus = "NON_COMPLIANT"
)

// AvailabilityStatus reports whether an item can currently be ordered.
type AvailabilityStatus string

const (
	Available   AvailabilityStatus = "AVAILABLE"
	Unavailable AvailabilityStatus = "UNAVAILABLE"
)

// ComplianceStatuses lists every valid compliance status.
func ComplianceStatuses() []ComplianceStatus {
	return []ComplianceStatus{Compliant, NonCompliant}
}

// AvailabilityStatuses lists every valid availability status.
func AvailabilityStatuses() []AvailabilityStatus {
	return []AvailabilityStatus{Available, Unavailable}
}

// Valid reports whether s is a known compliance status.
func (s ComplianceStatus) Valid() bool {
	return s == Compliant || s == NonCompliant
}

// Valid reports whether s is a known availability status.
func (s AvailabilityStatus) Valid() bool {
	return s == Available || s == Unavailable
}

// String returns the canonical name.
func (s ComplianceStatus) String() string { return string(s) }

// String returns the canonical name.
func (s AvailabilityStatus) String() string { return string(s) }

// ParseComplianceStatus accepts the canonical name in any letter case.
func ParseComplianceStatus(v string) (ComplianceStatus, error) {
	s := ComplianceStatus(strings.ToUpper(strings.TrimSpace(v)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown compliance status %q", v)
	}
	return s, nil
}

// ParseAvailabilityStatus accepts the canonical name in any letter case.
func ParseAvailabilityStatus(v string) (AvailabilityStatus, error) {
	s := AvailabilityStatus(strings.ToUpper(strings.TrimSpace(v)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown availability status %q", v)
	}
	return s, nil
}
