package job

import (
	"fmt"
	"strings"

	"haulboard/internal/pkg/errs"
)

// EntryKind distinguishes delivery jobs from the other calendar entry types
// that share the record collection. Only Delivery entries participate in
// claiming and notification dispatch.
type EntryKind int

const (
	// KindUnknown is the invalid zero value.
	KindUnknown EntryKind = iota

	// Delivery is a customer delivery job, the only kind the lifecycle
	// core operates on.
	Delivery

	// InternalEvent is a depot-internal calendar entry (meetings, closures).
	InternalEvent

	// EquipmentMaintenance blocks a truck for scheduled maintenance.
	EquipmentMaintenance
)

func getValidEntryKindStrings() map[EntryKind]string {
	//nolint:exhaustive // KindUnknown is intentionally excluded as it's invalid
	return map[EntryKind]string{
		Delivery:             "delivery",
		InternalEvent:        "internal_event",
		EquipmentMaintenance: "equipment_maintenance",
	}
}

// ParseEntryKind converts a textual kind into an EntryKind.
// Matching is case-insensitive and tolerant of spaces and hyphens.
func ParseEntryKind(s string) (EntryKind, error) {
	normalized := strings.ToLower(s)
	for _, sep := range []string{" ", "-"} {
		normalized = strings.ReplaceAll(normalized, sep, "_")
	}

	for kind, str := range getValidEntryKindStrings() {
		if str == normalized {
			return kind, nil
		}
	}
	return KindUnknown, errs.NewValueIsInvalidErrorWithCause("entryKind", fmt.Errorf("%q is not a recognized entry kind", s))
}

// String returns the canonical snake_case name of the kind.
func (k EntryKind) String() string {
	if str, ok := getValidEntryKindStrings()[k]; ok {
		return str
	}
	return "unknown"
}

// Validate checks if the EntryKind is one of the known kinds.
func (k EntryKind) Validate() error {
	if _, ok := getValidEntryKindStrings()[k]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("entryKind", fmt.Errorf("%d is not a valid entry kind", k))
	}
	return nil
}
