package job

import (
	"fmt"
	"strings"

	"haulboard/internal/pkg/errs"
)

// Status represents the lifecycle state of a delivery job.
// It implements a state machine with a fixed forward progression and a
// hold detour:
//
//	Pending ──> GettingLoad ──> OnTheWay ──> Complete
//	   ^             │              │
//	   │             v              v
//	   └────────── OnHold <─────────┘
//
// OnHold is reachable from any non-Complete state and always resumes back
// to Pending, never to the pre-hold state. Complete is terminal.
//
// Status values arriving as text are normalized through ParseStatus before
// any comparison; legacy spellings and arbitrary casing denote the same
// canonical state.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status of a scheduled job awaiting a driver.
	Pending

	// GettingLoad indicates the claiming driver is loading at the depot.
	GettingLoad

	// OnTheWay indicates the driver is en route to the customer.
	OnTheWay

	// Complete indicates the job was delivered. Terminal.
	Complete

	// OnHold parks a job outside the normal progression until resumed.
	OnHold
)

// getStatusStrings returns canonical string representations for all statuses.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:     "Unknown",
		Pending:     "Pending",
		GettingLoad: "GettingLoad",
		OnTheWay:    "OnTheWay",
		Complete:    "Complete",
		OnHold:      "OnHold",
	}
}

// getValidStatusStrings returns only valid statuses, supporting validation.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:     "Pending",
		GettingLoad: "GettingLoad",
		OnTheWay:    "OnTheWay",
		Complete:    "Complete",
		OnHold:      "OnHold",
	}
}

// getLegacyStatusVariants maps normalized legacy spellings to canonical
// statuses. Keys are lowercase with spaces, hyphens, and underscores removed.
// The table exists so that case-insensitive comparisons stay out of the
// transition logic (parse, don't validate).
func getLegacyStatusVariants() map[string]Status {
	return map[string]Status{
		"pending":     Pending,
		"scheduled":   Pending,
		"gettingload": GettingLoad,
		"loading":     GettingLoad,
		"ontheway":    OnTheWay,
		"enroute":     OnTheWay,
		"intransit":   OnTheWay,
		"complete":    Complete,
		"completed":   Complete,
		"delivered":   Complete,
		"done":        Complete,
		"onhold":      OnHold,
		"hold":        OnHold,
		"held":        OnHold,
	}
}

// ParseStatus converts a textual status into its canonical Status.
// Matching is case-insensitive and tolerant of spaces, hyphens, and
// underscores, so "getting load", "GETTING LOAD", and "Getting_Load" all
// denote GettingLoad.
func ParseStatus(s string) (Status, error) {
	normalized := strings.ToLower(s)
	for _, sep := range []string{" ", "-", "_"} {
		normalized = strings.ReplaceAll(normalized, sep, "")
	}

	if status, ok := getLegacyStatusVariants()[normalized]; ok {
		return status, nil
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a recognized status", s))
}

// Validate checks if the Status value is one of the valid states.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the canonical name of the status.
// Implements fmt.Stringer and is safe on any value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// Successor returns the next status on the canonical path and whether one
// exists. Complete and OnHold have no successor: Complete is terminal and
// a held job must be resumed before it can move again.
func (s Status) Successor() (Status, bool) {
	switch s {
	case Pending:
		return GettingLoad, true
	case GettingLoad:
		return OnTheWay, true
	case OnTheWay:
		return Complete, true
	default:
		return Unknown, false
	}
}

// Hold transitions the status to OnHold.
//
// Valid from Pending, GettingLoad, and OnTheWay. Holding a Complete job or
// a job that is already on hold is rejected.
func (s Status) Hold() (Status, error) {
	switch s {
	case Pending, GettingLoad, OnTheWay:
		return OnHold, nil
	case OnHold:
		return 0, NewInvalidTransitionError(s, OnHold, "job is already on hold")
	default:
		return 0, NewInvalidTransitionError(s, OnHold, "completed jobs cannot be put on hold")
	}
}

// Resume transitions the status from OnHold back to Pending.
//
// Resuming always returns to Pending regardless of which state the job was
// held from; pre-hold progress is intentionally not restored.
func (s Status) Resume() (Status, error) {
	if s != OnHold {
		return 0, NewInvalidTransitionError(s, Pending, "only held jobs can be resumed")
	}
	return Pending, nil
}
