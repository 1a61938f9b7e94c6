package seasondomain

import "time"

// State is a snapshot of a group's season configuration, detached from the
// persistence model so transition resolution stays a pure function.
type State struct {
	ActiveName      *string
	ActiveStartedAt *time.Time
	ActiveEndsAt    *time.Time
	PauseUntil      *time.Time
	PauseDays       int

	NextName             *string
	NextStartsAt         *time.Time
	NextEndsAt           *time.Time
	NextIsSuccessive     bool
	NextInterval         *Interval
	NextIntermissionDays *int
}

// Configured reports whether any active-season field is set.
func (s State) Configured() bool {
	return s.ActiveName != nil || s.ActiveStartedAt != nil ||
		s.ActiveEndsAt != nil || s.PauseUntil != nil
}

// HasActiveSeason reports whether a complete active season window exists.
func (s State) HasActiveSeason() bool {
	return s.ActiveName != nil && s.ActiveStartedAt != nil && s.ActiveEndsAt != nil
}

// HasNextPlan reports whether a next season is planned.
func (s State) HasNextPlan() bool {
	return s.NextStartsAt != nil
}

// TransitionKind identifies the season state change due at a point in time.
type TransitionKind int

const (
	// TransitionNone means the state is already up to date.
	TransitionNone TransitionKind = iota

	// TransitionActivateNext promotes a planned season directly when nothing
	// is active. No snapshot is taken because nothing accumulated.
	TransitionActivateNext

	// TransitionClearPause ends an elapsed pause and starts the season.
	TransitionClearPause

	// TransitionComplete ends the active season: snapshot, counter reset,
	// successor planning.
	TransitionComplete
)

// ResolveDueTransition inspects the state against now and returns the
// transition that is due, if any. The apply step lives in the service layer;
// keeping resolution pure makes the lazy rollover trivially testable with
// injected clocks.
func ResolveDueTransition(s State, now time.Time) TransitionKind {
	if !s.Configured() {
		if s.NextStartsAt != nil && !now.Before(*s.NextStartsAt) {
			return TransitionActivateNext
		}
		return TransitionNone
	}

	if s.PauseUntil != nil {
		if now.Before(*s.PauseUntil) {
			return TransitionNone
		}
		return TransitionClearPause
	}

	if s.ActiveEndsAt != nil && !now.Before(*s.ActiveEndsAt) {
		return TransitionComplete
	}

	return TransitionNone
}

// PlanSuccessor computes the following next-season plan for a successive
// schedule. The start is intermissionDays after the active season's end (or
// one interval after its start when no end is set); the end is one interval
// after the start.
func PlanSuccessor(activeStart time.Time, activeEnd *time.Time, interval Interval, intermissionDays int) (start, end time.Time) {
	anchor := AddInterval(activeStart, interval)
	if activeEnd != nil {
		anchor = TruncateToUTCDay(*activeEnd)
	}
	start = AddDays(anchor, intermissionDays)
	end = AddInterval(start, interval)
	return start, end
}
