package shared

import "time"

// Clock abstracts wall-clock access so season transitions can be tested with
// injected times.
type Clock interface {
	Now() time.Time
	NowUTC() time.Time
}

// RealClock is the production Clock.
type RealClock struct{}

func (RealClock) Now() time.Time    { return time.Now() }
func (RealClock) NowUTC() time.Time { return time.Now().UTC() }

// AnchorClock is a Clock whose Now/NowUTC always return the provided anchor
// time. Useful for evaluating season state deterministically even if the
// request is processed later.
type AnchorClock struct {
	anchor time.Time
}

// NewAnchorClock creates a new AnchorClock. If t is the zero value, the
// current real UTC time is used.
func NewAnchorClock(t time.Time) AnchorClock {
	if t.IsZero() {
		return AnchorClock{anchor: time.Now().UTC()}
	}
	return AnchorClock{anchor: t.UTC()}
}

func (c AnchorClock) Now() time.Time    { return c.anchor }
func (c AnchorClock) NowUTC() time.Time { return c.anchor.UTC() }
