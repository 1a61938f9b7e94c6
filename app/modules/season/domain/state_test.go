package seasondomain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string       { return &s }
func timePtr(t time.Time) *time.Time { return &t }

func TestResolveDueTransition(t *testing.T) {
	now := date(2026, time.June, 15)

	tests := []struct {
		name  string
		state State
		want  TransitionKind
	}{
		{
			name:  "unconfigured group with no plan is a no-op",
			state: State{},
			want:  TransitionNone,
		},
		{
			name: "unconfigured group with a future plan waits",
			state: State{
				NextName:     strPtr("Summer"),
				NextStartsAt: timePtr(date(2026, time.July, 1)),
			},
			want: TransitionNone,
		},
		{
			name: "unconfigured group activates a due plan directly",
			state: State{
				NextName:     strPtr("Summer"),
				NextStartsAt: timePtr(date(2026, time.June, 1)),
			},
			want: TransitionActivateNext,
		},
		{
			name: "active pause blocks everything",
			state: State{
				ActiveName:      strPtr("Spring"),
				ActiveStartedAt: timePtr(date(2026, time.March, 1)),
				ActiveEndsAt:    timePtr(date(2026, time.June, 1)),
				PauseUntil:      timePtr(date(2026, time.June, 20)),
			},
			want: TransitionNone,
		},
		{
			name: "elapsed pause is cleared",
			state: State{
				ActiveName:      strPtr("Spring"),
				ActiveStartedAt: timePtr(date(2026, time.June, 10)),
				ActiveEndsAt:    timePtr(date(2026, time.September, 10)),
				PauseUntil:      timePtr(date(2026, time.June, 10)),
			},
			want: TransitionClearPause,
		},
		{
			name: "running season performs no write",
			state: State{
				ActiveName:      strPtr("Spring"),
				ActiveStartedAt: timePtr(date(2026, time.March, 1)),
				ActiveEndsAt:    timePtr(date(2026, time.September, 1)),
			},
			want: TransitionNone,
		},
		{
			name: "season end exactly now completes",
			state: State{
				ActiveName:      strPtr("Spring"),
				ActiveStartedAt: timePtr(date(2026, time.March, 1)),
				ActiveEndsAt:    timePtr(now),
			},
			want: TransitionComplete,
		},
		{
			name: "season end in the past completes",
			state: State{
				ActiveName:      strPtr("Spring"),
				ActiveStartedAt: timePtr(date(2026, time.March, 1)),
				ActiveEndsAt:    timePtr(date(2026, time.June, 1)),
			},
			want: TransitionComplete,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveDueTransition(tt.state, now))
		})
	}
}

func TestStateConfigured(t *testing.T) {
	assert.False(t, State{}.Configured())
	assert.False(t, State{NextStartsAt: timePtr(date(2026, time.July, 1))}.Configured())
	assert.True(t, State{ActiveName: strPtr("Spring")}.Configured())
	assert.True(t, State{PauseUntil: timePtr(date(2026, time.July, 1))}.Configured())
}
