package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rustyeddy/harvester/engine"
)

func TestClassifyDrawdownBoundaries(t *testing.T) {
	t.Parallel()

	limits := Limits{MaxDrawdownPct: 20.0}

	tests := []struct {
		name string
		dd   float64
		want Level
	}{
		{"zero drawdown", 0, Nominal},
		{"exactly half the limit", 10.0, Nominal},
		{"just past half", 10.01, Warning},
		{"exactly three quarters", 15.0, Warning},
		{"just past three quarters", 15.01, Danger},
		{"at the limit", 20.0, Danger},
		{"beyond the limit", 25.0, Danger},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			snap := engine.StatusSnapshot{
				Running:     true,
				State:       engine.StateLong,
				DrawdownPct: tt.dd,
			}
			got := Classify(snap, limits)
			assert.Equal(t, tt.want, got.Level)
			assert.Contains(t, got.Cause, "drawdown")
		})
	}
}

func TestClassifyPausedIsAlwaysDanger(t *testing.T) {
	t.Parallel()

	limits := Limits{MaxDrawdownPct: 20.0}

	// Paused dominates drawdown: even at zero drawdown the engine being
	// paused means the breaker tripped.
	snap := engine.StatusSnapshot{
		Running:     true,
		State:       engine.StateFlat,
		Paused:      true,
		PauseReason: "drawdown 21.3% exceeded limit",
	}
	got := Classify(snap, limits)
	assert.Equal(t, Danger, got.Level)
	assert.Equal(t, "drawdown 21.3% exceeded limit", got.Cause)
}

func TestClassifyPausedStateWithoutReason(t *testing.T) {
	t.Parallel()

	snap := engine.StatusSnapshot{
		Running: true,
		State:   engine.StatePaused,
	}
	got := Classify(snap, DefaultLimits())
	assert.Equal(t, Danger, got.Level)
	assert.Equal(t, "circuit breaker active", got.Cause)
}

func TestClassifyZeroLimitFallsBackToDefault(t *testing.T) {
	t.Parallel()

	snap := engine.StatusSnapshot{Running: true, DrawdownPct: 11.0}

	// 11% of the 20% default is past half, so warning.
	got := Classify(snap, Limits{})
	assert.Equal(t, Warning, got.Level)
}

func TestLevelString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "nominal", Nominal.String())
	assert.Equal(t, "warning", Warning.String())
	assert.Equal(t, "danger", Danger.String())
}
