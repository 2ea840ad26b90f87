package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictInsufficientData(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Nil(t, Predict(nil, DefaultHorizon, DefaultStep))
	assert.Nil(t, Predict([]EquityPoint{pt(t0, 0, 10000)}, DefaultHorizon, DefaultStep))
}

func TestPredictDeterministic(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	points := []EquityPoint{
		pt(t0, 0, 10000),
		pt(t0, 2, 10100),
		pt(t0, 4, 9800),
	}

	a := Predict(points, DefaultHorizon, DefaultStep)
	b := Predict(points, DefaultHorizon, DefaultStep)
	assert.Equal(t, a, b)
}

func TestPredictLinearExtrapolation(t *testing.T) {
	t.Parallel()

	// Deltas are +100 and -300; mean is -100 per step.
	t0 := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	points := []EquityPoint{
		pt(t0, 0, 10000),
		pt(t0, 2, 10100),
		pt(t0, 4, 9800),
	}

	out := Predict(points, 5, 5*time.Minute)
	require.Len(t, out, 5)

	for i, p := range out {
		assert.InDelta(t, 9800-100*float64(i+1), p.Equity, 1e-9, "step %d", i+1)
		assert.True(t, p.Time.Equal(t0.Add(4*time.Second).Add(time.Duration(i+1)*5*time.Minute)))
	}
}

func TestPredictUsesOnlyTrailingPoints(t *testing.T) {
	t.Parallel()

	// 20 points: a wild early swing followed by a steady +10 per step
	// tail. Only the last 10 points feed the mean, so the projection
	// climbs at exactly +10.
	t0 := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	points := []EquityPoint{pt(t0, 0, 50000)}
	for i := 1; i < 20; i++ {
		points = append(points, pt(t0, i, 10000+float64(i)*10))
	}

	out := Predict(points, 3, time.Minute)
	require.Len(t, out, 3)

	last := points[len(points)-1].Equity
	for i, p := range out {
		assert.InDelta(t, last+10*float64(i+1), p.Equity, 1e-9)
	}
}

func TestPredictDefaultsApplied(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	points := []EquityPoint{pt(t0, 0, 100), pt(t0, 1, 101)}

	out := Predict(points, 0, 0)
	require.Len(t, out, DefaultHorizon)
	assert.True(t, out[0].Time.Equal(t0.Add(time.Second).Add(DefaultStep)))
}
