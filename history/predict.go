package history

import "time"

const (
	// DefaultHorizon is the number of projected points.
	DefaultHorizon = 5
	// DefaultStep spaces projected points apart.
	DefaultStep = 5 * time.Minute

	// lookback is how many trailing points feed the projection.
	lookback = 10
)

// ProjectedPoint is one point of the forward trend projection.
type ProjectedPoint struct {
	Time   time.Time
	Equity float64
}

// Predict extrapolates equity linearly from the tail of the series: the
// mean step-to-step delta over the last min(10, len) points, projected
// horizon steps forward from the last real timestamp.
//
// This is a visual trend cue, not a forecast. With fewer than two points
// there is no delta to average and Predict returns nil rather than
// fabricating a projection.
//
// Pure function: same input yields same output, no side effects.
func Predict(points []EquityPoint, horizon int, step time.Duration) []ProjectedPoint {
	if len(points) < 2 {
		return nil
	}
	if horizon <= 0 {
		horizon = DefaultHorizon
	}
	if step <= 0 {
		step = DefaultStep
	}

	tail := points
	if len(tail) > lookback {
		tail = tail[len(tail)-lookback:]
	}

	var sum float64
	for i := 1; i < len(tail); i++ {
		sum += tail[i].Equity - tail[i-1].Equity
	}
	meanDelta := sum / float64(len(tail)-1)

	last := tail[len(tail)-1]
	out := make([]ProjectedPoint, 0, horizon)
	for i := 1; i <= horizon; i++ {
		out = append(out, ProjectedPoint{
			Time:   last.Time.Add(time.Duration(i) * step),
			Equity: last.Equity + meanDelta*float64(i),
		})
	}
	return out
}
