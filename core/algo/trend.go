// Package algo has the trend fitter, derived metrics and ranking logic.
package algo

import "math"

// TimePoint is one observation on a dense ordinal axis.
type TimePoint struct {
	Index int     `json:"index"`
	Value float64 `json:"value"`
}

// Model is a fitted trend line y = Slope*x + Intercept.
type Model struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// Predict evaluates the trend line at x.
func (m Model) Predict(x float64) float64 {
	return m.Slope*x + m.Intercept
}

// Fit computes the ordinary least squares line through points.
// No points yields the zero model. A zero denominator (one point, or every
// point on the same index) yields a flat line through the mean value.
func Fit(points []TimePoint) Model {
	n := float64(len(points))
	if n == 0 {
		return Model{}
	}

	var sumX, sumY, sumXY, sumXX float64
	for _, p := range points {
		x := float64(p.Index)
		sumX += x
		sumY += p.Value
		sumXY += x * p.Value
		sumXX += x * x
	}

	denominator := n*sumXX - sumX*sumX
	if denominator == 0 {
		return Model{Slope: 0, Intercept: sumY / n}
	}

	slope := (n*sumXY - sumX*sumY) / denominator
	intercept := (sumY - slope*sumX) / n
	return Model{Slope: slope, Intercept: intercept}
}

// Project extends the model periodsAhead steps past lastIndex.
// Values are rounded half up to whole numbers and clamped at zero.
func Project(m Model, lastIndex, periodsAhead int) []TimePoint {
	if periodsAhead <= 0 {
		return nil
	}
	out := make([]TimePoint, 0, periodsAhead)
	for i := 1; i <= periodsAhead; i++ {
		x := lastIndex + i
		y := RoundHalfUp(m.Predict(float64(x)))
		out = append(out, TimePoint{Index: x, Value: math.Max(0, y)})
	}
	return out
}

// Forecast fits points and projects periodsAhead steps after the last one.
// With no points the projection starts at index 0.
func Forecast(points []TimePoint, periodsAhead int) []TimePoint {
	lastIndex := -1
	if len(points) > 0 {
		lastIndex = points[len(points)-1].Index
	}
	return Project(Fit(points), lastIndex, periodsAhead)
}

// RoundHalfUp rounds x to the nearest integer, with halves going toward +Inf.
func RoundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

// RoundTo rounds x half up to the given number of decimal places.
func RoundTo(x float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return RoundHalfUp(x*scale) / scale
}
