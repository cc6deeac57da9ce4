package algo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFit(t *testing.T) {
	tests := []struct {
		name     string
		points   []TimePoint
		expected Model
	}{
		{
			name:     "empty input",
			points:   nil,
			expected: Model{Slope: 0, Intercept: 0},
		},
		{
			name:     "single point",
			points:   []TimePoint{{Index: 0, Value: 5}},
			expected: Model{Slope: 0, Intercept: 5},
		},
		{
			name:     "same index repeated",
			points:   []TimePoint{{Index: 2, Value: 4}, {Index: 2, Value: 8}},
			expected: Model{Slope: 0, Intercept: 6},
		},
		{
			name:     "perfect line",
			points:   []TimePoint{{Index: 0, Value: 10}, {Index: 1, Value: 20}, {Index: 2, Value: 30}},
			expected: Model{Slope: 10, Intercept: 10},
		},
		{
			name:     "constant values",
			points:   []TimePoint{{Index: 0, Value: 7}, {Index: 1, Value: 7}, {Index: 2, Value: 7}},
			expected: Model{Slope: 0, Intercept: 7},
		},
		{
			name:     "decreasing line",
			points:   []TimePoint{{Index: 0, Value: 10}, {Index: 1, Value: 5}, {Index: 2, Value: 0}},
			expected: Model{Slope: -5, Intercept: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fit(tt.points)
			assert.InDelta(t, tt.expected.Slope, got.Slope, 1e-9)
			assert.InDelta(t, tt.expected.Intercept, got.Intercept, 1e-9)
		})
	}
}

func TestProject(t *testing.T) {
	t.Run("continues a perfect line", func(t *testing.T) {
		got := Project(Model{Slope: 10, Intercept: 10}, 2, 2)
		assert.Equal(t, []TimePoint{{Index: 3, Value: 40}, {Index: 4, Value: 50}}, got)
	})

	t.Run("clamps negatives to zero", func(t *testing.T) {
		got := Project(Model{Slope: -5, Intercept: 10}, 2, 1)
		assert.Equal(t, []TimePoint{{Index: 3, Value: 0}}, got)
	})

	t.Run("flat line repeats the mean", func(t *testing.T) {
		got := Project(Model{Slope: 0, Intercept: 5}, 0, 3)
		assert.Equal(t, []TimePoint{{Index: 1, Value: 5}, {Index: 2, Value: 5}, {Index: 3, Value: 5}}, got)
	})

	t.Run("rounds half up", func(t *testing.T) {
		got := Project(Model{Slope: 0.5, Intercept: 0}, 0, 2)
		assert.Equal(t, []TimePoint{{Index: 1, Value: 1}, {Index: 2, Value: 1}}, got)
	})

	t.Run("no periods", func(t *testing.T) {
		assert.Empty(t, Project(Model{Slope: 1}, 5, 0))
	})
}

func TestForecast(t *testing.T) {
	t.Run("indices follow the last observation", func(t *testing.T) {
		points := []TimePoint{{Index: 0, Value: 1}, {Index: 1, Value: 2}, {Index: 2, Value: 3}, {Index: 3, Value: 4}}
		got := Forecast(points, 3)
		assert.Len(t, got, 3)
		for i, p := range got {
			assert.Equal(t, 4+i, p.Index)
			assert.GreaterOrEqual(t, p.Value, 0.0)
			assert.Equal(t, RoundHalfUp(p.Value), p.Value)
		}
		assert.Equal(t, 5.0, got[0].Value)
	})

	t.Run("empty history starts at zero", func(t *testing.T) {
		got := Forecast(nil, 2)
		assert.Equal(t, []TimePoint{{Index: 0, Value: 0}, {Index: 1, Value: 0}}, got)
	})
}

func TestRounding(t *testing.T) {
	assert.Equal(t, 3.0, RoundHalfUp(2.5))
	assert.Equal(t, -2.0, RoundHalfUp(-2.5))
	assert.Equal(t, 2.0, RoundHalfUp(2.4))
	assert.InDelta(t, 1.5, RoundTo(1.46, 1), 1e-9)
	assert.InDelta(t, 3.3, RoundTo(3.3333, 1), 1e-9)
}
