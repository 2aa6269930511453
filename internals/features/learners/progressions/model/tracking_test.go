package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusInProgress.Valid())
	assert.True(t, StatusCompleted.Valid())
	assert.True(t, StatusOnHold.Valid())
	assert.False(t, Status("cancelled").Valid())
	assert.False(t, Status("").Valid())
}

func TestProgressPercentage(t *testing.T) {
	cases := []struct {
		name     string
		present  float64
		duration float64
		want     float64
	}{
		{"half way", 60, 120, 50},
		{"capped", 150, 120, 100},
		{"unknown duration", 10, 0, 0},
		{"negative duration", 10, -5, 0},
		{"nothing yet", 0, 40, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, ProgressPercentage(tc.present, tc.duration), 0.0001)
		})
	}
}

func TestHasPortfolio(t *testing.T) {
	empty := ""
	path := "portfolios/42/file.pdf"

	assert.False(t, LearnerProgressionTracking{}.HasPortfolio())
	assert.False(t, LearnerProgressionTracking{PortfolioFilePath: &empty}.HasPortfolio())
	assert.True(t, LearnerProgressionTracking{PortfolioFilePath: &path}.HasPortfolio())
}
