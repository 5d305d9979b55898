package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateRiskGrade(t *testing.T) {
	tests := []struct {
		frequency int
		severity  int
		score     int
		grade     string
		color     string
	}{
		{1, 1, 1, GradeLow, "#22C55E"},
		{2, 3, 6, GradeLow, "#22C55E"},
		{2, 4, 8, GradeMedium, "#F59E0B"},
		{3, 4, 12, GradeMedium, "#F59E0B"},
		{3, 5, 15, GradeHigh, "#EF4444"},
		{4, 5, 20, GradeHigh, "#EF4444"},
	}

	for _, tt := range tests {
		grade, err := CalculateRiskGrade(tt.frequency, tt.severity)
		require.NoError(t, err, "Expected %dx%d to be on scale", tt.frequency, tt.severity)
		assert.Equal(t, tt.score, grade.Score)
		assert.Equal(t, tt.grade, grade.Grade, "Expected grade for %dx%d", tt.frequency, tt.severity)
		assert.Equal(t, tt.color, grade.Color)
	}

	t.Run("Every matrix cell is graded", func(t *testing.T) {
		for f := 1; f <= len(FrequencyLevels); f++ {
			for s := 1; s <= len(SeverityLevels); s++ {
				grade, err := CalculateRiskGrade(f, s)
				require.NoError(t, err)
				assert.Equal(t, f*s, grade.Score)
			}
		}
	})

	t.Run("Off scale values are rejected", func(t *testing.T) {
		_, err := CalculateRiskGrade(0, 3)
		assert.ErrorContains(t, err, "frequency")

		_, err = CalculateRiskGrade(5, 3)
		assert.ErrorContains(t, err, "frequency")

		_, err = CalculateRiskGrade(2, 6)
		assert.ErrorContains(t, err, "severity")
	})
}
