package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temcen/prepforge/pkg/models"
)

func TestThresholdPolicy_Table(t *testing.T) {
	policy := NewThresholdPolicy()

	tests := []struct {
		role     models.RoleFamily
		expected RoleThresholds
	}{
		{models.RoleBackend, RoleThresholds{Preferred: 50, Acceptable: 40, Minimum: 30}},
		{models.RoleML, RoleThresholds{Preferred: 48, Acceptable: 38, Minimum: 28}},
		{models.RoleDevOps, RoleThresholds{Preferred: 45, Acceptable: 35, Minimum: 25}},
		{models.RoleFrontend, RoleThresholds{Preferred: 30, Acceptable: 22, Minimum: 15}},
		{models.RoleSecurity, RoleThresholds{Preferred: 28, Acceptable: 20, Minimum: 14}},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.expected, policy.Thresholds(tt.role))
		})
	}
}

func TestThresholdPolicy_UnknownRoleFallsBack(t *testing.T) {
	policy := NewThresholdPolicy()

	assert.Equal(t, policy.Thresholds(models.RoleBackend), policy.Thresholds("fullstack"))
}

func TestThresholdPolicy_AdaptiveThreshold(t *testing.T) {
	policy := NewThresholdPolicy()

	tests := []struct {
		name      string
		role      models.RoleFamily
		available int
		target    int
		expected  float64
	}{
		{"ample supply stays preferred", models.RoleBackend, 40, 20, 50},
		{"exactly 1.5x stays preferred", models.RoleBackend, 30, 20, 50},
		{"adequate supply drops to acceptable", models.RoleBackend, 25, 20, 40},
		{"exact target is acceptable", models.RoleBackend, 20, 20, 40},
		{"scarce supply drops to minimum", models.RoleBackend, 15, 20, 30},
		{"frontend scarce", models.RoleFrontend, 3, 10, 15},
		{"security ample", models.RoleSecurity, 60, 10, 28},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, policy.AdaptiveThreshold(tt.role, tt.available, tt.target))
		})
	}
}

func TestCalibrateThresholds(t *testing.T) {
	scores := make([]float64, 0, 100)
	for i := 1; i <= 100; i++ {
		scores = append(scores, float64(i))
	}

	thresholds, err := CalibrateThresholds(scores)
	require.NoError(t, err)

	assert.Greater(t, thresholds.Preferred, thresholds.Acceptable)
	assert.Greater(t, thresholds.Acceptable, thresholds.Minimum)
	assert.InDelta(t, 75, thresholds.Preferred, 1.0)
	assert.InDelta(t, 60, thresholds.Acceptable, 1.0)
	assert.InDelta(t, 45, thresholds.Minimum, 1.0)
}

func TestCalibrateThresholds_EmptyDistribution(t *testing.T) {
	_, err := CalibrateThresholds(nil)
	assert.Error(t, err)
}

func TestCalibrateThresholds_InputUnmodified(t *testing.T) {
	scores := []float64{90, 10, 50, 70, 30}
	_, err := CalibrateThresholds(scores)
	require.NoError(t, err)

	assert.Equal(t, []float64{90, 10, 50, 70, 30}, scores)
}
