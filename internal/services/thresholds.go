package services

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/temcen/prepforge/pkg/models"
)

// RoleThresholds is the three-tier minimum-score cutoff ladder for one
// role family: preferred > acceptable > minimum.
type RoleThresholds struct {
	Preferred  float64
	Acceptable float64
	Minimum    float64
}

// ThresholdPolicy supplies per-role cutoffs that adapt to supply
// scarcity. The static table is calibrated against measured role-score
// distribution percentiles: frontend and security score distributions
// skew low, so a single global cutoff would starve them entirely.
type ThresholdPolicy struct {
	table map[models.RoleFamily]RoleThresholds
}

func NewThresholdPolicy() *ThresholdPolicy {
	return &ThresholdPolicy{
		table: map[models.RoleFamily]RoleThresholds{
			models.RoleBackend:  {Preferred: 50, Acceptable: 40, Minimum: 30},
			models.RoleML:       {Preferred: 48, Acceptable: 38, Minimum: 28},
			models.RoleDevOps:   {Preferred: 45, Acceptable: 35, Minimum: 25},
			models.RoleFrontend: {Preferred: 30, Acceptable: 22, Minimum: 15},
			models.RoleSecurity: {Preferred: 28, Acceptable: 20, Minimum: 14},
		},
	}
}

// Thresholds returns the tier table for a role. Unknown roles fall back
// to the backend ladder, the densest distribution.
func (p *ThresholdPolicy) Thresholds(role models.RoleFamily) RoleThresholds {
	if thresholds, ok := p.table[role]; ok {
		return thresholds
	}
	return p.table[models.RoleBackend]
}

// AdaptiveThreshold picks a cutoff based on how much supply survives
// the preferred tier: preferred when available >= 1.5x target,
// acceptable when available >= 1.0x target, minimum otherwise.
func (p *ThresholdPolicy) AdaptiveThreshold(role models.RoleFamily, availableAtCutoff, target int) float64 {
	thresholds := p.Thresholds(role)

	switch {
	case float64(availableAtCutoff) >= 1.5*float64(target):
		return thresholds.Preferred
	case float64(availableAtCutoff) >= float64(target):
		return thresholds.Acceptable
	default:
		return thresholds.Minimum
	}
}

// CalibrateThresholds derives a tier table from an observed role-score
// distribution: preferred at P75, acceptable at P60, minimum at P45.
// The selector logs it against the static table each run; the static
// table is refreshed from those observations when score data is
// re-enriched.
func CalibrateThresholds(scores []float64) (RoleThresholds, error) {
	if len(scores) == 0 {
		return RoleThresholds{}, fmt.Errorf("cannot calibrate thresholds from empty distribution")
	}

	sorted := make([]float64, len(scores))
	copy(sorted, scores)
	sort.Float64s(sorted)

	return RoleThresholds{
		Preferred:  stat.Quantile(0.75, stat.Empirical, sorted, nil),
		Acceptable: stat.Quantile(0.60, stat.Empirical, sorted, nil),
		Minimum:    stat.Quantile(0.45, stat.Empirical, sorted, nil),
	}, nil
}
