// Package optimization simulates prevention/appraisal/failure mixes
// against the baseline, optimal and theoretical reference mixes.
package optimization

import (
	"math"

	"coqboard/pkg/contracts/domain"
)

var (
	// Initial is the measured baseline mix
	Initial = domain.CoqRatio{Prevention: 0.12, Appraisal: 0.40, Failure: 0.28}
	// Optimal is the recommended mix
	Optimal = domain.CoqRatio{Prevention: 0.23, Appraisal: 0.42, Failure: 0.34}
	// Theoretical is the best achievable mix under the model
	Theoretical = domain.CoqRatio{Prevention: 0.30, Appraisal: 0.45, Failure: 0.25}
	// Limits are the slider bounds offered to the user
	Limits = domain.CoqRatio{Prevention: 0.6, Appraisal: 0.8, Failure: 0.8}
)

// Model COQ bounds
const (
	MinModelCOQ = 0.5
	MaxModelCOQ = 5.0
)

// Clamp01 bounds x to [0, 1]. NaN becomes 0.
func Clamp01(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return math.Min(1, math.Max(0, x))
}

// Total returns the sum of the three components
func Total(r domain.CoqRatio) float64 {
	return r.Total()
}

// Improvement returns the percent reduction of current's total versus initial's
func Improvement(initial, current domain.CoqRatio) float64 {
	base := Total(initial)
	if base == 0 {
		return 0
	}
	return (base - Total(current)) / base * 100
}

// ModelCOQ is the fitted linear model 3.5 + 11.2p - 28.4a - 9.5f,
// clamped to [0.5, 5]
func ModelCOQ(r domain.CoqRatio) float64 {
	v := 3.5 + 11.2*r.Prevention - 28.4*r.Appraisal - 9.5*r.Failure
	return math.Max(MinModelCOQ, math.Min(MaxModelCOQ, v))
}

// Simulate evaluates a mix. Components are clamped to [0, 1] first.
func Simulate(r domain.CoqRatio) domain.SimulationResult {
	in := domain.CoqRatio{
		Prevention: Clamp01(r.Prevention),
		Appraisal:  Clamp01(r.Appraisal),
		Failure:    Clamp01(r.Failure),
	}
	return domain.SimulationResult{
		Input:          in,
		Total:          Total(in),
		ImprovementPct: Improvement(Initial, in),
		ModelCOQ:       ModelCOQ(in),
		Radar:          radar(in),
	}
}

// Targets returns the reference mixes and the improvement path
func Targets() domain.OptimizationTargets {
	return domain.OptimizationTargets{
		Initial:     Initial,
		Optimal:     Optimal,
		Theoretical: Theoretical,
		Steps: []domain.ImprovementStep{
			{Label: "Baseline COQ", Value: 1.53},
			{Label: "Appraisal -10%", Value: 1.31},
			{Label: "Prevention +5%", Value: 1.19},
		},
		Limits: Limits,
	}
}

func radar(current domain.CoqRatio) []domain.RadarItem {
	return []domain.RadarItem{
		{Subject: "Prevention", Current: current.Prevention, Optimal: Optimal.Prevention, Theoretical: Theoretical.Prevention},
		{Subject: "Appraisal", Current: current.Appraisal, Optimal: Optimal.Appraisal, Theoretical: Theoretical.Appraisal},
		{Subject: "Failure", Current: current.Failure, Optimal: Optimal.Failure, Theoretical: Theoretical.Failure},
	}
}
