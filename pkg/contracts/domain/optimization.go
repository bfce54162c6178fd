package domain

// CoqRatio is a prevention/appraisal/failure mix used by the simulator
type CoqRatio struct {
	Prevention float64 `json:"prevention"`
	Appraisal  float64 `json:"appraisal"`
	Failure    float64 `json:"failure"`
}

// Total returns the sum of the three components
func (r CoqRatio) Total() float64 {
	return r.Prevention + r.Appraisal + r.Failure
}

// RadarItem compares one category across the current, optimal and theoretical mixes
type RadarItem struct {
	Subject     string  `json:"subject"`
	Current     float64 `json:"current"`
	Optimal     float64 `json:"optimal"`
	Theoretical float64 `json:"theoretical"`
}

// ImprovementStep is one milestone on the path from the baseline COQ
type ImprovementStep struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// SimulationResult is the outcome of one simulated ratio mix
type SimulationResult struct {
	Input          CoqRatio    `json:"input"`
	Total          float64     `json:"total"`
	ImprovementPct float64     `json:"improvement_pct"`
	ModelCOQ       float64     `json:"model_coq"`
	Radar          []RadarItem `json:"radar"`
}

// OptimizationTargets bundles the fixed reference mixes
type OptimizationTargets struct {
	Initial     CoqRatio          `json:"initial"`
	Optimal     CoqRatio          `json:"optimal"`
	Theoretical CoqRatio          `json:"theoretical"`
	Steps       []ImprovementStep `json:"steps"`
	Limits      CoqRatio          `json:"limits"`
}
