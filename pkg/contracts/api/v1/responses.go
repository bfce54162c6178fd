package api

import (
	"coqboard/pkg/contracts/domain"
)

// RatiosResponse is the ratio chart dataset
type RatiosResponse struct {
	Source domain.DataSource   `json:"source"`
	Points []domain.RatioPoint `json:"points"`
	Ticks  []string            `json:"ticks"`
}

// RecentResponse is the recent-window summary
type RecentResponse struct {
	Source  domain.DataSource    `json:"source"`
	Summary domain.RecentSummary `json:"summary"`
}

// EfficiencyResponse is the efficiency chart dataset with the yearly timeline
type EfficiencyResponse struct {
	Source   domain.DataSource        `json:"source"`
	Points   []domain.EfficiencyPoint `json:"points"`
	Ticks    []string                 `json:"ticks"`
	Timeline domain.Timeline          `json:"timeline"`
}
