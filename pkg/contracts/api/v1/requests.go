// Package api contains API contract definitions for the COQ dashboard service.
// Version v1 represents the current stable API version.
package api

import (
	"coqboard/pkg/contracts/domain"
)

// Optimization API Requests

// SimulateRequest represents a simulated prevention/appraisal/failure mix.
// Pointers distinguish a missing field from an explicit zero.
type SimulateRequest struct {
	Prevention *float64 `json:"prevention" validate:"required,min=0,max=1"`
	Appraisal  *float64 `json:"appraisal" validate:"required,min=0,max=1"`
	Failure    *float64 `json:"failure" validate:"required,min=0,max=1"`
}

// Ratio converts the request into a domain ratio
func (r SimulateRequest) Ratio() domain.CoqRatio {
	return domain.CoqRatio{
		Prevention: deref(r.Prevention),
		Appraisal:  deref(r.Appraisal),
		Failure:    deref(r.Failure),
	}
}

// Chat API Requests

// ChatRequest is forwarded to the chat backend
type ChatRequest struct {
	Message string `json:"message" validate:"required,notblank,max=4000"`
}

// Overview API Requests

// OverviewRequest carries optional overview query parameters
type OverviewRequest struct {
	IncludeSkipped bool `json:"include_skipped" query:"include_skipped"`
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
