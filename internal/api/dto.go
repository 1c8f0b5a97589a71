package api

import (
	"github.com/rgehrsitz/rplan/internal/breakeven"
	"github.com/rgehrsitz/rplan/internal/domain"
	"github.com/shopspring/decimal"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries a stable machine code and a human message.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	Store  bool   `json:"store"`
}

// SweepRequest is one parameter range in a sensitivity request.
type SweepRequest struct {
	Name  string          `json:"name"`
	Min   decimal.Decimal `json:"min"`
	Max   decimal.Decimal `json:"max"`
	Steps int             `json:"steps"`
}

// SensitivityRequest sweeps each listed parameter against the plan. With no
// parameters the common default set is used.
type SensitivityRequest struct {
	Name       string                `json:"name"`
	Plan       domain.PlanParameters `json:"plan"`
	Parameters []SweepRequest        `json:"parameters"`
}

// BreakEvenRequest runs the solver for one target, or every target with "all".
type BreakEvenRequest struct {
	Plan          domain.PlanParameters  `json:"plan"`
	Target        string                 `json:"target"`
	Constraints   *breakeven.Constraints `json:"constraints,omitempty"`
	MaxIterations int                    `json:"maxIterations,omitempty"`
}

// CompareRequest compares the plan against template and transform variants.
type CompareRequest struct {
	Name       string                `json:"name"`
	Plan       domain.PlanParameters `json:"plan"`
	Templates  []string              `json:"templates"`
	Transforms []string              `json:"transforms"`
}

// SavePlanRequest is the body of POST /api/plans and PUT /api/plans/{id}.
type SavePlanRequest struct {
	Name string                `json:"name"`
	Plan domain.PlanParameters `json:"plan"`
}
