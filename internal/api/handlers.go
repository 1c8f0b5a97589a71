package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/rgehrsitz/rplan/internal/breakeven"
	"github.com/rgehrsitz/rplan/internal/calculation"
	"github.com/rgehrsitz/rplan/internal/compare"
	"github.com/rgehrsitz/rplan/internal/config"
	"github.com/rgehrsitz/rplan/internal/domain"
	"github.com/rgehrsitz/rplan/internal/store"
)

// EvaluationIDHeader names the history record written for an evaluation.
const EvaluationIDHeader = "X-Evaluation-ID"

// maxBodyBytes bounds request bodies; plans are a few hundred bytes.
const maxBodyBytes = 1 << 20

const (
	codeInvalidParameter = "invalid_parameter"
	codeBadRequest       = "bad_request"
	codeNotFound         = "not_found"
	codeInternal         = "internal"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers. Store may be nil, in
// which case nothing is persisted.
type Handler struct {
	Engine   *calculation.CalculationEngine
	Analyzer *calculation.SensitivityAnalyzer
	Solver   *breakeven.Solver
	Compare  *compare.CompareEngine
	Store    *store.Store
}

// NewHandler wires the analysis services around one shared engine.
func NewHandler(st *store.Store, engine *calculation.CalculationEngine) *Handler {
	if engine == nil {
		engine = calculation.NewCalculationEngine()
	}
	solver := breakeven.NewDefaultSolver(engine)
	solver.SetLogger(engine.Logger)
	return &Handler{
		Engine:   engine,
		Analyzer: calculation.NewSensitivityAnalyzerWithEngine(engine),
		Solver:   solver,
		Compare:  compare.NewCompareEngine(engine),
		Store:    st,
	}
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Store: h.Store != nil})
}

// =============================================================================
// EVALUATION HANDLERS
// =============================================================================

// GetDefaults returns the parameters of a fresh plan.
func (h *Handler) GetDefaults(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.DefaultPlanParameters())
}

// EvaluatePlan evaluates the plan in the body and records it in history.
func (h *Handler) EvaluatePlan(w http.ResponseWriter, r *http.Request) {
	var plan domain.PlanParameters
	if !decodeBody(w, r, &plan) {
		return
	}
	h.evaluate(w, r, nil, plan)
}

func (h *Handler) evaluate(w http.ResponseWriter, r *http.Request, planID *string, plan domain.PlanParameters) {
	if err := config.ValidatePlan(plan); err != nil {
		writeServiceError(w, err)
		return
	}

	result, err := h.Engine.Evaluate(r.Context(), plan)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if h.Store != nil {
		rec, err := h.Store.RecordEvaluation(r.Context(), planID, result)
		if err != nil {
			writeServiceError(w, fmt.Errorf("failed to record evaluation: %w", err))
			return
		}
		w.Header().Set(EvaluationIDHeader, rec.ID)
	}

	writeJSON(w, http.StatusOK, result)
}

// AnalyzeSensitivity sweeps the requested parameters.
func (h *Handler) AnalyzeSensitivity(w http.ResponseWriter, r *http.Request) {
	var req SensitivityRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := config.ValidatePlan(req.Plan); err != nil {
		writeServiceError(w, err)
		return
	}

	params, err := sweepParameters(req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	analysis, err := h.Analyzer.AnalyzeMultipleParameters(r.Context(), req.Name, req.Plan, params)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

func sweepParameters(req SensitivityRequest) ([]domain.SensitivityParameter, error) {
	if len(req.Parameters) == 0 {
		return domain.CommonSensitivityParameters(req.Plan), nil
	}

	params := make([]domain.SensitivityParameter, 0, len(req.Parameters))
	for _, s := range req.Parameters {
		spec, ok := domain.LookupParameterSpec(s.Name)
		if !ok {
			return nil, domain.NewParameterError("parameter", s.Name, "unknown sensitivity parameter")
		}
		base, _ := req.Plan.Value(spec.Name)
		params = append(params, domain.SensitivityParameter{
			Name:        spec.Name,
			MinValue:    s.Min,
			MaxValue:    s.Max,
			Steps:       s.Steps,
			BaseValue:   base,
			Unit:        spec.Unit,
			Description: spec.Description,
		})
	}
	return params, nil
}

// BreakEven runs the solver for the requested target.
func (h *Handler) BreakEven(w http.ResponseWriter, r *http.Request) {
	var req BreakEvenRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := config.ValidatePlan(req.Plan); err != nil {
		writeServiceError(w, err)
		return
	}

	targetName := req.Target
	if targetName == "" {
		targetName = string(breakeven.OptimizeAll)
	}
	target, err := breakeven.ParseTarget(strings.ToLower(targetName))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	opt := breakeven.OptimizationRequest{
		Base:          req.Plan,
		Target:        target,
		MaxIterations: req.MaxIterations,
	}
	if req.Constraints != nil {
		opt.Constraints = *req.Constraints
	}

	if target == breakeven.OptimizeAll {
		multi, err := h.Solver.OptimizeAll(r.Context(), opt)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, multi)
		return
	}

	result, err := h.Solver.Optimize(r.Context(), opt)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ComparePlans evaluates the plan against each template and transform.
func (h *Handler) ComparePlans(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := config.ValidatePlan(req.Plan); err != nil {
		writeServiceError(w, err)
		return
	}

	set, err := h.Compare.Compare(r.Context(), req.Plan, compare.CompareOptions{
		BaseName:   req.Name,
		Templates:  req.Templates,
		Transforms: req.Transforms,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, set)
}

// =============================================================================
// SAVED PLAN HANDLERS
// =============================================================================

// ListPlans returns every saved plan ordered by name.
func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.Store.ListPlans(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

// CreatePlan saves a new plan.
func (h *Handler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	h.savePlan(w, r, "", http.StatusCreated)
}

// UpdatePlan replaces the plan stored under {id}.
func (h *Handler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.Store.GetPlan(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	h.savePlan(w, r, id, http.StatusOK)
}

func (h *Handler) savePlan(w http.ResponseWriter, r *http.Request, id string, status int) {
	var req SavePlanRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeServiceError(w, domain.NewParameterError("name", "", "plan name is required"))
		return
	}
	if err := config.ValidatePlan(req.Plan); err != nil {
		writeServiceError(w, err)
		return
	}

	rec := &store.PlanRecord{ID: id, Name: req.Name, Plan: req.Plan}
	if err := h.Store.SavePlan(r.Context(), rec); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, status, rec)
}

// GetPlan returns one saved plan.
func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Store.GetPlan(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// DeletePlan removes a saved plan. Its evaluation history is kept.
func (h *Handler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeletePlan(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// EvaluateSavedPlan evaluates a saved plan and links the history record to it.
func (h *Handler) EvaluateSavedPlan(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Store.GetPlan(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.evaluate(w, r, &rec.ID, rec.Plan)
}

// =============================================================================
// HISTORY HANDLERS
// =============================================================================

// ListEvaluations returns the most recent evaluations, newest first.
func (h *Handler) ListEvaluations(w http.ResponseWriter, r *http.Request) {
	limit := store.DefaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeServiceError(w, domain.NewParameterError("limit", raw, "must be a positive integer"))
			return
		}
		limit = n
	}

	evals, err := h.Store.ListEvaluations(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, evals)
}

// GetEvaluation returns one history record.
func (h *Handler) GetEvaluation(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Store.GetEvaluation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// =============================================================================
// HELPERS
// =============================================================================

// decodeBody reads a JSON body into v, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "failed to read request body")
		return false
	}
	if len(body) == 0 {
		writeError(w, http.StatusBadRequest, codeBadRequest, "request body is required")
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		if isDecimalError(err) {
			writeServiceError(w, domain.NewParameterError("body", "", err.Error()))
			return false
		}
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	return true
}

// isDecimalError recognises a number rejected by shopspring/decimal, which
// reports NaN, Inf and malformed strings as "can't convert X to decimal".
func isDecimalError(err error) bool {
	return strings.Contains(err.Error(), "to decimal")
}

// writeServiceError maps domain and store errors onto status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidParameter):
		writeError(w, http.StatusBadRequest, codeInvalidParameter, err.Error())
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, codeInternal, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternal, err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorBody{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
