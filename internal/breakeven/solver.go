package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/rplan/internal/calculation"
	"github.com/rgehrsitz/rplan/internal/domain"
	"github.com/rgehrsitz/rplan/internal/transform"
	"github.com/shopspring/decimal"
)

// Solver finds the break-even value of one plan parameter: the point where
// the savings stop lasting through life expectancy.
type Solver struct {
	CalcEngine *calculation.CalculationEngine
	Options    SolverOptions
	Logger     calculation.Logger
}

// NewSolver creates a new break-even solver
func NewSolver(calcEngine *calculation.CalculationEngine, options SolverOptions) *Solver {
	if calcEngine == nil {
		calcEngine = calculation.NewCalculationEngine()
	}
	return &Solver{
		CalcEngine: calcEngine,
		Options:    options,
		Logger:     calculation.NopLogger{},
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(calcEngine *calculation.CalculationEngine) *Solver {
	return NewSolver(calcEngine, DefaultSolverOptions())
}

// SetLogger sets the solver logger; nil disables logging.
func (s *Solver) SetLogger(l calculation.Logger) {
	if l == nil {
		l = calculation.NopLogger{}
	}
	s.Logger = l
}

// Optimize performs optimization based on the request
func (s *Solver) Optimize(ctx context.Context, req OptimizationRequest) (*OptimizationResult, error) {
	if err := req.Constraints.Validate(); err != nil {
		return nil, err
	}
	req.Constraints = req.Constraints.withDefaults(req.Base)
	if err := req.Constraints.Validate(); err != nil {
		return nil, err
	}

	if req.MaxIterations < 0 || req.MaxIterations > MaxIterationsLimit {
		return nil, &BreakEvenError{
			Operation: "optimize",
			Message:   fmt.Sprintf("max_iterations must be between 0 and %d", MaxIterationsLimit),
			Cause:     domain.ErrInvalidParameter,
		}
	}
	if req.MaxIterations == 0 {
		req.MaxIterations = s.Options.MaxIterations
	}
	if req.Tolerance.IsZero() {
		if req.Target == OptimizeExpenses {
			req.Tolerance = s.Options.ScaleTolerance
		} else {
			req.Tolerance = s.Options.Tolerance
		}
	}

	base, err := s.evaluate(ctx, req.Base)
	if err != nil {
		return nil, &BreakEvenError{Operation: "optimize", Message: "failed to evaluate base plan", Cause: err}
	}

	var result *OptimizationResult
	switch req.Target {
	case OptimizeContribution:
		result, err = s.optimizeContribution(ctx, req)
	case OptimizeExpenses:
		result, err = s.optimizeExpenses(ctx, req)
	case OptimizeRetirementAge:
		result, err = s.optimizeRetirementAge(ctx, req)
	default:
		return nil, &BreakEvenError{
			Operation: "optimize",
			Message:   fmt.Sprintf("unsupported optimization target: %s", req.Target),
			Cause:     domain.ErrInvalidParameter,
		}
	}
	if err != nil {
		return nil, err
	}

	result.BaseFundsLast = base.FundsLast
	result.BaseFinalBalance = base.FinalBalance()
	s.Logger.Infof("break-even %s: %s after %d evaluations (%s)", req.Target, result.OptimalValueString(), result.Iterations, result.ConvergenceInfo)
	return result, nil
}

// probe evaluates the plan at one value of the searched parameter.
type probe func(ctx context.Context, v decimal.Decimal) (*domain.PlanParameters, *domain.SimulationResult, error)

// outcome is the state of a finished search.
type outcome struct {
	value      decimal.Decimal
	plan       *domain.PlanParameters
	result     *domain.SimulationResult
	iterations int
	converged  bool
	always     bool
	never      bool
}

// bisect searches [lo, hi] for the boundary where funds stop lasting.
// When risingIsGood is true funds last at high values and the smallest
// working value is returned; otherwise the largest working value.
func (s *Solver) bisect(ctx context.Context, req OptimizationRequest, lo, hi decimal.Decimal, risingIsGood bool, eval probe) (*outcome, error) {
	good, bad := hi, lo
	if !risingIsGood {
		good, bad = lo, hi
	}
	out := &outcome{}

	// Whole range works: the "bad" end is already the answer.
	plan, res, err := eval(ctx, bad)
	if err != nil {
		return nil, err
	}
	out.iterations++
	if res.FundsLast {
		out.value, out.plan, out.result = bad, plan, res
		out.converged, out.always = true, true
		return out, nil
	}

	plan, res, err = eval(ctx, good)
	if err != nil {
		return nil, err
	}
	out.iterations++
	if !res.FundsLast {
		out.value, out.plan, out.result = good, plan, res
		out.never = true
		return out, nil
	}
	out.value, out.plan, out.result = good, plan, res

	two := decimal.NewFromInt(2)
	for out.iterations < req.MaxIterations {
		if good.Sub(bad).Abs().LessThanOrEqual(req.Tolerance) {
			out.converged = true
			return out, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		mid := good.Add(bad).Div(two)
		plan, res, err := eval(ctx, mid)
		if err != nil {
			return nil, err
		}
		out.iterations++
		if res.FundsLast {
			good = mid
			out.value, out.plan, out.result = mid, plan, res
		} else {
			bad = mid
		}
	}

	out.converged = good.Sub(bad).Abs().LessThanOrEqual(req.Tolerance)
	return out, nil
}

// optimizeContribution finds the minimum monthly contribution for which
// funds last.
func (s *Solver) optimizeContribution(ctx context.Context, req OptimizationRequest) (*OptimizationResult, error) {
	eval := func(ctx context.Context, v decimal.Decimal) (*domain.PlanParameters, *domain.SimulationResult, error) {
		amount := v.RoundCeil(2)
		return s.applyAndEvaluate(ctx, req, &transform.AdjustContribution{Set: &amount})
	}

	out, err := s.bisect(ctx, req, *req.Constraints.MinContribution, *req.Constraints.MaxContribution, true, eval)
	if err != nil {
		return nil, s.wrap("optimize_contribution", err)
	}

	result := s.newResult(req, out)
	amount := out.plan.MonthlyContribution
	result.OptimalContribution = &amount
	result.ConvergenceInfo = s.describe(out, "contribution", "$"+req.Tolerance.StringFixed(2))
	return result, nil
}

// optimizeExpenses finds the largest uniform scale of today's need and want
// expenses for which funds last.
func (s *Solver) optimizeExpenses(ctx context.Context, req OptimizationRequest) (*OptimizationResult, error) {
	eval := func(ctx context.Context, v decimal.Decimal) (*domain.PlanParameters, *domain.SimulationResult, error) {
		pct := v.RoundFloor(2)
		return s.applyAndEvaluate(ctx, req, &transform.ScaleExpenses{NeedPercent: pct, WantPercent: pct})
	}

	out, err := s.bisect(ctx, req, *req.Constraints.MinExpenseScale, *req.Constraints.MaxExpenseScale, false, eval)
	if err != nil {
		return nil, s.wrap("optimize_expenses", err)
	}

	result := s.newResult(req, out)
	scale := out.value.RoundFloor(2)
	monthly := out.plan.CurrentMonthlyExpenses()
	result.OptimalExpenseScale = &scale
	result.SustainableMonthlyExpenses = &monthly
	result.ConvergenceInfo = s.describe(out, "expense scale", req.Tolerance.String()+"%")
	return result, nil
}

// optimizeRetirementAge finds the earliest whole retirement age for which
// funds last.
func (s *Solver) optimizeRetirementAge(ctx context.Context, req OptimizationRequest) (*OptimizationResult, error) {
	lo, hi := *req.Constraints.MinRetirementAge, *req.Constraints.MaxRetirementAge
	eval := func(ctx context.Context, age int) (*domain.PlanParameters, *domain.SimulationResult, error) {
		return s.applyAndEvaluate(ctx, req, &transform.SetRetirementAge{Age: age})
	}

	out := &outcome{}
	best := hi
	record := func(age int, plan *domain.PlanParameters, res *domain.SimulationResult) {
		best = age
		out.plan, out.result = plan, res
	}

	plan, res, err := eval(ctx, lo)
	if err != nil {
		return nil, s.wrap("optimize_retirement_age", err)
	}
	out.iterations++
	if res.FundsLast {
		record(lo, plan, res)
		out.converged, out.always = true, true
	} else {
		plan, res, err = eval(ctx, hi)
		if err != nil {
			return nil, s.wrap("optimize_retirement_age", err)
		}
		out.iterations++
		record(hi, plan, res)
		if !res.FundsLast {
			out.never = true
		} else {
			// Invariant: lo fails, hi works.
			for hi-lo > 1 && out.iterations < req.MaxIterations {
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				default:
				}
				mid := lo + (hi-lo)/2
				plan, res, err := eval(ctx, mid)
				if err != nil {
					return nil, s.wrap("optimize_retirement_age", err)
				}
				out.iterations++
				if res.FundsLast {
					hi = mid
					record(mid, plan, res)
				} else {
					lo = mid
				}
			}
			out.converged = hi-lo <= 1
		}
	}

	result := s.newResult(req, out)
	result.OptimalRetirementAge = &best
	result.ConvergenceInfo = s.describe(out, "retirement age", "1 year")
	return result, nil
}

func (s *Solver) applyAndEvaluate(ctx context.Context, req OptimizationRequest, t transform.ScenarioTransform) (*domain.PlanParameters, *domain.SimulationResult, error) {
	plan, err := transform.ApplyTransforms(&req.Base, []transform.ScenarioTransform{t})
	if err != nil {
		return nil, nil, err
	}
	res, err := s.evaluate(ctx, *plan)
	if err != nil {
		return nil, nil, err
	}
	s.Logger.Debugf("break-even %s probe (%s): funds last %v, final balance %s", req.Target, t.Description(), res.FundsLast, res.FinalBalance().StringFixed(2))
	return plan, res, nil
}

func (s *Solver) evaluate(ctx context.Context, p domain.PlanParameters) (*domain.SimulationResult, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return calculation.EvaluatePlan(p)
}

func (s *Solver) newResult(req OptimizationRequest, out *outcome) *OptimizationResult {
	result := &OptimizationResult{
		Request:        req,
		Success:        out.converged && !out.never,
		Iterations:     out.iterations,
		AlwaysFeasible: out.always,
		NeverFeasible:  out.never,
		Plan:           out.plan,
		Result:         out.result,
	}
	if out.result != nil {
		result.FundsLast = out.result.FundsLast
		result.FinalBalance = out.result.FinalBalance()
		result.DepletionAge = out.result.DepletionAge
	}
	return result
}

func (s *Solver) describe(out *outcome, what, tolerance string) string {
	switch {
	case out.always:
		return fmt.Sprintf("funds last for every %s in range", what)
	case out.never:
		return fmt.Sprintf("no %s in range keeps funds positive", what)
	case out.converged:
		return fmt.Sprintf("binary search converged within %s", tolerance)
	default:
		return fmt.Sprintf("max iterations (%d) reached", out.iterations)
	}
}

func (s *Solver) wrap(op string, err error) error {
	if err == context.Canceled || err == context.DeadlineExceeded {
		return err
	}
	return &BreakEvenError{Operation: op, Message: "evaluation failed", Cause: err}
}
