package calculation

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/rgehrsitz/rplan/internal/domain"
)

// EvaluateAll evaluates independent plans on up to workers goroutines.
// Results are returned in input order. workers <= 0 uses GOMAXPROCS.
func (ce *CalculationEngine) EvaluateAll(ctx context.Context, plans []domain.PlanParameters, workers int) ([]*domain.SimulationResult, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]*domain.SimulationResult, len(plans))
	errs := make([]error, len(plans))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i := range plans {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			results[i], errs[i] = EvaluatePlan(plans[i])
		}(i)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("plan %d: %w", i, err)
		}
	}
	ce.Logger.Debugf("evaluated %d plans on %d workers", len(plans), workers)
	return results, nil
}
