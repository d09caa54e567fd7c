package refine

import (
	"context"
	"fmt"

	"github.com/danielpatrickdp/meshquality/internal/quality"
)

// #region types

// Splitter is the host's refinement algorithm. It inserts a Steiner point
// into t and returns the triangles that replace it.
type Splitter interface {
	Split(ctx context.Context, t quality.Triangle, strategy StrategyInfo) ([]quality.Triangle, error)
}

// SplitterFunc adapts a function to Splitter.
type SplitterFunc func(ctx context.Context, t quality.Triangle, strategy StrategyInfo) ([]quality.Triangle, error)

func (f SplitterFunc) Split(ctx context.Context, t quality.Triangle, strategy StrategyInfo) ([]quality.Triangle, error) {
	return f(ctx, t, strategy)
}

// StopCause says why a pass ended.
type StopCause string

const (
	StopClean     StopCause = "clean"            // no bad triangles left
	StopBudget    StopCause = "budget_exhausted" // Steiner budget used up
	StopCancelled StopCause = "cancelled"
	StopFailed    StopCause = "failed" // predicate or splitter error
)

// VerdictFunc observes every verdict produced during a pass.
type VerdictFunc func(t quality.Triangle, v quality.Verdict, m quality.Measurement)

// PassResult summarises a refinement pass.
type PassResult struct {
	Strategy     StrategyInfo
	Stop         StopCause
	Evaluated    int
	Splits       int
	SteinerUsed  int
	Remaining    int // bad triangles still queued at the end
	ReasonCounts map[quality.Reason]int
}

// #endregion types

// #region pass

// Pass drives one refinement pass: evaluate, rank, consume budget, split.
type Pass struct {
	evaluator *quality.Evaluator
	splitter  Splitter
	budget    *Budget
	strategy  StrategyInfo
	onVerdict VerdictFunc
}

// NewPass prepares a pass for a frozen config. The Steiner budget and the
// strategy are taken from the config.
func NewPass(config *quality.Config, splitter Splitter) *Pass {
	steiner := 0
	if config != nil {
		steiner = config.SteinerPoints()
	}
	return &Pass{
		evaluator: quality.NewEvaluator(config),
		splitter:  splitter,
		budget:    NewBudget(steiner),
		strategy:  SelectStrategy(config),
	}
}

// OnVerdict registers an observer called for every evaluated triangle.
func (p *Pass) OnVerdict(fn VerdictFunc) *Pass {
	p.onVerdict = fn
	return p
}

// Budget exposes the pass's Steiner budget.
func (p *Pass) Budget() *Budget {
	return p.budget
}

// Strategy returns the strategy resolved for this pass.
func (p *Pass) Strategy() StrategyInfo {
	return p.strategy
}

// Run evaluates the seed triangles and refines bad ones, worst first, until
// none remain, the budget runs out, or ctx is cancelled. A predicate or
// splitter failure aborts the pass and is returned with the partial result.
func (p *Pass) Run(ctx context.Context, seeds []quality.Triangle) (PassResult, error) {
	res := PassResult{
		Strategy:     p.strategy,
		ReasonCounts: make(map[quality.Reason]int),
	}
	var q Queue

	enqueue := func(tris []quality.Triangle) error {
		for _, t := range tris {
			v, m, err := p.evaluator.EvaluateMeasured(t)
			if err != nil {
				return err
			}
			res.Evaluated++
			if p.onVerdict != nil {
				p.onVerdict(t, v, m)
			}
			if v.Bad {
				res.ReasonCounts[v.Reason]++
				q.Push(t, v, m)
			}
		}
		return nil
	}

	finish := func(cause StopCause, err error) (PassResult, error) {
		res.Stop = cause
		res.SteinerUsed = p.budget.Used()
		res.Remaining = q.Len()
		return res, err
	}

	if err := enqueue(seeds); err != nil {
		return finish(StopFailed, err)
	}

	for q.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return finish(StopCancelled, err)
		}
		if !p.budget.Consume() {
			return finish(StopBudget, nil)
		}

		it := q.Pop()
		children, err := p.splitter.Split(ctx, it.Triangle, p.strategy)
		if err != nil {
			return finish(StopFailed, fmt.Errorf("split triangle %d: %w", it.Triangle.ID(), err))
		}
		res.Splits++

		if err := enqueue(children); err != nil {
			return finish(StopFailed, err)
		}
	}

	return finish(StopClean, nil)
}

// #endregion pass
