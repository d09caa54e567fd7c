package survey

import (
	"context"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/danielpatrickdp/meshquality/internal/quality"
)

// #region surveyor
// Surveyor evaluates every triangle of a mesh without refining anything.
type Surveyor struct {
	config    Config
	evaluator *quality.Evaluator
}

// NewSurveyor creates a surveyor bound to one evaluator.
func NewSurveyor(config Config, ev *quality.Evaluator) *Surveyor {
	if ev == nil {
		ev = quality.NewEvaluator(nil)
	}
	return &Surveyor{config: config, evaluator: ev}
}

// partial is the tally of one region.
type partial struct {
	count    int
	reasons  map[quality.Reason]int
	minAngle float64
	maxAngle float64
	area     float64
	badIDs   []int
}

// Run evaluates regions concurrently. The first predicate error cancels the
// remaining regions and is returned.
func (s *Surveyor) Run(ctx context.Context, regions [][]quality.Triangle) (Report, error) {
	parts := make([]partial, len(regions))

	g, gctx := errgroup.WithContext(ctx)
	if s.config.Workers > 0 {
		g.SetLimit(s.config.Workers)
	}
	for i, region := range regions {
		i, region := i, region
		g.Go(func() error {
			p, err := s.region(gctx, region)
			if err != nil {
				return fmt.Errorf("region %d: %w", i, err)
			}
			parts[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	return s.merge(parts), nil
}

func (s *Surveyor) region(ctx context.Context, tris []quality.Triangle) (partial, error) {
	p := partial{
		reasons:  make(map[quality.Reason]int),
		minAngle: math.Inf(1),
		maxAngle: math.Inf(-1),
	}
	for _, t := range tris {
		if err := ctx.Err(); err != nil {
			return partial{}, err
		}
		v, err := s.evaluator.Evaluate(t)
		if err != nil {
			return partial{}, err
		}
		// Excluded triangles still count towards the mesh geometry.
		m := quality.Measure(t, s.evaluator.Config())
		p.count++
		p.minAngle = math.Min(p.minAngle, m.MinAngle)
		p.maxAngle = math.Max(p.maxAngle, m.MaxAngle)
		p.area += m.Area
		p.reasons[v.Reason]++
		if v.Bad {
			p.badIDs = append(p.badIDs, t.ID())
		}
	}
	return p, nil
}

// #endregion surveyor

// #region merge
func (s *Surveyor) merge(parts []partial) Report {
	rep := Report{
		Regions:      len(parts),
		ReasonCounts: make(map[quality.Reason]int),
		MinAngle:     math.Inf(1),
		MaxAngle:     math.Inf(-1),
		BadIDs:       []int{},
	}
	for _, p := range parts {
		rep.Triangles += p.count
		rep.TotalArea += p.area
		if p.count > 0 {
			rep.MinAngle = math.Min(rep.MinAngle, p.minAngle)
			rep.MaxAngle = math.Max(rep.MaxAngle, p.maxAngle)
		}
		for r, n := range p.reasons {
			rep.ReasonCounts[r] += n
		}
		rep.BadIDs = append(rep.BadIDs, p.badIDs...)
	}
	sort.Ints(rep.BadIDs)
	rep.Bad = len(rep.BadIDs)
	if rep.Triangles == 0 {
		rep.MinAngle, rep.MaxAngle = 0, 0
	}

	rep.Metrics = s.metrics(rep)
	rep.Passed = rep.Bad == 0

	var failed []string
	for _, m := range rep.Metrics {
		if !m.Pass {
			failed = append(failed, m.Name)
		}
	}
	switch {
	case rep.Passed:
		rep.Reason = "all triangles good"
	case len(failed) > 0:
		rep.Reason = fmt.Sprintf("%d of %d triangles bad: %s violated", rep.Bad, rep.Triangles, failed[0])
	default:
		rep.Reason = fmt.Sprintf("%d of %d triangles bad", rep.Bad, rep.Triangles)
	}
	return rep
}

// metrics reports the mesh-wide extremes against the active bounds. Only
// constrained bounds produce a metric.
func (s *Surveyor) metrics(rep Report) []Metric {
	cfg := s.evaluator.Config()
	var out []Metric
	if rep.Triangles == 0 {
		return out
	}
	if b := cfg.MinimumAngle(); b > 0 {
		out = append(out, Metric{Name: "min_angle", Value: rep.MinAngle, Bound: b, Pass: rep.ReasonCounts[quality.ReasonMinAngle] == 0})
	}
	if b := cfg.MaximumAngle(); b > 0 {
		out = append(out, Metric{Name: "max_angle", Value: rep.MaxAngle, Bound: b, Pass: rep.ReasonCounts[quality.ReasonMaxAngle] == 0})
	}
	if b := cfg.MaximumArea(); b > 0 || cfg.VariableArea() {
		n := rep.ReasonCounts[quality.ReasonMaxArea] + rep.ReasonCounts[quality.ReasonVariableArea]
		out = append(out, Metric{Name: "area", Value: float64(n), Bound: b, Pass: n == 0})
	}
	if cfg.HasUserTest() {
		n := rep.ReasonCounts[quality.ReasonUserTest]
		out = append(out, Metric{Name: "user_test", Value: float64(n), Pass: n == 0})
	}
	return out
}

// #endregion merge
