package refine

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/danielpatrickdp/meshquality/internal/mesh"
	"github.com/danielpatrickdp/meshquality/internal/quality"
)

// #region helpers

// midpointSplitter replaces a triangle by its four midpoint children. The
// children are similar to the parent, so only area violations go away.
type midpointSplitter struct {
	nextID int
	calls  int
	seen   []StrategyID
}

func (s *midpointSplitter) Split(_ context.Context, t quality.Triangle, strategy StrategyInfo) ([]quality.Triangle, error) {
	s.calls++
	s.seen = append(s.seen, strategy.ID)
	v := t.(*mesh.Tri).Vertices()
	mid := func(a, b mesh.Point) mesh.Point {
		return mesh.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
	}
	ab, bc, ca := mid(v[0], v[1]), mid(v[1], v[2]), mid(v[2], v[0])
	out := make([]quality.Triangle, 0, 4)
	for _, c := range [][3]mesh.Point{
		{v[0], ab, ca},
		{ab, v[1], bc},
		{ca, bc, v[2]},
		{ab, bc, ca},
	} {
		s.nextID++
		out = append(out, mesh.NewTri(s.nextID, c[0], c[1], c[2], 0))
	}
	return out, nil
}

// rightTri has area 8 and angles 90/45/45.
func rightTri(id int) *mesh.Tri {
	return mesh.NewTri(id, mesh.Point{X: 0, Y: 0}, mesh.Point{X: 4, Y: 0}, mesh.Point{X: 0, Y: 4}, 0)
}

// #endregion helpers

// #region budget-tests
func TestBudget_Unbounded(t *testing.T) {
	b := NewBudget(0)
	for i := 0; i < 1000; i++ {
		if !b.Consume() {
			t.Fatal("unbounded budget refused")
		}
	}
	if b.Used() != 1000 || b.Remaining() != -1 || b.Exhausted() || !b.Unbounded() {
		t.Fatalf("unexpected state: used=%d remaining=%d", b.Used(), b.Remaining())
	}
}

func TestBudget_Limit(t *testing.T) {
	b := NewBudget(2)
	if !b.Consume() || !b.Consume() {
		t.Fatal("expected two units")
	}
	if b.Consume() {
		t.Fatal("third unit should be refused")
	}
	if !b.Exhausted() || b.Remaining() != 0 || b.Used() != 2 {
		t.Fatalf("unexpected state: used=%d remaining=%d", b.Used(), b.Remaining())
	}
}

func TestBudget_NegativeLimit(t *testing.T) {
	if !NewBudget(-3).Unbounded() {
		t.Fatal("negative limit should be unbounded")
	}
}

func TestBudget_Concurrent(t *testing.T) {
	b := NewBudget(100)
	var granted sync.WaitGroup
	var mu sync.Mutex
	count := 0

	for i := 0; i < 8; i++ {
		granted.Add(1)
		go func() {
			defer granted.Done()
			for j := 0; j < 50; j++ {
				if b.Consume() {
					mu.Lock()
					count++
					mu.Unlock()
				}
			}
		}()
	}
	granted.Wait()

	if count != 100 || b.Used() != 100 {
		t.Fatalf("expected exactly 100 grants, got %d (used %d)", count, b.Used())
	}
}

// #endregion budget-tests

// #region queue-tests
func TestQueue_WorstFirst(t *testing.T) {
	var q Queue
	bad := quality.Verdict{Bad: true, Reason: quality.ReasonMinAngle}
	q.Push(rightTri(1), bad, quality.Measurement{MinAngle: 25, Area: 1})
	q.Push(rightTri(2), bad, quality.Measurement{MinAngle: 10, Area: 1})
	q.Push(rightTri(3), bad, quality.Measurement{MinAngle: 25, Area: 9})
	q.Push(rightTri(4), bad, quality.Measurement{MinAngle: 25, Area: 9})

	if q.Peek().Triangle.ID() != 2 {
		t.Fatalf("peek: expected 2, got %d", q.Peek().Triangle.ID())
	}
	want := []int{2, 3, 4, 1}
	for _, id := range want {
		it := q.Pop()
		if it == nil || it.Triangle.ID() != id {
			t.Fatalf("expected %d, got %+v", id, it)
		}
	}
	if q.Pop() != nil || q.Len() != 0 {
		t.Fatal("queue should be empty")
	}
}

// #endregion queue-tests

// #region strategy-tests
func TestSelectStrategy(t *testing.T) {
	if got := SelectStrategy(nil); got.ID != StrategyACute {
		t.Errorf("nil config: expected acute, got %s", got.ID)
	}
	legacy := quality.Options{UseLegacyRefinement: true}.MustFreeze()
	if got := SelectStrategy(legacy); got.ID != StrategyRuppert || !got.Legacy {
		t.Errorf("legacy config: expected ruppert, got %+v", got)
	}
}

// #endregion strategy-tests

// #region pass-tests
func TestPass_RefinesUntilClean(t *testing.T) {
	cfg := quality.Options{MaximumArea: 1}.MustFreeze()
	sp := &midpointSplitter{nextID: 100}

	res, err := NewPass(cfg, sp).Run(context.Background(), []quality.Triangle{rightTri(1)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Stop != StopClean {
		t.Fatalf("expected clean stop, got %s", res.Stop)
	}
	// 8 -> 4x2 -> 16x0.5
	if res.Splits != 5 || res.SteinerUsed != 5 {
		t.Errorf("expected 5 splits, got %d (steiner %d)", res.Splits, res.SteinerUsed)
	}
	if res.Evaluated != 1+5*4 {
		t.Errorf("expected 21 evaluations, got %d", res.Evaluated)
	}
	if res.ReasonCounts[quality.ReasonMaxArea] != 5 {
		t.Errorf("expected 5 max_area verdicts, got %v", res.ReasonCounts)
	}
	if res.Strategy.ID != StrategyACute {
		t.Errorf("expected acute strategy, got %s", res.Strategy.ID)
	}
}

func TestPass_StopsOnBudget(t *testing.T) {
	cfg := quality.Options{MaximumArea: 1, SteinerPoints: 3, UseLegacyRefinement: true}.MustFreeze()
	sp := &midpointSplitter{nextID: 100}

	res, err := NewPass(cfg, sp).Run(context.Background(), []quality.Triangle{rightTri(1)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Stop != StopBudget {
		t.Fatalf("expected budget stop, got %s", res.Stop)
	}
	if sp.calls != 3 || res.SteinerUsed != 3 {
		t.Errorf("expected 3 splits, got %d", sp.calls)
	}
	if res.Remaining != 2 {
		t.Errorf("expected 2 bad triangles left, got %d", res.Remaining)
	}
	for _, id := range sp.seen {
		if id != StrategyRuppert {
			t.Fatalf("splitter saw strategy %s", id)
		}
	}
}

func TestPass_Cancelled(t *testing.T) {
	// Midpoint children keep the 45 degree corners, so this never converges.
	cfg := quality.Options{MinimumAngle: 50}.MustFreeze()
	ctx, cancel := context.WithCancel(context.Background())
	sp := &midpointSplitter{nextID: 100}
	split := SplitterFunc(func(ctx context.Context, tri quality.Triangle, s StrategyInfo) ([]quality.Triangle, error) {
		if sp.calls == 10 {
			cancel()
		}
		return sp.Split(ctx, tri, s)
	})

	res, err := NewPass(cfg, split).Run(ctx, []quality.Triangle{rightTri(1)})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if res.Stop != StopCancelled {
		t.Errorf("expected cancelled stop, got %s", res.Stop)
	}
	if res.Splits != 11 {
		t.Errorf("expected 11 splits, got %d", res.Splits)
	}
}

func TestPass_PredicateFailureAborts(t *testing.T) {
	cause := errors.New("bad predicate")
	cfg := quality.Options{
		UserTest: func(tri quality.Triangle, _ float64) (bool, error) {
			if tri.ID() == 2 {
				return false, cause
			}
			return false, nil
		},
	}.MustFreeze()

	res, err := NewPass(cfg, &midpointSplitter{}).Run(context.Background(), []quality.Triangle{rightTri(1), rightTri(2), rightTri(3)})
	var perr *quality.PredicateEvaluationError
	if !errors.As(err, &perr) || perr.TriangleID != 2 {
		t.Fatalf("expected predicate error on triangle 2, got %v", err)
	}
	if res.Stop != StopFailed || res.Evaluated != 1 {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestPass_SplitterFailure(t *testing.T) {
	cfg := quality.Options{MaximumArea: 1}.MustFreeze()
	boom := errors.New("cannot insert")
	split := SplitterFunc(func(context.Context, quality.Triangle, StrategyInfo) ([]quality.Triangle, error) {
		return nil, boom
	})

	res, err := NewPass(cfg, split).Run(context.Background(), []quality.Triangle{rightTri(1)})
	if !errors.Is(err, boom) {
		t.Fatalf("expected splitter error, got %v", err)
	}
	if res.Stop != StopFailed || res.Remaining != 0 {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestPass_OnVerdict(t *testing.T) {
	cfg := quality.Options{MaximumArea: 10}.MustFreeze()
	var ids []int

	p := NewPass(cfg, &midpointSplitter{}).OnVerdict(func(tri quality.Triangle, v quality.Verdict, _ quality.Measurement) {
		ids = append(ids, tri.ID())
	})
	res, err := p.Run(context.Background(), []quality.Triangle{rightTri(1), rightTri(2)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 2 || res.Splits != 0 || res.Stop != StopClean {
		t.Fatalf("unexpected observation: ids=%v result=%+v", ids, res)
	}
}

// #endregion pass-tests
