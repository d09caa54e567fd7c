package refine

import "sync/atomic"

// #region budget

// Budget tracks Steiner points consumed against a limit. A limit of 0 means
// unbounded. It is safe for concurrent use.
type Budget struct {
	limit int64
	used  atomic.Int64
}

// NewBudget creates a budget. Negative limits are treated as unbounded.
func NewBudget(limit int) *Budget {
	if limit < 0 {
		limit = 0
	}
	return &Budget{limit: int64(limit)}
}

// Consume takes one unit. It returns false, without consuming, when the
// budget is exhausted.
func (b *Budget) Consume() bool {
	if b.limit == 0 {
		b.used.Add(1)
		return true
	}
	for {
		n := b.used.Load()
		if n >= b.limit {
			return false
		}
		if b.used.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

// Used returns the number of units consumed.
func (b *Budget) Used() int { return int(b.used.Load()) }

// Limit returns the configured limit, 0 for unbounded.
func (b *Budget) Limit() int { return int(b.limit) }

// Unbounded reports whether the budget has no limit.
func (b *Budget) Unbounded() bool { return b.limit == 0 }

// Remaining returns the units left, or -1 when unbounded.
func (b *Budget) Remaining() int {
	if b.limit == 0 {
		return -1
	}
	return int(b.limit - b.used.Load())
}

// Exhausted reports whether no further unit can be consumed.
func (b *Budget) Exhausted() bool {
	return b.limit != 0 && b.used.Load() >= b.limit
}

// #endregion
