package refine

import (
	"container/heap"

	"github.com/danielpatrickdp/meshquality/internal/quality"
)

// #region item

// Item is a bad triangle waiting for refinement.
type Item struct {
	Triangle    quality.Triangle
	Verdict     quality.Verdict
	Measurement quality.Measurement
	seq         int
}

// worse orders items worst first: smallest minimum angle, then larger area,
// then insertion order so equal triangles pop deterministically.
func worse(a, b *Item) bool {
	if a.Measurement.MinAngle != b.Measurement.MinAngle {
		return a.Measurement.MinAngle < b.Measurement.MinAngle
	}
	if a.Measurement.Area != b.Measurement.Area {
		return a.Measurement.Area > b.Measurement.Area
	}
	return a.seq < b.seq
}

// #endregion item

// #region queue

// Queue ranks bad triangles so the refinement loop always splits the worst
// one next. It is not safe for concurrent use.
type Queue struct {
	h   itemHeap
	seq int
}

// Push adds a bad triangle.
func (q *Queue) Push(t quality.Triangle, v quality.Verdict, m quality.Measurement) {
	q.seq++
	heap.Push(&q.h, &Item{Triangle: t, Verdict: v, Measurement: m, seq: q.seq})
}

// Pop removes and returns the worst triangle, or nil when empty.
func (q *Queue) Pop() *Item {
	if len(q.h) == 0 {
		return nil
	}
	return heap.Pop(&q.h).(*Item)
}

// Peek returns the worst triangle without removing it.
func (q *Queue) Peek() *Item {
	if len(q.h) == 0 {
		return nil
	}
	return q.h[0]
}

// Len returns the number of queued triangles.
func (q *Queue) Len() int { return len(q.h) }

type itemHeap []*Item

func (h itemHeap) Len() int           { return len(h) }
func (h itemHeap) Less(i, j int) bool { return worse(h[i], h[j]) }
func (h itemHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *itemHeap) Push(x any) { *h = append(*h, x.(*Item)) }

func (h *itemHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return it
}

// #endregion queue
