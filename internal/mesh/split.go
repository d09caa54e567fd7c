package mesh

// #region bisect

// Bisect splits t at the midpoint of its longest edge. Both children keep
// t's target area. ids supplies the child ids.
func Bisect(t *Tri, ids func() int) (*Tri, *Tri) {
	v := t.verts
	longest, best := 0, -1.0
	for i := 0; i < 3; i++ {
		e := v[(i+1)%3].sub(v[i])
		if l := e.dot(e); l > best {
			longest, best = i, l
		}
	}
	a, b, c := v[longest], v[(longest+1)%3], v[(longest+2)%3]
	m := Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
	return NewTri(ids(), a, m, c, t.target), NewTri(ids(), m, b, c, t.target)
}

// IDSource hands out increasing triangle ids starting after the largest id
// in tris.
func IDSource(tris []*Tri) func() int {
	next := 0
	for _, t := range tris {
		if t.id > next {
			next = t.id
		}
	}
	return func() int {
		next++
		return next
	}
}

// #endregion bisect
