// Package mesh provides a plain coordinate triangle that satisfies
// quality.Triangle, plus JSON loading for triangle lists.
package mesh

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// #region point
// Point is a 2D vertex.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

func (p Point) dot(q Point) float64 { return p.X*q.X + p.Y*q.Y }

func (p Point) cross(q Point) float64 { return p.X*q.Y - p.Y*q.X }

// #endregion point

// #region tri
// Tri is a triangle given by its three vertices and an optional target
// area attribute. Angles and area are computed on construction.
type Tri struct {
	id     int
	verts  [3]Point
	target float64
	angles [3]float64
	area   float64
}

// NewTri builds a triangle. target <= 0 means no per-triangle area bound.
func NewTri(id int, a, b, c Point, target float64) *Tri {
	t := &Tri{id: id, verts: [3]Point{a, b, c}, target: target}
	t.area = math.Abs(b.sub(a).cross(c.sub(a))) / 2
	for i := 0; i < 3; i++ {
		t.angles[i] = cornerAngle(t.verts[i], t.verts[(i+1)%3], t.verts[(i+2)%3])
	}
	return t
}

func (t *Tri) ID() int             { return t.id }
func (t *Tri) Vertices() [3]Point  { return t.verts }
func (t *Tri) Angles() [3]float64  { return t.angles }
func (t *Tri) Area() float64       { return t.area }
func (t *Tri) TargetArea() float64 { return t.target }

// Degenerate reports whether the vertices are collinear or coincident.
func (t *Tri) Degenerate() bool {
	return t.area == 0
}

func (t *Tri) String() string {
	v := t.verts
	return fmt.Sprintf("tri %d: (%.4f, %.4f), (%.4f, %.4f), (%.4f, %.4f)",
		t.id, v[0].X, v[0].Y, v[1].X, v[1].Y, v[2].X, v[2].Y)
}

// #endregion tri

// #region geometry
// cornerAngle returns the interior angle at p in degrees. atan2 of the cross
// and dot products stays accurate for needle triangles where acos of the
// cosine rule loses precision near 0 and 180.
func cornerAngle(p, q, r Point) float64 {
	u := q.sub(p)
	v := r.sub(p)
	if (u.X == 0 && u.Y == 0) || (v.X == 0 && v.Y == 0) {
		return 0
	}
	return math.Atan2(math.Abs(u.cross(v)), u.dot(v)) * 180 / math.Pi
}

// #endregion geometry

// #region json
// triJSON is the on-disk form of a triangle.
type triJSON struct {
	ID         int      `json:"id"`
	Vertices   [3]Point `json:"vertices"`
	TargetArea float64  `json:"target_area,omitempty"`
}

func (t *Tri) MarshalJSON() ([]byte, error) {
	return json.Marshal(triJSON{ID: t.id, Vertices: t.verts, TargetArea: t.target})
}

func (t *Tri) UnmarshalJSON(data []byte) error {
	var j triJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	*t = *NewTri(j.ID, j.Vertices[0], j.Vertices[1], j.Vertices[2], j.TargetArea)
	return nil
}

// LoadTriangles reads a JSON array of triangles.
func LoadTriangles(path string) ([]*Tri, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read triangles %s: %w", path, err)
	}
	return ParseTriangles(data)
}

// ParseTriangles decodes a JSON array of triangles and rejects duplicate ids.
func ParseTriangles(data []byte) ([]*Tri, error) {
	var tris []*Tri
	if err := json.Unmarshal(data, &tris); err != nil {
		return nil, fmt.Errorf("parse triangles: %w", err)
	}
	seen := make(map[int]bool, len(tris))
	for i, t := range tris {
		if t == nil {
			return nil, fmt.Errorf("parse triangles: entry %d is null", i)
		}
		if seen[t.id] {
			return nil, fmt.Errorf("parse triangles: duplicate id %d", t.id)
		}
		seen[t.id] = true
	}
	return tris, nil
}

// #endregion json
