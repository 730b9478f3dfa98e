package shape

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Polyline expands a path of the given width into fillable polygons with
// round joins and caps: one quad per segment plus a disc on every vertex.
func Polyline(points []r2.Vec, closed bool, width float64) [][]r2.Vec {
	if len(points) == 0 || width <= 0 {
		return nil
	}
	radius := width / 2
	polys := make([][]r2.Vec, 0, 2*len(points))
	for i := 0; i+1 < len(points); i++ {
		if q := segmentQuad(points[i], points[i+1], radius); q != nil {
			polys = append(polys, q)
		}
	}
	if closed && len(points) > 2 {
		if q := segmentQuad(points[len(points)-1], points[0], radius); q != nil {
			polys = append(polys, q)
		}
	}
	for _, p := range points {
		polys = append(polys, Disc(p, radius))
	}
	return polys
}

// Disc approximates a filled circle.
func Disc(center r2.Vec, radius float64) []r2.Vec {
	n := int(math.Ceil(2 * math.Pi * radius / 2))
	if n < 12 {
		n = 12
	}
	out := make([]r2.Vec, n)
	for i := range out {
		a := 2 * math.Pi * float64(i) / float64(n)
		out[i] = r2.Vec{X: center.X + radius*math.Cos(a), Y: center.Y + radius*math.Sin(a)}
	}
	return out
}

// Ring samples a circle outline as a closed path.
func Ring(center r2.Vec, radius float64) []r2.Vec {
	n := int(math.Ceil(2 * math.Pi * radius / 4))
	if n < 24 {
		n = 24
	}
	out := make([]r2.Vec, n)
	for i := range out {
		a := 2 * math.Pi * float64(i) / float64(n)
		out[i] = r2.Vec{X: center.X + radius*math.Cos(a), Y: center.Y + radius*math.Sin(a)}
	}
	return out
}

// segmentQuad is the butt-capped body of a segment, nil when a == b.
func segmentQuad(a, b r2.Vec, radius float64) []r2.Vec {
	d := r2.Sub(b, a)
	if d.X == 0 && d.Y == 0 {
		return nil
	}
	n := r2.Scale(radius, r2.Unit(r2.Vec{X: -d.Y, Y: d.X}))
	return []r2.Vec{r2.Add(a, n), r2.Add(b, n), r2.Sub(b, n), r2.Sub(a, n)}
}

// Dashes splits a closed path into on-segments of length dash separated by
// gaps of the same length, and expands each into a butt-capped quad.
func Dashes(points []r2.Vec, dash, width float64) [][]r2.Vec {
	if len(points) < 2 || dash <= 0 || width <= 0 {
		return nil
	}
	radius := width / 2
	var polys [][]r2.Vec
	on := true
	left := dash
	for i := range points {
		a, b := points[i], points[(i+1)%len(points)]
		seg := r2.Norm(r2.Sub(b, a))
		if seg == 0 {
			continue
		}
		dir := r2.Scale(1/seg, r2.Sub(b, a))
		for t := 0.0; t < seg; {
			step := math.Min(left, seg-t)
			if on {
				p0 := r2.Add(a, r2.Scale(t, dir))
				p1 := r2.Add(a, r2.Scale(t+step, dir))
				if q := segmentQuad(p0, p1, radius); q != nil {
					polys = append(polys, q)
				}
			}
			t += step
			left -= step
			if left <= 0 {
				on = !on
				left = dash
			}
		}
	}
	return polys
}
