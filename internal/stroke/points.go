package stroke

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// defaultPressure is assumed for every sample; pointer events carry none.
const defaultPressure = 0.5

// Sample is one pointer position. T is a millisecond timestamp and is kept
// for ordering only; it is never read as pressure.
type Sample struct {
	X, Y float64
	T    int64
}

func (s Sample) Vec() r2.Vec { return r2.Vec{X: s.X, Y: s.Y} }

// strokePoint is a streamlined sample annotated with its travel direction.
type strokePoint struct {
	point         r2.Vec
	pressure      float64
	vector        r2.Vec // unit vector pointing back to the previous point
	distance      float64
	runningLength float64
}

// streamlinePoints smooths the raw samples toward each other and drops
// points until the stroke has travelled at least one brush width.
func streamlinePoints(samples []Sample, opts Options) []strokePoint {
	if len(samples) == 0 {
		return nil
	}
	t := 0.15 + (1-opts.Streamline)*0.85

	pts := make([]r2.Vec, 0, len(samples)+4)
	for _, s := range samples {
		pts = append(pts, s.Vec())
	}
	// Two samples give the pressure simulation nothing to work with, so
	// interpolate a few in between.
	if len(pts) == 2 {
		first, last := pts[0], pts[1]
		pts = pts[:1]
		for i := 1; i < 5; i++ {
			pts = append(pts, lerp(first, last, float64(i)/4))
		}
	}
	if len(pts) == 1 {
		pts = append(pts, r2.Add(pts[0], r2.Vec{X: 1, Y: 1}))
	}

	out := []strokePoint{{point: pts[0], pressure: defaultPressure, vector: r2.Vec{X: 1, Y: 1}}}
	prev := out[0]
	reachedMinimum := false
	running := 0.0
	last := len(pts) - 1

	for i := 1; i < len(pts); i++ {
		var point r2.Vec
		if opts.Last && i == last {
			point = pts[i]
		} else {
			point = lerp(prev.point, pts[i], t)
		}
		if point == prev.point {
			continue
		}
		distance := r2.Norm(r2.Sub(point, prev.point))
		running += distance
		if i < last && !reachedMinimum {
			if running < opts.Size {
				continue
			}
			reachedMinimum = true
		}
		prev = strokePoint{
			point:         point,
			pressure:      defaultPressure,
			vector:        r2.Unit(r2.Sub(prev.point, point)),
			distance:      distance,
			runningLength: running,
		}
		out = append(out, prev)
	}

	if len(out) > 1 {
		out[0].vector = out[1].vector
	} else {
		out[0].vector = r2.Vec{}
	}
	return out
}

func lerp(a, b r2.Vec, t float64) r2.Vec {
	return r2.Add(a, r2.Scale(t, r2.Sub(b, a)))
}

// perp rotates v a quarter turn.
func perp(v r2.Vec) r2.Vec {
	return r2.Vec{X: v.Y, Y: -v.X}
}
