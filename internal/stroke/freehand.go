// Package stroke turns sampled pointer positions into a filled outline for a
// variable-width freehand stroke.
//
// The width at each point is derived from a simulated pen pressure: fast,
// widely spaced samples thin the stroke and slow, dense ones thicken it.
// Outline is purely geometric; the caller fills the returned polygon.
package stroke

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

const (
	pressureRate = 0.275
	// Slightly over pi so the rotated caps close without a seam.
	fixedPi = math.Pi + 0.0001
	// Points closer than this to the stroke end are folded into the end cap.
	endSkip = 3
)

// Options shapes the outline. The zero value of the cap and taper fields
// gives round caps and no taper.
type Options struct {
	Size       float64 // nominal diameter in pixels
	Thinning   float64 // how much pressure changes the width, in [-1, 1]
	Smoothing  float64 // minimum spacing of outline vertices, as a fraction of Size
	Streamline float64 // how strongly raw samples are pulled toward the previous point
	TaperStart float64 // taper length in pixels at the start, 0 for none
	TaperEnd   float64 // taper length in pixels at the end, 0 for none
	FlatStart  bool
	FlatEnd    bool
	Last       bool // the stroke is complete; pin the final point to the last sample
}

// DefaultOptions returns the brush defaults for the given size.
func DefaultOptions(size float64) Options {
	return Options{
		Size:       size,
		Thinning:   0.5,
		Smoothing:  0.5,
		Streamline: 0.5,
	}
}

// Outline returns the vertices of a closed polygon around the stroke. It
// returns nil for fewer than two samples or a non-positive size.
func Outline(samples []Sample, opts Options) []r2.Vec {
	if len(samples) < 2 || opts.Size <= 0 {
		return nil
	}
	points := streamlinePoints(samples, opts)
	if len(points) == 0 {
		return nil
	}
	return outlinePoints(points, opts)
}

func outlinePoints(points []strokePoint, opts Options) []r2.Vec {
	size := opts.Size
	n := len(points)
	total := points[n-1].runningLength
	minDistance := math.Pow(size*opts.Smoothing, 2)

	// Seed the simulated pressure from the first few points so the stroke
	// does not start at an arbitrary width.
	prevPressure := points[0].pressure
	for i := 0; i < n && i < 10; i++ {
		pressure := simulatePressure(prevPressure, points[i].distance, size)
		prevPressure = (prevPressure + pressure) / 2
	}

	var left, right []r2.Vec
	radius := strokeRadius(size, opts.Thinning, points[n-1].pressure)
	firstRadius := -1.0
	prevVector := points[0].vector
	pl, pr := points[0].point, points[0].point
	var tl, tr r2.Vec
	prevSharp := false

	for i, p := range points {
		if i < n-1 && total-p.runningLength < endSkip {
			continue
		}

		pressure := p.pressure
		if opts.Thinning != 0 {
			pressure = simulatePressure(prevPressure, p.distance, size)
			radius = strokeRadius(size, opts.Thinning, pressure)
		} else {
			radius = size / 2
		}
		if firstRadius < 0 {
			firstRadius = radius
		}

		ts, te := 1.0, 1.0
		if p.runningLength < opts.TaperStart {
			ts = easeOutQuad(p.runningLength / opts.TaperStart)
		}
		if total-p.runningLength < opts.TaperEnd {
			te = easeOutCubic((total - p.runningLength) / opts.TaperEnd)
		}
		radius = math.Max(0.01, radius*math.Min(ts, te))

		next := p
		nextDot := 1.0
		if i < n-1 {
			next = points[i+1]
			nextDot = r2.Dot(p.vector, next.vector)
		}
		prevDot := r2.Dot(p.vector, prevVector)
		sharp := prevDot < 0 && !prevSharp
		nextSharp := nextDot < 0

		// Direction reverses here: wrap a half circle around the point
		// instead of letting the two sides cross.
		if sharp || nextSharp {
			offset := r2.Scale(radius, perp(prevVector))
			for s := 0; s <= 13; s++ {
				t := float64(s) / 13
				tl = r2.Rotate(r2.Sub(p.point, offset), fixedPi*t, p.point)
				left = append(left, tl)
				tr = r2.Rotate(r2.Add(p.point, offset), -fixedPi*t, p.point)
				right = append(right, tr)
			}
			pl, pr = tl, tr
			if nextSharp {
				prevSharp = true
			}
			continue
		}
		prevSharp = false

		if i == n-1 {
			offset := r2.Scale(radius, perp(p.vector))
			left = append(left, r2.Sub(p.point, offset))
			right = append(right, r2.Add(p.point, offset))
			continue
		}

		offset := r2.Scale(radius, perp(lerp(next.vector, p.vector, nextDot)))
		tl = r2.Sub(p.point, offset)
		if i <= 1 || r2.Norm2(r2.Sub(pl, tl)) > minDistance {
			left = append(left, tl)
			pl = tl
		}
		tr = r2.Add(p.point, offset)
		if i <= 1 || r2.Norm2(r2.Sub(pr, tr)) > minDistance {
			right = append(right, tr)
			pr = tr
		}
		prevPressure = pressure
		prevVector = p.vector
	}

	first := points[0].point
	if n == 1 {
		if (opts.TaperStart == 0 && opts.TaperEnd == 0) || opts.Last {
			return dot(first, firstRadius)
		}
		return nil
	}

	var startCap, endCap []r2.Vec
	switch {
	case opts.TaperStart > 0:
		// The taper already closes the start.
	case !opts.FlatStart:
		for s := 1; s <= 13; s++ {
			startCap = append(startCap, r2.Rotate(right[0], fixedPi*float64(s)/13, first))
		}
	default:
		corners := r2.Sub(left[0], right[0])
		a, b := r2.Scale(0.5, corners), r2.Scale(0.51, corners)
		startCap = append(startCap, r2.Sub(first, a), r2.Sub(first, b), r2.Add(first, b), r2.Add(first, a))
	}

	last := points[n-1].point
	direction := perp(r2.Scale(-1, points[n-1].vector))
	switch {
	case opts.TaperEnd > 0:
		endCap = append(endCap, last)
	case !opts.FlatEnd:
		start := r2.Add(last, r2.Scale(radius, direction))
		for s := 1; s < 29; s++ {
			endCap = append(endCap, r2.Rotate(start, fixedPi*3*float64(s)/29, last))
		}
	default:
		endCap = append(endCap,
			r2.Add(last, r2.Scale(radius, direction)),
			r2.Add(last, r2.Scale(radius*0.99, direction)),
			r2.Sub(last, r2.Scale(radius*0.99, direction)),
			r2.Sub(last, r2.Scale(radius, direction)),
		)
	}

	out := make([]r2.Vec, 0, len(left)+len(endCap)+len(right)+len(startCap))
	out = append(out, left...)
	out = append(out, endCap...)
	for i := len(right) - 1; i >= 0; i-- {
		out = append(out, right[i])
	}
	return append(out, startCap...)
}

// dot is the outline for a stroke that never moved.
func dot(center r2.Vec, radius float64) []r2.Vec {
	start := r2.Add(center, r2.Scale(-radius, r2.Unit(perp(r2.Vec{X: -1, Y: -1}))))
	out := make([]r2.Vec, 0, 13)
	for s := 1; s <= 13; s++ {
		out = append(out, r2.Rotate(start, fixedPi*2*float64(s)/13, center))
	}
	return out
}

func simulatePressure(prev, distance, size float64) float64 {
	sp := math.Min(1, distance/size)
	rp := math.Min(1, 1-sp)
	return math.Min(1, prev+(rp-prev)*(sp*pressureRate))
}

func strokeRadius(size, thinning, pressure float64) float64 {
	return size * (0.5 - thinning*(0.5-pressure))
}

func easeOutQuad(t float64) float64 { return t * (2 - t) }

func easeOutCubic(t float64) float64 {
	t--
	return t*t*t + 1
}
