package curves

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"math"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"
)

// ErrInvalidDomain is wrapped by every error from Domain.Validate.
var ErrInvalidDomain = errors.New("invalid domain")

// Domain is a sampling configuration: Count evenly spaced points over
// [XMin, XMax], including both endpoints.
type Domain struct {
	XMin  float64 `yaml:"xmin" json:"xmin"`
	XMax  float64 `yaml:"xmax" json:"xmax"`
	Count int     `yaml:"count" json:"count"`
}

// DefaultDomain returns one point per integer in [-100, 100].
func DefaultDomain() Domain {
	return Domain{XMin: -100, XMax: 100, Count: 201}
}

// Validate checks that d describes at least two finite, strictly increasing
// abscissas.
func (d Domain) Validate() error {
	switch {
	case d.Count < 2:
		return fmt.Errorf("%w: need at least 2 points, have %d", ErrInvalidDomain, d.Count)
	case math.IsNaN(d.XMin) || math.IsInf(d.XMin, 0) || math.IsNaN(d.XMax) || math.IsInf(d.XMax, 0):
		return fmt.Errorf("%w: bounds [%g, %g] are not finite", ErrInvalidDomain, d.XMin, d.XMax)
	case d.XMin >= d.XMax:
		return fmt.Errorf("%w: xmin %g is not less than xmax %g", ErrInvalidDomain, d.XMin, d.XMax)
	case math.IsInf(d.XMax-d.XMin, 0):
		return fmt.Errorf("%w: span of [%g, %g] overflows", ErrInvalidDomain, d.XMin, d.XMax)
	}
	// Each abscissa XMin + i*step is within 1.5 ulps of its exact value, where
	// the ulp is that of the largest bound, so consecutive abscissas stay
	// strictly increasing when step exceeds 3 ulps.
	m := math.Max(math.Abs(d.XMin), math.Abs(d.XMax))
	if d.Step() < minSteps*ulp(m) {
		return fmt.Errorf("%w: %d points are too dense for [%g, %g]", ErrInvalidDomain, d.Count, d.XMin, d.XMax)
	}
	return nil
}

// minSteps is the smallest step between abscissas, in ulps of the largest
// bound.
const minSteps = 4

// ulp returns the spacing of float64 values just above the finite, positive x.
func ulp(x float64) float64 {
	if x == math.MaxFloat64 {
		return x - math.Nextafter(x, 0)
	}
	return math.Nextafter(x, math.Inf(1)) - x
}

// Step returns the distance between consecutive abscissas.
func (d Domain) Step() float64 {
	return (d.XMax - d.XMin) / float64(d.Count-1)
}

// At returns the i-th abscissa. The last abscissa is exactly XMax.
func (d Domain) At(i int) float64 {
	if i == d.Count-1 {
		return d.XMax
	}
	return d.XMin + float64(i)*d.Step()
}

// Point is an expression sampled at one abscissa.
type Point struct {
	X float64
	Outcome
}

func (p Point) String() string {
	return strconv.FormatFloat(p.X, 'g', -1, 64) + ": " + p.Outcome.String()
}

// Points returns the points of e sampled over d in ascending order of x. The
// sequence is lazy and can be iterated any number of times. If d is invalid,
// the sequence is empty.
func Points(e *Expr, d Domain) iter.Seq[Point] {
	return func(yield func(Point) bool) {
		if d.Validate() != nil {
			return
		}
		for i := 0; i < d.Count; i++ {
			x := d.At(i)
			if !yield(Point{X: x, Outcome: e.Eval(x)}) {
				return
			}
		}
	}
}

// Sample evaluates e at every abscissa of d. The result always has exactly
// d.Count points, whether or not they are defined.
func Sample(e *Expr, d Domain) ([]Point, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	pts := make([]Point, 0, d.Count)
	for p := range Points(e, d) {
		pts = append(pts, p)
	}
	return pts, nil
}

// DefaultChunkSize is the number of points a Sampler evaluates per task when
// ChunkSize is not set.
const DefaultChunkSize = 4096

// Sampler samples expressions in parallel. The zero value is ready to use.
type Sampler struct {
	// Workers is the maximum number of goroutines evaluating points. If it is
	// not positive, runtime.NumCPU() is used.
	Workers int
	// ChunkSize is the number of consecutive points evaluated per task. If it
	// is not positive, DefaultChunkSize is used.
	ChunkSize int
}

// Sample evaluates e at every abscissa of d. The result is identical to that
// of the package-level Sample. If ctx is cancelled before sampling finishes,
// the result is nil and the context's error.
func (s *Sampler) Sample(ctx context.Context, e *Expr, d Domain) ([]Point, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	workers := s.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	chunk := s.ChunkSize
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}
	pts := make([]Point, d.Count)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for lo := 0; lo < d.Count; lo += chunk {
		if gctx.Err() != nil {
			break
		}
		hi := min(lo+chunk, d.Count)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// Each task owns its index range, so order is independent of
			// completion order.
			for i := lo; i < hi; i++ {
				x := d.At(i)
				pts[i] = Point{X: x, Outcome: e.Eval(x)}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return pts, nil
}

// Stats summarizes a sampled curve for callers that scale or annotate plots.
type Stats struct {
	// Count is the number of points with each condition.
	Count [Undefined + 1]int
	// Min and Max are the extreme defined values, or NaN if no point is
	// defined.
	Min, Max float64
}

// Defined returns the number of defined points.
func (s Stats) Defined() int {
	return s.Count[Finite]
}

// Gaps returns the number of undefined points of any condition.
func (s Stats) Gaps() int {
	n := 0
	for c, k := range s.Count {
		if Condition(c) != Finite {
			n += k
		}
	}
	return n
}

// MaxAbs returns the largest magnitude of any defined value, or NaN if no
// point is defined.
func (s Stats) MaxAbs() float64 {
	return math.Max(math.Abs(s.Min), math.Abs(s.Max))
}

// Summarize computes Stats over pts.
func Summarize(pts []Point) Stats {
	s := Stats{Min: math.NaN(), Max: math.NaN()}
	for _, p := range pts {
		c := p.Cond
		if int(c) >= len(s.Count) {
			c = Undefined
		}
		s.Count[c]++
		if !p.Defined() {
			continue
		}
		if s.Count[Finite] == 1 {
			s.Min, s.Max = p.Value, p.Value
			continue
		}
		s.Min = math.Min(s.Min, p.Value)
		s.Max = math.Max(s.Max, p.Value)
	}
	return s
}
