package environment

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

// SpecType determines what kind of specification a Spec is. A Spec can
// specify the layout of an action or an observation
type SpecType int

const (
	Action SpecType = iota
	Observation
)

func (s SpecType) String() string {
	switch s {
	case Action:
		return "Action"
	case Observation:
		return "Observation"
	default:
		return fmt.Sprintf("SpecType(%d)", int(s))
	}
}

// Cardinality determines the cardinality of a number (discrete or continuous)
type Cardinality string

const (
	Continuous Cardinality = "Continuous"
	Discrete   Cardinality = "Discrete"
)

// Spec implements an environment specification, or space, which tells
// the type, shape, and bounds of an action or observation in an
// environment
type Spec struct {
	Shape      mat.Vector
	Type       SpecType
	LowerBound mat.Vector
	UpperBound mat.Vector
	Cardinality
}

// NewSpec constructs a new environment specification
// The shape argument outlines the shape of the data described by the
// specification. The argument t outlines what the specification is
// describing (e.g. actions or observations). The cardinality
// arguments describes whether the values that the spec describes are
// continuous or discrete.
func NewSpec(shape mat.Vector, t SpecType, lowerBound,
	upperBound mat.Vector, cardinality Cardinality) Spec {
	if shape.Len() != lowerBound.Len() {
		panic(fmt.Sprintf("shape length %v must match lower bounds length %v",
			shape.Len(), lowerBound.Len()))
	}
	if shape.Len() != upperBound.Len() {
		panic(fmt.Sprintf("shape length %v must match upper bounds length %v",
			shape.Len(), upperBound.Len()))
	}
	return Spec{shape, t, lowerBound, upperBound, cardinality}
}

// NewBoxSpec returns a continuous Spec whose bounds are given by the
// argument intervals, one per dimension
func NewBoxSpec(t SpecType, bounds []r1.Interval) Spec {
	low := make([]float64, len(bounds))
	high := make([]float64, len(bounds))
	for i, b := range bounds {
		low[i] = b.Min
		high[i] = b.Max
	}

	n := len(bounds)
	return NewSpec(mat.NewVecDense(n, nil), t, mat.NewVecDense(n, low),
		mat.NewVecDense(n, high), Continuous)
}

// Bounds returns the bounds of each dimension of the Spec
func (s Spec) Bounds() []r1.Interval {
	bounds := make([]r1.Interval, s.LowerBound.Len())
	for i := range bounds {
		bounds[i] = r1.Interval{
			Min: s.LowerBound.AtVec(i),
			Max: s.UpperBound.AtVec(i),
		}
	}
	return bounds
}
