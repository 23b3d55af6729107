// Package random implements policies that act uniformly at random
package random

import (
	"fmt"

	"github.com/samuelfneumann/deepracerenv/environment"
	"github.com/samuelfneumann/deepracerenv/timestep"
	"github.com/samuelfneumann/deepracerenv/utils/floatutils"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
)

// Uniform is a policy that selects actions uniformly at random within
// the bounds of an action Spec, ignoring the TimeStep it is given
type Uniform struct {
	dims int
	seed uint64
	rand *distmv.Uniform
}

// New returns a Uniform policy over the bounds of an action Spec. The
// bounds of each dimension must be finite and the lower bound must not
// exceed the upper bound.
func New(spec environment.Spec, seed uint64) (*Uniform, error) {
	if spec.Type != environment.Action {
		return nil, fmt.Errorf("new: spec type must be %v but got %v",
			environment.Action, spec.Type)
	}

	if spec.LowerBound == nil || spec.UpperBound == nil {
		return nil, fmt.Errorf("new: spec must have bounds")
	}
	if lower, upper := spec.LowerBound.Len(), spec.UpperBound.Len(); lower != upper {
		return nil, fmt.Errorf("new: lower bound has %d dimensions but "+
			"upper bound has %d", lower, upper)
	}

	bounds := spec.Bounds()
	for i, b := range bounds {
		if !floatutils.AllFinite(b.Min, b.Max) {
			return nil, fmt.Errorf("new: bounds of dimension %d must be "+
				"finite: [%v, %v]", i, b.Min, b.Max)
		}
		if b.Min > b.Max {
			return nil, fmt.Errorf("new: lower bound %v exceeds upper "+
				"bound %v in dimension %d", b.Min, b.Max, i)
		}
	}

	source := rand.NewSource(seed)
	return &Uniform{
		dims: len(bounds),
		seed: seed,
		rand: distmv.NewUniform(bounds, source),
	}, nil
}

// SelectAction returns a new action sampled uniformly at random
func (u *Uniform) SelectAction(timestep.TimeStep) *mat.VecDense {
	return mat.NewVecDense(u.dims, u.rand.Rand(nil))
}

// Seed returns the seed the policy was created with
func (u *Uniform) Seed() uint64 {
	return u.seed
}
