package deepracer

import (
	"reflect"

	"github.com/samuelfneumann/deepracerenv/environment"
	"github.com/samuelfneumann/deepracerenv/utils/floatutils"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/mat"
)

// ActionDims is the number of values in a DeepRacer action: the
// steering angle followed by the speed
const ActionDims = 2

// NewAction returns the action vector for a steering angle and speed
func NewAction(steeringAngle, speed float64) *mat.VecDense {
	return mat.NewVecDense(ActionDims, []float64{steeringAngle, speed})
}

// validateActions converts the raw action of each agent to a
// (steering angle, speed) vector. Every action is decomposed before
// any is checked for finiteness, and agents are visited in sorted
// order so that the same input always produces the same error.
func validateActions(actions environment.MultiAgentDict) (
	environment.MultiAgentDict, error) {
	agents := maps.Keys(actions)
	slices.Sort(agents)

	pairs := make(map[environment.AgentID][ActionDims]float64, len(actions))
	for _, agent := range agents {
		pair, ok := decompose(actions[agent])
		if !ok {
			return nil, &InvalidActionShapeError{
				Agent: agent,
				Value: actions[agent],
			}
		}
		pairs[agent] = pair
	}

	validated := make(environment.MultiAgentDict, len(actions))
	for _, agent := range agents {
		pair := pairs[agent]
		if !floatutils.AllFinite(pair[0], pair[1]) {
			return nil, &InvalidActionValueError{
				Agent:         agent,
				SteeringAngle: pair[0],
				Speed:         pair[1],
			}
		}
		validated[agent] = NewAction(pair[0], pair[1])
	}

	return validated, nil
}

// decompose reads the first two elements of a raw action as floats.
// Elements past the second are ignored.
func decompose(action interface{}) (pair [ActionDims]float64, ok bool) {
	if action == nil {
		return pair, false
	}

	rv := reflect.ValueOf(action)
	if rv.Kind() == reflect.Ptr && rv.IsNil() {
		return pair, false
	}

	if vec, isVec := action.(mat.Vector); isVec {
		if vec.Len() < ActionDims {
			return pair, false
		}
		return [ActionDims]float64{vec.AtVec(0), vec.AtVec(1)}, true
	}

	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return pair, false
	}
	if rv.Len() < ActionDims {
		return pair, false
	}

	for i := range pair {
		if pair[i], ok = toFloat(rv.Index(i)); !ok {
			return pair, false
		}
	}
	return pair, true
}

// toFloat converts a numeric reflect.Value to a float64. Strings and
// bools are not numbers, even when they parse as one.
func toFloat(v reflect.Value) (float64, bool) {
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return 0, false
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return v.Float(), true

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32,
		reflect.Int64:
		return float64(v.Int()), true

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64:
		return float64(v.Uint()), true
	}

	return 0, false
}
