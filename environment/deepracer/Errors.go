package deepracer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samuelfneumann/deepracerenv/environment"
)

// Sentinel errors which each validation error unwraps to, for use
// with errors.Is
var (
	ErrInvalidActionShape = errors.New("invalid action shape")
	ErrInvalidActionValue = errors.New("invalid action value")
	ErrInvalidTrackName   = errors.New("invalid track name")
	ErrInvalidShellName   = errors.New("invalid shell name")
)

// InvalidActionShapeError is returned by Step when an action cannot be
// decomposed into a steering angle and a speed
type InvalidActionShapeError struct {
	Agent environment.AgentID
	Value interface{}
}

func (e *InvalidActionShapeError) Error() string {
	return fmt.Sprintf("step: action %v of agent %q must hold at least "+
		"two numbers (steering angle, speed)", e.Value, e.Agent)
}

func (e *InvalidActionShapeError) Unwrap() error { return ErrInvalidActionShape }

// InvalidActionValueError is returned by Step when the steering angle
// or speed of an action is NaN or infinite
type InvalidActionValueError struct {
	Agent         environment.AgentID
	SteeringAngle float64
	Speed         float64
}

func (e *InvalidActionValueError) Error() string {
	return fmt.Sprintf("step: action of agent %q must be finite: "+
		"steering angle %v, speed %v", e.Agent, e.SteeringAngle, e.Speed)
}

func (e *InvalidActionValueError) Unwrap() error { return ErrInvalidActionValue }

// InvalidTrackNameError is returned by ApplyTrack when the normalized
// track name is not supported by the connected environment
type InvalidTrackNameError struct {
	Name       string
	ValidNames []string
}

func (e *InvalidTrackNameError) Error() string {
	return fmt.Sprintf("applyTrack: no such track %q, valid tracks: [%v]",
		e.Name, strings.Join(e.ValidNames, ", "))
}

func (e *InvalidTrackNameError) Unwrap() error { return ErrInvalidTrackName }

// InvalidShellNameError is returned by ApplyAgent when the normalized
// shell name is not supported by the connected environment
type InvalidShellNameError struct {
	Shell      string
	ValidNames []string
}

func (e *InvalidShellNameError) Error() string {
	return fmt.Sprintf("applyAgent: no such shell %q, valid shells: [%v]",
		e.Shell, strings.Join(e.ValidNames, ", "))
}

func (e *InvalidShellNameError) Unwrap() error { return ErrInvalidShellName }
