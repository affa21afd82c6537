// Package grade implements the four-tier outcome grading used by every
// stochastic command.
package grade

import (
	"errors"
	"fmt"

	"github.com/talgya/sengoku/internal/entropy"
)

// Grade is the outcome tier of a stochastic action.
type Grade uint8

const (
	CriticalFailure Grade = iota
	Failure
	Success
	CriticalSuccess
)

// Unconditional roll thresholds: 5% / 10% / 70% / 15%.
const (
	criticalFailureBelow = 0.05
	failureBelow         = 0.15
	successBelow         = 0.85
)

// anchoredCritical is the share of anchored rolls that land on the critical variant.
const anchoredCritical = 0.15

// ErrUnknownGrade is returned when parsing an unrecognized grade name.
var ErrUnknownGrade = errors.New("unknown grade")

func (g Grade) String() string {
	switch g {
	case CriticalFailure:
		return "critical_failure"
	case Failure:
		return "failure"
	case Success:
		return "success"
	case CriticalSuccess:
		return "critical_success"
	default:
		return "unknown"
	}
}

// Succeeded reports whether g is success or critical_success.
func (g Grade) Succeeded() bool {
	return g == Success || g == CriticalSuccess
}

// Parse returns the grade named by s.
func Parse(s string) (Grade, error) {
	for _, g := range []Grade{CriticalFailure, Failure, Success, CriticalSuccess} {
		if g.String() == s {
			return g, nil
		}
	}
	return Failure, fmt.Errorf("%w: %q", ErrUnknownGrade, s)
}

// MarshalText encodes the grade by name.
func (g Grade) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText decodes a grade name.
func (g *Grade) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*g = v
	return nil
}

// Roll draws an unconditional grade.
func Roll(src entropy.Source) Grade {
	r := src.Float64()
	switch {
	case r < criticalFailureBelow:
		return CriticalFailure
	case r < failureBelow:
		return Failure
	case r < successBelow:
		return Success
	default:
		return CriticalSuccess
	}
}

// RollAnchored draws the critical or normal variant of an outcome already
// decided by a probability check.
func RollAnchored(src entropy.Source, baseSuccess bool) Grade {
	critical := src.Float64() < anchoredCritical
	switch {
	case baseSuccess && critical:
		return CriticalSuccess
	case baseSuccess:
		return Success
	case critical:
		return CriticalFailure
	default:
		return Failure
	}
}

// Multiplier scales an action's effect by grade.
func Multiplier(g Grade) float64 {
	switch g {
	case CriticalFailure:
		return 0
	case Failure:
		return 0.5
	case CriticalSuccess:
		return 1.5
	default:
		return 1.0
	}
}

// RandomizedMultiplier is Multiplier with critical_success drawn from 1.5 to 2.0.
func RandomizedMultiplier(g Grade, src entropy.Source) float64 {
	if g == CriticalSuccess {
		return 1.5 + src.Float64()*0.5
	}
	return Multiplier(g)
}

// CombatMultiplier scales attack power. Plain failure still fights at full strength.
func CombatMultiplier(g Grade) float64 {
	switch g {
	case CriticalSuccess:
		return 1.5
	case CriticalFailure:
		return 0.5
	default:
		return 1.0
	}
}

// Tag is the short narrative prefix attached to result messages.
func Tag(g Grade) string {
	switch g {
	case CriticalFailure:
		return "[critical_failure]"
	case Failure:
		return "[failure]"
	case CriticalSuccess:
		return "[critical_success]"
	default:
		return ""
	}
}
