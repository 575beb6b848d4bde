package valuation

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownStage is returned for stage keys missing from the registry.
	ErrUnknownStage = errors.New("unknown stage")
	// ErrInvalidHorizon is returned when years to established is not positive.
	ErrInvalidHorizon = errors.New("invalid horizon")
	// ErrDivisionSingularity is returned when the failure rate is
	// indistinguishable from 1 and the adjusted rate has no finite value.
	ErrDivisionSingularity = errors.New("failure rate singularity")
	// ErrSurvivalOutOfRange is returned for survival probabilities outside [0,1].
	ErrSurvivalOutOfRange = errors.New("survival rate out of range")
	// ErrRateOutOfRange is returned for discount rates at or below -100%.
	ErrRateOutOfRange = errors.New("discount rate out of range")
)

// UnknownStageError reports a stage key that resolved to no preset.
type UnknownStageError struct {
	Key       string
	Available []string
}

func (e *UnknownStageError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("unknown stage %q", e.Key)
	}
	return fmt.Sprintf("unknown stage %q (available: %s)", e.Key, strings.Join(e.Available, ", "))
}

func (e *UnknownStageError) Is(target error) bool {
	return target == ErrUnknownStage
}

// InvalidHorizonError reports a non-positive years-to-established value.
type InvalidHorizonError struct {
	Years int
}

func (e *InvalidHorizonError) Error() string {
	return fmt.Sprintf("years to established must be > 0, got %d", e.Years)
}

func (e *InvalidHorizonError) Is(target error) bool {
	return target == ErrInvalidHorizon
}
