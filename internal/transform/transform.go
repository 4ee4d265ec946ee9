package transform

import (
	"fmt"

	"github.com/rgehrsitz/consorcio/internal/domain"
)

// PlanTransform defines the interface for all plan transformations.
// Transforms are composable operations that derive a variant plan from a base
// plan, for comparisons such as "contemplated a year earlier" or "with a 25% embedded bid".
type PlanTransform interface {
	// Apply returns a modified copy of base; base itself is never changed.
	Apply(base domain.PlanParameters) (domain.PlanParameters, error)

	// Name returns a short identifier for this transform (e.g., "set_contemplation").
	Name() string

	// Description returns a human-readable description of what this transform does.
	Description() string

	// Validate checks the transform parameters against base without applying it.
	Validate(base domain.PlanParameters) error
}

// ApplyTransforms applies a sequence of transforms to a base plan.
// Transforms are applied in order, each receiving the output of the previous one,
// and the final plan must itself be valid.
func ApplyTransforms(base domain.PlanParameters, transforms []PlanTransform) (domain.PlanParameters, error) {
	current := base.Clone()

	for i, transform := range transforms {
		if transform == nil {
			return domain.PlanParameters{}, fmt.Errorf("transform at index %d is nil", i)
		}

		if err := transform.Validate(current); err != nil {
			return domain.PlanParameters{}, fmt.Errorf("transform %s validation failed: %w", transform.Name(), err)
		}

		next, err := transform.Apply(current)
		if err != nil {
			return domain.PlanParameters{}, fmt.Errorf("transform %s failed: %w", transform.Name(), err)
		}
		current = next
	}

	if err := current.Validate(); err != nil {
		return domain.PlanParameters{}, fmt.Errorf("transformed plan: %w", err)
	}
	return current, nil
}

// TransformError represents an error that occurred during transformation.
type TransformError struct {
	TransformName string
	Operation     string
	Reason        string
	Err           error
}

func (e *TransformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transform %s (%s): %s: %v", e.TransformName, e.Operation, e.Reason, e.Err)
	}
	return fmt.Sprintf("transform %s (%s): %s", e.TransformName, e.Operation, e.Reason)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// NewTransformError creates a new TransformError.
func NewTransformError(transformName, operation, reason string, err error) error {
	return &TransformError{
		TransformName: transformName,
		Operation:     operation,
		Reason:        reason,
		Err:           err,
	}
}
