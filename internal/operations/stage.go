package operations

import "context"

// Step IDs in run order
const (
	StepIDLoad     = "load"
	StepIDDerive   = "derive"
	StepIDValidate = "validate"
	StepIDReport   = "report"
	StepIDChart    = "chart"
)

// Step represents a single step of a run
type Step interface {
	// ID returns the unique identifier for this step
	ID() string

	// Name returns the human-readable name for this step
	Name() string

	// Execute runs the step against the shared run state
	Execute(ctx context.Context, state *RunState) error
}

// BaseStep provides the identity of a step implementation
type BaseStep struct {
	id   string
	name string
}

// NewBaseStep creates a new base step
func NewBaseStep(id, name string) BaseStep {
	return BaseStep{id: id, name: name}
}

// ID returns the step ID
func (b *BaseStep) ID() string {
	return b.id
}

// Name returns the step name
func (b *BaseStep) Name() string {
	return b.name
}
