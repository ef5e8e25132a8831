package compose

import "fmt"

// AssemblyError wraps a document-level failure with the assembly
// stage it happened in. Per-element failures never surface as
// AssemblyError; they are logged and skipped.
type AssemblyError struct {
	Stage State
	Err   error
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("assembly failed during %s: %v", e.Stage, e.Err)
}

func (e *AssemblyError) Unwrap() error {
	return e.Err
}

func newAssemblyError(stage State, err error) error {
	return &AssemblyError{Stage: stage, Err: err}
}
