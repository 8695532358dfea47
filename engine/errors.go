// Package engine runs compiled smart-list rules over a candidate catalog:
// two-phase filtering with a run-scoped lookup cache, then multi-key
// ordering with per-group and global limits.
package engine

import (
	"errors"
	"fmt"
)

// Sentinel errors for engine operations.
var (
	// ErrCancelled reports that the run was aborted before completion; no
	// partial results are returned.
	ErrCancelled = errors.New("evaluation run cancelled")

	// ErrLookupUnavailable reports that a rule referenced an extraction
	// group whose lookup source was not injected.
	ErrLookupUnavailable = errors.New("lookup source not configured")

	// ErrPoolStopped is returned when work is submitted to a stopped pool.
	ErrPoolStopped = errors.New("worker pool is stopped")
)

// DefinitionError reports a problem with the evaluation request itself
// (bad sort keys, missing collaborator, missing reference item). Like rule
// validation errors, it is raised before any item is processed.
type DefinitionError struct {
	Reason string
	Err    error
}

func (e *DefinitionError) Error() string {
	return "invalid evaluation request: " + e.Reason
}

func (e *DefinitionError) Unwrap() error {
	return e.Err
}

// RunError reports a run-level failure: the run aborted and nothing was
// materialized.
type RunError struct {
	RunID string
	Stage string
	Err   error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("run %s failed during %s: %v", e.RunID, e.Stage, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}
