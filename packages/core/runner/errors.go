package runner

import (
	"errors"
	"fmt"
)

var (
	// ErrRunAborted is returned when the wait for outstanding units was interrupted
	ErrRunAborted = errors.New("run aborted")
	// ErrEngineReused is returned when Run is called twice on the same Engine
	ErrEngineReused = errors.New("engine already ran")
)

// InfrastructureError reports a failure outside the test body's own contract,
// such as being unable to build a fresh test context. It does not count as a
// test failure.
type InfrastructureError struct {
	Test    string
	Attempt int
	Err     error
}

func (e *InfrastructureError) Error() string {
	return fmt.Sprintf("%s: infrastructure error on attempt %d: %v", e.Test, e.Attempt, e.Err)
}

func (e *InfrastructureError) Unwrap() error {
	return e.Err
}
