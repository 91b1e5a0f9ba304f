package persistence

import (
	"errors"
	"fmt"
)

// ErrRemoteStatus marks a non-2xx answer from the sync server.
var ErrRemoteStatus = errors.New("unexpected remote status")

// IOError wraps every failure of a persistence backend. It is recovered by the
// Gateway and never reaches WorkspaceStore callers.
type IOError struct {
	Backend string // local | remote
	Op      string // save | load | list
	Err     error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("persistence: %s %s: %v", e.Backend, e.Op, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func ioErr(backend, op string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Backend: backend, Op: op, Err: err}
}
