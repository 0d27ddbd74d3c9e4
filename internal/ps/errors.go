package ps

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConnected is returned when an operation needs a live COM session
	// and none could be established.
	ErrNotConnected = errors.New("photoshop session not connected")
	// ErrNoActiveDocument is returned when an operation needs an open
	// document and Photoshop has none.
	ErrNoActiveDocument = errors.New("no active document")
	// ErrUnsupportedPlatform is returned on non-Windows hosts, where the COM
	// automation surface does not exist.
	ErrUnsupportedPlatform = errors.New("photoshop COM automation requires windows")
	// ErrSessionClosed is returned when a call races with Close.
	ErrSessionClosed = errors.New("photoshop session closed")
	// ErrScript is returned when a script evaluated inside Photoshop
	// reports failure through its result string.
	ErrScript = errors.New("photoshop script error")
)

// CallError carries the COM-level detail of a failed automation call: the
// operation name, the HRESULT, and the host's exception text when present.
type CallError struct {
	Op      string
	HRESULT uint32
	Text    string
	wrapped error
}

func (e *CallError) Error() string {
	if e.Text != "" {
		return fmt.Sprintf("photoshop %s failed: 0x%08X: %s", e.Op, e.HRESULT, e.Text)
	}
	return fmt.Sprintf("photoshop %s failed: 0x%08X", e.Op, e.HRESULT)
}

func (e *CallError) Unwrap() error {
	return e.wrapped
}

// NewCallError builds a CallError. The wrapped error, when non-nil, stays
// reachable through errors.Is/As chains.
func NewCallError(op string, hresult uint32, text string, wrapped error) *CallError {
	return &CallError{Op: op, HRESULT: hresult, Text: text, wrapped: wrapped}
}
