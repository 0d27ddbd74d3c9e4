// Package finitestate wraps the go-fsm state machine behind a small
// interface shared by the COM session and the transport runnables.
package finitestate

import (
	"context"
	"log/slog"
	"time"

	"github.com/robbyt/go-fsm"
)

const (
	StatusNew      = fsm.StatusNew
	StatusBooting  = fsm.StatusBooting
	StatusRunning  = fsm.StatusRunning
	StatusStopping = fsm.StatusStopping
	StatusStopped  = fsm.StatusStopped
	StatusError    = fsm.StatusError
	StatusUnknown  = fsm.StatusUnknown
)

// TypicalTransitions is a set of standard transitions for a finite state machine.
var TypicalTransitions = fsm.TypicalTransitions

// SubscriberOption is a functional option for configuring state channel behavior
type SubscriberOption = fsm.SubscriberOption

// WithSyncTimeout sets a timeout for synchronous broadcast operations
var WithSyncTimeout = fsm.WithSyncTimeout

// Machine tracks a component's lifecycle state. The interface keeps callers
// decoupled from the fsm implementation and simplifies testing.
type Machine interface {
	// Transition attempts to transition the state machine to the specified state.
	Transition(state string) error

	// TransitionBool attempts to transition the state machine to the specified state.
	TransitionBool(state string) bool

	// TransitionIfCurrentState attempts to transition the state machine to the specified state
	TransitionIfCurrentState(currentState, newState string) error

	// SetState sets the state of the state machine to the specified state.
	SetState(state string) error

	// GetState returns the current state of the state machine.
	GetState() string

	// GetStateChan returns a channel that emits the state machine's state whenever it changes.
	// The channel is closed when the provided context is canceled.
	GetStateChan(ctx context.Context) <-chan string

	// GetStateChanWithOptions returns a channel with custom configuration options.
	// The channel is closed when the provided context is canceled.
	GetStateChanWithOptions(ctx context.Context, opts ...SubscriberOption) <-chan string
}

// LifecycleFSM embeds fsm.Machine and overrides GetStateChan for sync broadcast
type LifecycleFSM struct {
	*fsm.Machine
}

// GetStateChan returns a sync broadcast channel with a 5-second timeout so
// state updates still land during shutdown.
func (m *LifecycleFSM) GetStateChan(ctx context.Context) <-chan string {
	return m.GetStateChanWithOptions(ctx, WithSyncTimeout(5*time.Second))
}

// New creates a new finite state machine with the specified logger using "standard" state transitions.
func New(handler slog.Handler) (Machine, error) {
	machine, err := fsm.New(handler, StatusNew, TypicalTransitions)
	if err != nil {
		return nil, err
	}
	return &LifecycleFSM{Machine: machine}, nil
}
