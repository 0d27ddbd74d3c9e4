package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/robbyt/go-supervisor/supervisor"

	"github.com/brushlab/psmcp/internal/finitestate"
)

var (
	_ supervisor.Runnable  = (*StdioRunner)(nil)
	_ supervisor.Stateable = (*StdioRunner)(nil)
)

// closeTimeout bounds how long shutdown waits for an in-flight COM call.
const closeTimeout = 10 * time.Second

// StdioRunner serves the MCP session over stdin/stdout. This is the default
// transport: the MCP host launches the process and owns both pipes, so
// exactly one session runs for the life of the process.
type StdioRunner struct {
	server *Server
	logger *slog.Logger
	fsm    finitestate.Machine

	runCancel context.CancelFunc
}

// NewStdioRunner creates the stdio transport runnable.
func NewStdioRunner(server *Server) (*StdioRunner, error) {
	r := &StdioRunner{
		server: server,
		logger: server.logger.WithGroup("stdio"),
	}

	machine, err := finitestate.New(r.logger.WithGroup("fsm").Handler())
	if err != nil {
		return nil, fmt.Errorf("failed to create state machine: %w", err)
	}
	r.fsm = machine
	return r, nil
}

// String implements the supervisor.Runnable interface.
func (r *StdioRunner) String() string {
	return "server.StdioRunner"
}

// Run serves MCP over stdio until the client closes the stream or the
// context is canceled.
func (r *StdioRunner) Run(ctx context.Context) error {
	if err := r.fsm.Transition(finitestate.StatusBooting); err != nil {
		return fmt.Errorf("failed to transition to booting state: %w", err)
	}

	runCtx, runCancel := context.WithCancel(ctx)
	defer runCancel()
	r.runCancel = runCancel

	if err := r.server.boot(runCtx); err != nil {
		r.fsm.TransitionBool(finitestate.StatusError)
		return err
	}

	if err := r.fsm.Transition(finitestate.StatusRunning); err != nil {
		return fmt.Errorf("failed to transition to running state: %w", err)
	}
	r.logger.Info("serving MCP over stdio")

	err := r.server.MCP().Run(runCtx, &mcp.StdioTransport{})
	if err != nil && !errors.Is(err, context.Canceled) {
		r.fsm.TransitionBool(finitestate.StatusError)
		return fmt.Errorf("stdio transport: %w", err)
	}

	r.logger.Info("stdio transport closed, shutting down")

	if r.fsm.GetState() != finitestate.StatusStopping {
		if err := r.fsm.Transition(finitestate.StatusStopping); err != nil {
			r.logger.Error("Failed to transition to stopping state", "error", err)
		}
	}

	closeCtx, closeCancel := context.WithTimeout(context.Background(), closeTimeout)
	defer closeCancel()
	r.server.shutdown(closeCtx)

	if err := r.fsm.Transition(finitestate.StatusStopped); err != nil {
		return fmt.Errorf("failed to transition to stopped state: %w", err)
	}
	return nil
}

// Stop implements the supervisor.Runnable interface.
func (r *StdioRunner) Stop() {
	r.logger.Debug("Stopping stdio runner")
	if err := r.fsm.TransitionIfCurrentState(finitestate.StatusRunning, finitestate.StatusStopping); err != nil {
		r.logger.Debug("Not in running state during stop", "state", r.fsm.GetState())
	}
	if r.runCancel != nil {
		r.runCancel()
	}
}

// GetState returns the current lifecycle state.
func (r *StdioRunner) GetState() string {
	return r.fsm.GetState()
}

// GetStateChan returns a channel emitting state changes until ctx is done.
func (r *StdioRunner) GetStateChan(ctx context.Context) <-chan string {
	return r.fsm.GetStateChan(ctx)
}

// IsRunning reports whether the transport is serving.
func (r *StdioRunner) IsRunning() bool {
	return r.fsm.GetState() == finitestate.StatusRunning
}
