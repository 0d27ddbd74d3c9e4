package ps

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"

	"github.com/brushlab/psmcp/internal/finitestate"
)

// SessionOptions configures the COM session.
type SessionOptions struct {
	// ProgID selects the Photoshop COM class. Empty means DefaultProgID,
	// which binds whatever version is registered.
	ProgID string

	// DialogModes controls whether the host may present modal dialogs
	// during automated calls. The zero value suppresses all dialogs.
	DialogModes DialogModes

	// RulerUnits is applied to application preferences on connect so
	// dimension properties come back in a known unit. Zero means pixels.
	RulerUnits Units

	// Retry governs how calls rejected by a busy host are retried.
	Retry RetryPolicy
}

type comRequest struct {
	ctx  context.Context
	op   string
	fn   func() error
	done chan error
}

// Session is the Client implementation backed by a live COM connection.
//
// COM objects created in a single-threaded apartment must be called from
// the OS thread that created them, so the session runs one worker
// goroutine locked to its thread and funnels every call through it. That
// also serializes calls, which Photoshop requires anyway.
type Session struct {
	opts   SessionOptions
	logger *slog.Logger
	fsm    finitestate.Machine

	mu            sync.Mutex // serializes Connect and Close
	workerStarted bool

	reqs       chan *comRequest
	stopped    chan struct{}
	workerDone chan struct{}

	// worker-owned, never touched off the worker thread
	app *ole.IDispatch
}

var _ Client = (*Session)(nil)

// Option configures a Session.
type Option func(*Session)

// WithLogHandler sets the slog handler used for session logging.
func WithLogHandler(handler slog.Handler) Option {
	return func(s *Session) {
		if handler != nil {
			s.logger = slog.New(handler).WithGroup("ps.Session")
		}
	}
}

// WithLogger sets the logger used for session logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSession builds a Session. No COM traffic happens until Connect,
// which the first operation also triggers implicitly.
func NewSession(opts SessionOptions, setters ...Option) (*Session, error) {
	if opts.ProgID == "" {
		opts.ProgID = DefaultProgID
	}
	if opts.DialogModes == 0 {
		opts.DialogModes = DisplayNoDialogs
	}
	if opts.RulerUnits == 0 {
		opts.RulerUnits = UnitsPixels
	}
	if opts.Retry.Attempts < 1 {
		opts.Retry = DefaultRetryPolicy()
	}

	s := &Session{
		opts:       opts,
		logger:     slog.Default().WithGroup("ps.Session"),
		reqs:       make(chan *comRequest),
		stopped:    make(chan struct{}),
		workerDone: make(chan struct{}),
	}
	for _, set := range setters {
		set(s)
	}

	machine, err := finitestate.New(s.logger.Handler())
	if err != nil {
		return nil, fmt.Errorf("create state machine: %w", err)
	}
	s.fsm = machine
	return s, nil
}

// GetState returns the lifecycle state of the session.
func (s *Session) GetState() string {
	return s.fsm.GetState()
}

// IsRunning reports whether the session is connected and usable.
func (s *Session) IsRunning() bool {
	return s.fsm.GetState() == finitestate.StatusRunning
}

// Connect attaches to a running Photoshop instance, launching one if none
// is available, then applies dialog and ruler preferences. Calling
// Connect on a live session is a no-op; after a failure it may be called
// again to retry.
func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch state := s.fsm.GetState(); state {
	case finitestate.StatusRunning:
		return nil
	case finitestate.StatusStopping, finitestate.StatusStopped:
		return ErrSessionClosed
	case finitestate.StatusNew:
		if err := s.fsm.Transition(finitestate.StatusBooting); err != nil {
			return fmt.Errorf("transition to booting: %w", err)
		}
	default:
		// reconnect after a failed attempt; not a typical transition
		if err := s.fsm.SetState(finitestate.StatusBooting); err != nil {
			return fmt.Errorf("reset to booting: %w", err)
		}
	}

	if runtime.GOOS != "windows" {
		s.fsm.TransitionBool(finitestate.StatusError)
		return fmt.Errorf("%w: COM automation requires windows, running on %s",
			ErrUnsupportedPlatform, runtime.GOOS)
	}

	if !s.workerStarted {
		go s.worker()
		s.workerStarted = true
	}

	if err := s.call(ctx, "connect", s.connect); err != nil {
		s.fsm.TransitionBool(finitestate.StatusError)
		return err
	}
	if err := s.fsm.Transition(finitestate.StatusRunning); err != nil {
		return fmt.Errorf("transition to running: %w", err)
	}
	s.logger.Info("connected to photoshop", "progID", s.opts.ProgID)
	return nil
}

// Close tears down the COM session and stops the worker thread. Open
// documents are left as they are. The context bounds how long Close
// waits for an in-flight call to finish.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch state := s.fsm.GetState(); state {
	case finitestate.StatusStopped, finitestate.StatusStopping:
		return nil
	case finitestate.StatusRunning:
		if err := s.fsm.Transition(finitestate.StatusStopping); err != nil {
			return fmt.Errorf("transition to stopping: %w", err)
		}
	default:
		// from New or Error there is no typical path through Stopping
		if err := s.fsm.SetState(finitestate.StatusStopping); err != nil {
			return fmt.Errorf("force stopping state: %w", err)
		}
	}

	close(s.stopped)
	if s.workerStarted {
		select {
		case <-s.workerDone:
		case <-ctx.Done():
			s.fsm.TransitionBool(finitestate.StatusStopped)
			return fmt.Errorf("waiting for com worker: %w", ctx.Err())
		}
	}

	if err := s.fsm.Transition(finitestate.StatusStopped); err != nil {
		return fmt.Errorf("transition to stopped: %w", err)
	}
	s.logger.Debug("session closed")
	return nil
}

// worker owns the COM apartment for the life of the session. The OS
// thread stays locked because apartment-threaded objects reject calls
// from any other thread.
func (s *Session) worker() {
	defer close(s.workerDone)
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		initErr := fmt.Errorf("com initialization failed: %w", err)
		s.logger.Error("com initialization failed", "error", err)
		for {
			select {
			case req := <-s.reqs:
				req.done <- initErr
			case <-s.stopped:
				return
			}
		}
	}
	defer ole.CoUninitialize()
	defer s.release()

	for {
		select {
		case req := <-s.reqs:
			req.done <- s.opts.Retry.Do(req.ctx, s.logger, req.op, req.fn)
		case <-s.stopped:
			return
		}
	}
}

// connect runs on the worker thread: bind the application object and
// apply preferences.
func (s *Session) connect() error {
	if s.app != nil {
		return nil
	}

	unknown, err := oleutil.GetActiveObject(s.opts.ProgID)
	if err != nil {
		s.logger.Debug("no running instance, launching",
			"progID", s.opts.ProgID, "error", err)
		unknown, err = oleutil.CreateObject(s.opts.ProgID)
		if err != nil {
			return toCallError("connect", err)
		}
	}
	defer unknown.Release()

	app, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return toCallError("connect", err)
	}

	if err := putProperty(app, "set dialog modes", "DisplayDialogs", int(s.opts.DialogModes)); err != nil {
		app.Release()
		return err
	}
	prefs, err := dispatchProperty(app, "read preferences", "Preferences")
	if err != nil {
		app.Release()
		return err
	}
	err = putProperty(prefs, "set ruler units", "RulerUnits", int(s.opts.RulerUnits))
	prefs.Release()
	if err != nil {
		app.Release()
		return err
	}

	s.app = app
	return nil
}

// release drops the application reference. Worker thread only.
func (s *Session) release() {
	if s.app != nil {
		s.app.Release()
		s.app = nil
	}
}

// call hands fn to the worker thread and waits for the result. The
// context bounds only the wait; a COM call already in flight cannot be
// interrupted.
func (s *Session) call(ctx context.Context, op string, fn func() error) error {
	req := &comRequest{ctx: ctx, op: op, fn: fn, done: make(chan error, 1)}
	select {
	case s.reqs <- req:
	case <-s.stopped:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-req.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// exec connects lazily, then runs fn on the worker thread.
func (s *Session) exec(ctx context.Context, op string, fn func() error) error {
	if !s.IsRunning() {
		if err := s.Connect(ctx); err != nil {
			return fmt.Errorf("%w: %w", ErrNotConnected, err)
		}
	}
	return s.call(ctx, op, fn)
}

// Version reports the host application's version string, e.g. "26.5.0".
func (s *Session) Version(ctx context.Context) (string, error) {
	var version string
	err := s.exec(ctx, "read version", func() error {
		v, err := stringProperty(s.app, "read version", "Version")
		if err != nil {
			return err
		}
		version = v
		return nil
	})
	return version, err
}

// documentCount runs on the worker thread.
func (s *Session) documentCount() (int, error) {
	docs, err := dispatchProperty(s.app, "read documents", "Documents")
	if err != nil {
		return 0, err
	}
	defer docs.Release()
	return intProperty(docs, "read documents", "Count")
}

// HasActiveDocument reports whether any document is open. Reading the
// count avoids the exception ActiveDocument raises when none is.
func (s *Session) HasActiveDocument(ctx context.Context) (bool, error) {
	var has bool
	err := s.exec(ctx, "check active document", func() error {
		n, err := s.documentCount()
		if err != nil {
			return err
		}
		has = n > 0
		return nil
	})
	return has, err
}

// ActiveDocument returns a handle to the frontmost document, or
// ErrNoActiveDocument when nothing is open.
func (s *Session) ActiveDocument(ctx context.Context) (Document, error) {
	has, err := s.HasActiveDocument(ctx)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, ErrNoActiveDocument
	}
	return &document{s: s}, nil
}

// CreateDocument makes a new document, which becomes the active one.
func (s *Session) CreateDocument(ctx context.Context, opts DocumentOptions) (Document, error) {
	err := s.exec(ctx, "create document", func() error {
		docs, err := dispatchProperty(s.app, "create document", "Documents")
		if err != nil {
			return err
		}
		defer docs.Release()
		return callVoid(docs, "create document", "Add",
			opts.Width, opts.Height, opts.Resolution, opts.Name, int(opts.Mode))
	})
	if err != nil {
		return nil, err
	}
	return &document{s: s}, nil
}

// OpenDocument opens a file, which becomes the active document.
func (s *Session) OpenDocument(ctx context.Context, path string) (Document, error) {
	err := s.exec(ctx, "open document", func() error {
		return callVoid(s.app, "open document", "Open", path)
	})
	if err != nil {
		return nil, err
	}
	return &document{s: s}, nil
}

// RunScript evaluates ExtendScript inside the host and returns the
// script's string result. Scripts go through the same worker and retry
// handling as every other call.
func (s *Session) RunScript(ctx context.Context, script string) (string, error) {
	var result string
	err := s.exec(ctx, "run script", func() error {
		v, err := callMethod(s.app, "run script", "DoJavaScript", script)
		if err != nil {
			return err
		}
		defer v.Clear()
		result = v.ToString()
		return nil
	})
	return result, err
}
