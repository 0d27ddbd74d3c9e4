package ps

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
)

// HRESULTs that signal the host rejected or deferred the call. These are the
// codes COM raises while a modal dialog (or a long-running action) blocks the
// automation message pump.
const (
	rpcECallRejected       uint32 = 0x80010001 // RPC_E_CALL_REJECTED
	rpcEServerCallRetry    uint32 = 0x8001010A // RPC_E_SERVERCALL_RETRYLATER
	rpcEServerCallRejected uint32 = 0x8001010B // RPC_E_SERVERCALL_REJECTED
	dispEException         uint32 = 0x80020009 // DISP_E_EXCEPTION
)

// busyPhrases marks a DISP_E_EXCEPTION as transient when the host's
// exception text describes a blocked state rather than a real fault.
var busyPhrases = []string{"busy", "dialog", "modal", "not available"}

// Retryable reports whether a failed call is worth repeating. Rejection
// HRESULTs always are; a scripting exception only when its text points at a
// busy or dialog-blocked host.
func Retryable(err error) bool {
	var callErr *CallError
	if !errors.As(err, &callErr) {
		return false
	}

	switch callErr.HRESULT {
	case rpcECallRejected, rpcEServerCallRetry, rpcEServerCallRejected:
		return true
	case dispEException:
		text := strings.ToLower(callErr.Text)
		for _, phrase := range busyPhrases {
			if strings.Contains(text, phrase) {
				return true
			}
		}
	}
	return false
}

// RetryPolicy drives the retry loop wrapped around every automation call.
type RetryPolicy struct {
	Attempts       int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultRetryPolicy matches the built-in configuration defaults.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts:       3,
		InitialBackoff: 250 * time.Millisecond,
		MaxBackoff:     2 * time.Second,
	}
}

// Backoff returns the sleep before the given retry (1-based), doubling from
// InitialBackoff and capped at MaxBackoff.
func (p RetryPolicy) Backoff(retry int) time.Duration {
	d := p.InitialBackoff
	for i := 1; i < retry; i++ {
		d *= 2
		if d >= p.MaxBackoff {
			return p.MaxBackoff
		}
	}
	if d > p.MaxBackoff {
		return p.MaxBackoff
	}
	return d
}

// Do runs fn under the policy, sleeping between attempts while the failure
// stays retryable. Context cancellation interrupts the wait.
func (p RetryPolicy) Do(ctx context.Context, logger *slog.Logger, op string, fn func() error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !Retryable(err) || attempt == attempts {
			return err
		}

		wait := p.Backoff(attempt)
		if logger != nil {
			logger.Debug("photoshop call blocked, retrying",
				"op", op,
				"attempt", attempt,
				"backoff", wait,
				"error", err)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return errors.Join(ctx.Err(), err)
		case <-timer.C:
		}
	}
	return err
}
