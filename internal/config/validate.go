package config

import (
	"errors"
	"fmt"

	"github.com/brushlab/psmcp/internal/config/errz"
	"github.com/brushlab/psmcp/internal/logging/writers"
	"github.com/brushlab/psmcp/internal/ps"
)

// Validate checks the whole config tree, collecting every problem instead
// of stopping at the first.
func (c *Config) Validate() error {
	var errs []error

	if c.Version != VersionLatest {
		errs = append(errs, fmt.Errorf(
			"%w: %q (expected %q)", errz.ErrUnsupportedConfigVer, c.Version, VersionLatest,
		))
	}

	errs = append(errs, c.validateServer()...)
	errs = append(errs, c.validatePhotoshop()...)
	errs = append(errs, c.validateLogging()...)
	errs = append(errs, c.validatePreview()...)

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", errz.ErrFailedToValidateConfig, err)
	}
	return nil
}

func (c *Config) validateServer() []error {
	var errs []error

	if c.Server.Name == "" {
		errs = append(errs, fmt.Errorf("%w: server.name", errz.ErrMissingRequiredField))
	}

	if !c.Server.Transport.IsValid() {
		errs = append(errs, fmt.Errorf(
			"%w: %q (expected %q or %q)",
			errz.ErrInvalidTransport, c.Server.Transport, TransportStdio, TransportHTTP,
		))
	}

	if c.Server.Transport == TransportHTTP && c.Server.Listen == "" {
		errs = append(errs, fmt.Errorf(
			"%w: server.listen is required for the http transport",
			errz.ErrMissingRequiredField,
		))
	}

	return errs
}

func (c *Config) validatePhotoshop() []error {
	var errs []error
	p := c.Photoshop

	if !ps.IsKnownVersion(p.Version) {
		errs = append(errs, fmt.Errorf(
			"%w: %q (known: %s)", errz.ErrUnknownPhotoshopVer, p.Version, ps.KnownVersionList(),
		))
	}

	if _, err := ps.ParseDialogModes(p.DisplayDialogs); err != nil {
		errs = append(errs, fmt.Errorf("%w: photoshop.display_dialogs: %w", errz.ErrInvalidValue, err))
	}

	if _, err := ps.ParseUnits(p.RulerUnits); err != nil {
		errs = append(errs, fmt.Errorf("%w: photoshop.ruler_units: %w", errz.ErrInvalidValue, err))
	}

	if p.Retry.Attempts < 1 {
		errs = append(errs, fmt.Errorf(
			"%w: photoshop.retry.attempts must be at least 1, got %d",
			errz.ErrInvalidValue, p.Retry.Attempts,
		))
	}

	if p.Retry.InitialBackoff.AsDuration() <= 0 {
		errs = append(errs, fmt.Errorf(
			"%w: photoshop.retry.initial_backoff must be positive, got %s",
			errz.ErrInvalidValue, p.Retry.InitialBackoff,
		))
	}

	if p.Retry.MaxBackoff.AsDuration() < p.Retry.InitialBackoff.AsDuration() {
		errs = append(errs, fmt.Errorf(
			"%w: photoshop.retry.max_backoff %s is below initial_backoff %s",
			errz.ErrInvalidValue, p.Retry.MaxBackoff, p.Retry.InitialBackoff,
		))
	}

	return errs
}

func (c *Config) validateLogging() []error {
	var errs []error

	if !c.Logging.Level.IsValid() {
		errs = append(errs, fmt.Errorf(
			"%w: logging.level %q", errz.ErrInvalidValue, c.Logging.Level,
		))
	}

	if !c.Logging.Format.IsValid() {
		errs = append(errs, fmt.Errorf(
			"%w: logging.format %q", errz.ErrInvalidValue, c.Logging.Format,
		))
	}

	// stdout carries JSON-RPC frames when the stdio transport is active.
	if c.Server.Transport == TransportStdio &&
		writers.ParseWriterType(c.Logging.Output) == writers.WriterTypeStdout {
		errs = append(errs, fmt.Errorf(
			"%w: logging.output %q conflicts with the stdio transport",
			errz.ErrReservedLogOutput, c.Logging.Output,
		))
	}

	return errs
}

func (c *Config) validatePreview() []error {
	if c.Preview.MaxDimension < 1 {
		return []error{fmt.Errorf(
			"%w: preview.max_dimension must be positive, got %d",
			errz.ErrInvalidValue, c.Preview.MaxDimension,
		)}
	}
	return nil
}
