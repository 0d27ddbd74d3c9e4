package config

import (
	"time"
)

// Duration wraps time.Duration so retry backoff values can be written as
// TOML strings like "250ms" or "2s".
type Duration time.Duration

// String returns the string representation of Duration
func (d Duration) String() string {
	return time.Duration(d).String()
}

// Milliseconds returns the duration as milliseconds
func (d Duration) Milliseconds() int64 {
	return time.Duration(d).Milliseconds()
}

// Seconds returns the duration as seconds
func (d Duration) Seconds() float64 {
	return time.Duration(d).Seconds()
}

// FromDuration creates a config.Duration from a time.Duration
func FromDuration(d time.Duration) Duration {
	return Duration(d)
}

// AsDuration converts a config.Duration to a time.Duration
func (d Duration) AsDuration() time.Duration {
	return time.Duration(d)
}

// ParseDuration parses a duration string and returns a config.Duration
func ParseDuration(s string) (Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	return Duration(d), nil
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML encoding
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
