package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{name: "milliseconds", input: "250ms", expected: 250 * time.Millisecond},
		{name: "seconds", input: "2s", expected: 2 * time.Second},
		{name: "compound", input: "1m30s", expected: 90 * time.Second},
		{name: "zero", input: "0s", expected: 0},
		{name: "bare number", input: "250", wantErr: true},
		{name: "nonsense", input: "soon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDuration(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d.AsDuration())
		})
	}
}

func TestDurationTextRoundTrip(t *testing.T) {
	t.Parallel()

	d := FromDuration(1500 * time.Millisecond)
	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1.5s", string(text))

	var decoded Duration
	require.NoError(t, decoded.UnmarshalText(text))
	assert.Equal(t, d, decoded)
}

func TestDurationAccessors(t *testing.T) {
	t.Parallel()

	d := FromDuration(2500 * time.Millisecond)
	assert.Equal(t, "2.5s", d.String())
	assert.Equal(t, int64(2500), d.Milliseconds())
	assert.InDelta(t, 2.5, d.Seconds(), 0.0001)
	assert.Equal(t, 2500*time.Millisecond, d.AsDuration())
}

func TestDurationUnmarshalTextError(t *testing.T) {
	t.Parallel()

	var d Duration
	assert.Error(t, d.UnmarshalText([]byte("later")))
}
