package ps

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brushlab/psmcp/internal/finitestate"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("connect paths reach real COM on windows")
	}
}

func TestNewSession(t *testing.T) {
	t.Parallel()

	session, err := NewSession(SessionOptions{})
	require.NoError(t, err)
	assert.Equal(t, finitestate.StatusNew, session.GetState())
	assert.False(t, session.IsRunning())
}

func TestNewSessionWithLogHandler(t *testing.T) {
	t.Parallel()

	session, err := NewSession(SessionOptions{ProgID: "Photoshop.Application.190"},
		WithLogHandler(discardLogger().Handler()))
	require.NoError(t, err)
	assert.NotNil(t, session)
}

func TestConnectUnsupportedPlatform(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)

	session, err := NewSession(SessionOptions{}, WithLogger(discardLogger()))
	require.NoError(t, err)

	err = session.Connect(t.Context())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedPlatform)
	assert.Contains(t, err.Error(), runtime.GOOS)
	assert.Equal(t, finitestate.StatusError, session.GetState())
	assert.False(t, session.IsRunning())

	// a second attempt reports the same failure instead of wedging
	err = session.Connect(t.Context())
	assert.ErrorIs(t, err, ErrUnsupportedPlatform)
}

func TestOperationsConnectLazily(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)

	session, err := NewSession(SessionOptions{}, WithLogger(discardLogger()))
	require.NoError(t, err)

	_, err = session.Version(t.Context())
	assert.ErrorIs(t, err, ErrUnsupportedPlatform)
	assert.ErrorIs(t, err, ErrNotConnected)

	_, err = session.HasActiveDocument(t.Context())
	assert.ErrorIs(t, err, ErrUnsupportedPlatform)

	_, err = session.ActiveDocument(t.Context())
	assert.ErrorIs(t, err, ErrUnsupportedPlatform)

	_, err = session.RunScript(t.Context(), "1+1")
	assert.ErrorIs(t, err, ErrUnsupportedPlatform)
}

func TestCloseBeforeConnect(t *testing.T) {
	t.Parallel()

	session, err := NewSession(SessionOptions{}, WithLogger(discardLogger()))
	require.NoError(t, err)

	require.NoError(t, session.Close(t.Context()))
	assert.Equal(t, finitestate.StatusStopped, session.GetState())

	// closed is terminal
	assert.ErrorIs(t, session.Connect(t.Context()), ErrSessionClosed)
	require.NoError(t, session.Close(t.Context()))
}

func TestCloseAfterFailedConnect(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)

	session, err := NewSession(SessionOptions{}, WithLogger(discardLogger()))
	require.NoError(t, err)

	require.Error(t, session.Connect(t.Context()))
	require.NoError(t, session.Close(t.Context()))
	assert.Equal(t, finitestate.StatusStopped, session.GetState())
}
