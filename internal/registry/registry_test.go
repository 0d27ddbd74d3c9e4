package registry

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func nopHandler(ctx context.Context, args map[string]any) (map[string]any, error) {
	return map[string]any{}, nil
}

func TestQualifiedName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "photoshop_create_document", QualifiedName("create_document"))
	assert.Equal(t, "photoshop_create_document", QualifiedName("photoshop_create_document"))
}

func TestAddToolAppliesPrefixOnce(t *testing.T) {
	t.Parallel()

	r := New(WithLogger(discardLogger()))
	require.NoError(t, r.AddTool(&Tool{Name: "create_document", Handler: nopHandler}))
	require.NoError(t, r.AddTool(&Tool{Name: "photoshop_open_document", Handler: nopHandler}))

	tools := r.Tools()
	require.Len(t, tools, 2)
	assert.Equal(t, "photoshop_create_document", tools[0].Name)
	assert.Equal(t, "photoshop_open_document", tools[1].Name)
}

func TestAddToolRejectsDuplicates(t *testing.T) {
	t.Parallel()

	r := New(WithLogger(discardLogger()))
	require.NoError(t, r.AddTool(&Tool{Name: "trim_image", Handler: nopHandler}))

	// same name after prefixing counts as a duplicate
	err := r.AddTool(&Tool{Name: "photoshop_trim_image", Handler: nopHandler})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateTool)
	assert.Contains(t, err.Error(), "photoshop_trim_image")
}

func TestAddToolRejectsNilHandler(t *testing.T) {
	t.Parallel()

	r := New(WithLogger(discardLogger()))
	assert.ErrorIs(t, r.AddTool(&Tool{Name: "broken"}), ErrNilHandler)
	assert.ErrorIs(t, r.AddTool(nil), ErrNilHandler)
}

func TestAddToolsStopsAtFirstFailure(t *testing.T) {
	t.Parallel()

	r := New(WithLogger(discardLogger()))
	err := r.AddTools(
		&Tool{Name: "one", Handler: nopHandler},
		&Tool{Name: "one", Handler: nopHandler},
		&Tool{Name: "two", Handler: nopHandler},
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateTool)
	assert.Len(t, r.Tools(), 1)
}

func TestToolsSortedByName(t *testing.T) {
	t.Parallel()

	r := New(WithLogger(discardLogger()))
	require.NoError(t, r.AddTools(
		&Tool{Name: "zeta", Handler: nopHandler},
		&Tool{Name: "alpha", Handler: nopHandler},
		&Tool{Name: "mid", Handler: nopHandler},
	))

	tools := r.Tools()
	assert.Equal(t, "photoshop_alpha", tools[0].Name)
	assert.Equal(t, "photoshop_mid", tools[1].Name)
	assert.Equal(t, "photoshop_zeta", tools[2].Name)
}

func TestAddResource(t *testing.T) {
	t.Parallel()

	handler := func(ctx context.Context) (*ResourceContent, error) {
		return &ResourceContent{Text: "{}"}, nil
	}

	r := New(WithLogger(discardLogger()))
	require.NoError(t, r.AddResource(&Resource{URI: "photoshop://info", Handler: handler}))

	err := r.AddResource(&Resource{URI: "photoshop://info", Handler: handler})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateResource)

	assert.ErrorIs(t, r.AddResource(&Resource{URI: "photoshop://other"}), ErrNilHandler)
	assert.ErrorIs(t, r.AddResource(nil), ErrNilHandler)
}

func TestResourcesSortedByURI(t *testing.T) {
	t.Parallel()

	handler := func(ctx context.Context) (*ResourceContent, error) {
		return &ResourceContent{Text: "{}"}, nil
	}

	r := New(WithLogger(discardLogger()))
	require.NoError(t, r.AddResources(
		&Resource{URI: "photoshop://document/active", Handler: handler},
		&Resource{URI: "photoshop://info", Handler: handler},
		&Resource{URI: "photoshop://document/active/layers", Handler: handler},
	))

	resources := r.Resources()
	require.Len(t, resources, 3)
	assert.Equal(t, "photoshop://document/active", resources[0].URI)
	assert.Equal(t, "photoshop://document/active/layers", resources[1].URI)
	assert.Equal(t, "photoshop://info", resources[2].URI)
}

func TestApplyRegistersEverything(t *testing.T) {
	t.Parallel()

	r := New(WithLogger(discardLogger()))
	require.NoError(t, r.AddTool(&Tool{
		Name:        "get_session_info",
		Description: "Report bridge session state",
		Handler:     nopHandler,
	}))
	require.NoError(t, r.AddResource(&Resource{
		URI:      "photoshop://info",
		Name:     "info",
		MIMEType: "application/json",
		Handler: func(ctx context.Context) (*ResourceContent, error) {
			return &ResourceContent{Text: "{}"}, nil
		},
	}))

	server := mcp.NewServer(&mcp.Implementation{Name: "psmcp-test", Version: "0.0.1"}, nil)
	// must not panic; duplicate application would
	r.Apply(server)
}
