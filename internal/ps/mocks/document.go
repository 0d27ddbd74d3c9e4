package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/brushlab/psmcp/internal/ps"
)

// MockDocument is a mock implementation of the ps.Document interface.
type MockDocument struct {
	mock.Mock
}

var _ ps.Document = (*MockDocument)(nil)

// NewMockDocument creates a new MockDocument instance.
func NewMockDocument() *MockDocument {
	return &MockDocument{}
}

func (m *MockDocument) Name(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockDocument) Width(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockDocument) Height(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockDocument) Resolution(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockDocument) Mode(ctx context.Context) (ps.DocumentMode, error) {
	args := m.Called(ctx)
	return args.Get(0).(ps.DocumentMode), args.Error(1)
}

func (m *MockDocument) LayerCount(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockDocument) ResizeImage(ctx context.Context, width, height, resolution float64, method ps.ResampleMethod) error {
	args := m.Called(ctx, width, height, resolution, method)
	return args.Error(0)
}

func (m *MockDocument) ChangeMode(ctx context.Context, mode ps.ChangeMode) error {
	args := m.Called(ctx, mode)
	return args.Error(0)
}

func (m *MockDocument) Crop(ctx context.Context, left, top, right, bottom float64) error {
	args := m.Called(ctx, left, top, right, bottom)
	return args.Error(0)
}

func (m *MockDocument) Trim(ctx context.Context, trim ps.TrimType) error {
	args := m.Called(ctx, trim)
	return args.Error(0)
}

func (m *MockDocument) Flatten(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDocument) MergeVisibleLayers(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDocument) SaveAs(ctx context.Context, path string, spec ps.SaveSpec, asCopy bool) error {
	args := m.Called(ctx, path, spec, asCopy)
	return args.Error(0)
}

func (m *MockDocument) CloseWithoutSaving(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
