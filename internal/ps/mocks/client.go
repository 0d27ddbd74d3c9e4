// Package mocks provides testify mocks for the ps bridge interfaces so
// tool and resource tests never need a live Photoshop.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/brushlab/psmcp/internal/ps"
)

// MockClient is a mock implementation of the ps.Client interface.
type MockClient struct {
	mock.Mock
}

var _ ps.Client = (*MockClient)(nil)

// NewMockClient creates a new MockClient instance.
func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Connect(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockClient) Close(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockClient) GetState() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockClient) IsRunning() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockClient) Version(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockClient) HasActiveDocument(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockClient) ActiveDocument(ctx context.Context) (ps.Document, error) {
	args := m.Called(ctx)
	var doc ps.Document
	if v := args.Get(0); v != nil {
		doc = v.(ps.Document)
	}
	return doc, args.Error(1)
}

func (m *MockClient) CreateDocument(ctx context.Context, opts ps.DocumentOptions) (ps.Document, error) {
	args := m.Called(ctx, opts)
	var doc ps.Document
	if v := args.Get(0); v != nil {
		doc = v.(ps.Document)
	}
	return doc, args.Error(1)
}

func (m *MockClient) OpenDocument(ctx context.Context, path string) (ps.Document, error) {
	args := m.Called(ctx, path)
	var doc ps.Document
	if v := args.Get(0); v != nil {
		doc = v.(ps.Document)
	}
	return doc, args.Error(1)
}

func (m *MockClient) RunScript(ctx context.Context, script string) (string, error) {
	args := m.Called(ctx, script)
	return args.String(0), args.Error(1)
}
