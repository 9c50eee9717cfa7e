package provider

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockClient is a mock implementation of Client using testify/mock.
// ProviderName and ModelID are plain fields so tests can build several
// distinct clients without stubbing the identity methods.
type MockClient struct {
	mock.Mock
	ProviderName string
	ModelID      string
}

func (m *MockClient) Ask(ctx context.Context, question string) (string, error) {
	args := m.Called(ctx, question)
	return args.String(0), args.Error(1)
}

func (m *MockClient) Probe(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockClient) Name() string  { return m.ProviderName }
func (m *MockClient) Model() string { return m.ModelID }
