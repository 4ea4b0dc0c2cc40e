package mcstatus

import (
	"context"

	"github.com/stretchr/testify/mock"

	"mcpanel/clients"
)

// MockStatusClient implements the clients.MinecraftStatusClient interface for testing
type MockStatusClient struct {
	mock.Mock
}

func (m *MockStatusClient) FetchJavaStatus(ctx context.Context, address string) (*clients.JavaStatus, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.JavaStatus), args.Error(1)
}
