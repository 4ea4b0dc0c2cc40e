package minecraft

import (
	"context"

	"github.com/stretchr/testify/mock"

	"mcpanel/models"
)

// MockStatusProber is a mock implementation of the StatusProber interface
type MockStatusProber struct {
	mock.Mock
}

func (m *MockStatusProber) Probe(ctx context.Context, address string) models.StatusSnapshot {
	args := m.Called(ctx, address)
	return args.Get(0).(models.StatusSnapshot)
}
