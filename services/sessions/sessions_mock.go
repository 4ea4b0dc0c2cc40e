package sessions

import (
	"context"

	"github.com/stretchr/testify/mock"

	"mcpanel/models"
)

// MockSessionsService is a mock implementation of the SessionsService interface
type MockSessionsService struct {
	mock.Mock
}

func (m *MockSessionsService) AuthorizationURL() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockSessionsService) CompleteLogin(ctx context.Context, code string) (*models.LoginResult, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LoginResult), args.Error(1)
}

func (m *MockSessionsService) VerifySession(ctx context.Context, token string) (*models.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}
