package identities

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"mcpanel/models"
)

// MockIdentitiesService is a mock implementation of the IdentitiesService interface
type MockIdentitiesService struct {
	mock.Mock
}

func (m *MockIdentitiesService) UpsertIdentity(ctx context.Context, identity *models.Identity) (bool, error) {
	args := m.Called(ctx, identity)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdentitiesService) GetIdentityByID(ctx context.Context, id string) (mo.Option[*models.Identity], error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return mo.None[*models.Identity](), args.Error(1)
	}
	return args.Get(0).(mo.Option[*models.Identity]), args.Error(1)
}

func (m *MockIdentitiesService) ListAdministeredGuilds(
	ctx context.Context,
	identityID string,
) ([]*models.AdminGuild, error) {
	args := m.Called(ctx, identityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AdminGuild), args.Error(1)
}

func (m *MockIdentitiesService) IsGuildAdministrator(ctx context.Context, identityID, guildID string) (bool, error) {
	args := m.Called(ctx, identityID, guildID)
	return args.Bool(0), args.Error(1)
}
