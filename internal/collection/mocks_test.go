package collection_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/watisdis/pokedex-cli/internal/models"
)

// MockBookmarkGateway is a mock implementation of BookmarkGateway
type MockBookmarkGateway struct {
	mock.Mock
}

func (m *MockBookmarkGateway) ListBookmarks(ctx context.Context) ([]models.Bookmark, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Bookmark), args.Error(1)
}

func (m *MockBookmarkGateway) AddBookmark(ctx context.Context, pokemonID int) error {
	args := m.Called(ctx, pokemonID)
	return args.Error(0)
}

func (m *MockBookmarkGateway) RemoveBookmark(ctx context.Context, pokemonID int) error {
	args := m.Called(ctx, pokemonID)
	return args.Error(0)
}

// MockReferenceSource is a mock implementation of ReferenceSource
type MockReferenceSource struct {
	mock.Mock
}

func (m *MockReferenceSource) Lookup(ctx context.Context, id int) (models.Reference, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Reference), args.Error(1)
}

// MockTeamGateway is a mock implementation of TeamGateway
type MockTeamGateway struct {
	mock.Mock
}

func (m *MockTeamGateway) ListTeams(ctx context.Context, page, limit int, search string) ([]models.Team, error) {
	args := m.Called(ctx, page, limit, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Team), args.Error(1)
}

func (m *MockTeamGateway) CreateTeam(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockTeamGateway) DeleteTeam(ctx context.Context, teamID int) error {
	args := m.Called(ctx, teamID)
	return args.Error(0)
}

func (m *MockTeamGateway) TeamDetail(ctx context.Context, teamID int) (*models.Team, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

func (m *MockTeamGateway) AddTeamMember(ctx context.Context, teamID, pokemonID int) error {
	args := m.Called(ctx, teamID, pokemonID)
	return args.Error(0)
}

func (m *MockTeamGateway) RemoveTeamMember(ctx context.Context, teamID, pokemonID int) error {
	args := m.Called(ctx, teamID, pokemonID)
	return args.Error(0)
}
