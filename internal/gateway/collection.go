package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/watisdis/pokedex-cli/internal/models"
	"github.com/watisdis/pokedex-cli/internal/session"
	"github.com/watisdis/pokedex-cli/pkg/httpclient"
)

// CollectionGateway talks to the bookmark and team endpoints. All calls are
// authenticated.
type CollectionGateway struct {
	client  httpclient.Client
	baseURL string
	tokens  session.TokenStore
}

// NewCollectionGateway creates a collection gateway.
func NewCollectionGateway(client httpclient.Client, baseURL string, tokens session.TokenStore) *CollectionGateway {
	return &CollectionGateway{client: client, baseURL: baseURL, tokens: tokens}
}

// ListBookmarks returns the user's full bookmark list (bare ids).
func (g *CollectionGateway) ListBookmarks(ctx context.Context) ([]models.Bookmark, error) {
	var out []models.Bookmark
	err := call(ctx, g.client, g.tokens, "collection", "list_bookmarks",
		http.MethodGet, g.baseURL+"/bookmarks", nil, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AddBookmark bookmarks a Pokémon.
func (g *CollectionGateway) AddBookmark(ctx context.Context, pokemonID int) error {
	return call(ctx, g.client, g.tokens, "collection", "add_bookmark",
		http.MethodPost, g.baseURL+"/bookmarks", models.Bookmark{PokemonID: pokemonID}, nil)
}

// RemoveBookmark deletes a bookmark.
func (g *CollectionGateway) RemoveBookmark(ctx context.Context, pokemonID int) error {
	return call(ctx, g.client, g.tokens, "collection", "remove_bookmark",
		http.MethodDelete, fmt.Sprintf("%s/bookmarks/%d", g.baseURL, pokemonID), nil, nil)
}

// ListTeams returns one page of the user's teams, filtered by name.
func (g *CollectionGateway) ListTeams(ctx context.Context, page, limit int, search string) ([]models.Team, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	q.Set("search", search)

	var out models.TeamList
	err := call(ctx, g.client, g.tokens, "collection", "list_teams",
		http.MethodGet, g.baseURL+"/teams?"+q.Encode(), nil, &out)
	if err != nil {
		return nil, err
	}
	return out.Data, nil
}

// CreateTeam creates a named empty team.
func (g *CollectionGateway) CreateTeam(ctx context.Context, name string) error {
	body := map[string]string{"name": name}
	return call(ctx, g.client, g.tokens, "collection", "create_team",
		http.MethodPost, g.baseURL+"/teams", body, nil)
}

// DeleteTeam permanently deletes a team.
func (g *CollectionGateway) DeleteTeam(ctx context.Context, teamID int) error {
	return call(ctx, g.client, g.tokens, "collection", "delete_team",
		http.MethodDelete, fmt.Sprintf("%s/teams/%d", g.baseURL, teamID), nil, nil)
}

// TeamDetail returns a team with its full membership list.
func (g *CollectionGateway) TeamDetail(ctx context.Context, teamID int) (*models.Team, error) {
	var out models.Team
	err := call(ctx, g.client, g.tokens, "collection", "team_detail",
		http.MethodGet, fmt.Sprintf("%s/teams/%d", g.baseURL, teamID), nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// AddTeamMember adds a Pokémon to a team. The service rejects additions past
// team capacity with a conflict.
func (g *CollectionGateway) AddTeamMember(ctx context.Context, teamID, pokemonID int) error {
	return call(ctx, g.client, g.tokens, "collection", "add_team_member",
		http.MethodPost, fmt.Sprintf("%s/teams/%d/pokemon", g.baseURL, teamID),
		models.Bookmark{PokemonID: pokemonID}, nil)
}

// RemoveTeamMember removes a Pokémon from a team.
func (g *CollectionGateway) RemoveTeamMember(ctx context.Context, teamID, pokemonID int) error {
	return call(ctx, g.client, g.tokens, "collection", "remove_team_member",
		http.MethodDelete, fmt.Sprintf("%s/teams/%d/pokemon/%d", g.baseURL, teamID, pokemonID), nil, nil)
}
