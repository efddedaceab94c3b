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

// SearchParams is the filter set for one catalog page request. Type is the
// comma-joined type filter ("fire" or "fire,flying"), empty for none;
// Generation 0 means all generations.
type SearchParams struct {
	Page       int
	PageSize   int
	Search     string
	Generation int
	Type       string
}

// CatalogGateway talks to the paginated Pokémon catalog of the service.
type CatalogGateway struct {
	client  httpclient.Client
	baseURL string
	tokens  session.TokenStore
}

// NewCatalogGateway creates a catalog gateway. Requests carry the current
// credential when one is present.
func NewCatalogGateway(client httpclient.Client, baseURL string, tokens session.TokenStore) *CatalogGateway {
	return &CatalogGateway{client: client, baseURL: baseURL, tokens: tokens}
}

// Search fetches one catalog page for the given filter set.
func (g *CatalogGateway) Search(ctx context.Context, p SearchParams) (*models.CatalogResponse, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("limit", strconv.Itoa(p.PageSize))
	q.Set("search", p.Search)
	if p.Generation > 0 {
		q.Set("generation", strconv.Itoa(p.Generation))
	}
	if p.Type != "" {
		q.Set("type", p.Type)
	}

	var out models.CatalogResponse
	err := call(ctx, g.client, g.tokens, "catalog", "search",
		http.MethodGet, g.baseURL+"/pokemon?"+q.Encode(), nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Detail fetches the full record for one Pokémon.
func (g *CatalogGateway) Detail(ctx context.Context, id int) (*models.PokemonDetail, error) {
	var out models.PokemonDetail
	err := call(ctx, g.client, g.tokens, "catalog", "detail",
		http.MethodGet, fmt.Sprintf("%s/pokemon/%d", g.baseURL, id), nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
