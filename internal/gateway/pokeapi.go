package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/watisdis/pokedex-cli/internal/models"
	"github.com/watisdis/pokedex-cli/pkg/httpclient"
	"github.com/watisdis/pokedex-cli/pkg/metrics"
)

const cacheCheckPeriod = 10 * time.Minute

// pokeAPIRecord is the subset of the PokeAPI pokemon resource we read.
type pokeAPIRecord struct {
	Name    string `json:"name"`
	Sprites struct {
		FrontDefault string `json:"front_default"`
	} `json:"sprites"`
}

// PokeAPIGateway resolves bare Pokémon ids into display data (name, sprite)
// from the public PokeAPI. Reference data is immutable in practice, so
// results are cached with a TTL.
type PokeAPIGateway struct {
	client  httpclient.Client
	baseURL string
	cache   *gocache.Cache
}

// NewPokeAPIGateway creates a reference gateway with the given cache TTL.
func NewPokeAPIGateway(client httpclient.Client, baseURL string, ttl time.Duration) *PokeAPIGateway {
	return &PokeAPIGateway{
		client:  client,
		baseURL: baseURL,
		cache:   gocache.New(ttl, cacheCheckPeriod),
	}
}

// Lookup resolves one Pokémon id, serving from cache when possible.
func (g *PokeAPIGateway) Lookup(ctx context.Context, id int) (models.Reference, error) {
	key := strconv.Itoa(id)
	if v, ok := g.cache.Get(key); ok {
		metrics.ReferenceCacheHits.Inc()
		return v.(models.Reference), nil
	}
	metrics.ReferenceCacheMisses.Inc()

	var rec pokeAPIRecord
	err := call(ctx, g.client, nil, "pokeapi", "lookup",
		http.MethodGet, fmt.Sprintf("%s/pokemon/%d", g.baseURL, id), nil, &rec)
	if err != nil {
		return models.Reference{}, err
	}

	ref := models.Reference{ID: id, Name: rec.Name, Sprite: rec.Sprites.FrontDefault}
	g.cache.SetDefault(key, ref)
	return ref, nil
}
