package models

// CatalogEntry is one Pokémon as listed by the catalog endpoint.
// Identity is ID; entries are immutable once received.
type CatalogEntry struct {
	ID     int      `json:"id"`
	Name   string   `json:"name"`
	Sprite string   `json:"sprite"`
	Types  []string `json:"types"`
}

// CatalogResponse is the paginated envelope returned by GET /pokemon.
type CatalogResponse struct {
	Data        []CatalogEntry `json:"data"`
	CurrentPage int            `json:"currentPage"`
	TotalData   int            `json:"totalData"`
}

// Stat is a single base stat of a Pokémon.
type Stat struct {
	Name     string `json:"name"`
	BaseStat int    `json:"baseStat"`
}

// EvolutionStage is one step of an evolution line.
type EvolutionStage struct {
	Name   string `json:"name"`
	Sprite string `json:"sprite"`
	Level  int    `json:"level,omitempty"`
}

// Form is a special form (mega or gigantamax variant).
type Form struct {
	Name   string `json:"name"`
	Sprite string `json:"sprite"`
}

// Recommendation is the suggested competitive build for a Pokémon.
type Recommendation struct {
	Role           string   `json:"role"`
	Nature         string   `json:"nature"`
	SuggestedMoves []string `json:"suggestedMoves"`
}

// TCGCard is the trading card attached to a Pokémon detail, when one exists.
type TCGCard struct {
	Name   string `json:"name"`
	Image  string `json:"image"`
	HP     string `json:"hp"`
	Rarity string `json:"rarity"`
}

// PokemonDetail is the full record returned by GET /pokemon/{id}.
type PokemonDetail struct {
	ID              int              `json:"id"`
	Name            string           `json:"name"`
	MainSprite      string           `json:"mainSprite"`
	Types           []string         `json:"types"`
	Stats           []Stat           `json:"stats"`
	EvolutionLine   []EvolutionStage `json:"evolutionLine"`
	MegaForms       []Form           `json:"megaForms"`
	GigantamaxForms []Form           `json:"gigantamaxForms"`
	Recommendation  Recommendation   `json:"recommendation"`
	Card            *TCGCard         `json:"card,omitempty"`
}

// Reference is the minimal display record resolved from the public
// reference source (PokeAPI) for a bare Pokémon id.
type Reference struct {
	ID     int
	Name   string
	Sprite string
}
