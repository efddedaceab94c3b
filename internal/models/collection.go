package models

// Bookmark is the remote representation of a bookmarked Pokémon: a bare id.
type Bookmark struct {
	PokemonID int `json:"pokemonId"`
}

// EnrichedBookmark is a bookmark joined with reference display data.
// A failed lookup yields a placeholder, never a failed page.
type EnrichedBookmark struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Sprite string `json:"sprite"`
}

// TeamMember is the catalog stub held in a team's membership list.
type TeamMember struct {
	ID    int      `json:"id"`
	Name  string   `json:"name"`
	Types []string `json:"types"`
}

// Team as returned by the teams endpoints. TotalPokemon may be omitted by
// the list endpoint; the detail endpoint carries the full membership.
type Team struct {
	ID           int          `json:"id"`
	Name         string       `json:"name"`
	Pokemons     []TeamMember `json:"pokemons"`
	TotalPokemon int          `json:"totalPokemon"`
}

// TeamList is the paginated envelope returned by GET /teams.
type TeamList struct {
	Data []Team `json:"data"`
}
