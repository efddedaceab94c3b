package collection

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/watisdis/pokedex-cli/internal/models"
	"github.com/watisdis/pokedex-cli/pkg/apierr"
	"github.com/watisdis/pokedex-cli/pkg/metrics"
)

// TeamGateway is the remote team collaborator. Capacity is enforced
// remotely; additions past it come back as a conflict.
type TeamGateway interface {
	ListTeams(ctx context.Context, page, limit int, search string) ([]models.Team, error)
	CreateTeam(ctx context.Context, name string) error
	DeleteTeam(ctx context.Context, teamID int) error
	TeamDetail(ctx context.Context, teamID int) (*models.Team, error)
	AddTeamMember(ctx context.Context, teamID, pokemonID int) error
	RemoveTeamMember(ctx context.Context, teamID, pokemonID int) error
}

// Teams owns the paginated, name-searchable team list. Search input follows
// the same debounce and page-reset pattern as the catalog, and overlapping
// list fetches resolve last-request-wins.
type Teams struct {
	mu       sync.Mutex
	gw       TeamGateway
	pageSize int
	debounce time.Duration
	ctx      context.Context
	cancel   context.CancelFunc

	page      int
	rawSearch string
	search    string

	teams   []models.Team
	loading bool
	errMsg  string

	seq       uint64
	timer     *time.Timer
	closed    bool
	observers []func()
	onRemote  func(error)
}

// NewTeams creates a team list coordinator; call Refresh to populate it.
func NewTeams(gw TeamGateway, pageSize int, debounce time.Duration) *Teams {
	ctx, cancel := context.WithCancel(context.Background())
	return &Teams{
		gw:       gw,
		pageSize: pageSize,
		debounce: debounce,
		ctx:      ctx,
		cancel:   cancel,
		page:     1,
	}
}

// OnRemoteError installs a hook for credential rejections.
func (t *Teams) OnRemoteError(fn func(error)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onRemote = fn
}

// Subscribe registers an observer notified after every applied list update.
func (t *Teams) Subscribe(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observers = append(t.observers, fn)
}

// List returns the current team page.
func (t *Teams) List() []models.Team {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]models.Team, len(t.teams))
	copy(out, t.teams)
	return out
}

// Err returns the last surfaced error message, empty when none.
func (t *Teams) Err() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.errMsg
}

// Loading reports whether a list fetch is in progress.
func (t *Teams) Loading() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loading
}

// Search returns the effective (debounced) search filter.
func (t *Teams) Search() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.search
}

// Page returns the current page number.
func (t *Teams) Page() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.page
}

// CanNext mirrors the short-page pagination rule.
func (t *Teams) CanNext() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.teams) == t.pageSize
}

func (t *Teams) CanPrev() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.page > 1
}

// SetSearch records a search keystroke; the effective filter follows after
// the quiet period and resets the page to 1.
func (t *Teams) SetSearch(text string) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.rawSearch = text
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.debounce, func() { t.commitSearch(text) })
	t.mu.Unlock()
}

func (t *Teams) commitSearch(text string) {
	t.mu.Lock()
	if t.closed || text == t.search {
		t.mu.Unlock()
		return
	}
	t.search = text
	t.page = 1
	t.fetchLocked()
	t.mu.Unlock()
}

// SetPage navigates to a page of the current search.
func (t *Teams) SetPage(n int) {
	t.mu.Lock()
	if t.closed || n < 1 || n == t.page {
		t.mu.Unlock()
		return
	}
	t.page = n
	t.fetchLocked()
	t.mu.Unlock()
}

// Refresh refetches the current page; used on view mount and after
// operations whose effect on counts and pagination is not derivable locally
// (team creation and deletion).
func (t *Teams) Refresh() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.fetchLocked()
	t.mu.Unlock()
}

// Create makes a named empty team and refreshes the list. An empty name is
// rejected locally.
func (t *Teams) Create(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		err := apierr.ValidationError("name", "required")
		t.mu.Lock()
		t.errMsg = apierr.Message(err)
		t.mu.Unlock()
		return err
	}

	if err := t.gw.CreateTeam(ctx, name); err != nil {
		t.mu.Lock()
		t.errMsg = apierr.Message(err)
		hook := t.onRemote
		t.mu.Unlock()
		if hook != nil {
			hook(err)
		}
		return err
	}
	t.Refresh()
	return nil
}

// Delete removes a team and refreshes the list. The intent is expected to be
// pre-confirmed by the caller; no confirmation is gathered here.
func (t *Teams) Delete(ctx context.Context, teamID int) error {
	if err := t.gw.DeleteTeam(ctx, teamID); err != nil {
		t.mu.Lock()
		t.errMsg = apierr.Message(err)
		hook := t.onRemote
		t.mu.Unlock()
		if hook != nil {
			hook(err)
		}
		return err
	}
	t.Refresh()
	return nil
}

// Close tears the coordinator down; pending timers and fetches become inert.
func (t *Teams) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	if t.timer != nil {
		t.timer.Stop()
	}
	t.cancel()
}

func (t *Teams) fetchLocked() {
	t.seq++
	seq := t.seq
	t.loading = true
	t.errMsg = ""
	page, limit, search := t.page, t.pageSize, t.search
	go t.run(seq, page, limit, search)
}

func (t *Teams) run(seq uint64, page, limit int, search string) {
	teams, err := t.gw.ListTeams(t.ctx, page, limit, search)

	t.mu.Lock()
	if t.closed || seq != t.seq {
		t.mu.Unlock()
		metrics.StaleResponsesDropped.WithLabelValues("teams").Inc()
		return
	}
	t.loading = false
	if err != nil {
		t.errMsg = apierr.Message(err)
	} else {
		t.teams = teams
	}
	hook := t.onRemote
	observers := make([]func(), len(t.observers))
	copy(observers, t.observers)
	t.mu.Unlock()

	if err != nil && hook != nil {
		hook(err)
	}
	for _, fn := range observers {
		fn()
	}
}

// TeamDetail owns one team's membership list, mutated by optimistic member
// add/remove and whole-team delete.
type TeamDetail struct {
	mu   sync.Mutex
	gw   TeamGateway
	team models.Team
	// inflight generations per Pokémon id, same supersession rule as
	// Bookmarks.
	inflight map[int]uint64
	loaded   bool
	errMsg   string
	onRemote func(error)
}

// NewTeamDetail creates an empty detail coordinator; Load fetches the team.
func NewTeamDetail(gw TeamGateway) *TeamDetail {
	return &TeamDetail{gw: gw, inflight: map[int]uint64{}}
}

// OnRemoteError installs a hook for credential rejections.
func (d *TeamDetail) OnRemoteError(fn func(error)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onRemote = fn
}

// Load replaces the held team wholesale from the remote source.
func (d *TeamDetail) Load(ctx context.Context, teamID int) error {
	team, err := d.gw.TeamDetail(ctx, teamID)
	if err != nil {
		d.mu.Lock()
		d.errMsg = apierr.Message(err)
		hook := d.onRemote
		d.mu.Unlock()
		if hook != nil {
			hook(err)
		}
		return err
	}

	d.mu.Lock()
	d.team = *team
	if d.team.TotalPokemon == 0 {
		d.team.TotalPokemon = len(d.team.Pokemons)
	}
	d.loaded = true
	d.errMsg = ""
	d.mu.Unlock()
	return nil
}

// Team returns a copy of the held team.
func (d *TeamDetail) Team() models.Team {
	d.mu.Lock()
	defer d.mu.Unlock()
	team := d.team
	team.Pokemons = make([]models.TeamMember, len(d.team.Pokemons))
	copy(team.Pokemons, d.team.Pokemons)
	return team
}

// Err returns the last surfaced error message, empty when none.
func (d *TeamDetail) Err() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.errMsg
}

// AddMember adds a Pokémon to the team: optimistic insert of an id-only
// stub (display data arrives on the next Load), rolled back when the remote
// rejects, notably with a conflict when the team is at capacity.
func (d *TeamDetail) AddMember(ctx context.Context, pokemonID int) error {
	d.mu.Lock()
	if d.memberIndexLocked(pokemonID) >= 0 {
		d.mu.Unlock()
		return nil
	}
	d.team.Pokemons = append(d.team.Pokemons, models.TeamMember{ID: pokemonID})
	d.team.TotalPokemon++
	d.inflight[pokemonID]++
	gen := d.inflight[pokemonID]
	d.errMsg = ""
	teamID := d.team.ID
	d.mu.Unlock()

	err := d.gw.AddTeamMember(ctx, teamID, pokemonID)
	if err == nil {
		return nil
	}

	d.mu.Lock()
	if d.inflight[pokemonID] == gen {
		if i := d.memberIndexLocked(pokemonID); i >= 0 {
			d.team.Pokemons = append(d.team.Pokemons[:i], d.team.Pokemons[i+1:]...)
			d.team.TotalPokemon--
		}
		d.errMsg = apierr.Message(err)
		metrics.OptimisticRollbacks.WithLabelValues("teams").Inc()
	}
	hook := d.onRemote
	d.mu.Unlock()

	if hook != nil {
		hook(err)
	}
	return err
}

// RemoveMember removes a Pokémon from the team, re-inserting it at its
// original position on remote failure.
func (d *TeamDetail) RemoveMember(ctx context.Context, pokemonID int) error {
	d.mu.Lock()
	idx := d.memberIndexLocked(pokemonID)
	if idx < 0 {
		d.mu.Unlock()
		return nil
	}
	removed := d.team.Pokemons[idx]
	d.team.Pokemons = append(d.team.Pokemons[:idx], d.team.Pokemons[idx+1:]...)
	d.team.TotalPokemon--
	d.inflight[pokemonID]++
	gen := d.inflight[pokemonID]
	d.errMsg = ""
	teamID := d.team.ID
	d.mu.Unlock()

	err := d.gw.RemoveTeamMember(ctx, teamID, pokemonID)
	if err == nil {
		return nil
	}

	d.mu.Lock()
	if d.inflight[pokemonID] == gen {
		if idx > len(d.team.Pokemons) {
			idx = len(d.team.Pokemons)
		}
		d.team.Pokemons = append(d.team.Pokemons[:idx],
			append([]models.TeamMember{removed}, d.team.Pokemons[idx:]...)...)
		d.team.TotalPokemon++
		d.errMsg = apierr.Message(err)
		metrics.OptimisticRollbacks.WithLabelValues("teams").Inc()
	}
	hook := d.onRemote
	d.mu.Unlock()

	if hook != nil {
		hook(err)
	}
	return err
}

// Delete removes the whole team. Pre-confirmed intent, same as Teams.Delete.
func (d *TeamDetail) Delete(ctx context.Context) error {
	d.mu.Lock()
	teamID := d.team.ID
	d.mu.Unlock()

	if err := d.gw.DeleteTeam(ctx, teamID); err != nil {
		d.mu.Lock()
		d.errMsg = apierr.Message(err)
		hook := d.onRemote
		d.mu.Unlock()
		if hook != nil {
			hook(err)
		}
		return err
	}
	return nil
}

func (d *TeamDetail) memberIndexLocked(pokemonID int) int {
	for i, m := range d.team.Pokemons {
		if m.ID == pokemonID {
			return i
		}
	}
	return -1
}
