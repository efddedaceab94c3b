package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/watisdis/pokedex-cli/internal/collection"
	"github.com/watisdis/pokedex-cli/internal/models"
	"github.com/watisdis/pokedex-cli/internal/session"
)

type BookmarkCmd struct {
	Add BookmarkAddCmd `cmd:"" help:"Bookmark a Pokémon"`
	Rm  BookmarkRmCmd  `cmd:"" help:"Remove a bookmark"`
	Ls  BookmarkLsCmd  `cmd:"" help:"List bookmarks"`
}

type BookmarkAddCmd struct {
	ID int `arg:"" help:"Pokémon id"`
}

func (c *BookmarkAddCmd) Run(a *App) error {
	if err := a.requireAuth(); err != nil {
		return err
	}
	ctx, cancel := a.ctx()
	defer cancel()

	b := a.bookmarks()
	if err := b.Refresh(ctx, 1); err != nil {
		return a.remoteErr(err)
	}
	if b.Contains(c.ID) {
		fmt.Fprintf(a.Out, "#%d is already bookmarked\n", c.ID)
		return nil
	}
	if err := b.Add(ctx, c.ID); err != nil {
		return a.remoteErr(err)
	}
	fmt.Fprintf(a.Out, "bookmarked #%d\n", c.ID)
	return nil
}

type BookmarkRmCmd struct {
	ID int `arg:"" help:"Pokémon id"`
}

func (c *BookmarkRmCmd) Run(a *App) error {
	if err := a.requireAuth(); err != nil {
		return err
	}
	ctx, cancel := a.ctx()
	defer cancel()

	b := a.bookmarks()
	if err := b.Refresh(ctx, 1); err != nil {
		return a.remoteErr(err)
	}
	if !b.Contains(c.ID) {
		fmt.Fprintf(a.Out, "#%d is not bookmarked\n", c.ID)
		return nil
	}
	if err := b.Remove(ctx, c.ID); err != nil {
		return a.remoteErr(err)
	}
	fmt.Fprintf(a.Out, "removed bookmark #%d\n", c.ID)
	return nil
}

type BookmarkLsCmd struct {
	Page int `default:"1" help:"Page number"`
}

func (c *BookmarkLsCmd) Run(a *App) error {
	if err := a.requireAuth(); err != nil {
		return err
	}
	ctx, cancel := a.ctx()
	defer cancel()

	b := a.bookmarks()
	if err := b.Refresh(ctx, c.Page); err != nil {
		return a.remoteErr(err)
	}
	entries := b.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(a.Out, "no bookmarks")
		return nil
	}
	w := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME")
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%s\n", e.ID, e.Name)
	}
	w.Flush()

	nav := ""
	if b.CanPrev() {
		nav += " [prev]"
	}
	if b.CanNext() {
		nav += " [next]"
	}
	fmt.Fprintf(a.Out, "page %d%s\n", b.Page(), nav)
	return nil
}

type TeamCmd struct {
	Create TeamCreateCmd   `cmd:"" help:"Create a team"`
	Rm     TeamRmCmd       `cmd:"" help:"Delete a team"`
	Ls     TeamLsCmd       `cmd:"" help:"List teams"`
	Show   TeamShowCmd     `cmd:"" help:"Show a team roster"`
	Add    TeamAddCmd      `cmd:"" help:"Add a Pokémon to a team"`
	RmMon  TeamRmMemberCmd `cmd:"" name:"rm-pokemon" help:"Remove a Pokémon from a team"`
}

type TeamCreateCmd struct {
	Name string `arg:"" help:"Team name"`
}

func (c *TeamCreateCmd) Run(a *App) error {
	if err := a.requireAuth(); err != nil {
		return err
	}
	ctx, cancel := a.ctx()
	defer cancel()

	t := a.teams()
	defer t.Close()
	if err := t.Create(ctx, c.Name); err != nil {
		return a.remoteErr(err)
	}
	fmt.Fprintf(a.Out, "created team %q\n", c.Name)
	return nil
}

type TeamRmCmd struct {
	ID  int  `arg:"" help:"Team id"`
	Yes bool `help:"Confirm the deletion" required:""`
}

func (c *TeamRmCmd) Run(a *App) error {
	if err := a.requireAuth(); err != nil {
		return err
	}
	ctx, cancel := a.ctx()
	defer cancel()

	t := a.teams()
	defer t.Close()
	if err := t.Delete(ctx, c.ID); err != nil {
		return a.remoteErr(err)
	}
	fmt.Fprintf(a.Out, "deleted team %d\n", c.ID)
	return nil
}

type TeamLsCmd struct {
	Search string `short:"s" help:"Filter by team name"`
	Page   int    `default:"1" help:"Page number"`
}

func (c *TeamLsCmd) Run(a *App) error {
	if err := a.requireAuth(); err != nil {
		return err
	}

	t := a.teams()
	defer t.Close()

	done := make(chan struct{}, 16)
	t.Subscribe(func() { done <- struct{}{} })

	// The search filter only applies after the quiet period, so settle the
	// filtered list on page 1 before navigating to the requested page.
	t.SetSearch(c.Search)
	t.Refresh()

	deadline := time.After(a.Cfg.Service.Timeout + a.Cfg.Catalog.Debounce)
	if err := waitForTeams(t, done, deadline, c.Search, 1); err != nil {
		return err
	}
	if c.Page > 1 {
		t.SetPage(c.Page)
		if err := waitForTeams(t, done, deadline, c.Search, c.Page); err != nil {
			return err
		}
	}
	if msg := t.Err(); msg != "" {
		return fmt.Errorf("team listing failed: %s", msg)
	}

	teams := t.List()
	if len(teams) == 0 {
		fmt.Fprintln(a.Out, "no teams")
		return nil
	}
	w := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPOKEMON")
	for _, tm := range teams {
		fmt.Fprintf(w, "%d\t%s\t%d/6\n", tm.ID, tm.Name, tm.TotalPokemon)
	}
	w.Flush()

	nav := ""
	if t.CanPrev() {
		nav += " [prev]"
	}
	if t.CanNext() {
		nav += " [next]"
	}
	fmt.Fprintf(a.Out, "page %d%s\n", t.Page(), nav)
	return nil
}

func waitForTeams(t *collection.Teams, done <-chan struct{}, deadline <-chan time.Time, search string, page int) error {
	for {
		select {
		case <-done:
			if !t.Loading() && t.Search() == search && t.Page() == page {
				return nil
			}
		case <-deadline:
			return fmt.Errorf("team listing timed out")
		}
	}
}

type TeamShowCmd struct {
	ID int `arg:"" help:"Team id"`
}

func (c *TeamShowCmd) Run(a *App) error {
	if err := a.requireAuth(); err != nil {
		return err
	}
	ctx, cancel := a.ctx()
	defer cancel()

	d := a.teamDetail()
	if err := d.Load(ctx, c.ID); err != nil {
		return a.remoteErr(err)
	}
	renderTeam(a, d.Team())
	return nil
}

type TeamAddCmd struct {
	Team    int `arg:"" help:"Team id"`
	Pokemon int `arg:"" help:"Pokémon id"`
}

func (c *TeamAddCmd) Run(a *App) error {
	if err := a.requireAuth(); err != nil {
		return err
	}
	ctx, cancel := a.ctx()
	defer cancel()

	d := a.teamDetail()
	if err := d.Load(ctx, c.Team); err != nil {
		return a.remoteErr(err)
	}
	if err := d.AddMember(ctx, c.Pokemon); err != nil {
		return a.remoteErr(err)
	}
	if err := d.Load(ctx, c.Team); err != nil {
		return a.remoteErr(err)
	}
	renderTeam(a, d.Team())
	return nil
}

type TeamRmMemberCmd struct {
	Team    int `arg:"" help:"Team id"`
	Pokemon int `arg:"" help:"Pokémon id"`
}

func (c *TeamRmMemberCmd) Run(a *App) error {
	if err := a.requireAuth(); err != nil {
		return err
	}
	ctx, cancel := a.ctx()
	defer cancel()

	d := a.teamDetail()
	if err := d.Load(ctx, c.Team); err != nil {
		return a.remoteErr(err)
	}
	if err := d.RemoveMember(ctx, c.Pokemon); err != nil {
		return a.remoteErr(err)
	}
	if err := d.Load(ctx, c.Team); err != nil {
		return a.remoteErr(err)
	}
	renderTeam(a, d.Team())
	return nil
}

func renderTeam(a *App, team models.Team) {
	fmt.Fprintf(a.Out, "%s (%d/6)\n", team.Name, team.TotalPokemon)
	for _, m := range team.Pokemons {
		name := m.Name
		if name == "" {
			name = fmt.Sprintf("#%d", m.ID)
		}
		fmt.Fprintf(a.Out, "  %d\t%s\t%s\n", m.ID, name, strings.Join(m.Types, ", "))
	}
	if len(team.Pokemons) == 0 {
		fmt.Fprintln(a.Out, "  (empty)")
	}
}

func (a *App) bookmarks() *collection.Bookmarks {
	b := collection.NewBookmarks(a.Collection, a.Ref, a.Cfg.Collection.PageSize)
	b.OnRemoteError(func(err error) { a.Session.HandleRemoteError(err) })
	return b
}

func (a *App) teams() *collection.Teams {
	t := collection.NewTeams(a.Collection, a.Cfg.Collection.PageSize, a.Cfg.Catalog.Debounce)
	t.OnRemoteError(func(err error) { a.Session.HandleRemoteError(err) })
	return t
}

func (a *App) teamDetail() *collection.TeamDetail {
	d := collection.NewTeamDetail(a.Collection)
	d.OnRemoteError(func(err error) { a.Session.HandleRemoteError(err) })
	return d
}

// remoteErr translates a forced logout into the same message the route
// gate produces, so the user sees one consistent boundary.
func (a *App) remoteErr(err error) error {
	if a.Session.HandleRemoteError(err) {
		return fmt.Errorf("session expired (redirected to %s)", session.LoginRoute)
	}
	return err
}
