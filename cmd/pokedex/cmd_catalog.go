package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/watisdis/pokedex-cli/internal/catalog"
	"github.com/watisdis/pokedex-cli/internal/session"
)

type SearchCmd struct {
	Query      string `arg:"" optional:"" help:"Name search text"`
	Page       int    `default:"1" help:"Page number"`
	Generation int    `short:"g" help:"Generation filter (1-9)"`
	Type1      string `help:"First type filter"`
	Type2      string `help:"Second type filter"`
}

func (c *SearchCmd) Run(a *App) error {
	if err := a.requireAuth(); err != nil {
		return err
	}

	q := catalog.New(a.Catalog, a.Cfg.Catalog.PageSize, a.Cfg.Catalog.Debounce)
	defer q.Close()
	q.OnRemoteError(func(err error) { a.Session.HandleRemoteError(err) })

	snaps := make(chan catalog.Snapshot, 16)
	q.Subscribe(func(s catalog.Snapshot) { snaps <- s })

	q.SetGenerationFilter(c.Generation)
	q.SetTypeFilter(1, c.Type1)
	q.SetTypeFilter(2, c.Type2)
	q.SetSearchText(c.Query)
	q.Refresh()

	// The search text only takes effect after the quiet period, so settle
	// the query on page 1 first and only then navigate to the requested
	// page; anything in between is an intermediate state.
	want := catalog.Query{
		Page:            1,
		RawSearch:       c.Query,
		DebouncedSearch: c.Query,
		Generation:      c.Generation,
		Type1:           c.Type1,
		Type2:           c.Type2,
	}
	deadline := time.After(a.Cfg.Service.Timeout + a.Cfg.Catalog.Debounce)

	s, err := waitForSnapshot(snaps, deadline, want)
	if err != nil {
		return err
	}
	if c.Page > 1 {
		q.SetPage(c.Page)
		want.Page = c.Page
		if s, err = waitForSnapshot(snaps, deadline, want); err != nil {
			return err
		}
	}
	if s.Err != "" {
		if a.Session.State() != session.Authenticated {
			return fmt.Errorf("session expired (redirected to /login)")
		}
		return fmt.Errorf("search failed: %s", s.Err)
	}
	c.render(a, s)
	return nil
}

func waitForSnapshot(snaps <-chan catalog.Snapshot, deadline <-chan time.Time, want catalog.Query) (catalog.Snapshot, error) {
	for {
		select {
		case s := <-snaps:
			if !s.Loading && s.Query == want {
				return s, nil
			}
		case <-deadline:
			return catalog.Snapshot{}, fmt.Errorf("search timed out")
		}
	}
}

func (c *SearchCmd) render(a *App, s catalog.Snapshot) {
	if len(s.Items) == 0 {
		fmt.Fprintln(a.Out, "no Pokémon found")
		return
	}
	w := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPES")
	for _, p := range s.Items {
		fmt.Fprintf(w, "%d\t%s\t%s\n", p.ID, p.Name, strings.Join(p.Types, ", "))
	}
	w.Flush()

	nav := ""
	if s.CanPrev() {
		nav += " [prev]"
	}
	if s.CanNext() {
		nav += " [next]"
	}
	fmt.Fprintf(a.Out, "page %d / %d (%d total)%s\n", s.Query.Page, s.TotalPages(), s.TotalCount, nav)
}

type ShowCmd struct {
	ID int `arg:"" help:"Pokémon id"`
}

func (c *ShowCmd) Run(a *App) error {
	if err := a.requireAuth(); err != nil {
		return err
	}
	ctx, cancel := a.ctx()
	defer cancel()

	p, err := a.Catalog.Detail(ctx, c.ID)
	if err != nil {
		return a.remoteErr(err)
	}

	fmt.Fprintf(a.Out, "#%03d %s (%s)\n", p.ID, strings.ToUpper(p.Name), strings.Join(p.Types, ", "))
	for _, st := range p.Stats {
		fmt.Fprintf(a.Out, "  %-16s %d\n", st.Name, st.BaseStat)
	}
	if len(p.EvolutionLine) > 0 {
		names := make([]string, len(p.EvolutionLine))
		for i, evo := range p.EvolutionLine {
			names[i] = evo.Name
			if evo.Level > 0 {
				names[i] = fmt.Sprintf("%s (lv %d)", evo.Name, evo.Level)
			}
		}
		fmt.Fprintf(a.Out, "evolution: %s\n", strings.Join(names, " -> "))
	}
	if p.Recommendation.Role != "" {
		fmt.Fprintf(a.Out, "build: %s, %s nature", p.Recommendation.Role, p.Recommendation.Nature)
		if len(p.Recommendation.SuggestedMoves) > 0 {
			fmt.Fprintf(a.Out, ", moves: %s", strings.Join(p.Recommendation.SuggestedMoves, ", "))
		}
		fmt.Fprintln(a.Out)
	}
	if p.Card != nil {
		fmt.Fprintf(a.Out, "card: %s (HP %s, %s)\n", p.Card.Name, p.Card.HP, p.Card.Rarity)
	}
	return nil
}
