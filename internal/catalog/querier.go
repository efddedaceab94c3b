// Package catalog owns the multi-criteria catalog query and its fetch
// lifecycle: debounced search input, filter composition, pagination, and
// last-request-wins resolution of overlapping fetches.
package catalog

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/watisdis/pokedex-cli/internal/gateway"
	"github.com/watisdis/pokedex-cli/internal/models"
	"github.com/watisdis/pokedex-cli/pkg/apierr"
	"github.com/watisdis/pokedex-cli/pkg/metrics"
)

// Searcher is the remote catalog collaborator.
type Searcher interface {
	Search(ctx context.Context, p gateway.SearchParams) (*models.CatalogResponse, error)
}

// Query is the current filter set. RawSearch tracks keystrokes for display;
// DebouncedSearch is what fetches actually use.
type Query struct {
	Page            int
	RawSearch       string
	DebouncedSearch string
	Generation      int
	Type1           string
	Type2           string
}

// TypeQuery joins the non-empty type filters in slot order.
func (q Query) TypeQuery() string {
	parts := make([]string, 0, 2)
	if q.Type1 != "" {
		parts = append(parts, q.Type1)
	}
	if q.Type2 != "" {
		parts = append(parts, q.Type2)
	}
	return strings.Join(parts, ",")
}

// Snapshot is an immutable view of the catalog page state handed to
// observers; the presentation layer renders it directly.
type Snapshot struct {
	Items      []models.CatalogEntry
	TotalCount int
	PageSize   int
	Loading    bool
	Err        string
	Query      Query
}

// TotalPages is 0 when the result set is empty.
func (s Snapshot) TotalPages() int {
	if s.TotalCount == 0 {
		return 0
	}
	return (s.TotalCount + s.PageSize - 1) / s.PageSize
}

// CanNext reports whether the "next page" action is available.
func (s Snapshot) CanNext() bool {
	tp := s.TotalPages()
	return tp != 0 && s.Query.Page != tp
}

// CanPrev reports whether the "previous page" action is available.
func (s Snapshot) CanPrev() bool {
	return s.Query.Page != 1
}

// Querier composes catalog queries and drives their fetch lifecycle. It is
// the sole owner of the catalog page state.
type Querier struct {
	mu  sync.Mutex
	src Searcher

	pageSize int
	debounce time.Duration
	ctx      context.Context
	cancel   context.CancelFunc

	q          Query
	items      []models.CatalogEntry
	totalCount int
	loading    bool
	errMsg     string

	seq       uint64
	timer     *time.Timer
	closed    bool
	observers []func(Snapshot)
	onRemote  func(error)
}

// New creates a querier with default filters (page 1, everything else
// empty). No fetch is issued until Refresh or a filter change.
func New(src Searcher, pageSize int, debounce time.Duration) *Querier {
	ctx, cancel := context.WithCancel(context.Background())
	return &Querier{
		src:      src,
		pageSize: pageSize,
		debounce: debounce,
		ctx:      ctx,
		cancel:   cancel,
		q:        Query{Page: 1},
	}
}

// Subscribe registers an observer for state snapshots.
func (c *Querier) Subscribe(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

// OnRemoteError installs a hook invoked with every failed fetch error, used
// to route credential rejections into the session machinery.
func (c *Querier) OnRemoteError(fn func(error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onRemote = fn
}

// Snapshot returns the current state.
func (c *Querier) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// SetSearchText records a keystroke. The raw text updates immediately; the
// effective search text follows after a quiet period, and only the last call
// within that period survives.
func (c *Querier) SetSearchText(text string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.q.RawSearch = text
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, func() { c.commitSearch(text) })
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.emit(snap)
}

// commitSearch applies a debounced search text. An unchanged value does not
// refetch.
func (c *Querier) commitSearch(text string) {
	c.mu.Lock()
	if c.closed || text == c.q.DebouncedSearch {
		c.mu.Unlock()
		return
	}
	c.q.DebouncedSearch = text
	c.q.Page = 1
	snap := c.fetchLocked()
	c.mu.Unlock()
	c.emit(snap)
}

// SetGenerationFilter filters by generation; 0 means all.
func (c *Querier) SetGenerationFilter(gen int) {
	c.mu.Lock()
	if c.closed || gen == c.q.Generation {
		c.mu.Unlock()
		return
	}
	c.q.Generation = gen
	c.q.Page = 1
	snap := c.fetchLocked()
	c.mu.Unlock()
	c.emit(snap)
}

// SetTypeFilter sets one of the two type filter slots (1 or 2); an empty
// value clears the slot.
func (c *Querier) SetTypeFilter(slot int, value string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	switch slot {
	case 1:
		if c.q.Type1 == value {
			c.mu.Unlock()
			return
		}
		c.q.Type1 = value
	case 2:
		if c.q.Type2 == value {
			c.mu.Unlock()
			return
		}
		c.q.Type2 = value
	default:
		c.mu.Unlock()
		return
	}
	c.q.Page = 1
	snap := c.fetchLocked()
	c.mu.Unlock()
	c.emit(snap)
}

// SetPage navigates to a page without resetting filters.
func (c *Querier) SetPage(n int) {
	c.mu.Lock()
	if c.closed || n < 1 || n == c.q.Page {
		c.mu.Unlock()
		return
	}
	c.q.Page = n
	snap := c.fetchLocked()
	c.mu.Unlock()
	c.emit(snap)
}

// Refresh fetches the current filter set; used on view mount.
func (c *Querier) Refresh() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	snap := c.fetchLocked()
	c.mu.Unlock()
	c.emit(snap)
}

// Close tears the querier down. Pending debounce timers and in-flight
// fetches become inert; no state is mutated afterwards.
func (c *Querier) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
	}
	c.cancel()
}

// fetchLocked issues a fetch for the current parameters under a fresh
// sequence number. Only a response whose sequence still matches the latest
// issued one is applied; anything else is dropped as stale.
func (c *Querier) fetchLocked() Snapshot {
	c.seq++
	seq := c.seq
	c.loading = true
	c.errMsg = ""
	params := gateway.SearchParams{
		Page:       c.q.Page,
		PageSize:   c.pageSize,
		Search:     c.q.DebouncedSearch,
		Generation: c.q.Generation,
		Type:       c.q.TypeQuery(),
	}
	go c.run(seq, params)
	return c.snapshotLocked()
}

func (c *Querier) run(seq uint64, p gateway.SearchParams) {
	resp, err := c.src.Search(c.ctx, p)

	c.mu.Lock()
	if c.closed || seq != c.seq {
		c.mu.Unlock()
		metrics.StaleResponsesDropped.WithLabelValues("catalog").Inc()
		return
	}
	c.loading = false
	if err != nil {
		// Prior items stay visible alongside the error.
		c.errMsg = apierr.Message(err)
	} else {
		c.items = resp.Data
		c.totalCount = resp.TotalData
	}
	hook := c.onRemote
	snap := c.snapshotLocked()
	c.mu.Unlock()

	if err != nil && hook != nil {
		hook(err)
	}
	c.emit(snap)
}

func (c *Querier) snapshotLocked() Snapshot {
	items := make([]models.CatalogEntry, len(c.items))
	copy(items, c.items)
	return Snapshot{
		Items:      items,
		TotalCount: c.totalCount,
		PageSize:   c.pageSize,
		Loading:    c.loading,
		Err:        c.errMsg,
		Query:      c.q,
	}
}

func (c *Querier) emit(snap Snapshot) {
	c.mu.Lock()
	observers := make([]func(Snapshot), len(c.observers))
	copy(observers, c.observers)
	c.mu.Unlock()

	for _, fn := range observers {
		fn(snap)
	}
}
