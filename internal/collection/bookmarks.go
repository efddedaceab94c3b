// Package collection reconciles locally-held collections (bookmarks, teams)
// with the remote service under optimistic updates: mutate locally first,
// confirm remotely, roll back on failure.
package collection

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/watisdis/pokedex-cli/internal/models"
	"github.com/watisdis/pokedex-cli/pkg/apierr"
	"github.com/watisdis/pokedex-cli/pkg/metrics"
)

// BookmarkGateway is the remote bookmark collaborator.
type BookmarkGateway interface {
	ListBookmarks(ctx context.Context) ([]models.Bookmark, error)
	AddBookmark(ctx context.Context, pokemonID int) error
	RemoveBookmark(ctx context.Context, pokemonID int) error
}

// ReferenceSource resolves bare Pokémon ids into display data.
type ReferenceSource interface {
	Lookup(ctx context.Context, id int) (models.Reference, error)
}

const (
	enrichConcurrency = 5
	placeholderName   = "unknown"
	placeholderSprite = "/placeholder.png"
)

// Bookmarks mirrors the user's bookmark set. The remote list is the source
// of truth; Add and Remove mutate optimistically and roll back on failure.
type Bookmarks struct {
	mu       sync.Mutex
	gw       BookmarkGateway
	ref      ReferenceSource
	pageSize int

	ids     []int
	members map[int]bool
	// inflight carries a per-id operation generation: a later Add/Remove on
	// the same id supersedes an earlier operation's rollback.
	inflight map[int]uint64

	page    int
	entries []models.EnrichedBookmark
	loading bool
	errMsg  string

	onRemote func(error)
}

// NewBookmarks creates an empty mirror; call Refresh to populate it.
func NewBookmarks(gw BookmarkGateway, ref ReferenceSource, pageSize int) *Bookmarks {
	return &Bookmarks{
		gw:       gw,
		ref:      ref,
		pageSize: pageSize,
		members:  map[int]bool{},
		inflight: map[int]uint64{},
		page:     1,
	}
}

// OnRemoteError installs a hook for credential rejections.
func (b *Bookmarks) OnRemoteError(fn func(error)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onRemote = fn
}

// Contains reports whether a Pokémon is bookmarked in the local mirror.
func (b *Bookmarks) Contains(id int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.members[id]
}

// IDs returns the mirrored bookmark ids in order.
func (b *Bookmarks) IDs() []int {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]int, len(b.ids))
	copy(out, b.ids)
	return out
}

// Entries returns the current enriched page.
func (b *Bookmarks) Entries() []models.EnrichedBookmark {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.EnrichedBookmark, len(b.entries))
	copy(out, b.entries)
	return out
}

// Err returns the last surfaced error message, empty when none.
func (b *Bookmarks) Err() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.errMsg
}

// Loading reports whether a refresh is in progress.
func (b *Bookmarks) Loading() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loading
}

// Page returns the current page number.
func (b *Bookmarks) Page() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.page
}

// CanNext reports whether a further page exists. The bookmark list is flat,
// so a short page means there is nothing further.
func (b *Bookmarks) CanNext() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries) == b.pageSize
}

func (b *Bookmarks) CanPrev() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.page > 1
}

// Add bookmarks a Pokémon: optimistic local insert, remote confirm, rollback
// on failure. Adding an existing member is a no-op.
func (b *Bookmarks) Add(ctx context.Context, id int) error {
	b.mu.Lock()
	if b.members[id] {
		b.mu.Unlock()
		return nil
	}
	b.members[id] = true
	b.ids = append(b.ids, id)
	b.inflight[id]++
	gen := b.inflight[id]
	b.errMsg = ""
	b.mu.Unlock()

	err := b.gw.AddBookmark(ctx, id)
	if err == nil {
		return nil
	}

	b.mu.Lock()
	if b.inflight[id] == gen {
		delete(b.members, id)
		b.ids = removeID(b.ids, id)
		b.errMsg = apierr.Message(err)
		metrics.OptimisticRollbacks.WithLabelValues("bookmarks").Inc()
	}
	hook := b.onRemote
	b.mu.Unlock()

	if hook != nil {
		hook(err)
	}
	return err
}

// Remove deletes a bookmark: optimistic local removal, re-inserted on remote
// failure.
func (b *Bookmarks) Remove(ctx context.Context, id int) error {
	b.mu.Lock()
	if !b.members[id] {
		b.mu.Unlock()
		return nil
	}
	delete(b.members, id)
	b.ids = removeID(b.ids, id)
	b.inflight[id]++
	gen := b.inflight[id]
	b.errMsg = ""
	b.mu.Unlock()

	err := b.gw.RemoveBookmark(ctx, id)
	if err == nil {
		return nil
	}

	b.mu.Lock()
	if b.inflight[id] == gen {
		b.members[id] = true
		b.ids = append(b.ids, id)
		b.errMsg = apierr.Message(err)
		metrics.OptimisticRollbacks.WithLabelValues("bookmarks").Inc()
	}
	hook := b.onRemote
	b.mu.Unlock()

	if hook != nil {
		hook(err)
	}
	return err
}

// Refresh replaces the mirror wholesale from the remote source and enriches
// the requested page with display data. Lookups fan out concurrently; a
// failed lookup yields a placeholder entry, never a failed page.
func (b *Bookmarks) Refresh(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	b.mu.Lock()
	b.loading = true
	b.errMsg = ""
	pageSize := b.pageSize
	b.mu.Unlock()

	list, err := b.gw.ListBookmarks(ctx)
	if err != nil {
		b.mu.Lock()
		b.loading = false
		b.errMsg = apierr.Message(err)
		hook := b.onRemote
		b.mu.Unlock()
		if hook != nil {
			hook(err)
		}
		return err
	}

	ids := make([]int, len(list))
	members := make(map[int]bool, len(list))
	for i, bm := range list {
		ids[i] = bm.PokemonID
		members[bm.PokemonID] = true
	}

	// Client-side slice of the flat list for the requested page.
	start := (page - 1) * pageSize
	if start > len(ids) {
		start = len(ids)
	}
	end := start + pageSize
	if end > len(ids) {
		end = len(ids)
	}
	pageIDs := ids[start:end]

	entries := make([]models.EnrichedBookmark, len(pageIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichConcurrency)
	for i, id := range pageIDs {
		i, id := i, id
		g.Go(func() error {
			ref, lerr := b.ref.Lookup(gctx, id)
			if lerr != nil {
				entries[i] = models.EnrichedBookmark{ID: id, Name: placeholderName, Sprite: placeholderSprite}
				return nil
			}
			entries[i] = models.EnrichedBookmark{ID: id, Name: ref.Name, Sprite: ref.Sprite}
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // per-item failures degrade to placeholders

	b.mu.Lock()
	b.ids = ids
	b.members = members
	b.entries = entries
	b.page = page
	b.loading = false
	b.mu.Unlock()
	return nil
}

func removeID(ids []int, id int) []int {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
