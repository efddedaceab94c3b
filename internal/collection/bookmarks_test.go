package collection_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/watisdis/pokedex-cli/internal/collection"
	"github.com/watisdis/pokedex-cli/internal/models"
	"github.com/watisdis/pokedex-cli/pkg/apierr"
)

func TestBookmarks_AddOptimistic(t *testing.T) {
	gw := new(MockBookmarkGateway)
	ref := new(MockReferenceSource)
	b := collection.NewBookmarks(gw, ref, 10)
	ctx := context.Background()

	gw.On("AddBookmark", ctx, 25).Return(nil).Once()

	err := b.Add(ctx, 25)
	require.NoError(t, err)
	assert.True(t, b.Contains(25))
	assert.Empty(t, b.Err())

	// Re-adding an existing member is a no-op.
	require.NoError(t, b.Add(ctx, 25))
	gw.AssertNumberOfCalls(t, "AddBookmark", 1)
}

func TestBookmarks_AddRollsBackOnFailure(t *testing.T) {
	gw := new(MockBookmarkGateway)
	ref := new(MockReferenceSource)
	b := collection.NewBookmarks(gw, ref, 10)
	ctx := context.Background()

	gw.On("AddBookmark", ctx, 25).Return(apierr.ErrRemote).Once()

	err := b.Add(ctx, 25)
	require.Error(t, err)
	assert.False(t, b.Contains(25))
	assert.NotEmpty(t, b.Err())
}

func TestBookmarks_RemoveRollsBackOnFailure(t *testing.T) {
	gw := new(MockBookmarkGateway)
	ref := new(MockReferenceSource)
	b := collection.NewBookmarks(gw, ref, 10)
	ctx := context.Background()

	gw.On("AddBookmark", ctx, 25).Return(nil).Once()
	gw.On("RemoveBookmark", ctx, 25).Return(apierr.ErrNetwork).Once()

	require.NoError(t, b.Add(ctx, 25))
	err := b.Remove(ctx, 25)
	require.Error(t, err)

	// The removal rolled back; the bookmark is visible again.
	assert.True(t, b.Contains(25))
	assert.Equal(t, []int{25}, b.IDs())
}

func TestBookmarks_RemoveMissingIsNoOp(t *testing.T) {
	gw := new(MockBookmarkGateway)
	b := collection.NewBookmarks(gw, new(MockReferenceSource), 10)

	require.NoError(t, b.Remove(context.Background(), 99))
	gw.AssertNotCalled(t, "RemoveBookmark")
}

func TestBookmarks_RemoteErrorHook(t *testing.T) {
	gw := new(MockBookmarkGateway)
	b := collection.NewBookmarks(gw, new(MockReferenceSource), 10)
	ctx := context.Background()

	var got error
	b.OnRemoteError(func(err error) { got = err })

	gw.On("AddBookmark", ctx, 25).Return(apierr.ErrUnauthorized).Once()
	_ = b.Add(ctx, 25)

	assert.ErrorIs(t, got, apierr.ErrUnauthorized)
}

func TestBookmarks_RefreshEnrichesPage(t *testing.T) {
	gw := new(MockBookmarkGateway)
	ref := new(MockReferenceSource)
	b := collection.NewBookmarks(gw, ref, 2)
	ctx := context.Background()

	gw.On("ListBookmarks", ctx).Return([]models.Bookmark{
		{PokemonID: 1}, {PokemonID: 25}, {PokemonID: 150},
	}, nil).Once()
	ref.On("Lookup", mock.Anything, 1).
		Return(models.Reference{ID: 1, Name: "bulbasaur", Sprite: "https://img/1.png"}, nil).Once()
	ref.On("Lookup", mock.Anything, 25).
		Return(models.Reference{ID: 25, Name: "pikachu", Sprite: "https://img/25.png"}, nil).Once()

	err := b.Refresh(ctx, 1)
	require.NoError(t, err)

	// Page 1 of 2-wide pages holds the first two ids, order preserved.
	entries := b.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "bulbasaur", entries[0].Name)
	assert.Equal(t, "pikachu", entries[1].Name)

	assert.Equal(t, []int{1, 25, 150}, b.IDs())
	assert.True(t, b.Contains(150))
	assert.True(t, b.CanNext())
	assert.False(t, b.CanPrev())

	ref.AssertNotCalled(t, "Lookup", mock.Anything, 150)
}

func TestBookmarks_RefreshSecondPage(t *testing.T) {
	gw := new(MockBookmarkGateway)
	ref := new(MockReferenceSource)
	b := collection.NewBookmarks(gw, ref, 2)
	ctx := context.Background()

	gw.On("ListBookmarks", ctx).Return([]models.Bookmark{
		{PokemonID: 1}, {PokemonID: 25}, {PokemonID: 150},
	}, nil).Once()
	ref.On("Lookup", mock.Anything, 150).
		Return(models.Reference{ID: 150, Name: "mewtwo", Sprite: "https://img/150.png"}, nil).Once()

	require.NoError(t, b.Refresh(ctx, 2))

	entries := b.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "mewtwo", entries[0].Name)
	assert.Equal(t, 2, b.Page())
	assert.False(t, b.CanNext())
	assert.True(t, b.CanPrev())
}

func TestBookmarks_FailedLookupYieldsPlaceholder(t *testing.T) {
	gw := new(MockBookmarkGateway)
	ref := new(MockReferenceSource)
	b := collection.NewBookmarks(gw, ref, 10)
	ctx := context.Background()

	gw.On("ListBookmarks", ctx).Return([]models.Bookmark{
		{PokemonID: 1}, {PokemonID: 9999},
	}, nil).Once()
	ref.On("Lookup", mock.Anything, 1).
		Return(models.Reference{ID: 1, Name: "bulbasaur", Sprite: "https://img/1.png"}, nil).Once()
	ref.On("Lookup", mock.Anything, 9999).
		Return(models.Reference{}, apierr.ErrNotFound).Once()

	err := b.Refresh(ctx, 1)
	require.NoError(t, err)

	entries := b.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "bulbasaur", entries[0].Name)
	assert.Equal(t, models.EnrichedBookmark{
		ID:     9999,
		Name:   "unknown",
		Sprite: "/placeholder.png",
	}, entries[1])
	assert.Empty(t, b.Err())
}

func TestBookmarks_RefreshFailureSurfacesError(t *testing.T) {
	gw := new(MockBookmarkGateway)
	b := collection.NewBookmarks(gw, new(MockReferenceSource), 10)
	ctx := context.Background()

	gw.On("ListBookmarks", ctx).Return(nil, apierr.ErrNetwork).Once()

	err := b.Refresh(ctx, 1)
	require.Error(t, err)
	assert.NotEmpty(t, b.Err())
	assert.False(t, b.Loading())
}

// A remove issued while an earlier add is still unconfirmed supersedes the
// add's rollback: the late failure must not resurrect the bookmark.
func TestBookmarks_LaterOpSupersedesRollback(t *testing.T) {
	gw := new(MockBookmarkGateway)
	b := collection.NewBookmarks(gw, new(MockReferenceSource), 10)
	ctx := context.Background()

	release := make(chan struct{})
	gw.On("AddBookmark", ctx, 25).
		Run(func(mock.Arguments) { <-release }).
		Return(apierr.ErrRemote).Once()
	gw.On("RemoveBookmark", ctx, 25).Return(nil).Once()

	done := make(chan error, 1)
	go func() { done <- b.Add(ctx, 25) }()

	// The optimistic insert is visible while the add is in flight.
	require.Eventually(t, func() bool { return b.Contains(25) },
		time.Second, time.Millisecond)

	// The user removes the bookmark before the add resolves.
	require.NoError(t, b.Remove(ctx, 25))
	assert.False(t, b.Contains(25))

	close(release)
	require.Error(t, <-done)

	// The add's rollback was superseded; the bookmark stays gone.
	assert.False(t, b.Contains(25))
	assert.Empty(t, b.IDs())
}
