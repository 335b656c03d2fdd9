package paging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odysseus0/feedsync/internal/model"
)

func TestSyncWalksWholeFeedThenRefreshesIncrementally(t *testing.T) {
	s := newTestStore(t)
	src := &feedSource{newest: 45}
	m := NewMediator(src, s, quietLogger())
	cfg := model.PagingConfig{PageSize: 10, InitialLoadSize: 20}

	var seen []model.LoadType
	rep := m.Sync(context.Background(), cfg, 0, func(step Step) {
		seen = append(seen, step.LoadType)
	})

	require.NoError(t, rep.Err)
	assert.True(t, rep.EndReached)
	assert.False(t, rep.Stalled)
	// 45..26 on refresh, then 25..16, 15..6, 5..1, then an empty page
	assert.Equal(t, 3, rep.Pages)
	assert.Equal(t, []model.LoadType{
		model.LoadRefresh,
		model.LoadAppend, model.LoadAppend, model.LoadAppend, model.LoadAppend,
	}, seen)
	assert.Len(t, takeSnapshot(t, s).ids, 45)

	minID, _ := keyOf(t, s, model.KeyBefore)
	assert.EqualValues(t, 1, minID)

	// new posts show up remotely; the next sync only pulls those on refresh
	src.newest = 52
	rep = m.Sync(context.Background(), cfg, 0, nil)
	require.NoError(t, rep.Err)
	assert.True(t, rep.EndReached)
	assert.Len(t, takeSnapshot(t, s).ids, 52)
	maxID, _ := keyOf(t, s, model.KeyAfter)
	assert.EqualValues(t, 52, maxID)
	minID, _ = keyOf(t, s, model.KeyBefore)
	assert.EqualValues(t, 1, minID)
}

func TestSyncStopsAtMaxPages(t *testing.T) {
	s := newTestStore(t)
	m := NewMediator(&feedSource{newest: 100}, s, quietLogger())

	rep := m.Sync(context.Background(), model.PagingConfig{PageSize: 10, InitialLoadSize: 10}, 2, nil)

	require.NoError(t, rep.Err)
	assert.False(t, rep.EndReached)
	assert.Equal(t, 2, rep.Pages)
	assert.Len(t, takeSnapshot(t, s).ids, 30)
}

func TestSyncFallsBackToRefreshInsteadOfSpinning(t *testing.T) {
	s := newTestStore(t)
	// cached posts but no keys at all: refresh stops, append has no boundary
	seed(t, s, postsDesc(5, 1))
	src := &scriptedSource{}
	m := NewMediator(src, s, quietLogger())

	rep := m.Sync(context.Background(), testPaging, 0, nil)

	require.NoError(t, rep.Err)
	assert.True(t, rep.Stalled)
	assert.Empty(t, src.calls)
	// refresh, no-op append, fallback refresh, one more no-op append, stop
	require.Len(t, rep.Steps, 4)
	assert.Equal(t, model.LoadRefresh, rep.Steps[0].LoadType)
	assert.Equal(t, model.LoadAppend, rep.Steps[1].LoadType)
	assert.Equal(t, MoreAvailable, rep.Steps[1].Outcome.Kind)
	assert.Equal(t, model.LoadRefresh, rep.Steps[2].LoadType)
	assert.Equal(t, model.LoadAppend, rep.Steps[3].LoadType)
}

func TestSyncReportsFailure(t *testing.T) {
	s := newTestStore(t)
	src := &scriptedSource{latest: returns(postsDesc(30, 11))}
	m := NewMediator(src, s, quietLogger())

	rep := m.Sync(context.Background(), testPaging, 0, nil)

	require.Error(t, rep.Err)
	assert.Contains(t, rep.Err.Error(), "unexpected before call")
	assert.Len(t, takeSnapshot(t, s).ids, 20)
}

func TestSyncOnEmptyRemoteFeedEndsAfterRefresh(t *testing.T) {
	s := newTestStore(t)
	src := &feedSource{newest: 0}
	m := NewMediator(src, s, quietLogger())

	rep := m.Sync(context.Background(), testPaging, 0, nil)

	require.NoError(t, rep.Err)
	assert.True(t, rep.EndReached)
	assert.False(t, rep.Stalled)
	require.Len(t, rep.Steps, 1)
	assert.Equal(t, model.LoadRefresh, rep.Steps[0].LoadType)
	assert.Equal(t, EndReached, rep.Steps[0].Outcome.Kind)
	assert.Equal(t, 1, src.calls)
	assert.Empty(t, takeSnapshot(t, s).ids)
}
