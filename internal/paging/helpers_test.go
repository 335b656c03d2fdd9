package paging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/odysseus0/feedsync/internal/model"
	"github.com/odysseus0/feedsync/internal/store"
)

var testPaging = model.PagingConfig{PageSize: 20, InitialLoadSize: 20}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := store.OpenDB(filepath.Join(t.TempDir(), "feedsync.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return store.NewStore(db)
}

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// postsDesc builds ids from..to inclusive, newest first.
func postsDesc(from, to int64) []model.Post {
	out := make([]model.Post, 0)
	for id := from; id >= to; id-- {
		out = append(out, model.Post{ID: id, Author: "author", Content: fmt.Sprintf("post %d", id), Published: 1700000000 + id})
	}
	return out
}

// scriptedSource answers each call with the configured function and records it.
type scriptedSource struct {
	calls  []string
	latest func(count int) ([]model.Post, error)
	after  func(id int64, count int) ([]model.Post, error)
	before func(id int64, count int) ([]model.Post, error)
}

func (s *scriptedSource) Latest(ctx context.Context, count int) ([]model.Post, error) {
	s.calls = append(s.calls, fmt.Sprintf("latest:%d", count))
	if s.latest == nil {
		return nil, errors.New("unexpected latest call")
	}
	return s.latest(count)
}

func (s *scriptedSource) After(ctx context.Context, id int64, count int) ([]model.Post, error) {
	s.calls = append(s.calls, fmt.Sprintf("after:%d:%d", id, count))
	if s.after == nil {
		return nil, errors.New("unexpected after call")
	}
	return s.after(id, count)
}

func (s *scriptedSource) Before(ctx context.Context, id int64, count int) ([]model.Post, error) {
	s.calls = append(s.calls, fmt.Sprintf("before:%d:%d", id, count))
	if s.before == nil {
		return nil, errors.New("unexpected before call")
	}
	return s.before(id, count)
}

func returns(posts []model.Post) func(int) ([]model.Post, error) {
	return func(int) ([]model.Post, error) { return posts, nil }
}

func returnsFor(posts []model.Post) func(int64, int) ([]model.Post, error) {
	return func(int64, int) ([]model.Post, error) { return posts, nil }
}

// feedSource serves a remote feed holding ids 1..newest.
type feedSource struct {
	newest int64
	calls  int
}

func (f *feedSource) Latest(ctx context.Context, count int) ([]model.Post, error) {
	f.calls++
	return f.window(f.newest, count), nil
}

func (f *feedSource) After(ctx context.Context, id int64, count int) ([]model.Post, error) {
	f.calls++
	if id >= f.newest {
		return []model.Post{}, nil
	}
	top := id + int64(count)
	if top > f.newest {
		top = f.newest
	}
	return postsDesc(top, id+1), nil
}

func (f *feedSource) Before(ctx context.Context, id int64, count int) ([]model.Post, error) {
	f.calls++
	return f.window(id-1, count), nil
}

func (f *feedSource) window(top int64, count int) []model.Post {
	if top < 1 {
		return []model.Post{}
	}
	bottom := top - int64(count) + 1
	if bottom < 1 {
		bottom = 1
	}
	return postsDesc(top, bottom)
}

// failingCache commits through the real store but lets a test break the
// transaction after the posts insert has already run.
type failingCache struct {
	*store.Store
	replaceErr error
}

func (c *failingCache) WithTx(ctx context.Context, fn func(w store.Writer) error) error {
	return c.Store.WithTx(ctx, func(w store.Writer) error {
		return fn(&failingWriter{Writer: w, replaceErr: c.replaceErr})
	})
}

type failingWriter struct {
	store.Writer
	replaceErr error
}

func (w *failingWriter) ReplaceKeys(ctx context.Context, keys ...model.RemoteKey) error {
	return w.replaceErr
}

type snapshot struct {
	ids  []int64
	keys []model.RemoteKey
}

func takeSnapshot(t *testing.T, s *store.Store) snapshot {
	t.Helper()
	ctx := context.Background()
	posts, err := s.ListPosts(ctx, model.PostListOptions{Limit: 10000})
	require.NoError(t, err)
	keys, err := s.ListKeys(ctx)
	require.NoError(t, err)
	snap := snapshot{keys: keys}
	for _, p := range posts {
		snap.ids = append(snap.ids, p.ID)
	}
	return snap
}

func seed(t *testing.T, s *store.Store, posts []model.Post, keys ...model.RemoteKey) {
	t.Helper()
	err := s.WithTx(context.Background(), func(w store.Writer) error {
		if err := w.InsertPosts(context.Background(), posts); err != nil {
			return err
		}
		return w.ReplaceKeys(context.Background(), keys...)
	})
	require.NoError(t, err)
}

func keyOf(t *testing.T, s *store.Store, kt model.KeyType) (int64, bool) {
	t.Helper()
	var (
		id  int64
		ok  bool
		err error
	)
	if kt == model.KeyAfter {
		id, ok, err = s.MaxKey(context.Background())
	} else {
		id, ok, err = s.MinKey(context.Background())
	}
	require.NoError(t, err)
	return id, ok
}
