package store

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "feedsync.db")
	db, err := OpenDB(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return NewStore(db)
}

func postsRange(from, to int64) []Post {
	posts := make([]Post, 0)
	for id := from; id >= to; id-- {
		posts = append(posts, Post{ID: id, Author: "author", Content: "post", Published: 1700000000 + id})
	}
	return posts
}

func mustInsert(t *testing.T, s *Store, posts []Post, keys ...RemoteKey) {
	t.Helper()
	err := s.WithTx(context.Background(), func(w Writer) error {
		if err := w.InsertPosts(context.Background(), posts); err != nil {
			return err
		}
		return w.ReplaceKeys(context.Background(), keys...)
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
}
