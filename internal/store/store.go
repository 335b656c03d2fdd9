package store

import (
	"context"
	"database/sql"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Writer is the mutation surface available inside WithTx. Everything done
// through it commits or rolls back together.
type Writer interface {
	InsertPosts(ctx context.Context, posts []Post) error
	ReplaceKeys(ctx context.Context, keys ...RemoteKey) error
}

// WithTx runs fn in a single transaction. Any error from fn, a cancelled
// context, or a failed commit rolls the whole unit back.
func (s *Store) WithTx(ctx context.Context, fn func(w Writer) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("begin", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(&txWriter{tx: tx}); err != nil {
		return storageErr("apply", err)
	}
	if err = tx.Commit(); err != nil {
		return storageErr("commit", err)
	}
	return nil
}

type execQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txWriter struct {
	tx *sql.Tx
}

func (w *txWriter) InsertPosts(ctx context.Context, posts []Post) error {
	return insertPosts(ctx, w.tx, posts)
}

func (w *txWriter) ReplaceKeys(ctx context.Context, keys ...RemoteKey) error {
	return replaceKeys(ctx, w.tx, keys)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(scanner rowScanner) (Post, error) {
	var p Post
	var avatar sql.NullString
	var cachedAt string
	if err := scanner.Scan(
		&p.ID,
		&p.Author,
		&avatar,
		&p.Content,
		&p.Published,
		&p.LikedByMe,
		&p.Likes,
		&cachedAt,
	); err != nil {
		return Post{}, err
	}
	p.AuthorAvatar = avatar.String
	if t, err := parseDBTime(cachedAt); err == nil {
		p.CachedAt = t
	}
	return p, nil
}
