package store

import (
	"context"
	"fmt"
)

const postSelectColumns = `id, author, author_avatar, content, published, liked_by_me, likes, cached_at`

func (s *Store) IsEmpty(ctx context.Context) (bool, error) {
	empty, err := isEmpty(ctx, s.db)
	if err != nil {
		return false, storageErr("is empty", err)
	}
	return empty, nil
}

func isEmpty(ctx context.Context, q execQuerier) (bool, error) {
	var exists int
	if err := q.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM posts)`).Scan(&exists); err != nil {
		return false, err
	}
	return exists == 0, nil
}

// insertPosts overwrites rows that share an id, so re-inserting a page is a no-op
// apart from refreshed payload.
func insertPosts(ctx context.Context, q execQuerier, posts []Post) error {
	for _, p := range posts {
		if p.ID <= 0 {
			return fmt.Errorf("%w: post id must be positive, got %d", ErrInvalidInput, p.ID)
		}
		if _, err := q.ExecContext(ctx, `
			INSERT INTO posts (id, author, author_avatar, content, published, liked_by_me, likes)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				author = excluded.author,
				author_avatar = excluded.author_avatar,
				content = excluded.content,
				published = excluded.published,
				liked_by_me = excluded.liked_by_me,
				likes = excluded.likes,
				cached_at = CURRENT_TIMESTAMP
		`,
			p.ID,
			p.Author,
			p.AuthorAvatar,
			p.Content,
			p.Published,
			p.LikedByMe,
			p.Likes,
		); err != nil {
			return fmt.Errorf("insert post %d: %w", p.ID, err)
		}
	}
	return nil
}

// ListPosts returns cached posts newest first. BeforeID > 0 restricts the page
// to ids strictly below it.
func (s *Store) ListPosts(ctx context.Context, opts PostListOptions) ([]Post, error) {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	if opts.BeforeID < 0 {
		return nil, fmt.Errorf("%w: before id must not be negative", ErrInvalidInput)
	}

	query := `SELECT ` + postSelectColumns + ` FROM posts`
	args := make([]any, 0, 2)
	if opts.BeforeID > 0 {
		query += ` WHERE id < ?`
		args = append(args, opts.BeforeID)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, opts.Limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list posts", err)
	}
	defer rows.Close()

	posts := make([]Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, storageErr("list posts", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list posts", err)
	}
	return posts, nil
}

func (s *Store) GetPost(ctx context.Context, id int64) (Post, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+postSelectColumns+` FROM posts WHERE id = ?`, id)
	p, err := scanPost(row)
	if err != nil {
		return Post{}, wrapNotFound("post", err)
	}
	return p, nil
}

func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	var minID, maxID *int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*), MIN(id), MAX(id) FROM posts`).Scan(&st.Posts, &minID, &maxID); err != nil {
		return Stats{}, storageErr("stats", err)
	}
	st.MinID = minID
	st.MaxID = maxID

	keys, err := s.ListKeys(ctx)
	if err != nil {
		return Stats{}, err
	}
	for _, k := range keys {
		id := k.ID
		switch k.Type {
		case KeyAfter:
			st.AfterKey = &id
		case KeyBefore:
			st.BeforeKey = &id
		}
	}
	return st, nil
}
