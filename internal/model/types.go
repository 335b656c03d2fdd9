package model

import "time"

type OutputFormat string

const (
	OutputTable OutputFormat = "table"
	OutputJSON  OutputFormat = "json"
	OutputWide  OutputFormat = "wide"
	OutputYAML  OutputFormat = "yaml"
)

// Post is one feed item. Only ID takes part in pagination; the remaining
// fields are payload carried through to the cache.
type Post struct {
	ID           int64     `json:"id" yaml:"id"`
	Author       string    `json:"author" yaml:"author"`
	AuthorAvatar string    `json:"authorAvatar,omitempty" yaml:"author_avatar,omitempty"`
	Content      string    `json:"content" yaml:"content"`
	Published    int64     `json:"published" yaml:"published"`
	LikedByMe    bool      `json:"likedByMe" yaml:"liked_by_me"`
	Likes        int       `json:"likes" yaml:"likes"`
	CachedAt     time.Time `json:"-" yaml:"cached_at,omitempty"`
}

func (p Post) PublishedAt() time.Time {
	return time.Unix(p.Published, 0).UTC()
}

// KeyType names one edge of the fetched range.
type KeyType string

const (
	// KeyAfter holds the newest fetched id.
	KeyAfter KeyType = "AFTER"
	// KeyBefore holds the oldest fetched id.
	KeyBefore KeyType = "BEFORE"
)

type RemoteKey struct {
	Type KeyType `json:"type" yaml:"type"`
	ID   int64   `json:"id" yaml:"id"`
}

type LoadType string

const (
	LoadRefresh LoadType = "refresh"
	LoadAppend  LoadType = "append"
	LoadPrepend LoadType = "prepend"
)

type PagingConfig struct {
	PageSize        int
	InitialLoadSize int
}

type PostListOptions struct {
	Limit    int
	BeforeID int64
}

type Stats struct {
	Posts     int    `json:"posts" yaml:"posts"`
	MinID     *int64 `json:"min_id,omitempty" yaml:"min_id,omitempty"`
	MaxID     *int64 `json:"max_id,omitempty" yaml:"max_id,omitempty"`
	AfterKey  *int64 `json:"after_key,omitempty" yaml:"after_key,omitempty"`
	BeforeKey *int64 `json:"before_key,omitempty" yaml:"before_key,omitempty"`
}
