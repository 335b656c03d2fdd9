package store

import "github.com/odysseus0/feedsync/internal/model"

type Post = model.Post
type RemoteKey = model.RemoteKey
type KeyType = model.KeyType
type Stats = model.Stats
type PostListOptions = model.PostListOptions

const (
	KeyAfter  = model.KeyAfter
	KeyBefore = model.KeyBefore
)
