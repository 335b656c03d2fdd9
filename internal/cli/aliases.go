package cli

import "github.com/odysseus0/feedsync/internal/model"

type OutputFormat = model.OutputFormat
type Post = model.Post
type RemoteKey = model.RemoteKey
type Stats = model.Stats
type PostListOptions = model.PostListOptions

const (
	OutputTable = model.OutputTable
	OutputJSON  = model.OutputJSON
	OutputWide  = model.OutputWide
	OutputYAML  = model.OutputYAML
)
