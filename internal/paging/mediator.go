package paging

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/odysseus0/feedsync/internal/model"
	"github.com/odysseus0/feedsync/internal/remote"
	"github.com/odysseus0/feedsync/internal/store"
)

// Source fetches pages of posts, newest first.
type Source interface {
	Latest(ctx context.Context, count int) ([]model.Post, error)
	After(ctx context.Context, id int64, count int) ([]model.Post, error)
	Before(ctx context.Context, id int64, count int) ([]model.Post, error)
}

// Cache is the local side: post rows plus the AFTER/BEFORE remote keys.
type Cache interface {
	IsEmpty(ctx context.Context) (bool, error)
	MaxKey(ctx context.Context) (int64, bool, error)
	MinKey(ctx context.Context) (int64, bool, error)
	WithTx(ctx context.Context, fn func(w store.Writer) error) error
}

var (
	_ Source = (*remote.Client)(nil)
	_ Cache  = (*store.Store)(nil)
)

// Mediator reconciles remote pages into the cache. It holds no state between
// calls; callers must not run two loads against the same cache at once.
type Mediator struct {
	source Source
	cache  Cache
	log    *logrus.Entry
}

func NewMediator(source Source, cache Cache, log *logrus.Entry) *Mediator {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Mediator{source: source, cache: cache, log: log}
}

// Load runs one reconciliation step. Errors never escape: they come back as
// a Failed outcome and leave the cache untouched.
func (m *Mediator) Load(ctx context.Context, loadType model.LoadType, cfg model.PagingConfig) Outcome {
	requestID := uuid.NewString()
	ctx = remote.WithRequestID(ctx, requestID)
	log := m.log.WithFields(logrus.Fields{
		"load_type":  loadType,
		"request_id": requestID,
	})

	var out Outcome
	switch loadType {
	case model.LoadRefresh:
		out = m.loadRefresh(ctx, log, cfg)
	case model.LoadAppend:
		out = m.loadAppend(ctx, log, cfg)
	case model.LoadPrepend:
		// Newer posts only ever arrive through refresh.
		out = end()
	default:
		out = failed(fmt.Errorf("%w: unknown load type %q", store.ErrInvalidInput, loadType))
	}

	if out.Kind == Failed {
		log.WithError(out.Err).Warn("load failed")
	} else {
		log.WithField("outcome", out.Kind).Debug("load finished")
	}
	return out
}

func (m *Mediator) loadRefresh(ctx context.Context, log *logrus.Entry, cfg model.PagingConfig) Outcome {
	if cfg.InitialLoadSize < 1 {
		return failed(fmt.Errorf("%w: initial load size must be >= 1", store.ErrInvalidInput))
	}

	wasEmpty, err := m.cache.IsEmpty(ctx)
	if err != nil {
		return failed(err)
	}

	var batch []model.Post
	if wasEmpty {
		log.WithField("count", cfg.InitialLoadSize).Debug("cache empty, fetching latest")
		batch, err = m.source.Latest(ctx, cfg.InitialLoadSize)
	} else {
		maxID, ok, keyErr := m.cache.MaxKey(ctx)
		if keyErr != nil {
			return failed(keyErr)
		}
		if !ok {
			// Posts without an AFTER key: nothing to anchor a newer fetch on.
			log.Debug("no after key, stopping refresh")
			return end()
		}
		log.WithFields(logrus.Fields{"after": maxID, "count": cfg.InitialLoadSize}).Debug("fetching newer posts")
		batch, err = m.source.After(ctx, maxID, cfg.InitialLoadSize)
	}
	if err != nil {
		return failed(err)
	}
	if len(batch) == 0 {
		return end()
	}

	keys := []model.RemoteKey{{Type: model.KeyAfter, ID: batch[0].ID}}
	if wasEmpty {
		keys = append(keys, model.RemoteKey{Type: model.KeyBefore, ID: batch[len(batch)-1].ID})
	}
	if err := m.commit(ctx, log, batch, keys); err != nil {
		return failed(err)
	}
	return more()
}

func (m *Mediator) loadAppend(ctx context.Context, log *logrus.Entry, cfg model.PagingConfig) Outcome {
	if cfg.PageSize < 1 {
		return failed(fmt.Errorf("%w: page size must be >= 1", store.ErrInvalidInput))
	}

	minID, ok, err := m.cache.MinKey(ctx)
	if err != nil {
		return failed(err)
	}
	if !ok {
		// Not the end of data: the lower boundary simply does not exist yet.
		log.Debug("no before key yet, skipping append")
		return more()
	}

	log.WithFields(logrus.Fields{"before": minID, "count": cfg.PageSize}).Debug("fetching older posts")
	batch, err := m.source.Before(ctx, minID, cfg.PageSize)
	if err != nil {
		return failed(err)
	}
	if len(batch) == 0 {
		return end()
	}

	keys := []model.RemoteKey{{Type: model.KeyBefore, ID: batch[len(batch)-1].ID}}
	if err := m.commit(ctx, log, batch, keys); err != nil {
		return failed(err)
	}
	return more()
}

// commit writes the batch and its key updates in one transaction.
func (m *Mediator) commit(ctx context.Context, log *logrus.Entry, batch []model.Post, keys []model.RemoteKey) error {
	err := m.cache.WithTx(ctx, func(w store.Writer) error {
		if err := w.InsertPosts(ctx, batch); err != nil {
			return err
		}
		return w.ReplaceKeys(ctx, keys...)
	})
	if err != nil {
		return err
	}
	fields := logrus.Fields{"batch": len(batch)}
	for _, k := range keys {
		switch k.Type {
		case model.KeyAfter:
			fields["after"] = k.ID
		case model.KeyBefore:
			fields["before"] = k.ID
		}
	}
	log.WithFields(fields).Debug("batch committed")
	return nil
}
