package cli

import (
	"database/sql"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/odysseus0/feedsync/internal/config"
	"github.com/odysseus0/feedsync/internal/model"
	"github.com/odysseus0/feedsync/internal/paging"
	"github.com/odysseus0/feedsync/internal/remote"
	"github.com/odysseus0/feedsync/internal/render"
	"github.com/odysseus0/feedsync/internal/store"
)

type App struct {
	cfg      config.Config
	db       *sql.DB
	store    *store.Store
	client   *remote.Client
	mediator *paging.Mediator
	renderer *render.Renderer
	log      *logrus.Logger
}

func NewApp(cfg config.Config, logOut io.Writer) (*App, error) {
	log := newLogger(cfg.LogLevel, logOut)

	db, err := store.OpenDB(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	s := store.NewStore(db)
	client := remote.NewClient(cfg)
	entry := log.WithField("base_url", cfg.BaseURL)

	return &App{
		cfg:      cfg,
		db:       db,
		store:    s,
		client:   client,
		mediator: paging.NewMediator(client, s, entry),
		renderer: render.NewRenderer(),
		log:      log,
	}, nil
}

func (a *App) pagingConfig() model.PagingConfig {
	return model.PagingConfig{
		PageSize:        a.cfg.PageSize,
		InitialLoadSize: a.cfg.InitialLoadSize,
	}
}

func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func newLogger(level string, out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.WarnLevel
	}
	log.SetLevel(lvl)
	return log
}
