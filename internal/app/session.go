package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/nhle/todo-way/internal/model"
	"github.com/nhle/todo-way/internal/prefs"
	"github.com/nhle/todo-way/internal/source"
	"github.com/nhle/todo-way/internal/store"
)

// Session owns the stores for one process. It is created once and passed
// by reference to every front-end.
type Session struct {
	Config   *model.AppConfig
	Todos    *store.TodoStore
	Sections *store.SectionStore
	Prefs    *prefs.Store

	log    *zap.Logger
	closer io.Closer
}

// New builds a session over provider p. Store options such as a clock may
// be passed through opts.
func New(cfg *model.AppConfig, p source.Provider, log *zap.Logger, opts ...store.Option) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	opts = append([]store.Option{store.WithLogger(log)}, opts...)

	s := &Session{
		Config:   cfg,
		Todos:    store.NewTodoStore(p, opts...),
		Sections: store.NewSectionStore(p, opts...),
		Prefs:    prefs.Open(cfg.Prefs.Path, log),
		log:      log,
	}
	if c, ok := p.(io.Closer); ok {
		s.closer = c
	}
	return s
}

// Open builds a session over the data source named in cfg.
func Open(cfg *model.AppConfig, log *zap.Logger) (*Session, error) {
	p, err := NewProvider(cfg.Data)
	if err != nil {
		return nil, err
	}
	return New(cfg, p, log), nil
}

// NewProvider opens the provider selected by cfg.
func NewProvider(cfg model.DataConfig) (source.Provider, error) {
	switch cfg.Source {
	case model.DataSourceFixtures, "":
		return source.NewFixtures(), nil
	case model.DataSourceSQLite:
		db, err := source.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("opening snapshot %s: %w", cfg.SQLitePath, err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.Source)
	}
}

// Load fills every store from the provider. Stores keep their previous
// contents on failure; the recorded errors are returned joined so callers
// can report them.
func (s *Session) Load(ctx context.Context) error {
	s.Todos.Load(ctx)
	s.Sections.LoadSections(ctx)
	s.Sections.LoadLabels(ctx)

	err := errors.Join(s.Todos.Err(), s.Sections.Err())
	if err != nil {
		s.log.Warn("session loaded with errors", zap.Error(err))
		return err
	}
	s.log.Debug("session loaded",
		zap.Int("todos", s.Todos.Len()),
		zap.Int("sections", len(s.Sections.Sections())),
		zap.Int("labels", len(s.Sections.Labels())),
	)
	return nil
}

// Close releases the data source, if it holds resources.
func (s *Session) Close() error {
	if s.closer == nil {
		return nil
	}
	if err := s.closer.Close(); err != nil {
		return fmt.Errorf("closing data source: %w", err)
	}
	return nil
}
