// Package server exposes named in-memory B+ tree indexes over HTTP.
package server

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"bptree"
)

// Server manages a set of indexes and the fiber application serving them.
type Server struct {
	app *fiber.App

	mu      sync.RWMutex
	indexes map[uuid.UUID]*index

	defaultOrder   int
	rangeCacheSize uint32
	maxIndexes     int
	log            bptree.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithDefaultOrder sets the order of indexes created without one.
func WithDefaultOrder(order int) Option {
	return func(s *Server) {
		s.defaultOrder = order
	}
}

// WithRangeCacheSize sets how many range results each index caches. Zero
// disables caching.
func WithRangeCacheSize(n uint32) Option {
	return func(s *Server) {
		s.rangeCacheSize = n
	}
}

// WithMaxIndexes limits the number of live indexes. Zero means unlimited.
func WithMaxIndexes(n int) Option {
	return func(s *Server) {
		s.maxIndexes = n
	}
}

// WithLogger sets the logger for the server and the trees it creates.
func WithLogger(l bptree.Logger) Option {
	return func(s *Server) {
		if l == nil {
			l = bptree.DiscardLogger{}
		}
		s.log = l
	}
}

// New creates a Server with its routes registered.
func New(opts ...Option) *Server {
	s := &Server{
		indexes:        make(map[uuid.UUID]*index),
		defaultOrder:   3,
		rangeCacheSize: 1024,
		log:            bptree.DiscardLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "bptree",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})
	s.routes(s.app)

	return s
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves HTTP on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	s.log.Info("listening", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// createIndex checks the index limit before building anything, holding the
// lock until the new index is registered.
func (s *Server) createIndex(order int) (*index, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxIndexes > 0 && len(s.indexes) >= s.maxIndexes {
		return nil, errTooManyIndexes
	}

	tree, err := bptree.New(order, bptree.WithLogger(s.log))
	if err != nil {
		return nil, err
	}

	idx, err := newIndex(uuid.New(), tree, s.rangeCacheSize)
	if err != nil {
		return nil, err
	}
	s.indexes[idx.id] = idx

	s.log.Info("index created", "id", idx.id, "order", order)
	return idx, nil
}

func (s *Server) index(id uuid.UUID) (*index, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.indexes[id]
	return idx, ok
}

func (s *Server) dropIndex(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.indexes[id]; !ok {
		return false
	}
	delete(s.indexes, id)

	s.log.Info("index dropped", "id", id)
	return true
}

// listIndexes returns all indexes, oldest first.
func (s *Server) listIndexes() []*index {
	s.mu.RLock()
	list := make([]*index, 0, len(s.indexes))
	for _, idx := range s.indexes {
		list = append(list, idx)
	}
	s.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		if !list[i].created.Equal(list[j].created) {
			return list[i].created.Before(list[j].created)
		}
		return list[i].id.String() < list[j].id.String()
	})
	return list
}

var now = time.Now
