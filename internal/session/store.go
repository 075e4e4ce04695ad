// Package session keeps one calculator state per keypad session. Events for a
// session are applied one at a time; independent sessions never block each
// other. Idle sessions expire.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"keypad-calculator/internal/calculator"
	"keypad-calculator/internal/observability"
)

// ErrNotFound is returned for unknown or expired session IDs.
var ErrNotFound = errors.New("session not found")

var tracer = otel.Tracer("session")

var activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "keypad",
	Name:      "sessions_active",
	Help:      "Number of live calculator sessions.",
})

// entry guards a single session's snapshot.
type entry struct {
	mu    sync.Mutex
	state calculator.State
}

// Store is an in-memory, expiring set of calculator sessions.
// It is safe for concurrent use.
type Store struct {
	items *cache.Cache
	ttl   time.Duration
}

// New returns a Store whose sessions expire after ttl without activity.
// Expired sessions are purged every cleanup interval.
func New(ttl, cleanup time.Duration) *Store {
	c := cache.New(ttl, cleanup)
	c.OnEvicted(func(string, interface{}) {
		activeSessions.Dec()
	})
	return &Store{items: c, ttl: ttl}
}

// Create starts a session at the initial calculator state.
func (s *Store) Create(ctx context.Context) (string, calculator.State) {
	id := uuid.New().String()
	st := calculator.NewState()

	s.items.Set(id, &entry{state: st}, s.ttl)
	activeSessions.Inc()

	observability.LoggerWithTrace(ctx).Debug("session created", zap.String("session_id", id))
	return id, st
}

// Get returns the current snapshot of session id.
func (s *Store) Get(_ context.Context, id string) (calculator.State, error) {
	e, err := s.lookup(id)
	if err != nil {
		return calculator.State{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state, nil
}

// Dispatch applies events to session id in order and returns the resulting
// snapshot. Activity extends the session's lifetime.
func (s *Store) Dispatch(ctx context.Context, id string, events ...calculator.Event) (calculator.State, error) {
	_, span := tracer.Start(ctx, "session.dispatch", trace.WithAttributes(
		attribute.String("session.id", id),
		attribute.Int("session.events", len(events)),
	))
	defer span.End()

	e, err := s.lookup(id)
	if err != nil {
		span.RecordError(err)
		return calculator.State{}, err
	}

	e.mu.Lock()
	for _, ev := range events {
		e.state = calculator.Reduce(e.state, ev)
	}
	st := e.state
	e.mu.Unlock()

	if err := s.items.Replace(id, e, s.ttl); err != nil {
		span.RecordError(err)
		return calculator.State{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return st, nil
}

// Delete ends session id. Deleting an unknown session is not an error.
func (s *Store) Delete(ctx context.Context, id string) {
	s.items.Delete(id)
	observability.LoggerWithTrace(ctx).Debug("session deleted", zap.String("session_id", id))
}

// Len returns the number of sessions, including expired ones not yet purged.
func (s *Store) Len() int {
	return s.items.ItemCount()
}

func (s *Store) lookup(id string) (*entry, error) {
	v, ok := s.items.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return v.(*entry), nil
}
