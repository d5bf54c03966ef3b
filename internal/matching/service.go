// Package matching runs browse sessions: it snapshots candidates from the
// record store once per session and evaluates criteria against that snapshot.
package matching

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lumiere-aesthetics/matching-engine/internal/cache"
	"github.com/lumiere-aesthetics/matching-engine/internal/candidate"
	"github.com/lumiere-aesthetics/matching-engine/internal/criteria"
	"github.com/lumiere-aesthetics/matching-engine/internal/filter"
	"github.com/lumiere-aesthetics/matching-engine/internal/normalize"
	"github.com/lumiere-aesthetics/matching-engine/internal/observability"
	"github.com/lumiere-aesthetics/matching-engine/internal/recommend"
	"github.com/lumiere-aesthetics/matching-engine/internal/scoring"
	"github.com/lumiere-aesthetics/matching-engine/internal/taxonomy"
	"golang.org/x/text/language"
)

var (
	// ErrSessionNotFound is returned for unknown or expired session ids.
	ErrSessionNotFound = errors.New("session not found")
	// ErrItemNotFound is returned when a candidate id is not in the session.
	ErrItemNotFound = errors.New("candidate not found in session")
)

// RecordStore supplies raw candidate records.
type RecordStore interface {
	ListByKind(ctx context.Context, kind candidate.Kind) ([]candidate.RawRecord, error)
}

// Config controls session and engine behavior.
type Config struct {
	HideSurgical bool
	Locale       string
	SessionTTL   time.Duration
	ResultTTL    time.Duration
	// DeriveRegion fills an empty region from the interest or issue.
	DeriveRegion bool
}

// Service owns the engine components and the open sessions.
type Service struct {
	store       RecordStore
	assets      candidate.PhotoAssetResolver
	registry    *taxonomy.Registry
	normalizer  *normalize.Normalizer
	resolver    *criteria.Resolver
	pipeline    *filter.Pipeline
	scorer      *scoring.Scorer
	recommender *recommend.Recommender
	results     *ResultCache
	logger      *observability.Logger
	cfg         Config
	now         func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewService wires the engine around the given store and cache. A nil cache
// disables result memoization.
func NewService(store RecordStore, client cache.Client, logger *observability.Logger, cfg Config) *Service {
	if logger == nil {
		logger = observability.NopLogger()
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 30 * time.Minute
	}

	tag, err := language.Parse(cfg.Locale)
	if err != nil {
		tag = language.English
	}

	reg := taxonomy.Default()
	norm := normalize.New(reg, tag)
	resolver := criteria.NewResolver(reg)

	return &Service{
		store:       store,
		assets:      candidate.AttachmentResolver{},
		registry:    reg,
		normalizer:  norm,
		resolver:    resolver,
		pipeline:    filter.New(resolver, norm, filter.Config{HideSurgical: cfg.HideSurgical}),
		scorer:      scoring.New(tag),
		recommender: recommend.New(reg, norm),
		results:     NewResultCache(client, logger, cfg.ResultTTL),
		logger:      logger.WithComponent("matching"),
		cfg:         cfg,
		now:         time.Now,
		sessions:    make(map[string]*Session),
	}
}

// Registry returns the taxonomy the service evaluates against.
func (s *Service) Registry() *taxonomy.Registry { return s.registry }

// Normalizer returns the treatment normalizer.
func (s *Service) Normalizer() *normalize.Normalizer { return s.normalizer }

// Resolver returns the criteria resolver.
func (s *Service) Resolver() *criteria.Resolver { return s.resolver }

// Recommender returns the recommender.
func (s *Service) Recommender() *recommend.Recommender { return s.recommender }

// Session is an immutable candidate snapshot taken when the session opened.
type Session struct {
	ID        string           `json:"id"`
	Kind      candidate.Kind   `json:"kind"`
	Items     []candidate.Item `json:"-"`
	Skipped   int              `json:"skipped"`
	OpenedAt  time.Time        `json:"openedAt"`
	ExpiresAt time.Time        `json:"expiresAt"`

	svc *Service
}

// Size returns the number of candidates in the snapshot.
func (s *Session) Size() int { return len(s.Items) }

// OpenSession loads every record of the given kind and maps it onto
// candidates. Malformed records are skipped and counted.
func (s *Service) OpenSession(ctx context.Context, kind candidate.Kind) (*Session, error) {
	log := s.logger.WithContext(ctx).WithOperation("open_session")
	start := s.now()

	recs, err := s.store.ListByKind(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("load %s records: %w", kind, err)
	}

	items, skipped := candidate.FromRecords(recs, s.assets)
	for i := range items {
		items[i].Kind = kind
	}

	now := s.now()
	sess := &Session{
		ID:        uuid.NewString(),
		Kind:      kind,
		Items:     items,
		Skipped:   skipped,
		OpenedAt:  now,
		ExpiresAt: now.Add(s.cfg.SessionTTL),
		svc:       s,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	evt := log.Info()
	if skipped > 0 {
		evt = log.Warn()
	}
	evt.Str("session_id", sess.ID).
		Str("kind", string(kind)).
		Int("candidates", len(items)).
		Int("skipped", skipped).
		Dur("duration", now.Sub(start)).
		Msg("Session opened")

	return sess, nil
}

// Session returns an open session. Expired sessions are dropped on lookup.
func (s *Service) Session(ctx context.Context, id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.now().After(sess.ExpiresAt) {
		_ = s.CloseSession(ctx, id)
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// CloseSession forgets a session and its memoized results.
func (s *Service) CloseSession(ctx context.Context, id string) error {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	if err := s.results.Invalidate(ctx, id); err != nil {
		s.logger.WithContext(ctx).Warn().Err(err).Str("session_id", id).Msg("Failed to drop cached results")
	}
	s.logger.WithContext(ctx).Debug().Str("session_id", id).Msg("Session closed")
	return nil
}

// SweepExpired closes every expired session and returns how many were closed.
func (s *Service) SweepExpired(ctx context.Context) int {
	now := s.now()
	var expired []string
	s.mu.RLock()
	for id, sess := range s.sessions {
		if now.After(sess.ExpiresAt) {
			expired = append(expired, id)
		}
	}
	s.mu.RUnlock()

	for _, id := range expired {
		_ = s.CloseSession(ctx, id)
	}
	return len(expired)
}

// Browse evaluates criteria against an open session.
func (s *Service) Browse(ctx context.Context, sessionID string, c criteria.Criteria) (*BrowseResult, error) {
	sess, err := s.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Browse(ctx, c)
}

// BrowseResult is everything a browse screen renders for one criteria tuple.
type BrowseResult struct {
	SessionID string            `json:"sessionId"`
	Criteria  criteria.Criteria `json:"criteria"`
	Visible   []candidate.Item  `json:"visible"`
	Options   filter.Options    `json:"options"`
	Ranking   scoring.Ranking   `json:"ranking"`
	Cached    bool              `json:"cached"`
}

// Browse filters, scores and ranks the snapshot. Results are memoized per
// criteria tuple for the life of the session.
func (sess *Session) Browse(ctx context.Context, c criteria.Criteria) (*BrowseResult, error) {
	s := sess.svc
	c = c.Canonical(s.registry)
	if s.cfg.DeriveRegion {
		c = c.WithDerivedRegion(s.resolver)
	}

	if res, ok := s.results.Get(ctx, sess.ID, c); ok {
		res.Cached = true
		return res, nil
	}

	visible := s.pipeline.Filter(sess.Items, c)
	res := &BrowseResult{
		SessionID: sess.ID,
		Criteria:  c,
		Visible:   nonNil(visible),
		Options:   s.pipeline.Options(sess.Items, c),
		Ranking:   s.scorer.Rank(visible, c),
	}

	s.results.Set(ctx, sess.ID, c, res)

	s.logger.WithContext(ctx).WithSession(sess.ID).Debug().
		Str("criteria", c.Key()).
		Int("visible", len(res.Visible)).
		Int("exact", len(res.Ranking.Exact)).
		Int("close", len(res.Ranking.Close)).
		Msg("Browse evaluated")

	return res, nil
}

// Item returns the candidate with the given id.
func (sess *Session) Item(id string) (candidate.Item, error) {
	for _, it := range sess.Items {
		if it.ID == id {
			return it, nil
		}
	}
	return candidate.Item{}, ErrItemNotFound
}

// Prefill builds a plan prefill from one of the session's candidates.
func (sess *Session) Prefill(itemID string, c criteria.Criteria, explicitRegion string) (recommend.Prefill, error) {
	it, err := sess.Item(itemID)
	if err != nil {
		return recommend.Prefill{}, err
	}
	return sess.svc.recommender.PrefillFromCandidate(it, c.Normalized(), explicitRegion), nil
}

func nonNil(items []candidate.Item) []candidate.Item {
	if items == nil {
		return []candidate.Item{}
	}
	return items
}
