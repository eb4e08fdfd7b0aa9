package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/reposurfer/internal/vectorstore"
)

// Metadata keys used for turn documents.
const (
	metaScope     = "scope"
	metaSeq       = "seq"
	metaTimestamp = "timestamp"
	metaQuery     = "query"
	metaAnswer    = "answer"
)

// Config holds memory manager configuration.
type Config struct {
	// Collection is the store collection holding all turns.
	// Default: "reposurfer_memory".
	Collection string

	// EmbedPolicy selects the text a turn is embedded over.
	// Default: EmbedQueryAndAnswer.
	EmbedPolicy EmbedPolicy

	// DefaultTopK is the search result count when the caller passes
	// topK <= 0. Default: 5.
	DefaultTopK int
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Collection == "" {
		c.Collection = "reposurfer_memory"
	}
	if c.EmbedPolicy == "" {
		c.EmbedPolicy = EmbedQueryAndAnswer
	}
	if c.DefaultTopK == 0 {
		c.DefaultTopK = 5
	}
}

// Service manages conversation memory on top of the embedding store.
type Service struct {
	store  vectorstore.Store
	config Config
	logger *zap.Logger

	// seq orders turns. Seeded from wall-clock time so ordering holds
	// across processes sharing one persisted store.
	seq atomic.Int64
}

// NewService creates a new memory manager.
func NewService(store vectorstore.Store, logger *zap.Logger, cfg Config) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.ApplyDefaults()
	s := &Service{
		store:  store,
		config: cfg,
		logger: logger,
	}
	s.seq.Store(time.Now().UnixNano())
	return s
}

// Record appends a conversation turn. Turns are never mutated afterward.
func (s *Service) Record(ctx context.Context, scope, query, answer string) (*Turn, error) {
	if query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}

	turn := &Turn{
		ID:        uuid.NewString(),
		Scope:     scope,
		Seq:       s.seq.Add(1),
		Query:     query,
		Answer:    answer,
		Timestamp: time.Now().UTC(),
	}

	doc := vectorstore.Document{
		ID:      turn.ID,
		Content: s.embedText(turn),
		Metadata: map[string]string{
			metaScope:     turn.Scope,
			metaSeq:       fmt.Sprintf("%020d", turn.Seq),
			metaTimestamp: turn.Timestamp.Format(time.RFC3339Nano),
			metaQuery:     turn.Query,
			metaAnswer:    turn.Answer,
		},
	}

	if _, err := s.store.Upsert(ctx, s.config.Collection, []vectorstore.Document{doc}); err != nil {
		return nil, fmt.Errorf("recording turn: %w", err)
	}

	s.logger.Debug("recorded turn",
		zap.String("scope", scope),
		zap.Int64("seq", turn.Seq),
	)

	return turn, nil
}

// embedText renders the text a turn's embedding is computed over.
func (s *Service) embedText(turn *Turn) string {
	if s.config.EmbedPolicy == EmbedQueryOnly || turn.Answer == "" {
		return turn.Query
	}
	return turn.Query + "\n" + turn.Answer
}

// Search returns the turns most similar to queryText, ranked best
// first. A non-empty scope restricts results to that scope. A store
// that has never recorded a turn yields an empty result.
func (s *Service) Search(ctx context.Context, scope, queryText string, topK int) ([]Turn, error) {
	if queryText == "" {
		return []Turn{}, nil
	}
	if topK <= 0 {
		topK = s.config.DefaultTopK
	}

	var filters map[string]string
	if scope != "" {
		filters = map[string]string{metaScope: scope}
	}

	results, err := s.store.Query(ctx, s.config.Collection, queryText, topK, filters)
	if err != nil {
		return nil, fmt.Errorf("searching memory: %w", err)
	}

	turns := make([]Turn, 0, len(results))
	for _, r := range results {
		turns = append(turns, turnFromResult(r))
	}
	return turns, nil
}

// History returns up to limit turns for a scope, newest first.
//
// The store has no enumeration operation, so this fetches the whole
// collection (filtered by scope) and orders by sequence. Memory stays
// small enough per corpus for that to be acceptable.
func (s *Service) History(ctx context.Context, scope string, limit int) ([]Turn, error) {
	if limit <= 0 {
		limit = s.config.DefaultTopK
	}

	info, err := s.store.GetCollectionInfo(ctx, s.config.Collection)
	if err != nil {
		if errors.Is(err, vectorstore.ErrCollectionNotFound) {
			return []Turn{}, nil
		}
		return nil, fmt.Errorf("reading memory collection: %w", err)
	}
	if info.PointCount == 0 {
		return []Turn{}, nil
	}

	var filters map[string]string
	if scope != "" {
		filters = map[string]string{metaScope: scope}
	}

	// Ranking is discarded; only the fetch-all matters here.
	results, err := s.store.Query(ctx, s.config.Collection, "history", info.PointCount, filters)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	turns := make([]Turn, 0, len(results))
	for _, r := range results {
		turns = append(turns, turnFromResult(r))
	}
	sort.Slice(turns, func(i, j int) bool {
		if turns[i].Seq != turns[j].Seq {
			return turns[i].Seq > turns[j].Seq
		}
		return turns[i].Timestamp.After(turns[j].Timestamp)
	})

	if len(turns) > limit {
		turns = turns[:limit]
	}
	return turns, nil
}

// Clear deletes turns. With a non-empty scope only that scope's turns
// are removed; with an empty scope every turn in every scope is
// removed. Both are destructive and irreversible, and nothing in this
// package triggers them implicitly.
func (s *Service) Clear(ctx context.Context, scope string) error {
	if scope == "" {
		if err := s.store.DeleteCollection(ctx, s.config.Collection); err != nil {
			return fmt.Errorf("clearing all memory: %w", err)
		}
		s.logger.Info("cleared all conversation memory")
		return nil
	}

	if err := s.store.Delete(ctx, s.config.Collection, map[string]string{metaScope: scope}); err != nil {
		return fmt.Errorf("clearing memory for scope %s: %w", scope, err)
	}
	s.logger.Info("cleared conversation memory", zap.String("scope", scope))
	return nil
}

// turnFromResult rebuilds a Turn from a stored document.
func turnFromResult(r vectorstore.SearchResult) Turn {
	seq, _ := strconv.ParseInt(r.Metadata[metaSeq], 10, 64)
	ts, _ := time.Parse(time.RFC3339Nano, r.Metadata[metaTimestamp])
	return Turn{
		ID:        r.ID,
		Scope:     r.Metadata[metaScope],
		Seq:       seq,
		Query:     r.Metadata[metaQuery],
		Answer:    r.Metadata[metaAnswer],
		Timestamp: ts,
		Score:     r.Score,
	}
}
