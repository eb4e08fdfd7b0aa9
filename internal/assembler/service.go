package assembler

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/reposurfer/internal/memory"
	"github.com/fyrsmithlabs/reposurfer/internal/vectorstore"
)

// ChunkSearcher retrieves indexed repository chunks by similarity.
type ChunkSearcher interface {
	Search(ctx context.Context, repositoryID, query string, topK int) ([]vectorstore.SearchResult, error)
}

// TurnSearcher retrieves past conversation turns by similarity.
type TurnSearcher interface {
	Search(ctx context.Context, scope, queryText string, topK int) ([]memory.Turn, error)
}

// Config holds context assembly configuration.
type Config struct {
	// MaxChunks is how many repository chunks are considered.
	// Default: 5.
	MaxChunks int

	// MaxTurns is how many memory turns are considered. Default: 3.
	MaxTurns int

	// MaxContextSize caps the total character count of included item
	// texts when the caller passes no limit. Default: 8000.
	MaxContextSize int
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.MaxChunks == 0 {
		c.MaxChunks = 5
	}
	if c.MaxTurns == 0 {
		c.MaxTurns = 3
	}
	if c.MaxContextSize == 0 {
		c.MaxContextSize = 8000
	}
}

// Service assembles retrieval context from chunks and memory.
type Service struct {
	chunks ChunkSearcher
	turns  TurnSearcher
	config Config
	logger *zap.Logger
}

// NewService creates a new context assembler. turns may be nil, in
// which case assembly runs on repository chunks alone.
func NewService(chunks ChunkSearcher, turns TurnSearcher, logger *zap.Logger, cfg Config) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.ApplyDefaults()
	return &Service{
		chunks: chunks,
		turns:  turns,
		config: cfg,
		logger: logger,
	}
}

// Assemble builds the context for a question against one repository.
//
// An empty query yields an empty context. Chunks are considered before
// turns; within each kind candidates arrive ranked best first and are
// packed greedily against the size limit. An item that does not fit is
// skipped whole and packing continues with the next candidate. Items
// are deduplicated by id.
//
// A chunk retrieval failure aborts assembly. A memory retrieval
// failure does not: the context degrades to chunks only.
func (s *Service) Assemble(ctx context.Context, repositoryID, queryText string, maxContextSize int) (*Context, error) {
	out := &Context{Query: queryText, Items: []ContextItem{}}
	if queryText == "" {
		return out, nil
	}
	if maxContextSize <= 0 {
		maxContextSize = s.config.MaxContextSize
	}

	candidates, err := s.gather(ctx, repositoryID, queryText)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(candidates))
	for _, item := range candidates {
		if _, dup := seen[item.ID]; dup {
			continue
		}
		size := utf8.RuneCountInString(item.Text)
		if out.Size+size > maxContextSize {
			continue
		}
		seen[item.ID] = struct{}{}
		out.Items = append(out.Items, item)
		out.Size += size
	}

	s.logger.Debug("assembled context",
		zap.String("repository_id", repositoryID),
		zap.Int("candidates", len(candidates)),
		zap.Int("included", len(out.Items)),
		zap.Int("size", out.Size),
	)

	return out, nil
}

// gather collects ranked candidates, chunks first.
func (s *Service) gather(ctx context.Context, repositoryID, queryText string) ([]ContextItem, error) {
	var candidates []ContextItem

	if repositoryID != "" {
		results, err := s.chunks.Search(ctx, repositoryID, queryText, s.config.MaxChunks)
		if err != nil {
			return nil, fmt.Errorf("retrieving chunks: %w", err)
		}
		for _, r := range results {
			candidates = append(candidates, ContextItem{
				ID:     r.ID,
				Kind:   KindChunk,
				Source: r.Metadata["path"],
				Text:   r.Content,
				Score:  r.Score,
			})
		}
	}

	if s.turns != nil {
		turns, err := s.turns.Search(ctx, repositoryID, queryText, s.config.MaxTurns)
		if err != nil {
			s.logger.Warn("memory retrieval failed, assembling without turns",
				zap.Error(err),
			)
		} else {
			for _, t := range turns {
				candidates = append(candidates, ContextItem{
					ID:     t.ID,
					Kind:   KindTurn,
					Source: t.Scope,
					Text:   renderTurn(t),
					Score:  t.Score,
				})
			}
		}
	}

	return candidates, nil
}

// renderTurn formats a turn the way it will appear in the prompt.
func renderTurn(t memory.Turn) string {
	if t.Answer == "" {
		return "Q: " + t.Query
	}
	return "Q: " + t.Query + "\nA: " + t.Answer
}

// PromptText renders the context as the text block handed to the
// language model. Chunks are grouped under their file paths, turns
// under a prior-conversation heading. An empty context renders empty.
func (c *Context) PromptText() string {
	if len(c.Items) == 0 {
		return ""
	}

	var b strings.Builder
	wroteChunks := false
	for _, item := range c.Items {
		if item.Kind != KindChunk {
			continue
		}
		if !wroteChunks {
			b.WriteString("Relevant repository content:\n")
			wroteChunks = true
		}
		fmt.Fprintf(&b, "\n--- %s ---\n%s\n", item.Source, item.Text)
	}

	wroteTurns := false
	for _, item := range c.Items {
		if item.Kind != KindTurn {
			continue
		}
		if !wroteTurns {
			if wroteChunks {
				b.WriteString("\n")
			}
			b.WriteString("Prior conversation:\n")
			wroteTurns = true
		}
		b.WriteString("\n" + item.Text + "\n")
	}

	return b.String()
}
