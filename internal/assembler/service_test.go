package assembler_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/reposurfer/internal/assembler"
	"github.com/fyrsmithlabs/reposurfer/internal/memory"
	"github.com/fyrsmithlabs/reposurfer/internal/vectorstore"
)

type fakeChunks struct {
	results []vectorstore.SearchResult
	err     error
}

func (f *fakeChunks) Search(ctx context.Context, repositoryID, query string, topK int) ([]vectorstore.SearchResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	if topK > len(f.results) {
		topK = len(f.results)
	}
	return f.results[:topK], nil
}

type fakeTurns struct {
	turns []memory.Turn
	err   error
}

func (f *fakeTurns) Search(ctx context.Context, scope, queryText string, topK int) ([]memory.Turn, error) {
	if f.err != nil {
		return nil, f.err
	}
	if topK > len(f.turns) {
		topK = len(f.turns)
	}
	return f.turns[:topK], nil
}

func chunk(id, path, text string, score float32) vectorstore.SearchResult {
	return vectorstore.SearchResult{
		ID:       id,
		Content:  text,
		Score:    score,
		Metadata: map[string]string{"path": path},
	}
}

func TestAssemble_EmptyQuery(t *testing.T) {
	svc := assembler.NewService(&fakeChunks{}, &fakeTurns{}, zap.NewNop(), assembler.Config{})
	got, err := svc.Assemble(context.Background(), "repo1", "", 1000)
	require.NoError(t, err)
	assert.Empty(t, got.Items)
	assert.Equal(t, 0, got.Size)
}

func TestAssemble_ChunksBeforeTurns(t *testing.T) {
	chunks := &fakeChunks{results: []vectorstore.SearchResult{
		chunk("c1", "main.go", "package main", 0.9),
	}}
	turns := &fakeTurns{turns: []memory.Turn{
		{ID: "t1", Scope: "repo1", Query: "earlier question", Answer: "earlier answer", Score: 0.95},
	}}

	svc := assembler.NewService(chunks, turns, zap.NewNop(), assembler.Config{})
	got, err := svc.Assemble(context.Background(), "repo1", "what does main do", 1000)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, assembler.KindChunk, got.Items[0].Kind)
	assert.Equal(t, assembler.KindTurn, got.Items[1].Kind)
	assert.Equal(t, "main.go", got.Items[0].Source)
}

func TestAssemble_SkipsOversizedItemButKeepsLaterOnes(t *testing.T) {
	chunks := &fakeChunks{results: []vectorstore.SearchResult{
		chunk("big", "big.go", strings.Repeat("x", 50), 0.9),
		chunk("small", "small.go", strings.Repeat("y", 10), 0.8),
	}}

	svc := assembler.NewService(chunks, nil, zap.NewNop(), assembler.Config{})
	got, err := svc.Assemble(context.Background(), "repo1", "query", 20)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "small", got.Items[0].ID)
	assert.Equal(t, 10, got.Size)
}

func TestAssemble_BudgetIsCumulative(t *testing.T) {
	chunks := &fakeChunks{results: []vectorstore.SearchResult{
		chunk("a", "a.go", strings.Repeat("a", 10), 0.9),
		chunk("b", "b.go", strings.Repeat("b", 10), 0.8),
		chunk("c", "c.go", strings.Repeat("c", 10), 0.7),
	}}

	svc := assembler.NewService(chunks, nil, zap.NewNop(), assembler.Config{})
	got, err := svc.Assemble(context.Background(), "repo1", "query", 25)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "a", got.Items[0].ID)
	assert.Equal(t, "b", got.Items[1].ID)
	assert.Equal(t, 20, got.Size)
}

func TestAssemble_DeduplicatesByID(t *testing.T) {
	chunks := &fakeChunks{results: []vectorstore.SearchResult{
		chunk("dup", "a.go", "same text", 0.9),
		chunk("dup", "a.go", "same text", 0.9),
	}}

	svc := assembler.NewService(chunks, nil, zap.NewNop(), assembler.Config{})
	got, err := svc.Assemble(context.Background(), "repo1", "query", 1000)
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)
}

func TestAssemble_ChunkFailureAborts(t *testing.T) {
	chunks := &fakeChunks{err: errors.New("store down")}
	svc := assembler.NewService(chunks, nil, zap.NewNop(), assembler.Config{})
	_, err := svc.Assemble(context.Background(), "repo1", "query", 1000)
	require.Error(t, err)
}

func TestAssemble_MemoryFailureDegradesToChunks(t *testing.T) {
	chunks := &fakeChunks{results: []vectorstore.SearchResult{
		chunk("c1", "a.go", "content", 0.9),
	}}
	turns := &fakeTurns{err: errors.New("memory down")}

	svc := assembler.NewService(chunks, turns, zap.NewNop(), assembler.Config{})
	got, err := svc.Assemble(context.Background(), "repo1", "query", 1000)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, assembler.KindChunk, got.Items[0].Kind)
}

func TestAssemble_NoRepositoryUsesMemoryOnly(t *testing.T) {
	turns := &fakeTurns{turns: []memory.Turn{
		{ID: "t1", Query: "past question", Answer: "past answer", Score: 0.5},
	}}

	svc := assembler.NewService(&fakeChunks{err: errors.New("must not be called")}, turns, zap.NewNop(), assembler.Config{})
	got, err := svc.Assemble(context.Background(), "", "query", 1000)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, assembler.KindTurn, got.Items[0].Kind)
}

func TestPromptText_Rendering(t *testing.T) {
	chunks := &fakeChunks{results: []vectorstore.SearchResult{
		chunk("c1", "math.py", "def add(a,b): return a+b", 0.9),
	}}
	turns := &fakeTurns{turns: []memory.Turn{
		{ID: "t1", Scope: "repo1", Query: "what language", Answer: "Python", Score: 0.8},
	}}

	svc := assembler.NewService(chunks, turns, zap.NewNop(), assembler.Config{})
	got, err := svc.Assemble(context.Background(), "repo1", "how does addition work", 1000)
	require.NoError(t, err)

	text := got.PromptText()
	assert.Contains(t, text, "Relevant repository content:")
	assert.Contains(t, text, "--- math.py ---")
	assert.Contains(t, text, "def add(a,b): return a+b")
	assert.Contains(t, text, "Prior conversation:")
	assert.Contains(t, text, "Q: what language\nA: Python")
}

func TestPromptText_EmptyContext(t *testing.T) {
	c := &assembler.Context{}
	assert.Equal(t, "", c.PromptText())
}
