package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/reposurfer/internal/embeddings"
	"github.com/fyrsmithlabs/reposurfer/internal/memory"
	"github.com/fyrsmithlabs/reposurfer/internal/vectorstore"
)

func newTestService(t *testing.T, cfg memory.Config) *memory.Service {
	t.Helper()
	store, err := vectorstore.NewChromemStore(vectorstore.ChromemConfig{
		Path:       t.TempDir(),
		VectorSize: 64,
	}, embeddings.NewLocalProvider(64), zap.NewNop())
	require.NoError(t, err)
	return memory.NewService(store, zap.NewNop(), cfg)
}

func TestRecord_AssignsIdentityAndSequence(t *testing.T) {
	svc := newTestService(t, memory.Config{})
	ctx := context.Background()

	first, err := svc.Record(ctx, "repo1", "what language is this", "Python")
	require.NoError(t, err)
	second, err := svc.Record(ctx, "repo1", "who wrote it", "unknown")
	require.NoError(t, err)

	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Greater(t, second.Seq, first.Seq)
	assert.False(t, first.Timestamp.IsZero())
}

func TestRecord_EmptyQueryRejected(t *testing.T) {
	svc := newTestService(t, memory.Config{})
	_, err := svc.Record(context.Background(), "repo1", "", "answer")
	require.Error(t, err)
}

func TestRecord_EmptyAnswerAllowed(t *testing.T) {
	svc := newTestService(t, memory.Config{})
	turn, err := svc.Record(context.Background(), "repo1", "pending question", "")
	require.NoError(t, err)
	assert.Empty(t, turn.Answer)
}

func TestSearch_FindsRelevantTurn(t *testing.T) {
	svc := newTestService(t, memory.Config{})
	ctx := context.Background()

	_, err := svc.Record(ctx, "repo1", "what language is this project written in", "Python")
	require.NoError(t, err)
	_, err = svc.Record(ctx, "repo1", "where are the deployment scripts", "under ops/")
	require.NoError(t, err)

	turns, err := svc.Search(ctx, "repo1", "what language is used", 2)
	require.NoError(t, err)
	require.NotEmpty(t, turns)
	assert.Equal(t, "what language is this project written in", turns[0].Query)
	assert.Equal(t, "Python", turns[0].Answer)
	assert.Greater(t, turns[0].Score, float32(0))
}

func TestSearch_ScopeIsolation(t *testing.T) {
	svc := newTestService(t, memory.Config{})
	ctx := context.Background()

	_, err := svc.Record(ctx, "repo1", "shared phrasing question", "answer one")
	require.NoError(t, err)
	_, err = svc.Record(ctx, "repo2", "shared phrasing question", "answer two")
	require.NoError(t, err)

	turns, err := svc.Search(ctx, "repo1", "shared phrasing question", 10)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "repo1", turns[0].Scope)
}

func TestSearch_EmptyScopeSearchesEverything(t *testing.T) {
	svc := newTestService(t, memory.Config{})
	ctx := context.Background()

	_, err := svc.Record(ctx, "repo1", "question alpha", "a")
	require.NoError(t, err)
	_, err = svc.Record(ctx, "repo2", "question beta", "b")
	require.NoError(t, err)

	turns, err := svc.Search(ctx, "", "question", 10)
	require.NoError(t, err)
	assert.Len(t, turns, 2)
}

func TestSearch_EmptyQueryReturnsNothing(t *testing.T) {
	svc := newTestService(t, memory.Config{})
	turns, err := svc.Search(context.Background(), "repo1", "", 5)
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestSearch_NoTurnsRecorded(t *testing.T) {
	svc := newTestService(t, memory.Config{})
	turns, err := svc.Search(context.Background(), "repo1", "anything at all", 5)
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestHistory_NewestFirstAndLimited(t *testing.T) {
	svc := newTestService(t, memory.Config{})
	ctx := context.Background()

	_, err := svc.Record(ctx, "repo1", "first question", "1")
	require.NoError(t, err)
	_, err = svc.Record(ctx, "repo1", "second question", "2")
	require.NoError(t, err)
	_, err = svc.Record(ctx, "repo1", "third question", "3")
	require.NoError(t, err)

	turns, err := svc.History(ctx, "repo1", 2)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "third question", turns[0].Query)
	assert.Equal(t, "second question", turns[1].Query)
}

func TestHistory_EmptyStore(t *testing.T) {
	svc := newTestService(t, memory.Config{})
	turns, err := svc.History(context.Background(), "repo1", 5)
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestClear_ScopedLeavesOtherScopes(t *testing.T) {
	svc := newTestService(t, memory.Config{})
	ctx := context.Background()

	_, err := svc.Record(ctx, "repo1", "doomed question", "x")
	require.NoError(t, err)
	_, err = svc.Record(ctx, "repo2", "surviving question", "y")
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, "repo1"))

	gone, err := svc.Search(ctx, "repo1", "doomed question", 5)
	require.NoError(t, err)
	assert.Empty(t, gone)

	kept, err := svc.Search(ctx, "repo2", "surviving question", 5)
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}

func TestClear_AllScopes(t *testing.T) {
	svc := newTestService(t, memory.Config{})
	ctx := context.Background()

	_, err := svc.Record(ctx, "repo1", "question one", "1")
	require.NoError(t, err)
	_, err = svc.Record(ctx, "repo2", "question two", "2")
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, ""))

	turns, err := svc.Search(ctx, "", "question", 10)
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestClear_EmptyStoreIsNoop(t *testing.T) {
	svc := newTestService(t, memory.Config{})
	require.NoError(t, svc.Clear(context.Background(), ""))
	require.NoError(t, svc.Clear(context.Background(), "repo1"))
}

func TestEmbedPolicy_QueryOnlyIgnoresAnswerText(t *testing.T) {
	svc := newTestService(t, memory.Config{EmbedPolicy: memory.EmbedQueryOnly})
	ctx := context.Background()

	_, err := svc.Record(ctx, "repo1", "how is caching configured", "redis with a ten minute ttl")
	require.NoError(t, err)
	_, err = svc.Record(ctx, "repo1", "redis redis redis", "nothing useful")
	require.NoError(t, err)

	turns, err := svc.Search(ctx, "repo1", "redis", 1)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "redis redis redis", turns[0].Query)
}
