package surfer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/reposurfer/internal/assembler"
	"github.com/fyrsmithlabs/reposurfer/internal/gateway"
	"github.com/fyrsmithlabs/reposurfer/internal/memory"
)

const systemPrompt = "You are a code assistant answering questions about a software repository. " +
	"Ground your answers in the provided repository content and prior conversation. " +
	"When the context does not contain the answer, say so instead of guessing."

const explainPrompt = "You are a code assistant. Explain what the following file does: " +
	"its purpose, its key functions or types, and how it fits into a larger project. " +
	"Be concise and concrete."

// ContextAssembler builds retrieval context for a question.
type ContextAssembler interface {
	Assemble(ctx context.Context, repositoryID, queryText string, maxContextSize int) (*assembler.Context, error)
}

// TurnRecorder persists a conversational exchange.
type TurnRecorder interface {
	Record(ctx context.Context, scope, query, answer string) (*memory.Turn, error)
}

// Service answers questions about repositories.
type Service struct {
	assembler ContextAssembler
	completer gateway.Completer
	memory    TurnRecorder
	logger    *zap.Logger
}

// NewService creates a new orchestrator. memory may be nil, in which
// case exchanges are not recorded.
func NewService(asm ContextAssembler, completer gateway.Completer, mem TurnRecorder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		assembler: asm,
		completer: completer,
		memory:    mem,
		logger:    logger,
	}
}

// Ask answers a question about a repository and records the exchange.
//
// A memory write failure does not fail the request: the answer is
// already produced, losing one turn of recall is the lesser harm.
func (s *Service) Ask(ctx context.Context, repositoryID, question string) (string, error) {
	if question == "" {
		return "", fmt.Errorf("question cannot be empty")
	}

	assembled, err := s.assembler.Assemble(ctx, repositoryID, question, 0)
	if err != nil {
		return "", fmt.Errorf("assembling context: %w", err)
	}

	messages := []gateway.Message{
		{Role: gateway.RoleSystem, Content: systemPrompt},
	}
	if text := assembled.PromptText(); text != "" {
		messages = append(messages, gateway.Message{Role: gateway.RoleSystem, Content: text})
	}
	messages = append(messages, gateway.Message{Role: gateway.RoleUser, Content: question})

	answer, err := s.completer.Complete(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("completing: %w", err)
	}

	if s.memory != nil {
		if _, err := s.memory.Record(ctx, repositoryID, question, answer); err != nil {
			s.logger.Warn("failed to record turn", zap.Error(err))
		}
	}

	s.logger.Debug("answered question",
		zap.String("repository_id", repositoryID),
		zap.Int("context_items", len(assembled.Items)),
		zap.Int("context_size", assembled.Size),
	)

	return answer, nil
}

// ExplainFile asks the model to explain one file's content. Nothing is
// recorded in memory; explanations are one-shot.
func (s *Service) ExplainFile(ctx context.Context, path, content string) (string, error) {
	if content == "" {
		return "", fmt.Errorf("file content cannot be empty")
	}

	messages := []gateway.Message{
		{Role: gateway.RoleSystem, Content: explainPrompt},
		{Role: gateway.RoleUser, Content: fmt.Sprintf("File: %s\n\n%s", path, content)},
	}
	answer, err := s.completer.Complete(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("completing: %w", err)
	}
	return answer, nil
}
