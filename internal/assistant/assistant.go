// Package assistant composes prompts, calls the chat backend and cleans the
// replies. Every call is single-turn.
package assistant

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/dariafung/fotex/internal/llm"
	"github.com/dariafung/fotex/internal/logging"
)

type ChatClient interface {
	Chat(ctx context.Context, model string, messages []llm.Message) (string, error)
}

type Service struct {
	client       ChatClient
	defaultModel string
	logger       *slog.Logger
}

func NewService(client ChatClient, defaultModel string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Service{
		client:       client,
		defaultModel: defaultModel,
		logger:       logger.With("component", "assistant"),
	}
}

func (s *Service) DefaultModel() string {
	return s.defaultModel
}

// Chat sends messages as given and sanitizes the reply. A blank model uses
// the service default.
func (s *Service) Chat(ctx context.Context, model string, messages []llm.Message) (string, error) {
	model = strings.TrimSpace(model)
	if model == "" {
		model = s.defaultModel
	}
	start := time.Now()
	raw, err := s.client.Chat(ctx, model, messages)
	if err != nil {
		s.logger.Warn("assistant.chat_failed", "model", model, "error", err.Error())
		return "", err
	}
	clean := Sanitize(raw)
	s.logger.Debug("assistant.chat_finished",
		"model", model,
		"messages", len(messages),
		"duration_ms", time.Since(start).Milliseconds(),
		"raw_len", len(raw),
		"clean_len", len(clean),
	)
	return clean, nil
}

func (s *Service) Ask(ctx context.Context, model, prompt string) (string, error) {
	return s.Chat(ctx, model, AskMessages(prompt))
}

func (s *Service) FixError(ctx context.Context, model, snippet, diagnostic string) (string, error) {
	return s.Chat(ctx, model, FixErrorMessages(snippet, diagnostic))
}

func (s *Service) ToFormula(ctx context.Context, model, text string) (string, error) {
	return s.Chat(ctx, model, ToFormulaMessages(text))
}

func (s *Service) Continue(ctx context.Context, model, prefix string) (string, error) {
	return s.Chat(ctx, model, ContinueMessages(prefix))
}

func (s *Service) Rewrite(ctx context.Context, model, instruction, document string) (string, error) {
	return s.Chat(ctx, model, RewriteMessages(instruction, document))
}
