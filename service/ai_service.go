package service

import (
	"context"

	"github.com/tieubaoca/ai-tutor-be/types"
)

// AIService is the completion API consumed by the chat and summary flows.
type AIService interface {
	Chat(ctx context.Context, messages []types.Message) (string, error)
	ChatWithOptions(ctx context.Context, messages []types.Message, opts types.ChatOptions) (string, error)
}
