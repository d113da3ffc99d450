package service

import (
	"context"
	"errors"

	"github.com/sashabaranov/go-openai"
	"github.com/tieubaoca/ai-tutor-be/types"
)

// SolarService talks to an OpenAI-compatible completion endpoint. The
// default configuration points it at Upstage's solar-pro model.
type SolarService struct {
	client *openai.Client
	model  string
}

func NewSolarService(baseURL, apiKey, model string) *SolarService {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL
	client := openai.NewClientWithConfig(config)
	return &SolarService{
		client: client,
		model:  model,
	}
}

func (s *SolarService) Chat(ctx context.Context, messages []types.Message) (string, error) {
	return s.ChatWithOptions(ctx, messages, types.ChatOptions{})
}

func (s *SolarService) ChatWithOptions(ctx context.Context, messages []types.Message, opts types.ChatOptions) (string, error) {
	openaiMessages := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		openaiMessages = append(openaiMessages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:       s.model,
			Messages:    openaiMessages,
			Temperature: opts.Temperature,
			TopP:        opts.TopP,
			MaxTokens:   opts.MaxTokens,
		},
	)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response generated")
	}
	return resp.Choices[0].Message.Content, nil
}
