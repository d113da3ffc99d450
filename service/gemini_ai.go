package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"github.com/tieubaoca/ai-tutor-be/types"
	"google.golang.org/api/option"
)

// GeminiService is an alternate AIService backed by Gemini. It rotates
// through the configured API keys when a call fails.
type GeminiService struct {
	apiKeys    []string
	currentKey int
	client     *genai.Client
	modelName  string
	mu         sync.Mutex
}

func NewGeminiService(apiKeys []string, modelName string) (*GeminiService, error) {
	if len(apiKeys) == 0 {
		return nil, errors.New("no API keys provided")
	}

	service := &GeminiService{
		apiKeys:    apiKeys,
		currentKey: 0,
		modelName:  modelName,
	}
	if err := service.initClient(); err != nil {
		return nil, err
	}
	return service, nil
}

func (s *GeminiService) initClient() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(s.apiKeys[s.currentKey]))
	if err != nil {
		return err
	}
	s.client = client
	return nil
}

func (s *GeminiService) rotateAPIKey() error {
	s.mu.Lock()
	s.currentKey = (s.currentKey + 1) % len(s.apiKeys)
	if err := s.client.Close(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()
	return s.initClient()
}

func (s *GeminiService) Chat(ctx context.Context, messages []types.Message) (string, error) {
	return s.ChatWithOptions(ctx, messages, types.ChatOptions{})
}

func (s *GeminiService) ChatWithOptions(ctx context.Context, messages []types.Message, opts types.ChatOptions) (string, error) {
	if len(messages) == 0 {
		return "", errors.New("no messages provided")
	}

	model := s.client.GenerativeModel(s.modelName)
	if opts.Temperature > 0 {
		model.SetTemperature(opts.Temperature)
	}
	if opts.TopP > 0 {
		model.SetTopP(opts.TopP)
	}
	if opts.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(opts.MaxTokens))
	}

	history := make([]*genai.Content, 0, len(messages)-1)
	for _, msg := range messages[:len(messages)-1] {
		history = append(history, &genai.Content{
			Parts: []genai.Part{genai.Text(msg.Content)},
			Role:  geminiRole(msg.Role),
		})
	}
	last := messages[len(messages)-1]

	chat := model.StartChat()
	chat.History = history

	resp, err := chat.SendMessage(ctx, genai.Text(last.Content))
	if err != nil {
		// Try rotating API key if there's an error
		if err := s.rotateAPIKey(); err != nil {
			return "", err
		}
		model = s.client.GenerativeModel(s.modelName)
		chat = model.StartChat()
		chat.History = history
		resp, err = chat.SendMessage(ctx, genai.Text(last.Content))
		if err != nil {
			return "", err
		}
	}

	if len(resp.Candidates) == 0 {
		return "", errors.New("no response generated")
	}

	var content strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				content.WriteString(string(text))
			}
		}
	}
	return content.String(), nil
}

// geminiRole maps conversation roles onto the two roles Gemini accepts.
// System turns are sent as user content.
func geminiRole(role string) string {
	if role == types.ChatMessageRoleAssistant {
		return "model"
	}
	return "user"
}
