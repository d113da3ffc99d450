package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/tieubaoca/ai-tutor-be/database"
	"github.com/tieubaoca/ai-tutor-be/repository"
	"github.com/tieubaoca/ai-tutor-be/types"
)

const pageDetectionPrompt = "Determine whether the following message is asking about the content of a specific document page. " +
	"If it is, reply with 'PAGE_NUMBER: <number>'. If it is not, reply with 'NO_PAGE'.\n\nMessage: %s"

const pageDetectionPrefix = "PAGE_NUMBER:"

// ChatService runs the tutoring conversation. Each user turn costs two
// model calls: one to classify whether the message targets a document
// page, one to generate the reply over the full turn log.
type ChatService interface {
	Chat(ctx context.Context, sessionID, userMessage, documentPath string) (*types.ChatResponse, error)
}

type chatService struct {
	conversations repository.ConversationRepo
	store         database.ObjectStore
	ai            AIService
	bucket        string
}

func NewChatService(
	conversations repository.ConversationRepo,
	store database.ObjectStore,
	ai AIService,
	bucket string,
) ChatService {
	return &chatService{
		conversations: conversations,
		store:         store,
		ai:            ai,
		bucket:        bucket,
	}
}

// Chat appends the user turn, optionally injects the referenced page's
// content as a system turn, generates the reply and persists the whole
// log. Turns are never removed or reordered once appended.
func (s *chatService) Chat(ctx context.Context, sessionID, userMessage, documentPath string) (*types.ChatResponse, error) {
	messages, err := s.conversations.GetMessages(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load conversation %q: %w", sessionID, err)
	}

	messages = append(messages, types.Message{
		Role:    types.ChatMessageRoleUser,
		Content: userMessage,
	})

	page, detected := s.detectPageNumber(ctx, userMessage)
	if detected && documentPath != "" {
		if content, ok := s.loadPageContent(ctx, documentPath, page); ok {
			messages = append(messages, types.Message{
				Role:    types.ChatMessageRoleSystem,
				Content: fmt.Sprintf("Provided document page content (Page %d): %s", page, content),
			})
		}
	}

	reply, err := s.ai.Chat(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("generate response: %w", err)
	}
	messages = append(messages, types.Message{
		Role:    types.ChatMessageRoleAssistant,
		Content: reply,
	})

	if err := s.conversations.SaveMessages(ctx, sessionID, messages); err != nil {
		return nil, fmt.Errorf("save conversation %q: %w", sessionID, err)
	}

	return &types.ChatResponse{
		SessionID: sessionID,
		Messages:  messages,
	}, nil
}

// detectPageNumber classifies the message with a single-turn completion
// call. Any failure, including an unparseable page number, is logged and
// reported as "no page detected".
func (s *chatService) detectPageNumber(ctx context.Context, userMessage string) (int, bool) {
	result, err := s.ai.Chat(ctx, []types.Message{{
		Role:    types.ChatMessageRoleUser,
		Content: fmt.Sprintf(pageDetectionPrompt, userMessage),
	}})
	if err != nil {
		log.Printf("page detection failed: %v", err)
		return 0, false
	}

	answer := strings.TrimSpace(result)
	if !strings.HasPrefix(strings.ToUpper(answer), pageDetectionPrefix) {
		return 0, false
	}
	suffix := strings.TrimSpace(answer[len(pageDetectionPrefix):])
	page, err := strconv.Atoi(suffix)
	if err != nil {
		log.Printf("unparseable page number %q: %v", suffix, err)
		return 0, false
	}
	return page, true
}

// loadPageContent fetches the referenced document and looks up the page
// under its pages mapping. Page context is an enhancement, not a
// requirement: every failure here is logged and swallowed.
func (s *chatService) loadPageContent(ctx context.Context, documentPath string, page int) (string, bool) {
	data, err := s.store.GetObject(ctx, s.bucket, documentPath)
	if err != nil {
		log.Printf("load document %q for page context: %v", documentPath, err)
		return "", false
	}

	var document struct {
		Pages map[string]json.RawMessage `json:"pages"`
	}
	if err := json.Unmarshal(data, &document); err != nil {
		log.Printf("parse document %q for page context: %v", documentPath, err)
		return "", false
	}

	raw, ok := document.Pages[strconv.Itoa(page)]
	if !ok {
		return "", false
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text, true
	}
	return string(raw), true
}
