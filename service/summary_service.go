package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tieubaoca/ai-tutor-be/database"
	"github.com/tieubaoca/ai-tutor-be/types"
	"github.com/tieubaoca/ai-tutor-be/utils"
)

const summaryPrompt = `You are a professional technical writer helping students prepare for exams.
Summarize the following content with a focus on **key points likely to be tested in an exam**.
The output must be in clean, structured, and condensed **Markdown format** suitable for Notion.
Use clear section titles (##), bullet points (-), and tables if helpful.
Ignore any metadata, introductions, or copyright information.
Prioritize concepts, definitions, processes, and comparisons that are important for test-taking.
Avoid verbosity. Be direct and focused.

Now summarize the following lecture document with that goal in mind:

`

// SummaryService turns a processed document into an exam-prep markdown
// summary stored next to the record.
type SummaryService interface {
	Summarize(ctx context.Context, documentKey string) (*types.SummaryResponse, error)
}

type summaryService struct {
	store  database.ObjectStore
	ai     AIService
	bucket string
}

func NewSummaryService(store database.ObjectStore, ai AIService, bucket string) SummaryService {
	return &summaryService{
		store:  store,
		ai:     ai,
		bucket: bucket,
	}
}

func (s *summaryService) Summarize(ctx context.Context, documentKey string) (*types.SummaryResponse, error) {
	data, err := s.store.GetObject(ctx, s.bucket, documentKey)
	if err != nil {
		return nil, fmt.Errorf("load document %q: %w", documentKey, err)
	}

	var document interface{}
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("parse document %q: %w", documentKey, err)
	}
	pretty, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode document %q: %w", documentKey, err)
	}

	summary, err := s.ai.ChatWithOptions(
		ctx,
		[]types.Message{{
			Role:    types.ChatMessageRoleUser,
			Content: summaryPrompt + string(pretty),
		}},
		types.ChatOptions{
			Temperature: 0.2,
			TopP:        0.4,
			MaxTokens:   4000,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("summarize document %q: %w", documentKey, err)
	}

	markdownKey := utils.SummaryKey(documentKey)
	if err := s.store.PutObject(ctx, s.bucket, markdownKey, []byte(summary), "text/markdown"); err != nil {
		return nil, fmt.Errorf("store summary for %q: %w", documentKey, err)
	}

	return &types.SummaryResponse{
		DocumentID:   documentKey,
		Summary:      summary,
		MarkdownFile: s.bucket + "/" + markdownKey,
	}, nil
}
