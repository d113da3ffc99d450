package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/tieubaoca/ai-tutor-be/types"
)

// DocumentParseService converts an uploaded file into a flat element list.
type DocumentParseService interface {
	Parse(ctx context.Context, filePath string) (*types.ParseResult, error)
}

// UpstageParseService calls the Upstage document-digitization API with
// fixed parameters: OCR on auto, markdown output, no coordinates.
type UpstageParseService struct {
	endpoint   string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewUpstageParseService(endpoint, apiKey, model string) *UpstageParseService {
	return &UpstageParseService{
		endpoint:   endpoint,
		apiKey:     apiKey,
		model:      model,
		httpClient: http.DefaultClient,
	}
}

func (s *UpstageParseService) Parse(ctx context.Context, filePath string) (*types.ParseResult, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("document", filepath.Base(filePath))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, err
	}
	fields := map[string]string{
		"ocr":            "auto",
		"output_formats": `["markdown"]`,
		"model":          s.model,
		"coordinates":    "false",
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call document parse API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		text, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("document parse API returned status %d: %s", resp.StatusCode, string(text))
	}

	var result types.ParseResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode document parse response: %w", err)
	}
	return &result, nil
}
