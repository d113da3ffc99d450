package service

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tieubaoca/ai-tutor-be/database"
	"github.com/tieubaoca/ai-tutor-be/types"
	"github.com/tieubaoca/ai-tutor-be/utils"
)

const (
	testSourceBucket = "ai-tutor-source-docs"
	testTargetBucket = "ai-tutor-target-docs"
)

func newTestDocumentService(t *testing.T, store *memObjectStore, parser DocumentParseService) DocumentService {
	t.Helper()
	folders := NewFolderService(store, testTargetBucket)
	return NewDocumentService(store, parser, folders, testSourceBucket, testTargetBucket, t.TempDir())
}

func sampleParseResult() *types.ParseResult {
	return &types.ParseResult{
		API:   "2.0",
		Model: "document-parse",
		Usage: types.ParseUsage{Pages: 2},
		Elements: []types.ParseElement{
			{Page: 2, Category: "paragraph", Content: types.ParseElementContent{Markdown: "second page"}},
			{Page: 1, Category: "heading1", Content: types.ParseElementContent{Markdown: "first heading"}},
			{Page: 1, Category: "paragraph", Content: types.ParseElementContent{Markdown: "first paragraph"}},
		},
	}
}

func TestTransformParseResult(t *testing.T) {
	record := transformParseResult(sampleParseResult(), "math", "calc1", "lecture.pdf")

	assert.Equal(t, "math", record.FolderName)
	assert.Equal(t, "calc1", record.DocumentName)
	assert.Equal(t, "lecture.pdf", record.OriginalFilename)
	assert.NotEmpty(t, record.CreatedAt)
	assert.Equal(t, "2.0", record.Metadata.APIVersion)
	assert.Equal(t, "document-parse", record.Metadata.Model)
	assert.Equal(t, 2, record.Metadata.TotalPages)
	assert.Equal(t, "application/pdf", record.Metadata.FileType)
	assert.False(t, record.Metadata.Indexed)

	// Pages sorted ascending, element order inside a page preserved.
	require.Len(t, record.Pages, 2)
	assert.Equal(t, 1, record.Pages[0].Page)
	assert.Equal(t, 2, record.Pages[1].Page)
	require.Len(t, record.Pages[0].Contents, 2)
	assert.Equal(t, "first heading", record.Pages[0].Contents[0].Markdown)
	assert.Equal(t, "first paragraph", record.Pages[0].Contents[1].Markdown)
}

func TestTransformParseResultDefaults(t *testing.T) {
	result := &types.ParseResult{
		Elements: []types.ParseElement{
			{Content: types.ParseElementContent{Markdown: "text"}},
		},
	}
	record := transformParseResult(result, "math", "calc1", "lecture.pdf")

	require.Len(t, record.Pages, 1)
	assert.Equal(t, 1, record.Pages[0].Page, "elements without a page number land on page 1")
	assert.Equal(t, "unknown", record.Pages[0].Contents[0].Category)
}

func TestProcessDocumentIgnoresForeignBucket(t *testing.T) {
	store := newMemObjectStore(testSourceBucket, testTargetBucket)
	svc := newTestDocumentService(t, store, &fakeParseService{})

	resp, err := svc.ProcessDocument(context.Background(), "some-other-bucket", "upload/math___calc1___lecture.pdf")
	require.NoError(t, err)
	assert.Nil(t, resp)
	assert.Empty(t, store.buckets[testTargetBucket])
}

func TestProcessDocumentIgnoresNonUploadKey(t *testing.T) {
	store := newMemObjectStore(testSourceBucket, testTargetBucket)
	svc := newTestDocumentService(t, store, &fakeParseService{})

	resp, err := svc.ProcessDocument(context.Background(), testSourceBucket, "processed/math_calc1_result.json")
	require.NoError(t, err)
	assert.Nil(t, resp)
}

func TestProcessDocumentMalformedKey(t *testing.T) {
	store := newMemObjectStore(testSourceBucket, testTargetBucket)
	svc := newTestDocumentService(t, store, &fakeParseService{})

	_, err := svc.ProcessDocument(context.Background(), testSourceBucket, "upload/no-delimiters.pdf")
	assert.ErrorIs(t, err, utils.ErrMalformedUploadKey)
}

func TestProcessDocumentPipeline(t *testing.T) {
	ctx := context.Background()
	store := newMemObjectStore(testSourceBucket, testTargetBucket)
	parser := &fakeParseService{result: sampleParseResult()}
	svc := newTestDocumentService(t, store, parser)

	original := []byte("%PDF-1.4 fake content")
	stagedKey := "upload/math___calc1___lecture.pdf"
	require.NoError(t, store.PutObject(ctx, testSourceBucket, stagedKey, original, "application/pdf"))

	resp, err := svc.ProcessDocument(ctx, testSourceBucket, stagedKey)
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.Equal(t, "math", resp.FolderName)
	assert.Equal(t, "calc1", resp.DocumentName)
	assert.Equal(t, "lecture.pdf", resp.OriginalFilename)
	assert.Equal(t, "math/calc1/processed/calc1_result.json", resp.ResultPath)
	assert.Equal(t, "lecture.pdf", filepath.Base(parser.lastPath))

	// Original moved: copied into the target structure, deleted from staging.
	assert.True(t, store.has(testTargetBucket, "math/calc1/upload/lecture.pdf"))
	assert.False(t, store.has(testSourceBucket, stagedKey))
	copied, err := store.GetObject(ctx, testTargetBucket, "math/calc1/upload/lecture.pdf")
	require.NoError(t, err)
	assert.Equal(t, original, copied)

	// Document structure ensured.
	for _, prefix := range utils.DocumentPrefixes("math", "calc1") {
		assert.True(t, store.has(testTargetBucket, prefix), "missing prefix %q", prefix)
	}

	// Processed record written to the target and mirrored for indexing.
	data, err := store.GetObject(ctx, testTargetBucket, "math/calc1/processed/calc1_result.json")
	require.NoError(t, err)
	var record types.ProcessedDocument
	require.NoError(t, json.Unmarshal(data, &record))
	assert.Equal(t, "math", record.FolderName)
	require.Len(t, record.Pages, 2)
	assert.Equal(t, 1, record.Pages[0].Page)

	assert.True(t, store.has(testSourceBucket, "processed/math_calc1_result.json"))
}

func TestProcessDocumentDecodesKey(t *testing.T) {
	ctx := context.Background()
	store := newMemObjectStore(testSourceBucket, testTargetBucket)
	parser := &fakeParseService{result: sampleParseResult()}
	svc := newTestDocumentService(t, store, parser)

	// The notification carries the URL-encoded form of the staged key.
	decodedKey := "upload/math___calc1___lecture notes.pdf"
	require.NoError(t, store.PutObject(ctx, testSourceBucket, decodedKey, []byte("pdf"), "application/pdf"))

	resp, err := svc.ProcessDocument(ctx, testSourceBucket, "upload/math___calc1___lecture+notes.pdf")
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, "lecture notes.pdf", resp.OriginalFilename)
	assert.False(t, store.has(testSourceBucket, decodedKey))
}

func TestProcessDocumentDownloadFailure(t *testing.T) {
	store := newMemObjectStore(testSourceBucket, testTargetBucket)
	svc := newTestDocumentService(t, store, &fakeParseService{result: sampleParseResult()})

	_, err := svc.ProcessDocument(context.Background(), testSourceBucket, "upload/math___calc1___missing.pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, database.ErrObjectNotFound)
	assert.ErrorContains(t, err, "download document")
}

func TestProcessDocumentParseFailure(t *testing.T) {
	ctx := context.Background()
	store := newMemObjectStore(testSourceBucket, testTargetBucket)
	parser := &fakeParseService{err: errors.New("status 500")}
	svc := newTestDocumentService(t, store, parser)

	stagedKey := "upload/math___calc1___lecture.pdf"
	require.NoError(t, store.PutObject(ctx, testSourceBucket, stagedKey, []byte("pdf"), "application/pdf"))

	_, err := svc.ProcessDocument(ctx, testSourceBucket, stagedKey)
	require.Error(t, err)
	assert.ErrorContains(t, err, "parse document")
	// Pipeline aborted: nothing persisted, staged original still in place.
	assert.True(t, store.has(testSourceBucket, stagedKey))
	assert.False(t, store.has(testTargetBucket, "math/calc1/processed/calc1_result.json"))
}

func TestUploadDocumentFolderMissing(t *testing.T) {
	store := newMemObjectStore(testSourceBucket, testTargetBucket)
	svc := newTestDocumentService(t, store, &fakeParseService{})

	_, err := svc.UploadDocument(context.Background(), "math", "lecture.pdf", []byte("pdf"))
	assert.ErrorIs(t, err, ErrFolderNotFound)
}

func TestUploadDocument(t *testing.T) {
	ctx := context.Background()
	store := newMemObjectStore(testSourceBucket, testTargetBucket)
	svc := newTestDocumentService(t, store, &fakeParseService{})

	require.NoError(t, store.PutObject(ctx, testTargetBucket, "math/", nil, ""))

	resp, err := svc.UploadDocument(ctx, "math", "lecture.pdf", []byte("pdf content"))
	require.NoError(t, err)

	assert.Equal(t, "math", resp.FolderName)
	assert.Equal(t, "lecture", resp.DocumentName)
	assert.Equal(t, "upload/math___lecture___lecture.pdf", resp.UploadPath)
	assert.NotEmpty(t, resp.CreatedAt)

	staged, err := store.GetObject(ctx, testSourceBucket, resp.UploadPath)
	require.NoError(t, err)
	assert.Equal(t, []byte("pdf content"), staged)

	for _, prefix := range utils.DocumentPrefixes("math", "lecture") {
		assert.True(t, store.has(testTargetBucket, prefix), "missing prefix %q", prefix)
	}
}

func TestListDocuments(t *testing.T) {
	ctx := context.Background()
	store := newMemObjectStore(testSourceBucket, testTargetBucket)
	svc := newTestDocumentService(t, store, &fakeParseService{})

	record := types.ProcessedDocument{
		FolderName:       "math",
		DocumentName:     "calc1",
		OriginalFilename: "lecture.pdf",
		CreatedAt:        "2025-03-01T00:00:00Z",
		Metadata:         types.DocumentMetadata{FileType: "application/pdf"},
		Pages: []types.DocumentPage{
			{Page: 1}, {Page: 2},
		},
	}
	recordJSON, err := json.Marshal(record)
	require.NoError(t, err)

	require.NoError(t, store.PutObject(ctx, testTargetBucket, "math/", nil, ""))
	require.NoError(t, store.PutObject(ctx, testTargetBucket, "math/calc1/processed/calc1_result.json", recordJSON, "application/json"))
	require.NoError(t, store.PutObject(ctx, testTargetBucket, "math/draft/upload/notes.pdf", []byte("pdf"), ""))

	documents, err := svc.ListDocuments(ctx, "math")
	require.NoError(t, err)
	require.Len(t, documents, 2)

	// Processed document first (has a creation date), unprocessed last.
	assert.Equal(t, "calc1", documents[0].ID)
	assert.True(t, documents[0].IsProcessed)
	assert.Equal(t, 2, documents[0].TotalPages)
	assert.Equal(t, "lecture.pdf", documents[0].OriginalFilename)
	assert.Equal(t, "math/calc1/processed/calc1_result.json", documents[0].ProcessedKey)

	assert.Equal(t, "draft", documents[1].ID)
	assert.False(t, documents[1].IsProcessed)
	assert.Zero(t, documents[1].TotalPages)
}

func TestListDocumentsFolderMissing(t *testing.T) {
	store := newMemObjectStore(testSourceBucket, testTargetBucket)
	svc := newTestDocumentService(t, store, &fakeParseService{})

	_, err := svc.ListDocuments(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrFolderNotFound)
}

func TestListDocumentsSkipsBrokenRecords(t *testing.T) {
	ctx := context.Background()
	store := newMemObjectStore(testSourceBucket, testTargetBucket)
	svc := newTestDocumentService(t, store, &fakeParseService{})

	require.NoError(t, store.PutObject(ctx, testTargetBucket, "math/", nil, ""))
	require.NoError(t, store.PutObject(ctx, testTargetBucket, "math/calc1/processed/calc1_result.json", []byte("{broken"), "application/json"))

	documents, err := svc.ListDocuments(ctx, "math")
	require.NoError(t, err)
	require.Len(t, documents, 1)
	assert.Equal(t, "calc1", documents[0].ID)
	assert.False(t, documents[0].IsProcessed, "broken record falls back to the unprocessed shape")
}

func TestIsProcessed(t *testing.T) {
	ctx := context.Background()
	store := newMemObjectStore(testSourceBucket, testTargetBucket)
	svc := newTestDocumentService(t, store, &fakeParseService{})

	processed, err := svc.IsProcessed(ctx, "math", "calc1")
	require.NoError(t, err)
	assert.False(t, processed)

	require.NoError(t, store.PutObject(ctx, testTargetBucket, "math/calc1/processed/calc1_result.json", []byte("{}"), "application/json"))

	processed, err = svc.IsProcessed(ctx, "math", "calc1")
	require.NoError(t, err)
	assert.True(t, processed)
}
