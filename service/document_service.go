package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/tieubaoca/ai-tutor-be/database"
	"github.com/tieubaoca/ai-tutor-be/types"
	"github.com/tieubaoca/ai-tutor-be/utils"
)

// DocumentService covers the document lifecycle: accepting uploads into
// the staging bucket, running the ingestion pipeline when a staged file is
// announced, and listing what a folder contains.
type DocumentService interface {
	UploadDocument(ctx context.Context, folderName, filename string, content []byte) (*types.UploadDocumentResponse, error)
	// ProcessDocument runs the ingestion pipeline for an uploaded object.
	// A nil response with a nil error means the notification was ignored
	// (foreign bucket or key outside the upload prefix).
	ProcessDocument(ctx context.Context, bucket, key string) (*types.ProcessDocumentResponse, error)
	ListDocuments(ctx context.Context, folderName string) ([]types.DocumentInfo, error)
	IsProcessed(ctx context.Context, folderName, documentName string) (bool, error)
}

type documentService struct {
	store        database.ObjectStore
	parser       DocumentParseService
	folders      FolderService
	sourceBucket string
	targetBucket string
	scratchDir   string
}

func NewDocumentService(
	store database.ObjectStore,
	parser DocumentParseService,
	folders FolderService,
	sourceBucket, targetBucket, scratchDir string,
) DocumentService {
	return &documentService{
		store:        store,
		parser:       parser,
		folders:      folders,
		sourceBucket: sourceBucket,
		targetBucket: targetBucket,
		scratchDir:   scratchDir,
	}
}

// UploadDocument stages a new file for processing. The staged key encodes
// folder and document name so the pipeline can recover them later.
func (s *documentService) UploadDocument(ctx context.Context, folderName, filename string, content []byte) (*types.UploadDocumentResponse, error) {
	exists, err := s.folders.FolderExists(ctx, folderName)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrFolderNotFound, folderName)
	}

	documentName := utils.DocumentNameFromFilename(filename)
	s.ensureDocumentStructure(ctx, folderName, documentName)

	uploadKey := utils.BuildUploadKey(folderName, documentName, filename)
	if err := s.store.PutObject(ctx, s.sourceBucket, uploadKey, content, "application/pdf"); err != nil {
		return nil, fmt.Errorf("upload document: %w", err)
	}
	log.Printf("uploaded document to %s/%s", s.sourceBucket, uploadKey)

	return &types.UploadDocumentResponse{
		FolderName:   folderName,
		DocumentName: documentName,
		Filename:     filename,
		UploadPath:   uploadKey,
		CreatedAt:    time.Now().Format(time.RFC3339),
	}, nil
}

func (s *documentService) ProcessDocument(ctx context.Context, bucket, key string) (*types.ProcessDocumentResponse, error) {
	if bucket != s.sourceBucket {
		log.Printf("ignoring notification from bucket %q (source bucket is %q)", bucket, s.sourceBucket)
		return nil, nil
	}

	decodedKey, err := url.QueryUnescape(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrMalformedUploadKey, err)
	}
	if !strings.HasPrefix(decodedKey, utils.UploadPrefix) {
		log.Printf("ignoring object outside the upload prefix: %q", decodedKey)
		return nil, nil
	}

	filename := path.Base(decodedKey)
	folderName, documentName, originalFilename, err := utils.SplitUploadFilename(filename)
	if err != nil {
		return nil, err
	}
	log.Printf("processing document: folder=%q document=%q file=%q", folderName, documentName, originalFilename)

	s.ensureDocumentStructure(ctx, folderName, documentName)

	localPath, err := s.downloadToScratch(ctx, bucket, decodedKey, originalFilename)
	if err != nil {
		return nil, fmt.Errorf("download document: %w", err)
	}
	defer os.Remove(localPath)

	result, err := s.parser.Parse(ctx, localPath)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	record := transformParseResult(result, folderName, documentName, originalFilename)
	payload, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode processed document: %w", err)
	}

	// Persist in a fixed order; a partial failure is not rolled back.
	targetUploadKey := utils.TargetUploadKey(folderName, documentName, originalFilename)
	if err := s.store.CopyObject(ctx, bucket, decodedKey, s.targetBucket, targetUploadKey); err != nil {
		return nil, fmt.Errorf("copy original to target bucket: %w", err)
	}
	if err := s.store.DeleteObject(ctx, bucket, decodedKey); err != nil {
		return nil, fmt.Errorf("delete staged original: %w", err)
	}
	resultKey := utils.ProcessedResultKey(folderName, documentName)
	if err := s.store.PutObject(ctx, s.targetBucket, resultKey, payload, "application/json"); err != nil {
		return nil, fmt.Errorf("store processed document: %w", err)
	}
	// Indexing copy back in the staging bucket.
	if err := s.store.PutObject(ctx, bucket, utils.StagingResultKey(folderName, documentName), payload, "application/json"); err != nil {
		return nil, fmt.Errorf("store indexing copy: %w", err)
	}
	log.Printf("processed document stored at %s/%s", s.targetBucket, resultKey)

	return &types.ProcessDocumentResponse{
		FolderName:       folderName,
		DocumentName:     documentName,
		OriginalFilename: originalFilename,
		SourceBucket:     s.sourceBucket,
		TargetBucket:     s.targetBucket,
		ResultPath:       resultKey,
	}, nil
}

// ListDocuments returns every document folder under the given folder,
// enriched with the processed record's metadata where one exists.
func (s *documentService) ListDocuments(ctx context.Context, folderName string) ([]types.DocumentInfo, error) {
	exists, err := s.folders.FolderExists(ctx, folderName)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrFolderNotFound, folderName)
	}

	res, err := s.store.ListObjects(ctx, s.targetBucket, utils.FolderPrefix(folderName), "", 0)
	if err != nil {
		return nil, fmt.Errorf("list documents in folder %q: %w", folderName, err)
	}

	// First pass: processed records carry the document metadata.
	processed := make(map[string]types.DocumentInfo)
	for _, entry := range res.Entries {
		if !strings.Contains(entry.Key, "/processed/") || !strings.HasSuffix(entry.Key, "_result.json") {
			continue
		}
		parts := strings.Split(entry.Key, "/")
		if len(parts) < 4 {
			continue
		}
		documentName := parts[1]
		data, err := s.store.GetObject(ctx, s.targetBucket, entry.Key)
		if err != nil {
			log.Printf("read processed record %q (skipped): %v", entry.Key, err)
			continue
		}
		var record types.ProcessedDocument
		if err := json.Unmarshal(data, &record); err != nil {
			log.Printf("parse processed record %q (skipped): %v", entry.Key, err)
			continue
		}
		fileType := record.Metadata.FileType
		if fileType == "" {
			fileType = "application/pdf"
		}
		processed[documentName] = types.DocumentInfo{
			ID:               documentName,
			Title:            documentName,
			CreatedAt:        record.CreatedAt,
			TotalPages:       len(record.Pages),
			FileType:         fileType,
			OriginalFilename: record.OriginalFilename,
			IsProcessed:      true,
			ProcessedKey:     entry.Key,
		}
	}

	// Second pass: every key of the form {folder}/{document}/... names a
	// document folder, processed or not.
	documentFolders := make(map[string]struct{})
	for _, entry := range res.Entries {
		if strings.Count(entry.Key, "/") < 2 {
			continue
		}
		parts := strings.SplitN(entry.Key, "/", 3)
		if len(parts) >= 2 && parts[1] != "" {
			documentFolders[parts[1]] = struct{}{}
		}
	}

	documents := make([]types.DocumentInfo, 0, len(documentFolders))
	for documentName := range documentFolders {
		if info, ok := processed[documentName]; ok {
			documents = append(documents, info)
			continue
		}
		documents = append(documents, types.DocumentInfo{
			ID:          documentName,
			Title:       documentName,
			FileType:    "application/pdf",
			IsProcessed: false,
		})
	}

	// Newest first; documents without a creation date sort last.
	sort.SliceStable(documents, func(i, j int) bool {
		return sortDate(documents[i].CreatedAt) > sortDate(documents[j].CreatedAt)
	})
	return documents, nil
}

// IsProcessed derives the processed state from the existence of the
// document's result object; there is no stored status field.
func (s *documentService) IsProcessed(ctx context.Context, folderName, documentName string) (bool, error) {
	res, err := s.store.ListObjects(ctx, s.targetBucket, utils.ProcessedResultKey(folderName, documentName), "", 1)
	if err != nil {
		return false, err
	}
	return len(res.Entries) > 0, nil
}

// ensureDocumentStructure creates any missing prefix of the document's
// four-folder layout. Failures on individual prefixes are logged and
// skipped so the caller can continue.
func (s *documentService) ensureDocumentStructure(ctx context.Context, folderName, documentName string) {
	for _, prefix := range utils.DocumentPrefixes(folderName, documentName) {
		res, err := s.store.ListObjects(ctx, s.targetBucket, prefix, "", 1)
		if err != nil {
			log.Printf("check prefix %q: %v", prefix, err)
			continue
		}
		if len(res.Entries) > 0 {
			continue
		}
		if err := s.store.PutObject(ctx, s.targetBucket, prefix, nil, ""); err != nil {
			log.Printf("create prefix %q: %v", prefix, err)
		}
	}
}

func (s *documentService) downloadToScratch(ctx context.Context, bucket, key, filename string) (string, error) {
	data, err := s.store.GetObject(ctx, bucket, key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.scratchDir, 0o755); err != nil {
		return "", err
	}
	localPath := filepath.Join(s.scratchDir, filepath.Base(filename))
	if err := os.WriteFile(localPath, data, 0o644); err != nil {
		return "", err
	}
	return localPath, nil
}

// transformParseResult groups the API's flat element list by page,
// preserving encounter order within a page, and sorts pages ascending.
func transformParseResult(result *types.ParseResult, folderName, documentName, originalFilename string) *types.ProcessedDocument {
	grouped := make(map[int][]types.PageElement)
	for _, element := range result.Elements {
		page := element.Page
		if page == 0 {
			page = 1
		}
		category := element.Category
		if category == "" {
			category = "unknown"
		}
		grouped[page] = append(grouped[page], types.PageElement{
			Category: category,
			Markdown: element.Content.Markdown,
		})
	}

	pageNumbers := make([]int, 0, len(grouped))
	for page := range grouped {
		pageNumbers = append(pageNumbers, page)
	}
	sort.Ints(pageNumbers)

	pages := make([]types.DocumentPage, 0, len(pageNumbers))
	for _, page := range pageNumbers {
		pages = append(pages, types.DocumentPage{
			Page:     page,
			Contents: grouped[page],
		})
	}

	createdAt := time.Now().UTC().Format(time.RFC3339)
	return &types.ProcessedDocument{
		FolderName:       folderName,
		DocumentName:     documentName,
		OriginalFilename: originalFilename,
		CreatedAt:        createdAt,
		Metadata: types.DocumentMetadata{
			APIVersion:  result.API,
			Model:       result.Model,
			TotalPages:  result.Usage.Pages,
			FileType:    "application/pdf",
			Indexed:     false,
			LastUpdated: createdAt,
		},
		Pages: pages,
	}
}

// sortDate is the sort key for createdAt strings; empty dates compare
// lowest so they land at the end of a newest-first listing.
func sortDate(date string) string {
	if date == "" {
		return "0"
	}
	return date
}
