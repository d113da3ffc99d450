package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/tieubaoca/ai-tutor-be/database"
	"github.com/tieubaoca/ai-tutor-be/types"
	"github.com/tieubaoca/ai-tutor-be/utils"
)

var (
	ErrInvalidFolderName = errors.New("invalid folder name")
	ErrFolderExists      = errors.New("folder already exists")
	ErrFolderNotFound    = errors.New("folder not found")
)

// FolderService manages topic folders, which exist only as key prefixes
// in the target bucket.
type FolderService interface {
	CreateFolder(ctx context.Context, name, description string) (*types.FolderInfo, error)
	ListFolders(ctx context.Context) ([]types.FolderInfo, error)
	FolderExists(ctx context.Context, name string) (bool, error)
}

type folderService struct {
	store  database.ObjectStore
	bucket string
}

func NewFolderService(store database.ObjectStore, bucket string) FolderService {
	return &folderService{
		store:  store,
		bucket: bucket,
	}
}

// CreateFolder validates the name, checks for an existing folder and puts
// a zero-length marker object at the folder prefix. The existence check
// and the creation are not transactional; two concurrent creators of the
// same name can both succeed.
func (s *folderService) CreateFolder(ctx context.Context, name, description string) (*types.FolderInfo, error) {
	name = strings.TrimSpace(name)
	if !utils.ValidateFolderName(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFolderName, name)
	}

	exists, err := s.FolderExists(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %q", ErrFolderExists, name)
	}

	if err := s.store.PutObject(ctx, s.bucket, utils.FolderPrefix(name), nil, ""); err != nil {
		return nil, fmt.Errorf("create folder %q: %w", name, err)
	}

	return &types.FolderInfo{
		Name:          name,
		Description:   description,
		CreatedAt:     time.Now().Format(time.RFC3339),
		DocumentCount: 0,
	}, nil
}

// ListFolders enumerates the top-level prefixes of the target bucket,
// counts each folder's processed documents and merges the optional
// metadata object, ordered by document count descending.
func (s *folderService) ListFolders(ctx context.Context) ([]types.FolderInfo, error) {
	res, err := s.store.ListObjects(ctx, s.bucket, "", "/", 0)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}

	folders := make([]types.FolderInfo, 0, len(res.CommonPrefixes))
	for _, prefix := range res.CommonPrefixes {
		folderName := strings.TrimSuffix(prefix, "/")
		info := types.FolderInfo{
			Name:          folderName,
			DocumentCount: s.documentCount(ctx, folderName),
		}
		s.mergeMetadata(ctx, &info)
		folders = append(folders, info)
	}

	sort.SliceStable(folders, func(i, j int) bool {
		return folders[i].DocumentCount > folders[j].DocumentCount
	})
	return folders, nil
}

// FolderExists checks the folder prefix with a single-entry listing.
func (s *folderService) FolderExists(ctx context.Context, name string) (bool, error) {
	res, err := s.store.ListObjects(ctx, s.bucket, utils.FolderPrefix(name), "", 1)
	if err != nil {
		return false, fmt.Errorf("check folder %q: %w", name, err)
	}
	return len(res.Entries) > 0, nil
}

// documentCount lists the folder's processed/ prefix and subtracts one for
// the prefix marker itself. Listing errors degrade to a zero count.
func (s *folderService) documentCount(ctx context.Context, folderName string) int {
	res, err := s.store.ListObjects(ctx, s.bucket, utils.ProcessedPrefix(folderName), "/", 0)
	if err != nil {
		log.Printf("count documents in folder %q: %v", folderName, err)
		return 0
	}
	if len(res.Entries) == 0 {
		return 0
	}
	return len(res.Entries) - 1
}

// mergeMetadata fills description and creation time from the folder's
// optional metadata.json. The object is hand-maintained and may be absent
// or malformed; failures are logged and ignored.
func (s *folderService) mergeMetadata(ctx context.Context, info *types.FolderInfo) {
	data, err := s.store.GetObject(ctx, s.bucket, utils.MetadataKey(info.Name))
	if err != nil {
		if !errors.Is(err, database.ErrObjectNotFound) {
			log.Printf("read metadata for folder %q (ignored): %v", info.Name, err)
		}
		return
	}
	var metadata struct {
		Description string `json:"description"`
		CreatedAt   string `json:"createdAt"`
	}
	if err := json.Unmarshal(data, &metadata); err != nil {
		log.Printf("parse metadata for folder %q (ignored): %v", info.Name, err)
		return
	}
	info.Description = metadata.Description
	info.CreatedAt = metadata.CreatedAt
}
