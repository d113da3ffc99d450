package utils

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
)

// Objects are laid out under flat key prefixes:
//
//	{folder}/
//	{folder}/{document}/upload/
//	{folder}/{document}/processed/
//	{folder}/{document}/chat/
//
// Staged uploads carry folder and document in the filename itself:
// upload/{folder}___{document}___{original_filename}

const (
	// UploadKeyDelimiter separates folder, document and filename in a
	// staged upload key. It must appear exactly twice.
	UploadKeyDelimiter = "___"

	// UploadPrefix is the staging-bucket prefix watched for new files.
	UploadPrefix = "upload/"
)

var ErrMalformedUploadKey = errors.New("malformed upload key")

// Allowed folder names: 2-50 characters of latin letters, digits, hangul,
// underscore, hyphen and spaces.
var folderNamePattern = regexp.MustCompile(`^[a-zA-Z0-9가-힣_\-\s]{2,50}$`)

// ValidateFolderName reports whether name is an acceptable folder name.
// Names that are only whitespace are rejected even when they match the
// pattern and length bounds.
func ValidateFolderName(name string) bool {
	if !folderNamePattern.MatchString(name) {
		return false
	}
	return strings.TrimSpace(name) != ""
}

// SplitUploadFilename splits a staged upload filename of the form
// {folder}___{document}___{filename} into its three parts.
func SplitUploadFilename(filename string) (folderName, documentName, originalFilename string, err error) {
	parts := strings.SplitN(filename, UploadKeyDelimiter, 3)
	if len(parts) != 3 {
		return "", "", "", fmt.Errorf("%w: %q", ErrMalformedUploadKey, filename)
	}
	return parts[0], parts[1], parts[2], nil
}

// BuildUploadKey returns the staging-bucket key for a new upload.
func BuildUploadKey(folderName, documentName, originalFilename string) string {
	return UploadPrefix + folderName + UploadKeyDelimiter + documentName + UploadKeyDelimiter + originalFilename
}

// FolderPrefix returns the key prefix that represents a topic folder.
func FolderPrefix(folderName string) string {
	return folderName + "/"
}

// DocumentPrefixes returns the four prefixes that make up a document's
// structure, ordered root first.
func DocumentPrefixes(folderName, documentName string) []string {
	root := fmt.Sprintf("%s/%s/", folderName, documentName)
	return []string{
		root,
		root + "upload/",
		root + "processed/",
		root + "chat/",
	}
}

// ProcessedPrefix returns the prefix listed when counting a folder's
// processed documents.
func ProcessedPrefix(folderName string) string {
	return folderName + "/processed/"
}

// ProcessedResultKey returns the key of a document's processed record in
// the target bucket. Its existence is what marks a document as processed.
func ProcessedResultKey(folderName, documentName string) string {
	return fmt.Sprintf("%s/%s/processed/%s_result.json", folderName, documentName, documentName)
}

// StagingResultKey returns the key of the indexing copy of a processed
// record written back to the staging bucket.
func StagingResultKey(folderName, documentName string) string {
	return fmt.Sprintf("processed/%s_%s_result.json", folderName, documentName)
}

// TargetUploadKey returns the key the original file is copied to once a
// document has been processed.
func TargetUploadKey(folderName, documentName, originalFilename string) string {
	return fmt.Sprintf("%s/%s/upload/%s", folderName, documentName, originalFilename)
}

// MetadataKey returns the key of a folder's optional metadata object.
func MetadataKey(folderName string) string {
	return folderName + "/metadata.json"
}

// DocumentNameFromFilename derives the logical document name from an
// uploaded filename by stripping the extension.
func DocumentNameFromFilename(filename string) string {
	base := path.Base(filename)
	return strings.TrimSuffix(base, path.Ext(base))
}

// SummaryKey returns the sibling markdown key for a processed record key.
func SummaryKey(documentKey string) string {
	if idx := strings.LastIndex(documentKey, "."); idx >= 0 {
		return documentKey[:idx] + ".md"
	}
	return documentKey + ".md"
}
