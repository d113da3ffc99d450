package types

// PageElement is one extracted element of a document page.
type PageElement struct {
	Category string `json:"category"`
	Markdown string `json:"markdown"`
}

// DocumentPage groups the extracted elements of a single page.
// Pages are sorted ascending by page number in a processed document;
// page numbers are not required to be contiguous.
type DocumentPage struct {
	Page     int           `json:"page"`
	Contents []PageElement `json:"contents"`
}

type DocumentMetadata struct {
	APIVersion  string `json:"api_version"`
	Model       string `json:"model"`
	TotalPages  int    `json:"total_pages"`
	FileType    string `json:"file_type"`
	Indexed     bool   `json:"indexed"`
	LastUpdated string `json:"last_updated"`
}

// ProcessedDocument is the normalized per-page record persisted under a
// document's processed/ prefix after the parsing pipeline runs.
type ProcessedDocument struct {
	FolderName       string           `json:"folder_name"`
	DocumentName     string           `json:"document_name"`
	OriginalFilename string           `json:"original_filename"`
	CreatedAt        string           `json:"created_at"`
	Metadata         DocumentMetadata `json:"metadata"`
	Pages            []DocumentPage   `json:"pages"`
}
