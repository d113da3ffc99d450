package types

type DataResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type FolderInfo struct {
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	CreatedAt     string `json:"createdAt,omitempty"`
	DocumentCount int    `json:"documentCount"`
}

type ListFoldersResponse struct {
	Folders []FolderInfo `json:"folders"`
	Count   int          `json:"count"`
}

type DocumentInfo struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	CreatedAt        string `json:"createdAt"`
	TotalPages       int    `json:"totalPages"`
	FileType         string `json:"fileType"`
	OriginalFilename string `json:"original_filename,omitempty"`
	IsProcessed      bool   `json:"isProcessed"`
	ProcessedKey     string `json:"processedKey,omitempty"`
}

type ListDocumentsResponse struct {
	Documents  []DocumentInfo `json:"documents"`
	Count      int            `json:"count"`
	FolderName string         `json:"folderName"`
}

type UploadDocumentResponse struct {
	FolderName   string `json:"folder_name"`
	DocumentName string `json:"document_name"`
	Filename     string `json:"filename"`
	UploadPath   string `json:"upload_path"`
	CreatedAt    string `json:"created_at"`
}

type ProcessDocumentResponse struct {
	FolderName       string `json:"folder_name"`
	DocumentName     string `json:"document_name"`
	OriginalFilename string `json:"original_filename"`
	SourceBucket     string `json:"source_bucket"`
	TargetBucket     string `json:"target_bucket"`
	ResultPath       string `json:"result_path"`
}

type SummaryResponse struct {
	DocumentID   string `json:"document_id"`
	Summary      string `json:"summary"`
	MarkdownFile string `json:"markdown_file"`
}
