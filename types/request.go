package types

type CreateFolderRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UploadDocumentRequest struct {
	FolderName  string `json:"folder_name"`
	FileContent string `json:"file_content"`
	Filename    string `json:"filename"`
}

// UploadNotification mirrors the object-store event shape delivered when a
// file lands in the staging bucket.
type UploadNotification struct {
	Records []UploadNotificationRecord `json:"Records"`
}

type UploadNotificationRecord struct {
	S3 UploadNotificationEntity `json:"s3"`
}

type UploadNotificationEntity struct {
	Bucket UploadNotificationBucket `json:"bucket"`
	Object UploadNotificationObject `json:"object"`
}

type UploadNotificationBucket struct {
	Name string `json:"name"`
}

type UploadNotificationObject struct {
	Key string `json:"key"`
}
