package handler

import (
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/ai-tutor-be/database"
	"github.com/tieubaoca/ai-tutor-be/service"
	"github.com/tieubaoca/ai-tutor-be/types"
)

type DocumentHandler struct {
	documentService service.DocumentService
}

func NewDocumentHandler(documentService service.DocumentService) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
	}
}

func (h *DocumentHandler) HandleListDocuments(c *gin.Context) {
	folderName := c.Param("id")
	if folderName == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Folder name is required",
		})
		return
	}

	documents, err := h.documentService.ListDocuments(c.Request.Context(), folderName)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFolderNotFound):
			c.JSON(http.StatusNotFound, types.DataResponse{
				Status:  false,
				Message: err.Error(),
			})
		case errors.Is(err, database.ErrAccessDenied):
			c.JSON(http.StatusForbidden, types.DataResponse{
				Status:  false,
				Message: err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, types.DataResponse{
				Status:  false,
				Message: err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data: types.ListDocumentsResponse{
			Documents:  documents,
			Count:      len(documents),
			FolderName: folderName,
		},
	})
}

func (h *DocumentHandler) HandleUploadDocument(c *gin.Context) {
	var req types.UploadDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid request body",
		})
		return
	}
	if req.FolderName == "" || req.FileContent == "" || req.Filename == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "folder_name, file_content and filename are all required",
		})
		return
	}

	content, err := base64.StdEncoding.DecodeString(req.FileContent)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "file_content must be base64 encoded",
		})
		return
	}

	resp, err := h.documentService.UploadDocument(c.Request.Context(), req.FolderName, req.Filename, content)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrFolderNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   resp,
	})
}
