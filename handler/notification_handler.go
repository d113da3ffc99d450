package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/ai-tutor-be/service"
	"github.com/tieubaoca/ai-tutor-be/types"
	"github.com/tieubaoca/ai-tutor-be/utils"
)

// NotificationHandler receives object-created notifications from the
// staging bucket and feeds them into the ingestion pipeline.
type NotificationHandler struct {
	documentService service.DocumentService
}

func NewNotificationHandler(documentService service.DocumentService) *NotificationHandler {
	return &NotificationHandler{
		documentService: documentService,
	}
}

func (h *NotificationHandler) HandleDocumentUploaded(c *gin.Context) {
	var event types.UploadNotification
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid notification body",
		})
		return
	}
	if len(event.Records) == 0 {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "No records in event",
		})
		return
	}

	record := event.Records[0]
	resp, err := h.documentService.ProcessDocument(c.Request.Context(), record.S3.Bucket.Name, record.S3.Object.Key)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, utils.ErrMalformedUploadKey) {
			status = http.StatusBadRequest
		}
		c.JSON(status, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}
	if resp == nil {
		// Foreign bucket or a key outside the upload prefix.
		c.JSON(http.StatusOK, types.DataResponse{
			Status:  true,
			Message: "Notification ignored",
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   resp,
	})
}
