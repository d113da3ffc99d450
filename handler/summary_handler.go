package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/ai-tutor-be/database"
	"github.com/tieubaoca/ai-tutor-be/service"
	"github.com/tieubaoca/ai-tutor-be/types"
)

type SummaryHandler struct {
	summaryService service.SummaryService
}

func NewSummaryHandler(summaryService service.SummaryService) *SummaryHandler {
	return &SummaryHandler{
		summaryService: summaryService,
	}
}

func (h *SummaryHandler) HandleSummarize(c *gin.Context) {
	documentID := c.Query("document_id")
	if documentID == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "document_id parameter is required",
		})
		return
	}

	resp, err := h.summaryService.Summarize(c.Request.Context(), documentID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, database.ErrObjectNotFound) {
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
