package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/ai-tutor-be/database"
	"github.com/tieubaoca/ai-tutor-be/service"
	"github.com/tieubaoca/ai-tutor-be/types"
)

type FolderHandler struct {
	folderService service.FolderService
}

func NewFolderHandler(folderService service.FolderService) *FolderHandler {
	return &FolderHandler{
		folderService: folderService,
	}
}

func (h *FolderHandler) HandleCreateFolder(c *gin.Context) {
	var req types.CreateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid request body",
		})
		return
	}

	info, err := h.folderService.CreateFolder(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidFolderName):
			c.JSON(http.StatusBadRequest, types.DataResponse{
				Status:  false,
				Message: "Invalid folder name: 2-50 characters of letters, digits, hangul, underscores, hyphens and spaces are allowed",
			})
		case errors.Is(err, service.ErrFolderExists):
			c.JSON(http.StatusConflict, types.DataResponse{
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

	c.JSON(http.StatusCreated, types.DataResponse{
		Status: true,
		Data:   info,
	})
}

func (h *FolderHandler) HandleListFolders(c *gin.Context) {
	folders, err := h.folderService.ListFolders(c.Request.Context())
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, database.ErrAccessDenied) {
			status = http.StatusForbidden
		}
		c.JSON(status, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data: types.ListFoldersResponse{
			Folders: folders,
			Count:   len(folders),
		},
	})
}
