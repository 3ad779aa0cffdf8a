package handlers

import (
	"net/http"

	directoryRepo "citaflow/database/repository/directory"
	"citaflow/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BlacklistRequest struct {
	Number string `json:"number" binding:"required"`
	// Action is "add" or "remove"; empty defaults to add.
	Action string `json:"action"`
}

type BlacklistHandler struct {
	Directory directoryRepo.DirectoryRepository
}

func NewBlacklistHandler(directory directoryRepo.DirectoryRepository) *BlacklistHandler {
	return &BlacklistHandler{Directory: directory}
}

func (h *BlacklistHandler) UpdateHandler(c *gin.Context) {
	var req BlacklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "number is required", err.Error())
		return
	}

	var err error
	switch req.Action {
	case "", "add":
		err = h.Directory.AddToBlacklist(c.Request.Context(), req.Number)
	case "remove":
		err = h.Directory.RemoveFromBlacklist(c.Request.Context(), req.Number)
	default:
		utils.JSONError(c, http.StatusBadRequest, "action must be add or remove", req.Action)
		return
	}
	if err != nil {
		utils.GetLogger().Error("blacklist update failed",
			zap.String("number", req.Number), zap.String("action", req.Action), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to update blacklist", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
