package api

import (
	"fmt"
	"net/http"

	"alcyxob/reptrack/internal/domain"
	"alcyxob/reptrack/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ProgressHandler struct {
	progressService service.ProgressService
	log             logrus.FieldLogger
}

func NewProgressHandler(progressService service.ProgressService, log logrus.FieldLogger) *ProgressHandler {
	return &ProgressHandler{progressService: progressService, log: log}
}

type LogProgressRequest struct {
	ExerciseID string  `json:"exerciseId" binding:"required"`
	Date       int64   `json:"date"` // epoch millis, defaults to now
	Weight     float64 `json:"weight" binding:"gte=0"`
	RepsDone   int     `json:"repsDone" binding:"gte=0"`
	Notes      string  `json:"notes"`
}

func (h *ProgressHandler) LogProgress(c *gin.Context) {
	var req LogProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	entry, err := h.progressService.LogProgress(c.Request.Context(), userID, service.ProgressInput{
		ExerciseID: req.ExerciseID,
		Date:       req.Date,
		Weight:     req.Weight,
		RepsDone:   req.RepsDone,
		Notes:      req.Notes,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *ProgressHandler) History(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	logs, err := h.progressService.History(c.Request.Context(), userID)
	respondProgress(c, h.log, logs, err)
}

func (h *ProgressHandler) ExerciseHistory(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	logs, err := h.progressService.ExerciseHistory(c.Request.Context(), userID, c.Param("exerciseId"))
	respondProgress(c, h.log, logs, err)
}

func respondProgress(c *gin.Context, log logrus.FieldLogger, logs []domain.ProgressLog, err error) {
	if err != nil {
		respondError(c, log, err)
		return
	}
	if logs == nil {
		logs = []domain.ProgressLog{}
	}
	c.JSON(http.StatusOK, logs)
}
