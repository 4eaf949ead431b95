package api

import (
	"fmt"
	"net/http"

	"alcyxob/reptrack/internal/domain"
	"alcyxob/reptrack/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type WorkoutPlanHandler struct {
	planService service.WorkoutPlanService
	log         logrus.FieldLogger
}

func NewWorkoutPlanHandler(planService service.WorkoutPlanService, log logrus.FieldLogger) *WorkoutPlanHandler {
	return &WorkoutPlanHandler{planService: planService, log: log}
}

type WorkoutPlanRequest struct {
	Name        string              `json:"name" binding:"required"`
	Description string              `json:"description"`
	DaysPerWeek int                 `json:"daysPerWeek" binding:"gte=0,lte=7"`
	FocusAreas  []string            `json:"focusAreas"`
	RestDays    []string            `json:"restDays"`
	Days        []domain.WorkoutDay `json:"days"`
}

func (h *WorkoutPlanHandler) CreatePlan(c *gin.Context) {
	var req WorkoutPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	plan, err := h.planService.CreatePlan(c.Request.Context(), userID, service.WorkoutPlanInput{
		Name:        req.Name,
		Description: req.Description,
		DaysPerWeek: req.DaysPerWeek,
		FocusAreas:  req.FocusAreas,
		RestDays:    req.RestDays,
		Days:        req.Days,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// ListPlans returns the caller's plans, or every plan with ?all=true.
func (h *WorkoutPlanHandler) ListPlans(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var (
		plans []domain.WorkoutPlan
		err   error
	)
	if c.Query("all") == "true" {
		plans, err = h.planService.ListAll(c.Request.Context())
	} else {
		plans, err = h.planService.ListForUser(c.Request.Context(), userID)
	}
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if plans == nil {
		plans = []domain.WorkoutPlan{}
	}
	c.JSON(http.StatusOK, plans)
}

func (h *WorkoutPlanHandler) GetPlan(c *gin.Context) {
	plan, err := h.planService.GetPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *WorkoutPlanHandler) JoinPlan(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	if err := h.planService.JoinPlan(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *WorkoutPlanHandler) LeavePlan(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	if err := h.planService.LeavePlan(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *WorkoutPlanHandler) DeletePlan(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	if err := h.planService.DeletePlan(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
