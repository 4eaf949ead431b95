package api

import (
	"fmt"
	"net/http"

	"alcyxob/reptrack/internal/domain"
	"alcyxob/reptrack/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ProgramHandler serves programs and their exercises.
type ProgramHandler struct {
	programService service.ProgramService
	log            logrus.FieldLogger
}

func NewProgramHandler(programService service.ProgramService, log logrus.FieldLogger) *ProgramHandler {
	return &ProgramHandler{programService: programService, log: log}
}

type ProgramRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type ExerciseRequest struct {
	Name     string `json:"name" binding:"required"`
	Sets     int    `json:"sets" binding:"gte=0"`
	Reps     int    `json:"reps" binding:"gte=0"`
	RestTime int    `json:"restTime" binding:"gte=0"`
	Notes    string `json:"notes"`
}

// ListPrograms returns all programs, or only the caller's with ?mine=true.
// @Router /programs [get]
func (h *ProgramHandler) ListPrograms(c *gin.Context) {
	var (
		programs []domain.Program
		err      error
	)
	if c.Query("mine") == "true" {
		userID, ok := mustUserID(c)
		if !ok {
			return
		}
		programs, err = h.programService.ListProgramsByTrainer(c.Request.Context(), userID)
	} else {
		programs, err = h.programService.ListPrograms(c.Request.Context())
	}
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if programs == nil {
		programs = []domain.Program{}
	}
	c.JSON(http.StatusOK, programs)
}

// CreateProgram godoc
// @Summary Create a program
// @Tags Programs
// @Security BearerAuth
// @Param program body ProgramRequest true "Program details"
// @Success 201 {object} domain.Program
// @Failure 403 {object} gin.H "Forbidden (not a trainer)"
// @Router /programs [post]
func (h *ProgramHandler) CreateProgram(c *gin.Context) {
	var req ProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	trainerID, ok := mustUserID(c)
	if !ok {
		return
	}

	program, err := h.programService.CreateProgram(c.Request.Context(), trainerID, req.Name, req.Description)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, program)
}

func (h *ProgramHandler) GetProgram(c *gin.Context) {
	program, err := h.programService.GetProgram(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, program)
}

func (h *ProgramHandler) UpdateProgram(c *gin.Context) {
	var req ProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	trainerID, ok := mustUserID(c)
	if !ok {
		return
	}

	program, err := h.programService.UpdateProgram(c.Request.Context(), trainerID, c.Param("id"), req.Name, req.Description)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, program)
}

func (h *ProgramHandler) DeleteProgram(c *gin.Context) {
	trainerID, ok := mustUserID(c)
	if !ok {
		return
	}
	if err := h.programService.DeleteProgram(c.Request.Context(), trainerID, c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProgramHandler) ListExercises(c *gin.Context) {
	exercises, err := h.programService.ListExercises(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if exercises == nil {
		exercises = []domain.Exercise{}
	}
	c.JSON(http.StatusOK, exercises)
}

func (h *ProgramHandler) AddExercise(c *gin.Context) {
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	trainerID, ok := mustUserID(c)
	if !ok {
		return
	}

	exercise, err := h.programService.AddExercise(c.Request.Context(), trainerID, c.Param("id"), service.ExerciseInput{
		Name:     req.Name,
		Sets:     req.Sets,
		Reps:     req.Reps,
		RestTime: req.RestTime,
		Notes:    req.Notes,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, exercise)
}

func (h *ProgramHandler) DeleteExercise(c *gin.Context) {
	trainerID, ok := mustUserID(c)
	if !ok {
		return
	}
	if err := h.programService.DeleteExercise(c.Request.Context(), trainerID, c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// JoinProgram copies the program into a workout plan for the caller.
// @Router /programs/{id}/join [post]
func (h *ProgramHandler) JoinProgram(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	plan, err := h.programService.JoinProgram(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}
