package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/designmill-backend/internal/logger"
	"github.com/yungbote/designmill-backend/internal/repos"
	"github.com/yungbote/designmill-backend/internal/services"
)

type RunHandler struct {
	log      *logger.Logger
	pipeline services.PipelineService
	history  repos.HistoryRepo
}

func NewRunHandler(log *logger.Logger, pipeline services.PipelineService, history repos.HistoryRepo) *RunHandler {
	return &RunHandler{
		log:      log.With("handler", "RunHandler"),
		pipeline: pipeline,
		history:  history,
	}
}

type triggerRunRequest struct {
	Title      string `json:"title"`
	RandomSeed int64  `json:"random_seed"`
	ForceNew   bool   `json:"force_new"`
}

// POST /api/runs
// Trigger one pipeline run synchronously. 409 while another run is in
// flight.
func (h *RunHandler) TriggerRun(c *gin.Context) {
	var req triggerRunRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if raw := c.Query("random_seed"); raw != "" {
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_seed", err)
			return
		}
		req.RandomSeed = seed
	}
	if title := c.Query("title"); title != "" {
		req.Title = title
	}
	if c.Query("force_new") == "true" {
		req.ForceNew = true
	}

	jobKey := time.Now().UTC().Format("2006-01-02T150405")
	res, err := h.pipeline.RunOnce(c.Request.Context(), services.RunOptions{
		JobKey:     jobKey,
		Title:      req.Title,
		RandomSeed: req.RandomSeed,
		ForceNew:   req.ForceNew,
	})
	if errors.Is(err, services.ErrRunInProgress) {
		RespondError(c, http.StatusConflict, "run_in_progress", err)
		return
	}
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		RespondError(c, http.StatusUnprocessableEntity, "invalid_prompt", verr)
		return
	}
	if err != nil {
		h.log.Error("Run trigger failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "run_failed", err)
		return
	}
	RespondCreated(c, res)
}

// GET /api/runs
func (h *RunHandler) ListRuns(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	runs, err := h.history.ListDesignRuns(c.Request.Context(), limit)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	RespondOK(c, runs)
}

// GET /api/runs/:id
func (h *RunHandler) GetRun(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	run, err := h.history.GetDesignRun(c.Request.Context(), id)
	if err != nil {
		RespondError(c, http.StatusNotFound, "run_not_found", err)
		return
	}
	RespondOK(c, run)
}
