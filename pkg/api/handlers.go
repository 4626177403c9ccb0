package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/goran-ethernal/BlockPipe/internal/logger"
	"github.com/goran-ethernal/BlockPipe/pkg/entity"
	"github.com/goran-ethernal/BlockPipe/pkg/listener"
	"github.com/goran-ethernal/BlockPipe/pkg/tasks"
)

// TaskCanceller cancels tasks that have not been processed yet.
type TaskCanceller interface {
	Cancel(ctx context.Context, kind entity.Kind, id uint64) error
}

// Handler handles HTTP requests for the API.
type Handler struct {
	network  string
	listener listener.Listener
	tasks    TaskCanceller
	log      *logger.Logger

	// ctx bounds background jobs started by requests
	ctx  context.Context
	jobs sync.WaitGroup
}

// NewHandler creates a new API handler. Long running jobs started through the
// API are bound to ctx rather than to the request.
func NewHandler(ctx context.Context, network string, l listener.Listener,
	taskCanceller TaskCanceller, log *logger.Logger) *Handler {
	return &Handler{
		network:  network,
		listener: l,
		tasks:    taskCanceller,
		log:      log,
		ctx:      ctx,
	}
}

// Health returns the health status of the pipeline.
// @Summary Health check
// @Description Get the health status of the pipeline
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse "Service is healthy"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Network:   h.network,
		Paused:    h.listener.IsPaused(),
	})
}

// Status returns the listener state.
// @Summary Listener status
// @Description Frontier, watermark and the pause, fill and restart flags of the block listener
// @Tags Blocks
// @Produce json
// @Success 200 {object} StatusResponse "Listener status"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /blocks/status [get]
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.listener.Status(r.Context())
	if err != nil {
		h.log.Errorf("failed to read listener status: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to read listener status")
		return
	}

	respondJSON(w, http.StatusOK, StatusResponse{Status: status, Network: h.network})
}

// Pause pauses the listener.
// @Summary Pause enqueueing
// @Description Stops the running fill at the next chunk boundary and drops frontier notifications
// @Tags Blocks
// @Produce json
// @Success 200 {object} ActionResponse
// @Router /blocks/pause [post]
func (h *Handler) Pause(w http.ResponseWriter, r *http.Request) {
	h.listener.Pause()
	respondJSON(w, http.StatusOK, ActionResponse{Action: "pause", Message: "listener paused"})
}

// Resume resumes the listener.
// @Summary Resume enqueueing
// @Tags Blocks
// @Produce json
// @Success 200 {object} ActionResponse
// @Router /blocks/resume [post]
func (h *Handler) Resume(w http.ResponseWriter, r *http.Request) {
	h.listener.Resume()
	respondJSON(w, http.StatusOK, ActionResponse{Action: "resume", Message: "listener resumed"})
}

// RestartUnprocessed re-publishes every unprocessed block task in the background.
// @Summary Restart unprocessed tasks
// @Description Re-publishes all not_processed block tasks to the processor queue
// @Tags Blocks
// @Produce json
// @Success 202 {object} ActionResponse "Restart started"
// @Failure 409 {object} ErrorResponse "Restart already running"
// @Router /blocks/restart-unprocessed [post]
func (h *Handler) RestartUnprocessed(w http.ResponseWriter, r *http.Request) {
	status, err := h.listener.Status(r.Context())
	if err == nil && status.Restarting {
		respondError(w, http.StatusConflict, listener.ErrRestartInProgress.Error())
		return
	}

	h.background("restart unprocessed", func(ctx context.Context) error {
		return h.listener.RestartUnprocessed(ctx, entity.Block)
	})

	respondJSON(w, http.StatusAccepted, ActionResponse{
		Action:  "restart-unprocessed",
		Message: "re-publishing unprocessed block tasks",
	})
}

// ProcessOne enqueues a single block.
// @Summary Enqueue one block
// @Description Creates and publishes the task of a single block without moving the watermark
// @Tags Blocks
// @Produce json
// @Param id path integer true "Block height"
// @Success 200 {object} ActionResponse
// @Failure 400 {object} ErrorResponse "Invalid block height"
// @Failure 409 {object} ErrorResponse "Fill already running"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /blocks/process/{id} [post]
func (h *Handler) ProcessOne(w http.ResponseWriter, r *http.Request) {
	id, err := pathUint(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.listener.ProcessOne(r.Context(), id); err != nil {
		h.respondListenerError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ActionResponse{
		Action:  "process",
		Message: fmt.Sprintf("block %d enqueued", id),
	})
}

// ProcessRange enqueues a range of blocks in the background.
// @Summary Enqueue a range of blocks
// @Description Creates and publishes the tasks of blocks from..to without moving the watermark
// @Tags Blocks
// @Produce json
// @Param from path integer true "First block height"
// @Param to path integer true "Last block height"
// @Success 202 {object} ActionResponse "Backfill started"
// @Failure 400 {object} ErrorResponse "Invalid range"
// @Failure 409 {object} ErrorResponse "Fill already running"
// @Router /blocks/process/{from}/{to} [post]
func (h *Handler) ProcessRange(w http.ResponseWriter, r *http.Request) {
	from, err := pathUint(r, "from")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	to, err := pathUint(r, "to")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if from > to {
		respondError(w, http.StatusBadRequest, listener.ErrInvalidRange.Error())
		return
	}

	status, err := h.listener.Status(r.Context())
	if err == nil && status.Filling {
		respondError(w, http.StatusConflict, listener.ErrFillInProgress.Error())
		return
	}

	h.background("process range", func(ctx context.Context) error {
		return h.listener.ProcessRange(ctx, from, to)
	})

	respondJSON(w, http.StatusAccepted, ActionResponse{
		Action:  "process-range",
		Message: fmt.Sprintf("enqueueing blocks %d-%d", from, to),
	})
}

// CancelTask cancels a not yet processed block task.
// @Summary Cancel a task
// @Description Moves a not_processed block task to cancelled so it is no longer restarted or reported
// @Tags Tasks
// @Produce json
// @Param id path integer true "Block height"
// @Success 200 {object} ActionResponse
// @Failure 400 {object} ErrorResponse "Invalid block height"
// @Failure 404 {object} ErrorResponse "Task not found"
// @Failure 409 {object} ErrorResponse "Task already finished"
// @Router /blocks/tasks/{id}/cancel [post]
func (h *Handler) CancelTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathUint(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = h.tasks.Cancel(r.Context(), entity.Block, id)
	switch {
	case errors.Is(err, tasks.ErrTaskNotFound):
		respondError(w, http.StatusNotFound, fmt.Sprintf("task %d not found", id))
	case errors.Is(err, tasks.ErrTaskNotCancellable):
		respondError(w, http.StatusConflict, fmt.Sprintf("task %d is already finished", id))
	case err != nil:
		h.log.Errorf("failed to cancel task %d: %v", id, err)
		respondError(w, http.StatusInternalServerError, "failed to cancel task")
	default:
		respondJSON(w, http.StatusOK, ActionResponse{Action: "cancel", Message: fmt.Sprintf("task %d cancelled", id)})
	}
}

// Wait blocks until background jobs started by requests have returned.
func (h *Handler) Wait() {
	h.jobs.Wait()
}

func (h *Handler) background(name string, job func(ctx context.Context) error) {
	h.jobs.Add(1)
	go func() {
		defer h.jobs.Done()

		if err := job(h.ctx); err != nil && !errors.Is(err, context.Canceled) {
			h.log.Errorw("background job failed", "job", name, "error", err)
			return
		}
		h.log.Infow("background job finished", "job", name)
	}()
}

func (h *Handler) respondListenerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, listener.ErrInvalidRange):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, listener.ErrFillInProgress), errors.Is(err, listener.ErrRestartInProgress):
		respondError(w, http.StatusConflict, err.Error())
	default:
		h.log.Errorf("listener request failed: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to enqueue tasks")
	}
}

func pathUint(r *http.Request, name string) (uint64, error) {
	value, err := strconv.ParseUint(r.PathValue(name), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: must be a non-negative integer", name)
	}
	return value, nil
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")

	// encode first so a failure can still change the status
	encoded, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	_, _ = w.Write(encoded)
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}
