package handler

import (
	"errors"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/commodity"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/scheduler"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// JobQueue runs retrain and pipeline jobs in the background
type JobQueue interface {
	Submit(jobType scheduler.JobType, trigger string, opts ...scheduler.JobOption) (scheduler.Job, error)
	Get(id uuid.UUID) (scheduler.Job, error)
}

// JobHandler handles background job endpoints
type JobHandler struct {
	BaseHandler
	queue JobQueue
}

// NewJobHandler creates a new JobHandler
func NewJobHandler(queue JobQueue) *JobHandler {
	return &JobHandler{queue: queue}
}

// Retrain godoc
// @ID           enqueueRetrain
// @Summary      Enqueue a retrain
// @Description  Queues a background retrain and returns the job to poll
// @Tags         jobs
// @Produce      json
// @Security     BearerAuth
// @Success      202 {object} Envelope[scheduler.Job]
// @Failure      401 {object} ErrorEnvelope
// @Failure      503 {object} ErrorEnvelope
// @Router       /api/v1/jobs/retrain [post]
func (h *JobHandler) Retrain(c *gin.Context) {
	h.submit(c, scheduler.JobTypeRetrain)
}

// Pipeline godoc
// @ID           enqueuePipeline
// @Summary      Enqueue a pipeline run
// @Description  Queues a background data pipeline run and returns the job to poll
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body PipelineRequest false "Pipeline options"
// @Success      202 {object} Envelope[scheduler.Job]
// @Failure      400 {object} ErrorEnvelope
// @Failure      401 {object} ErrorEnvelope
// @Failure      503 {object} ErrorEnvelope
// @Router       /api/v1/jobs/pipeline [post]
func (h *JobHandler) Pipeline(c *gin.Context) {
	var req PipelineRequest
	if c.Request.ContentLength != 0 && !h.BindJSON(c, &req) {
		return
	}
	h.submit(c, scheduler.JobTypePipeline, scheduler.WithRecords(req.Records))
}

func (h *JobHandler) submit(c *gin.Context, jobType scheduler.JobType, opts ...scheduler.JobOption) {
	job, err := h.queue.Submit(jobType, string(commodity.TriggerAPI), opts...)
	switch {
	case err == nil:
		h.Accepted(c, job)
	case errors.Is(err, scheduler.ErrJobQueueFull):
		h.ServiceUnavailable(c, dto.ErrCodeQueueFull, "Job queue is full, try again later")
	case errors.Is(err, scheduler.ErrSchedulerNotRunning):
		h.ServiceUnavailable(c, dto.ErrCodeQueueFull, "Background jobs are not running")
	default:
		h.HandleError(c, err)
	}
}

// Get godoc
// @ID           getJob
// @Summary      Get a background job
// @Description  Returns the status of a queued, running or finished job
// @Tags         jobs
// @Produce      json
// @Param        id path string true "Job ID" format(uuid)
// @Success      200 {object} Envelope[scheduler.Job]
// @Failure      400 {object} ErrorEnvelope
// @Failure      404 {object} ErrorEnvelope
// @Router       /api/v1/jobs/{id} [get]
func (h *JobHandler) Get(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.ValidationError(c, []dto.ValidationDetail{{Field: "id", Message: "Invalid UUID format"}})
		return
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.ValidationError(c, []dto.ValidationDetail{{Field: "id", Message: "Invalid UUID format"}})
		return
	}

	job, err := h.queue.Get(id)
	if errors.Is(err, scheduler.ErrJobNotFound) {
		h.NotFound(c, "Job not found")
		return
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, job)
}
