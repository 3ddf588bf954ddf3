package prediction

import (
	"context"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/commodity"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/scheduler"
	"go.uber.org/zap"
)

// JobExecutor runs scheduler jobs against the training and pipeline services
type JobExecutor struct {
	training *TrainingService
	pipeline *PipelineService
	logger   *zap.Logger
}

// NewJobExecutor creates a new JobExecutor
func NewJobExecutor(training *TrainingService, pipeline *PipelineService, logger *zap.Logger) *JobExecutor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JobExecutor{training: training, pipeline: pipeline, logger: logger}
}

// Execute implements scheduler.JobExecutor
func (e *JobExecutor) Execute(ctx context.Context, job *scheduler.Job) error {
	switch job.Type {
	case scheduler.JobTypeRetrain:
		resp, err := e.training.Train(ctx, commodity.Trigger(job.Trigger))
		if err != nil {
			return err
		}
		e.logger.Info("Retrain job finished",
			zap.String("job_id", job.ID.String()),
			zap.String("model_type", resp.ModelType),
			zap.Float64("r2", resp.Metrics.R2),
		)
		return nil
	case scheduler.JobTypePipeline:
		_, err := e.pipeline.Run(ctx, job.Records)
		return err
	default:
		return scheduler.ErrUnknownJobType
	}
}
