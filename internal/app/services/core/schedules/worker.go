package schedules

import (
	"context"
	"telemed-schedule-service/internal/app/config"
	"telemed-schedule-service/internal/app/contracts"
	"telemed-schedule-service/internal/pkg/constvars"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Worker periodically walks every schedulable resource and re-reads its
// schedule through the usecase, keeping the cache warm so the admin table
// loads from redis instead of hammering the FHIR store.
type Worker struct {
	log             *zap.Logger
	cfg             *config.InternalConfig
	fhirClient      contracts.ResourceFhirClient
	scheduleUsecase contracts.ScheduleUsecase
	cron            *cron.Cron
	runCtx          context.Context
	cancel          context.CancelFunc
}

func NewWorker(log *zap.Logger, cfg *config.InternalConfig, fhirClient contracts.ResourceFhirClient, scheduleUsecase contracts.ScheduleUsecase) *Worker {
	return &Worker{log: log, cfg: cfg, fhirClient: fhirClient, scheduleUsecase: scheduleUsecase}
}

// Start begins the periodic loop. A no-op when cache warming is switched
// off in the config.
func (w *Worker) Start(ctx context.Context) {
	if !w.cfg.App.CacheWarmEnabled {
		w.log.Info("schedule.worker: cache warming disabled")
		return
	}
	w.runCtx, w.cancel = context.WithCancel(ctx)
	c := cron.New()
	spec := w.cfg.App.CacheWarmCronSpec
	_, err := c.AddFunc(spec, func() { w.runOnce(w.runCtx) })
	if err != nil {
		w.log.Warn("schedule.worker: failed to schedule with provided cron spec; falling back to @daily", zap.Error(err))
		c = cron.New()
		_, _ = c.AddFunc("@daily", func() { w.runOnce(w.runCtx) })
	}
	c.Start()
	w.cron = c
}

// Stop gracefully stops the worker cron and any in-flight run.
func (w *Worker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	if w.cron != nil {
		ctx := w.cron.Stop() // wait for running jobs to finish
		<-ctx.Done()
	}
}

func (w *Worker) runOnce(ctx context.Context) {
	scheduleTypes := map[string]string{
		constvars.ScheduleTypeOffice:   constvars.ResourceLocation,
		constvars.ScheduleTypeProvider: constvars.ResourcePractitioner,
		constvars.ScheduleTypeGroup:    constvars.ResourceHealthcareService,
	}

	for scheduleType, resourceType := range scheduleTypes {
		if ctx.Err() != nil {
			return
		}

		resources, err := w.fhirClient.SearchResources(ctx, resourceType)
		if err != nil {
			w.log.Warn("schedule.worker: resource search failed",
				zap.String("resourceType", resourceType),
				zap.Error(err),
			)
			continue
		}

		warmed := 0
		for i := range resources {
			if ctx.Err() != nil {
				return
			}
			if resources[i].FindExtension(constvars.ExtensionURLSchedule) == nil {
				continue
			}
			if _, err := w.scheduleUsecase.GetSchedule(ctx, scheduleType, resources[i].ID); err != nil {
				w.log.Warn("schedule.worker: cache warm failed",
					zap.String("resourceType", resourceType),
					zap.String("resourceId", resources[i].ID),
					zap.Error(err),
				)
				continue
			}
			warmed++
		}
		w.log.Info("schedule.worker: cache warm pass finished",
			zap.String("resourceType", resourceType),
			zap.Int("warmed", warmed),
		)
	}
}
