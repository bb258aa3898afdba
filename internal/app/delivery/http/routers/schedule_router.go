package routers

import (
	"telemed-schedule-service/internal/app/delivery/http/middlewares"
	"telemed-schedule-service/internal/app/services/core/schedules"

	"github.com/go-chi/chi/v5"
)

func attachScheduleRoutes(router chi.Router, m *middlewares.Middlewares, c *schedules.ScheduleController) {
	router.Get("/{scheduleType}", c.ListSchedules)
	router.Get("/{scheduleType}/{resourceID}", c.GetSchedule)
	router.Post("/{scheduleType}/{resourceID}", c.CreateDefaultSchedule)
	router.Put("/{scheduleType}/{resourceID}", c.SaveSchedule)
	router.Post("/{scheduleType}/{resourceID}/overrides", c.AddOverride)
	router.Post("/{scheduleType}/{resourceID}/closures", c.AddClosure)
	router.Get("/{scheduleType}/{resourceID}/availability", c.GetDayAvailability)
	router.Get("/{scheduleType}/{resourceID}/audit", c.GetAuditTrail)
}
