package schedules

import (
	"context"
	"net/http"
	"telemed-schedule-service/internal/app/contracts"
	"telemed-schedule-service/internal/pkg/constvars"
	"telemed-schedule-service/internal/pkg/dto/requests"
	"telemed-schedule-service/internal/pkg/exceptions"
	"telemed-schedule-service/internal/pkg/utils"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type ScheduleController struct {
	Log             *zap.Logger
	ScheduleUsecase contracts.ScheduleUsecase
}

func NewScheduleController(logger *zap.Logger, scheduleUsecase contracts.ScheduleUsecase) *ScheduleController {
	return &ScheduleController{
		Log:             logger,
		ScheduleUsecase: scheduleUsecase,
	}
}

func (ctrl *ScheduleController) ListSchedules(w http.ResponseWriter, r *http.Request) {
	scheduleType := chi.URLParam(r, constvars.URLParamScheduleType)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	response, err := ctrl.ScheduleUsecase.ListScheduleRows(ctx, scheduleType)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResponseSchedulesListed, response)
}

func (ctrl *ScheduleController) GetSchedule(w http.ResponseWriter, r *http.Request) {
	scheduleType := chi.URLParam(r, constvars.URLParamScheduleType)
	resourceID := chi.URLParam(r, constvars.URLParamResourceID)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	response, err := ctrl.ScheduleUsecase.GetSchedule(ctx, scheduleType, resourceID)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResponseScheduleRetrieved, response)
}

func (ctrl *ScheduleController) CreateDefaultSchedule(w http.ResponseWriter, r *http.Request) {
	scheduleType := chi.URLParam(r, constvars.URLParamScheduleType)
	resourceID := chi.URLParam(r, constvars.URLParamResourceID)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	response, err := ctrl.ScheduleUsecase.CreateDefaultSchedule(ctx, scheduleType, resourceID)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.ResponseScheduleCreated, response)
}

func (ctrl *ScheduleController) SaveSchedule(w http.ResponseWriter, r *http.Request) {
	// Bind body to request
	request := new(requests.SaveScheduleRequest)
	err := json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	scheduleType := chi.URLParam(r, constvars.URLParamScheduleType)
	resourceID := chi.URLParam(r, constvars.URLParamResourceID)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	err = ctrl.ScheduleUsecase.SaveSchedule(ctx, scheduleType, resourceID, request)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResponseScheduleSaved, nil)
}

func (ctrl *ScheduleController) AddOverride(w http.ResponseWriter, r *http.Request) {
	// Bind body to request
	request := new(requests.AddOverrideRequest)
	err := json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	scheduleType := chi.URLParam(r, constvars.URLParamScheduleType)
	resourceID := chi.URLParam(r, constvars.URLParamResourceID)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	err = ctrl.ScheduleUsecase.AddOverride(ctx, scheduleType, resourceID, request)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResponseOverrideAdded, nil)
}

func (ctrl *ScheduleController) AddClosure(w http.ResponseWriter, r *http.Request) {
	// Bind body to request
	request := new(requests.AddClosureRequest)
	err := json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	scheduleType := chi.URLParam(r, constvars.URLParamScheduleType)
	resourceID := chi.URLParam(r, constvars.URLParamResourceID)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	err = ctrl.ScheduleUsecase.AddClosure(ctx, scheduleType, resourceID, request)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResponseClosureAdded, nil)
}

func (ctrl *ScheduleController) GetAuditTrail(w http.ResponseWriter, r *http.Request) {
	scheduleType := chi.URLParam(r, constvars.URLParamScheduleType)
	resourceID := chi.URLParam(r, constvars.URLParamResourceID)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	response, err := ctrl.ScheduleUsecase.GetAuditTrail(ctx, scheduleType, resourceID)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResponseAuditTrailRetrieved, response)
}

func (ctrl *ScheduleController) GetDayAvailability(w http.ResponseWriter, r *http.Request) {
	scheduleType := chi.URLParam(r, constvars.URLParamScheduleType)
	resourceID := chi.URLParam(r, constvars.URLParamResourceID)
	date := r.URL.Query().Get(constvars.URLQueryDate)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	response, err := ctrl.ScheduleUsecase.GetDayAvailability(ctx, scheduleType, resourceID, date)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResponseAvailabilityResolved, response)
}
