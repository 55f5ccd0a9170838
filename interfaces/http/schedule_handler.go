package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"clipcast/domain/dto"
	"clipcast/domain/model"
	"clipcast/infrastructure/logger"
	"clipcast/usecase"
)

type IScheduleHandler interface {
	Create(ctx *gin.Context)
	List(ctx *gin.Context)
	Retry(ctx *gin.Context)
	ProcessDue(ctx *gin.Context)
}

type ScheduleHandler struct {
	scheduleUsecase *usecase.ScheduleUsecase
}

func NewScheduleHandler(scheduleUsecase *usecase.ScheduleUsecase) IScheduleHandler {
	return &ScheduleHandler{scheduleUsecase: scheduleUsecase}
}

// Create registers a future publish. Targets are validated now; the upload
// itself happens when the due time passes.
func (h *ScheduleHandler) Create(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	if userID == "" {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthorized"})
		return
	}

	var req dto.ScheduleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithError(err).Warn("invalid schedule request body")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "validation_failed", Details: "invalid request body"})
		return
	}

	post, err := h.scheduleUsecase.Create(ctx.Request.Context(), userID, &req)
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"post": post})
}

// List returns the caller's posts sorted by scheduled time ascending,
// optionally filtered by status.
func (h *ScheduleHandler) List(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	if userID == "" {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthorized"})
		return
	}

	var status *model.PostStatus
	if raw := ctx.Query("status"); raw != "" {
		parsed, ok := model.ParsePostStatus(raw)
		if !ok {
			writeError(ctx, model.NewPublishErrorf(model.ErrKindValidation, "unknown status filter %q", raw))
			return
		}
		status = &parsed
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	resp, err := h.scheduleUsecase.List(ctx.Request.Context(), userID, status, page, limit)
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// Retry re-dispatches a failed post. The response only acknowledges the
// dispatch; the terminal status arrives via the list or the event stream.
func (h *ScheduleHandler) Retry(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	if userID == "" {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthorized"})
		return
	}

	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		writeError(ctx, model.NewPublishError(model.ErrKindValidation, "post id must be numeric"))
		return
	}

	resp, err := h.scheduleUsecase.Retry(ctx.Request.Context(), userID, id)
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// ProcessDue sweeps posts whose scheduled time has passed and dispatches
// each claimed one. Exposed for the operator cron; safe to call concurrently
// because claiming is a compare-and-swap.
func (h *ScheduleHandler) ProcessDue(ctx *gin.Context) {
	processed, err := h.scheduleUsecase.ProcessDue(ctx.Request.Context(), 50)
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"processed": processed})
}
