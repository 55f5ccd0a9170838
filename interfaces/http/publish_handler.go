package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clipcast/domain/dto"
	"clipcast/infrastructure/logger"
	"clipcast/usecase"
)

type IPublishHandler interface {
	Publish(ctx *gin.Context)
}

type PublishHandler struct {
	publishUsecase *usecase.PublishUsecase
}

func NewPublishHandler(publishUsecase *usecase.PublishUsecase) IPublishHandler {
	return &PublishHandler{publishUsecase: publishUsecase}
}

// Publish runs an immediate publish attempt and reports the terminal outcome
// in the response body.
func (h *PublishHandler) Publish(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	if userID == "" {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthorized"})
		return
	}

	var req dto.PublishRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithError(err).Warn("invalid publish request body")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "validation_failed", Details: "invalid request body"})
		return
	}

	resp, err := h.publishUsecase.PublishNow(ctx.Request.Context(), userID, &req)
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}
