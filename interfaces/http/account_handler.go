package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"clipcast/domain/dto"
	"clipcast/domain/model"
	"clipcast/domain/repository"
	"clipcast/infrastructure/logger"
)

type ISocialAccountHandler interface {
	List(ctx *gin.Context)
	Disconnect(ctx *gin.Context)
}

type SocialAccountHandler struct {
	accounts repository.ISocialAccount
}

func NewSocialAccountHandler(accounts repository.ISocialAccount) ISocialAccountHandler {
	return &SocialAccountHandler{accounts: accounts}
}

// List returns the caller's active connections. Summaries only; token
// material never leaves the persistence layer.
func (h *SocialAccountHandler) List(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	if userID == "" {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthorized"})
		return
	}

	accounts, err := h.accounts.List(ctx.Request.Context(), userID)
	if err != nil {
		logger.GetLogger().WithError(err).Error("listing social accounts failed")
		writeError(ctx, err)
		return
	}
	if accounts == nil {
		accounts = []*model.SocialAccountSummary{}
	}

	ctx.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

// Disconnect deactivates one of the caller's connections. The row survives
// for audit; only is_active flips.
func (h *SocialAccountHandler) Disconnect(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	if userID == "" {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthorized"})
		return
	}

	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		writeError(ctx, model.NewPublishError(model.ErrKindValidation, "account id must be numeric"))
		return
	}

	if err := h.accounts.Deactivate(ctx.Request.Context(), id, userID); err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}
