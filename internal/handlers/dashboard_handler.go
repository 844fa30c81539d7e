// internal/handlers/dashboard_handler.go
package handlers

import (
	"log/slog"
	"net/http"

	"go_skill_track/internal/middleware"
	"go_skill_track/internal/model"
	"go_skill_track/internal/service"
	"go_skill_track/internal/webutil"
)

type DashboardHandler struct {
	service service.DashboardService
	logger  *slog.Logger
}

func NewDashboardHandler(s service.DashboardService, logger *slog.Logger) *DashboardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardHandler{
		service: s,
		logger:  logger,
	}
}

// GetDashboard はユーザー全体の学習サマリを返すハンドラ
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetDashboard"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	summary, err := h.service.GetDashboardData(r.Context(), userID)
	if err != nil {
		logger.Error("Error building dashboard in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Dashboard built successfully",
		slog.Int("skill_map_count", len(summary.SkillMaps)),
		slog.Int("badge_count", summary.BadgeCount),
	)
	webutil.RespondWithJSON(w, http.StatusOK, summary, logger)
}
