// internal/handlers/skillmap_handler.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"go_skill_track/internal/middleware"
	"go_skill_track/internal/model"
	"go_skill_track/internal/service"
	"go_skill_track/internal/webutil"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type SkillMapHandler struct {
	service service.SkillMapService
	logger  *slog.Logger
}

func NewSkillMapHandler(s service.SkillMapService, logger *slog.Logger) *SkillMapHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SkillMapHandler{
		service: s,
		logger:  logger,
	}
}

// PostSkillMap は生成サービスを使って新しい学習トラックを作成するハンドラ
func (h *SkillMapHandler) PostSkillMap(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostSkillMap"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	var req model.CreateSkillMapRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	if err := webutil.Validator.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			logger.Warn("Validation failed", slog.Any("errors", validationErrors.Error()), slog.Any("request", req))
			appErr := webutil.NewValidationErrorResponse(validationErrors)
			webutil.HandleError(w, logger, appErr)
		} else {
			logger.Error("Unexpected error during validation", slog.Any("error", err))
			webutil.HandleError(w, logger, err)
		}
		return
	}

	skillMap, err := h.service.CreateSkillMap(r.Context(), userID, &req)
	if err != nil {
		logger.Error("Error creating skill map in service", slog.Any("error", err), slog.Any("request", req))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Skill map created successfully", slog.String("skill_map_id", skillMap.SkillMapID.String()))
	webutil.RespondWithJSON(w, http.StatusCreated, skillMap, logger)
}

// GetSkillMaps は自分のスキルマップ一覧を取得するハンドラ
func (h *SkillMapHandler) GetSkillMaps(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetSkillMaps"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	skillMaps, err := h.service.ListSkillMaps(r.Context(), userID)
	if err != nil {
		logger.Error("Error listing skill maps from service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Skill maps listed successfully", slog.Int("count", len(skillMaps)))
	webutil.RespondWithJSON(w, http.StatusOK, skillMaps, logger)
}

// GetSkillMap は特定のスキルマップを取得するハンドラ
func (h *SkillMapHandler) GetSkillMap(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetSkillMap"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	skillMapIDStr := chi.URLParam(r, "skill_map_id")
	skillMapID, err := uuid.Parse(skillMapIDStr)
	if err != nil {
		logger.Warn("Invalid skill map ID format in URL", slog.String("skill_map_id_str", skillMapIDStr), slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_URL_PARAM", "skill_map_idの形式が正しくありません。", "skill_map_id", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("skill_map_id", skillMapID.String()))

	skillMap, err := h.service.GetSkillMap(r.Context(), userID, skillMapID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Info("Skill map not found in service", slog.Any("error", err))
		} else {
			logger.Error("Error getting skill map from service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Skill map retrieved successfully")
	webutil.RespondWithJSON(w, http.StatusOK, skillMap, logger)
}
