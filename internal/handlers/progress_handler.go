// internal/handlers/progress_handler.go
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

type ProgressHandler struct {
	service service.ProgressService
	logger  *slog.Logger
}

func NewProgressHandler(s service.ProgressService, logger *slog.Logger) *ProgressHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProgressHandler{
		service: s,
		logger:  logger,
	}
}

// PostProgress はスキルマップに対する進捗レコードを初期化するハンドラ
func (h *ProgressHandler) PostProgress(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostProgress"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	var req model.InitializeProgressRequest
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

	record, err := h.service.InitializeProgress(r.Context(), userID, req.SkillMapID)
	if err != nil {
		logger.Error("Error initializing progress in service", slog.Any("error", err), slog.Any("request", req))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Progress initialized successfully", slog.String("record_id", record.RecordID.String()))
	webutil.RespondWithJSON(w, http.StatusCreated, record, logger)
}

// GetProgress は特定のスキルマップの進捗レコードを取得するハンドラ
func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetProgress"))

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

	record, err := h.service.GetProgress(r.Context(), userID, skillMapID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Info("Progress record not found in service", slog.Any("error", err))
		} else {
			logger.Error("Error getting progress from service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Progress retrieved successfully")
	webutil.RespondWithJSON(w, http.StatusOK, record, logger)
}

// PutNodeProgress は1ノード分の進捗を更新するハンドラ
func (h *ProgressHandler) PutNodeProgress(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PutNodeProgress"))

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

	// ノードIDはUUIDではなく生成サービスが採番した文字列
	nodeID := chi.URLParam(r, "node_id")
	if nodeID == "" {
		logger.Warn("Empty node ID in URL")
		appErr := model.NewAppError("INVALID_URL_PARAM", "node_idが指定されていません。", "node_id", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("skill_map_id", skillMapID.String()), slog.String("node_id", nodeID))

	var req model.UpdateProgressRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	record, err := h.service.UpdateSkillProgress(r.Context(), userID, skillMapID, nodeID, &req)
	if err != nil {
		logger.Error("Error updating progress in service", slog.Any("error", err), slog.Any("request", req))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Progress updated successfully")
	webutil.RespondWithJSON(w, http.StatusOK, record, logger)
}
