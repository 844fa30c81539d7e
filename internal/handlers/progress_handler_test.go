// internal/handlers/progress_handler_test.go
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"go_skill_track/internal/handlers"
	"go_skill_track/internal/model"
	"go_skill_track/internal/service/mocks"
)

// 認証ミドルウェアの代わりにユーザーIDを直接コンテキストへ入れる
func withUserID(userID uuid.UUID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), model.UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newProgressRouter(userID uuid.UUID, svc *mocks.ProgressService) *chi.Mux {
	handler := handlers.NewProgressHandler(svc, nil)
	router := chi.NewRouter()
	router.Use(withUserID(userID))
	router.Post("/api/v1/progress", handler.PostProgress)
	router.Get("/api/v1/progress/{skill_map_id}", handler.GetProgress)
	router.Put("/api/v1/progress/{skill_map_id}/nodes/{node_id}", handler.PutNodeProgress)
	return router
}

func TestProgressHandler_PostProgress(t *testing.T) {
	userID := uuid.New()
	skillMapID := uuid.New()

	expectedRecord := &model.ProgressRecord{
		RecordID:      uuid.New(),
		UserID:        userID,
		SkillMapID:    skillMapID,
		Kind:          model.TrackSkillMap,
		NodeProgress:  datatypes.NewJSONType(map[string]model.NodeProgress{"node-a": {NodeID: "node-a"}}),
		DailyActivity: datatypes.JSONSlice[model.DayBucket]{},
		Badges:        datatypes.JSONSlice[model.Badge]{},
	}

	tests := []struct {
		name           string
		body           interface{}
		setupMock      func(svc *mocks.ProgressService)
		expectedStatus int
	}{
		{
			name: "正常系: 初期化成功で201",
			body: model.InitializeProgressRequest{SkillMapID: skillMapID},
			setupMock: func(svc *mocks.ProgressService) {
				svc.On("InitializeProgress", mock.Anything, userID, skillMapID).
					Return(expectedRecord, nil).Once()
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "異常系: 既に初期化済みなら409",
			body: model.InitializeProgressRequest{SkillMapID: skillMapID},
			setupMock: func(svc *mocks.ProgressService) {
				svc.On("InitializeProgress", mock.Anything, userID, skillMapID).
					Return(nil, model.NewAppError("CONFLICT", "この学習トラックの進捗は既に作成されています。", "", model.ErrConflict)).Once()
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "異常系: 壊れたJSONは400",
			body:           "{not-json",
			setupMock:      func(svc *mocks.ProgressService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mocks.ProgressService)
			router := newProgressRouter(userID, svc)
			tt.setupMock(svc)

			var buf bytes.Buffer
			if s, ok := tt.body.(string); ok {
				buf.WriteString(s)
			} else {
				require.NoError(t, json.NewEncoder(&buf).Encode(tt.body))
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/progress", &buf)
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestProgressHandler_PutNodeProgress(t *testing.T) {
	userID := uuid.New()
	skillMapID := uuid.New()
	completion := 60.0
	minutes := 45

	updatedRecord := &model.ProgressRecord{
		RecordID:   uuid.New(),
		UserID:     userID,
		SkillMapID: skillMapID,
		Kind:       model.TrackSkillMap,
		NodeProgress: datatypes.NewJSONType(map[string]model.NodeProgress{
			"node-a": {NodeID: "node-a", CompletionPercentage: completion, TimeSpent: minutes},
		}),
		DailyActivity:         datatypes.JSONSlice[model.DayBucket]{},
		Badges:                datatypes.JSONSlice[model.Badge]{},
		OverallCompletionRate: 0,
	}

	t.Run("正常系: 更新成功で200と更新後レコード", func(t *testing.T) {
		svc := new(mocks.ProgressService)
		router := newProgressRouter(userID, svc)

		reqBody := model.UpdateProgressRequest{
			CompletionPercentage: &completion,
			TimeSpentMinutes:     &minutes,
		}
		svc.On("UpdateSkillProgress", mock.Anything, userID, skillMapID, "node-a", &reqBody).
			Return(updatedRecord, nil).Once()

		var buf bytes.Buffer
		require.NoError(t, json.NewEncoder(&buf).Encode(reqBody))
		req := httptest.NewRequest(http.MethodPut, "/api/v1/progress/"+skillMapID.String()+"/nodes/node-a", &buf)
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var got model.ProgressRecord
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, updatedRecord.RecordID, got.RecordID)
		assert.Equal(t, completion, got.NodeProgress.Data()["node-a"].CompletionPercentage)

		svc.AssertExpectations(t)
	})

	t.Run("異常系: skill_map_idがUUIDでなければ400", func(t *testing.T) {
		svc := new(mocks.ProgressService)
		router := newProgressRouter(userID, svc)

		req := httptest.NewRequest(http.MethodPut, "/api/v1/progress/not-a-uuid/nodes/node-a", bytes.NewBufferString(`{}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "UpdateSkillProgress", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("異常系: 存在しないノードは404", func(t *testing.T) {
		svc := new(mocks.ProgressService)
		router := newProgressRouter(userID, svc)

		reqBody := model.UpdateProgressRequest{
			CompletionPercentage: &completion,
			TimeSpentMinutes:     &minutes,
		}
		svc.On("UpdateSkillProgress", mock.Anything, userID, skillMapID, "missing", &reqBody).
			Return(nil, model.NewAppError("NOT_FOUND", "指定されたノードはこのトラックに存在しません。", "node_id", model.ErrNotFound)).Once()

		var buf bytes.Buffer
		require.NoError(t, json.NewEncoder(&buf).Encode(reqBody))
		req := httptest.NewRequest(http.MethodPut, "/api/v1/progress/"+skillMapID.String()+"/nodes/missing", &buf)
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		svc.AssertExpectations(t)
	})
}

func TestProgressHandler_GetProgress(t *testing.T) {
	userID := uuid.New()
	skillMapID := uuid.New()

	t.Run("正常系: 取得成功で200", func(t *testing.T) {
		svc := new(mocks.ProgressService)
		router := newProgressRouter(userID, svc)

		record := &model.ProgressRecord{
			RecordID:      uuid.New(),
			UserID:        userID,
			SkillMapID:    skillMapID,
			Kind:          model.TrackSkillProgram,
			NodeProgress:  datatypes.NewJSONType(map[string]model.NodeProgress{}),
			DailyActivity: datatypes.JSONSlice[model.DayBucket]{},
			Badges:        datatypes.JSONSlice[model.Badge]{},
		}
		svc.On("GetProgress", mock.Anything, userID, skillMapID).Return(record, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/progress/"+skillMapID.String(), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("異常系: 未初期化は404", func(t *testing.T) {
		svc := new(mocks.ProgressService)
		router := newProgressRouter(userID, svc)

		svc.On("GetProgress", mock.Anything, userID, skillMapID).
			Return(nil, model.NewAppError("NOT_FOUND", "進捗レコードが見つかりません。", "", model.ErrNotFound)).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/progress/"+skillMapID.String(), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		svc.AssertExpectations(t)
	})
}
