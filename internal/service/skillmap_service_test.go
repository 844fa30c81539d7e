// internal/service/skillmap_service_test.go
package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go_skill_track/internal/model"
	"go_skill_track/internal/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// 常に失敗する生成サービスのスタブ
type failingGenerator struct{}

func (g *failingGenerator) Generate(ctx context.Context, req *GenerateRequest) (*GeneratedTrack, error) {
	return nil, errors.New("generator unavailable")
}

func Test_skillMapService_CreateSkillMap(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBProgress()
	fixedNow := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	userID := uuid.New()

	t.Run("正常系: 静的テンプレートからスキルマップを作成", func(t *testing.T) {
		mapRepo := new(mocks.SkillMapRepository)
		svc := NewSkillMapService(db, mapRepo, &StaticGenerator{}).(*skillMapService)
		svc.now = func() time.Time { return fixedNow }

		mapRepo.On("Create", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.SkillMap")).
			Return(nil).Once()

		skillMap, err := svc.CreateSkillMap(ctx, userID, &model.CreateSkillMapRequest{SkillName: "Go"})
		require.NoError(t, err)
		require.NotNil(t, skillMap)

		assert.Equal(t, userID, skillMap.UserID)
		assert.Equal(t, model.TrackSkillMap, skillMap.Kind, "kind省略時はスキルマップ")
		assert.Equal(t, "Go", skillMap.RootSkill)
		assert.NotEqual(t, uuid.Nil, skillMap.SkillMapID)

		nodes := skillMap.Nodes.Data()
		require.Contains(t, nodes, "root")
		require.Contains(t, nodes, "fundamentals")

		// 見積時間は葉ノードの合計 (親の時間は数えない)
		assert.Equal(t, float64(95), skillMap.TotalEstimatedHours)
		// 週10時間 (デフォルト) なら9.5週間後が完了予定
		wantCompletion := fixedNow.Add(time.Duration(9.5 * 7 * 24 * float64(time.Hour)))
		assert.WithinDuration(t, wantCompletion, skillMap.ExpectedCompletionDate, time.Minute)

		mapRepo.AssertExpectations(t)
	})

	t.Run("正常系: スキルプログラムは30個の日次ノード", func(t *testing.T) {
		mapRepo := new(mocks.SkillMapRepository)
		svc := NewSkillMapService(db, mapRepo, &StaticGenerator{}).(*skillMapService)
		svc.now = func() time.Time { return fixedNow }

		mapRepo.On("Create", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.SkillMap")).
			Return(nil).Once()

		skillMap, err := svc.CreateSkillMap(ctx, userID, &model.CreateSkillMapRequest{
			SkillName: "Rust",
			Kind:      string(model.TrackSkillProgram),
		})
		require.NoError(t, err)

		assert.Equal(t, model.TrackSkillProgram, skillMap.Kind)
		nodes := skillMap.Nodes.Data()
		assert.Len(t, nodes, 31, "ルート + 30日分")
		assert.Contains(t, nodes, "day-01")
		assert.Contains(t, nodes, "day-30")
		assert.Equal(t, float64(30), skillMap.TotalEstimatedHours)
	})

	t.Run("異常系: 生成サービスの失敗はUpstream扱いで何も保存されない", func(t *testing.T) {
		mapRepo := new(mocks.SkillMapRepository)
		svc := NewSkillMapService(db, mapRepo, &failingGenerator{}).(*skillMapService)
		svc.now = func() time.Time { return fixedNow }

		skillMap, err := svc.CreateSkillMap(ctx, userID, &model.CreateSkillMapRequest{SkillName: "Go"})
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrUpstream)
		assert.Nil(t, skillMap)

		mapRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("異常系: 保存失敗もUpstream扱い", func(t *testing.T) {
		mapRepo := new(mocks.SkillMapRepository)
		svc := NewSkillMapService(db, mapRepo, &StaticGenerator{}).(*skillMapService)
		svc.now = func() time.Time { return fixedNow }

		mapRepo.On("Create", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.SkillMap")).
			Return(assert.AnError).Once()

		skillMap, err := svc.CreateSkillMap(ctx, userID, &model.CreateSkillMapRequest{SkillName: "Go"})
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrUpstream)
		assert.Nil(t, skillMap)
	})
}

func Test_skillMapService_ListSkillMaps(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBProgress()
	userID := uuid.New()

	t.Run("正常系: 自分のスキルマップ一覧を返す", func(t *testing.T) {
		mapRepo := new(mocks.SkillMapRepository)
		svc := NewSkillMapService(db, mapRepo, &StaticGenerator{})

		first := newTestSkillMap(userID)
		second := newTestSkillMap(userID)
		mapRepo.On("FindAllByUser", ctx, mock.AnythingOfType("*gorm.DB"), userID).
			Return([]*model.SkillMap{second, first}, nil).Once()

		got, err := svc.ListSkillMaps(ctx, userID)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, second.SkillMapID, got[0].SkillMapID)
		assert.Equal(t, first.SkillMapID, got[1].SkillMapID)

		mapRepo.AssertExpectations(t)
	})

	t.Run("正常系: 1件もなければ空スライス", func(t *testing.T) {
		mapRepo := new(mocks.SkillMapRepository)
		svc := NewSkillMapService(db, mapRepo, &StaticGenerator{})

		mapRepo.On("FindAllByUser", ctx, mock.AnythingOfType("*gorm.DB"), userID).
			Return(nil, nil).Once()

		got, err := svc.ListSkillMaps(ctx, userID)
		require.NoError(t, err)
		assert.NotNil(t, got, "JSONで null にならないよう空スライスを返す")
		assert.Empty(t, got)
	})

	t.Run("異常系: ストア失敗はUpstream扱い", func(t *testing.T) {
		mapRepo := new(mocks.SkillMapRepository)
		svc := NewSkillMapService(db, mapRepo, &StaticGenerator{})

		mapRepo.On("FindAllByUser", ctx, mock.AnythingOfType("*gorm.DB"), userID).
			Return(nil, assert.AnError).Once()

		got, err := svc.ListSkillMaps(ctx, userID)
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrUpstream)
		assert.Nil(t, got)
	})
}

func Test_skillMapService_GetSkillMap(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBProgress()
	userID := uuid.New()
	skillMap := newTestSkillMap(userID)

	tests := []struct {
		name      string
		setupMock func(mapRepo *mocks.SkillMapRepository)
		wantErr   error
	}{
		{
			name: "正常系: 自分のスキルマップを取得",
			setupMock: func(mapRepo *mocks.SkillMapRepository) {
				mapRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), skillMap.SkillMapID).
					Return(skillMap, nil).Once()
			},
			wantErr: nil,
		},
		{
			name: "異常系: 存在しないスキルマップ",
			setupMock: func(mapRepo *mocks.SkillMapRepository) {
				mapRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), skillMap.SkillMapID).
					Return(nil, model.ErrNotFound).Once()
			},
			wantErr: model.ErrNotFound,
		},
		{
			name: "異常系: 他ユーザーのスキルマップはNotFound扱い",
			setupMock: func(mapRepo *mocks.SkillMapRepository) {
				otherMap := newTestSkillMap(uuid.New())
				otherMap.SkillMapID = skillMap.SkillMapID
				mapRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), skillMap.SkillMapID).
					Return(otherMap, nil).Once()
			},
			wantErr: model.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapRepo := new(mocks.SkillMapRepository)
			svc := NewSkillMapService(db, mapRepo, &StaticGenerator{})
			if tt.setupMock != nil {
				tt.setupMock(mapRepo)
			}

			got, err := svc.GetSkillMap(ctx, userID, skillMap.SkillMapID)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, skillMap.SkillMapID, got.SkillMapID)
			}
			mapRepo.AssertExpectations(t)
		})
	}
}
