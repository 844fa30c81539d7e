// internal/service/skillmap_service.go
package service

import (
	"context"
	"errors"
	"time"

	"go_skill_track/internal/config"
	"go_skill_track/internal/middleware"
	"go_skill_track/internal/model"
	"go_skill_track/internal/repository"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SkillMapService interface {
	CreateSkillMap(ctx context.Context, userID uuid.UUID, req *model.CreateSkillMapRequest) (*model.SkillMap, error)
	GetSkillMap(ctx context.Context, userID, skillMapID uuid.UUID) (*model.SkillMap, error)
	ListSkillMaps(ctx context.Context, userID uuid.UUID) ([]*model.SkillMap, error)
}

type skillMapService struct {
	db        *gorm.DB
	mapRepo   repository.SkillMapRepository
	generator Generator
	now       func() time.Time
}

func NewSkillMapService(db *gorm.DB, mapRepo repository.SkillMapRepository, generator Generator) SkillMapService {
	return &skillMapService{
		db:        db,
		mapRepo:   mapRepo,
		generator: generator,
		now:       time.Now,
	}
}

// CreateSkillMap は生成サービスを呼び出して学習トラックを作成・保存します。
// 生成か保存に失敗した場合は何も永続化されません。
func (s *skillMapService) CreateSkillMap(ctx context.Context, userID uuid.UUID, req *model.CreateSkillMapRequest) (*model.SkillMap, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID, "skill_name", req.SkillName)

	kind := model.TrackKind(req.Kind)
	if kind == "" {
		kind = model.TrackSkillMap
	}
	hoursPerWeek := req.HoursPerWeek
	if hoursPerWeek <= 0 {
		hoursPerWeek = config.DefaultHoursPerWeek
	}

	track, err := s.generator.Generate(ctx, &GenerateRequest{
		SkillName:    req.SkillName,
		Kind:         kind,
		HoursPerWeek: hoursPerWeek,
	})
	if err != nil {
		logger.Error("Track generation failed", "error", err)
		return nil, model.NewAppError("UPSTREAM_FAILURE", "学習トラックの生成に失敗しました。時間をおいて再度お試しください。", "", model.ErrUpstream)
	}

	now := s.now()
	totalHours := leafHours(track.Nodes)

	skillMap := &model.SkillMap{
		SkillMapID:             uuid.New(),
		UserID:                 userID,
		Kind:                   kind,
		RootSkill:              track.RootSkill,
		Nodes:                  datatypes.NewJSONType(track.Nodes),
		TotalEstimatedHours:    totalHours,
		ExpectedCompletionDate: expectedCompletion(now, totalHours, hoursPerWeek),
	}

	if err := s.mapRepo.Create(ctx, s.db, skillMap); err != nil {
		logger.Error("Failed to store skill map", "error", err)
		return nil, model.NewAppError("UPSTREAM_FAILURE", "スキルマップの保存に失敗しました。", "", model.ErrUpstream)
	}

	logger.Info("Skill map created",
		"skill_map_id", skillMap.SkillMapID,
		"kind", kind,
		"node_count", len(track.Nodes),
		"total_hours", totalHours,
	)
	return skillMap, nil
}

// GetSkillMap は自分のスキルマップを1件返します。他人のマップはNotFoundです。
func (s *skillMapService) GetSkillMap(ctx context.Context, userID, skillMapID uuid.UUID) (*model.SkillMap, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID, "skill_map_id", skillMapID)

	skillMap, err := s.mapRepo.FindByID(ctx, s.db, skillMapID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("NOT_FOUND", "スキルマップが見つかりません。", "skill_map_id", model.ErrNotFound)
		}
		logger.Error("Failed to load skill map", "error", err)
		return nil, model.NewAppError("UPSTREAM_FAILURE", "スキルマップの取得に失敗しました。", "", model.ErrUpstream)
	}
	if skillMap.UserID != userID {
		logger.Warn("Skill map belongs to another user")
		return nil, model.NewAppError("NOT_FOUND", "スキルマップが見つかりません。", "skill_map_id", model.ErrNotFound)
	}
	return skillMap, nil
}

// ListSkillMaps は自分のスキルマップを作成日時の降順で返します
func (s *skillMapService) ListSkillMaps(ctx context.Context, userID uuid.UUID) ([]*model.SkillMap, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID)

	skillMaps, err := s.mapRepo.FindAllByUser(ctx, s.db, userID)
	if err != nil {
		logger.Error("Failed to list skill maps", "error", err)
		return nil, model.NewAppError("UPSTREAM_FAILURE", "スキルマップ一覧の取得に失敗しました。", "", model.ErrUpstream)
	}
	if skillMaps == nil {
		skillMaps = []*model.SkillMap{}
	}
	return skillMaps, nil
}

// leafHours は子を持たないノードの見積もり時間を合計します。
// 親ノードの時間は子の内訳と重複するため数えません。
func leafHours(nodes map[string]model.SkillNode) float64 {
	var total float64
	for _, node := range nodes {
		if len(node.Children) == 0 {
			total += node.EstimatedHours
		}
	}
	return total
}

// expectedCompletion は週あたりの学習時間から完了予定日を概算します
func expectedCompletion(now time.Time, totalHours, hoursPerWeek float64) time.Time {
	weeksNeeded := totalHours / hoursPerWeek
	return now.Add(time.Duration(weeksNeeded * 7 * 24 * float64(time.Hour)))
}
