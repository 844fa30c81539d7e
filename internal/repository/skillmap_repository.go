//go:generate mockery --name SkillMapRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"go_skill_track/internal/middleware"
	"go_skill_track/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SkillMapRepository はスキルマップ本体のストアです。
// コアの集計側からはノードカタログ (名前・見積時間・深さ) の読み取りにだけ使われます。
type SkillMapRepository interface {
	Create(ctx context.Context, tx *gorm.DB, skillMap *model.SkillMap) error
	FindByID(ctx context.Context, db *gorm.DB, skillMapID uuid.UUID) (*model.SkillMap, error)
	FindAllByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]*model.SkillMap, error)
}

type gormSkillMapRepository struct{}

func NewGormSkillMapRepository() SkillMapRepository {
	return &gormSkillMapRepository{}
}

func (r *gormSkillMapRepository) Create(ctx context.Context, tx *gorm.DB, skillMap *model.SkillMap) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(skillMap)
	if result.Error != nil {
		logger.Error("Error creating skill map in DB",
			"error", result.Error,
			"user_id", skillMap.UserID.String(),
			"root_skill", skillMap.RootSkill,
		)
		return fmt.Errorf("gormSkillMapRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormSkillMapRepository) FindByID(ctx context.Context, db *gorm.DB, skillMapID uuid.UUID) (*model.SkillMap, error) {
	logger := middleware.GetLogger(ctx)
	var skillMap model.SkillMap
	result := db.WithContext(ctx).Where("skill_map_id = ?", skillMapID).First(&skillMap)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding skill map by ID in DB",
			"error", result.Error,
			"skill_map_id", skillMapID.String(),
		)
		return nil, fmt.Errorf("gormSkillMapRepository.FindByID: %w", result.Error)
	}
	return &skillMap, nil
}

func (r *gormSkillMapRepository) FindAllByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]*model.SkillMap, error) {
	logger := middleware.GetLogger(ctx)
	var skillMaps []*model.SkillMap
	result := db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&skillMaps)
	if result.Error != nil {
		logger.Error("Error finding skill maps by user in DB",
			"error", result.Error,
			"user_id", userID.String(),
		)
		return nil, fmt.Errorf("gormSkillMapRepository.FindAllByUser: %w", result.Error)
	}
	return skillMaps, nil
}
