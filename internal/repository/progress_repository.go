//go:generate mockery --name ProgressRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"go_skill_track/internal/middleware"
	"go_skill_track/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ProgressRepository は進捗レコードの永続化を担います。
// コアはこれを単一ドキュメントのread-modify-writeストアとして扱い、
// レコードをまたぐトランザクションは前提にしません。
type ProgressRepository interface {
	Insert(ctx context.Context, tx *gorm.DB, record *model.ProgressRecord) error
	FindOne(ctx context.Context, db *gorm.DB, userID, skillMapID uuid.UUID) (*model.ProgressRecord, error)
	Save(ctx context.Context, tx *gorm.DB, record *model.ProgressRecord) error
	FindAllByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]*model.ProgressRecord, error)
}

type gormProgressRepository struct{}

func NewGormProgressRepository() ProgressRepository {
	return &gormProgressRepository{}
}

func (r *gormProgressRepository) Insert(ctx context.Context, tx *gorm.DB, record *model.ProgressRecord) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(record)
	if result.Error != nil {
		var pgErr *pgconn.PgError
		if errors.As(result.Error, &pgErr) && pgErr.Code == "23505" {
			// (user_id, skill_map_id) の複合ユニーク制約違反
			logger.Warn("Duplicate progress record on insert",
				"user_id", record.UserID.String(),
				"skill_map_id", record.SkillMapID.String(),
			)
			return model.ErrConflict
		}
		logger.Error("Error inserting progress record in DB",
			"error", result.Error,
			"user_id", record.UserID.String(),
			"skill_map_id", record.SkillMapID.String(),
		)
		return fmt.Errorf("gormProgressRepository.Insert: %w", result.Error)
	}
	return nil
}

func (r *gormProgressRepository) FindOne(ctx context.Context, db *gorm.DB, userID, skillMapID uuid.UUID) (*model.ProgressRecord, error) {
	logger := middleware.GetLogger(ctx)
	var record model.ProgressRecord
	result := db.WithContext(ctx).Where("user_id = ? AND skill_map_id = ?", userID, skillMapID).First(&record)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding progress record in DB",
			"error", result.Error,
			"user_id", userID.String(),
			"skill_map_id", skillMapID.String(),
		)
		return nil, fmt.Errorf("gormProgressRepository.FindOne: %w", result.Error)
	}
	return &record, nil
}

func (r *gormProgressRepository) Save(ctx context.Context, tx *gorm.DB, record *model.ProgressRecord) error {
	logger := middleware.GetLogger(ctx)
	// Saveは主キーに基づく全カラム更新。存在確認は呼び出し元(Service)で済んでいる想定
	result := tx.WithContext(ctx).Save(record)
	if result.Error != nil {
		logger.Error("Error saving progress record in DB",
			"error", result.Error,
			"record_id", record.RecordID.String(),
		)
		return fmt.Errorf("gormProgressRepository.Save: %w", result.Error)
	}
	return nil
}

func (r *gormProgressRepository) FindAllByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]*model.ProgressRecord, error) {
	logger := middleware.GetLogger(ctx)
	var records []*model.ProgressRecord
	result := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("last_activity DESC").
		Find(&records)
	if result.Error != nil {
		logger.Error("Error finding progress records by user in DB",
			"error", result.Error,
			"user_id", userID.String(),
		)
		return nil, fmt.Errorf("gormProgressRepository.FindAllByUser: %w", result.Error)
	}
	return records, nil
}
