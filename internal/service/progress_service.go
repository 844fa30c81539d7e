// internal/service/progress_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go_skill_track/internal/middleware"
	"go_skill_track/internal/model"
	"go_skill_track/internal/repository"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProgressService interface {
	InitializeProgress(ctx context.Context, userID, skillMapID uuid.UUID) (*model.ProgressRecord, error)
	GetProgress(ctx context.Context, userID, skillMapID uuid.UUID) (*model.ProgressRecord, error)
	UpdateSkillProgress(ctx context.Context, userID, skillMapID uuid.UUID, nodeID string, req *model.UpdateProgressRequest) (*model.ProgressRecord, error)
}

type progressService struct {
	db       *gorm.DB
	progRepo repository.ProgressRepository
	mapRepo  repository.SkillMapRepository
	userRepo repository.UserRepository
	mailer   Mailer
	now      func() time.Time // テストで時刻を固定できるように差し替え可能にする
}

func NewProgressService(db *gorm.DB, progRepo repository.ProgressRepository, mapRepo repository.SkillMapRepository, userRepo repository.UserRepository, mailer Mailer) ProgressService {
	return &progressService{
		db:       db,
		progRepo: progRepo,
		mapRepo:  mapRepo,
		userRepo: userRepo,
		mailer:   mailer,
		now:      time.Now,
	}
}

// InitializeProgress は参照先のスキルマップから進捗レコードを作成します。
// 全ノードを0%で、今日のバケットを0分で初期化します。既に存在する場合はConflictです。
func (s *progressService) InitializeProgress(ctx context.Context, userID, skillMapID uuid.UUID) (*model.ProgressRecord, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID, "skill_map_id", skillMapID)

	skillMap, err := s.mapRepo.FindByID(ctx, s.db, skillMapID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("Skill map not found for progress initialization")
			return nil, model.NewAppError("NOT_FOUND", "スキルマップが見つかりません。", "skill_map_id", model.ErrNotFound)
		}
		logger.Error("Failed to load skill map", "error", err)
		return nil, model.NewAppError("UPSTREAM_FAILURE", "スキルマップの取得に失敗しました。", "", model.ErrUpstream)
	}
	// 他ユーザーのマップは存在しないものとして扱う
	if skillMap.UserID != userID {
		logger.Warn("Skill map belongs to another user")
		return nil, model.NewAppError("NOT_FOUND", "スキルマップが見つかりません。", "skill_map_id", model.ErrNotFound)
	}

	now := s.now()
	nodes := make(map[string]model.NodeProgress, len(skillMap.Nodes.Data()))
	for nodeID := range skillMap.Nodes.Data() {
		nodes[nodeID] = model.NodeProgress{NodeID: nodeID}
	}

	record := &model.ProgressRecord{
		RecordID:      uuid.New(),
		UserID:        userID,
		SkillMapID:    skillMapID,
		Kind:          skillMap.Kind,
		NodeProgress:  datatypes.NewJSONType(nodes),
		DailyActivity: datatypes.JSONSlice[model.DayBucket]{{Date: truncateToDay(now)}},
		Badges:        datatypes.JSONSlice[model.Badge]{},
		StartDate:     now,
		LastActivity:  now,
	}

	if err := s.progRepo.Insert(ctx, s.db, record); err != nil {
		if errors.Is(err, model.ErrConflict) {
			logger.Warn("Progress record already exists")
			return nil, model.NewAppError("CONFLICT", "この学習トラックの進捗は既に作成されています。", "", model.ErrConflict)
		}
		logger.Error("Failed to insert progress record", "error", err)
		return nil, model.NewAppError("UPSTREAM_FAILURE", "進捗レコードの作成に失敗しました。", "", model.ErrUpstream)
	}

	logger.Info("Progress record initialized", "record_id", record.RecordID, "node_count", len(nodes))
	return record, nil
}

func (s *progressService) GetProgress(ctx context.Context, userID, skillMapID uuid.UUID) (*model.ProgressRecord, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID, "skill_map_id", skillMapID)

	record, err := s.progRepo.FindOne(ctx, s.db, userID, skillMapID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("NOT_FOUND", "進捗レコードが見つかりません。", "", model.ErrNotFound)
		}
		logger.Error("Failed to load progress record", "error", err)
		return nil, model.NewAppError("UPSTREAM_FAILURE", "進捗レコードの取得に失敗しました。", "", model.ErrUpstream)
	}
	return record, nil
}

// UpdateSkillProgress は1ノード分の進捗更新を適用して保存します。
// 検証 → 読み込み → 更新適用 → 保存 の順で、不正な入力では一切書き込みません。
// 保存失敗時は更新全体が失敗として呼び出し元に返ります (分数の加算だけは再送で二重計上になる点に注意)。
func (s *progressService) UpdateSkillProgress(ctx context.Context, userID, skillMapID uuid.UUID, nodeID string, req *model.UpdateProgressRequest) (*model.ProgressRecord, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID, "skill_map_id", skillMapID, "node_id", nodeID)

	if req.CompletionPercentage == nil || *req.CompletionPercentage < 0 || *req.CompletionPercentage > 100 {
		logger.Warn("Invalid completion percentage")
		return nil, model.NewAppError("VALIDATION_ERROR", "達成率は0〜100で指定してください。", "completion_percentage", model.ErrInvalidInput)
	}
	if req.TimeSpentMinutes == nil || *req.TimeSpentMinutes < 0 {
		logger.Warn("Invalid time spent")
		return nil, model.NewAppError("VALIDATION_ERROR", "学習時間は0以上で指定してください。", "time_spent_minutes", model.ErrInvalidInput)
	}

	var record *model.ProgressRecord
	var outcome *updateOutcome

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		record, err = s.progRepo.FindOne(ctx, tx, userID, skillMapID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				logger.Warn("Progress record not found for update")
				return model.NewAppError("NOT_FOUND", "進捗レコードが見つかりません。先に初期化してください。", "", model.ErrNotFound)
			}
			logger.Error("Failed to load progress record for update", "error", err)
			return model.NewAppError("UPSTREAM_FAILURE", "進捗レコードの取得に失敗しました。", "", model.ErrUpstream)
		}

		// バッジ名の解決のためにノードカタログを引く。マップが消えていても更新自体は通す
		nodeName := ""
		if skillMap, mapErr := s.mapRepo.FindByID(ctx, tx, skillMapID); mapErr == nil {
			if node, ok := skillMap.Nodes.Data()[nodeID]; ok {
				nodeName = node.Name
			}
		}

		outcome, err = applyNodeUpdate(record, nodeID, nodeName, *req.CompletionPercentage, *req.TimeSpentMinutes, req.Notes, s.now(), TrackConfigFor(record.Kind))
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				logger.Warn("Node not found in progress record")
				return model.NewAppError("NOT_FOUND", "指定されたノードはこのトラックに存在しません。", "node_id", model.ErrNotFound)
			}
			return model.NewAppError("VALIDATION_ERROR", "進捗更新の入力が正しくありません。", "", model.ErrInvalidInput)
		}

		if err := s.progRepo.Save(ctx, tx, record); err != nil {
			logger.Error("Failed to save progress record", "error", err)
			return model.NewAppError("UPSTREAM_FAILURE", "進捗レコードの保存に失敗しました。", "", model.ErrUpstream)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Progress updated",
		"completion_rate", record.OverallCompletionRate,
		"streak_days", record.StreakDays,
		"new_badges", len(outcome.AwardedBadges),
	)

	// バッジ獲得通知はベストエフォート。失敗しても更新の成否には影響させない
	if len(outcome.AwardedBadges) > 0 {
		s.notifyBadges(ctx, userID, outcome.AwardedBadges)
	}

	return record, nil
}

func (s *progressService) notifyBadges(ctx context.Context, userID uuid.UUID, badges []model.Badge) {
	logger := middleware.GetLogger(ctx)

	user, err := s.userRepo.FindByID(ctx, s.db, userID)
	if err != nil {
		logger.Warn("Skipping badge notification, user lookup failed", "error", err)
		return
	}

	for _, badge := range badges {
		subject := fmt.Sprintf("新しいバッジを獲得しました: %s", badge.Name)
		body := fmt.Sprintf("%s さん\n\n「%s」を獲得しました。\n%s\n\nこの調子で学習を続けましょう。", user.Name, badge.Name, badge.Description)
		if err := s.mailer.Send(ctx, user.Email, subject, body); err != nil {
			logger.Warn("Failed to send badge notification email", "error", err, "badge_id", badge.ID)
		}
	}
}
