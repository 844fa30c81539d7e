// internal/model/progress.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// BadgeCategory はバッジの種別
type BadgeCategory string

const (
	BadgeSkillCompletion BadgeCategory = "skill-completion"
	BadgeStreak          BadgeCategory = "streak"
)

// NodeProgress は1ノード分の進捗を表します
type NodeProgress struct {
	NodeID               string     `json:"node_id"`
	CompletionPercentage float64    `json:"completion_percentage"` // 0〜100
	TimeSpent            int        `json:"time_spent"`            // 累計分数。減少しない
	StartedAt            *time.Time `json:"started_at,omitempty"`  // 初めて0%を超えた時刻。一度だけ設定
	CompletedAt          *time.Time `json:"completed_at,omitempty"` // 初めて100%に達した時刻。一度だけ設定
	Notes                string     `json:"notes,omitempty"`
}

// DayBucket は暦日単位の活動集計です。日付はUTCの0時に切り詰めて保持します。
type DayBucket struct {
	Date         time.Time `json:"date"`
	MinutesSpent int       `json:"minutes_spent"`
	Completed    bool      `json:"completed"` // 閾値到達後はfalseに戻らない
}

// Badge は獲得済みの実績。付与後は変更・削除されません。
type Badge struct {
	ID          string        `json:"id"` // 例: skill-complete-<nodeId>, streak-<n>
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Category    BadgeCategory `json:"category"`
	EarnedAt    time.Time     `json:"earned_at"`
}

// ProgressRecord は (ユーザー, スキルマップ) ごとの進捗ドキュメントです。
// ノード進捗・日次活動・バッジはJSONカラムとして保持し、
// レコード単位のread-modify-writeで更新します。
type ProgressRecord struct {
	RecordID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"record_id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index:idx_user_map,unique" json:"user_id"`
	SkillMapID    uuid.UUID `gorm:"type:uuid;not null;index:idx_user_map,unique" json:"skill_map_id"`
	Kind          TrackKind `gorm:"type:varchar(20);not null" json:"kind"`
	NodeProgress  datatypes.JSONType[map[string]NodeProgress] `gorm:"not null" json:"node_progress"`
	DailyActivity datatypes.JSONSlice[DayBucket]              `json:"daily_activity"`
	Badges        datatypes.JSONSlice[Badge]                  `json:"badges"`

	StartDate             time.Time `gorm:"not null" json:"start_date"` // 作成時に設定、以後不変
	LastActivity          time.Time `gorm:"not null;index" json:"last_activity"`
	DaysCompleted         int       `gorm:"not null;default:0" json:"days_completed"`
	StreakDays            int       `gorm:"not null;default:0" json:"streak_days"`
	LongestStreak         int       `gorm:"not null;default:0" json:"longest_streak"`
	OverallCompletionRate float64   `gorm:"not null;default:0" json:"overall_completion_rate"` // ノード集合から毎回再計算する派生値

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ProgressRecord) TableName() string {
	return "progress_records"
}

// 進捗トラッキング開始リクエストDTO
type InitializeProgressRequest struct {
	SkillMapID uuid.UUID `json:"skill_map_id" validate:"required"`
}

// ノード進捗更新リクエストDTO
// CompletionPercentage と TimeSpentMinutes はゼロ値と未指定を区別するためポインタにする
type UpdateProgressRequest struct {
	CompletionPercentage *float64 `json:"completion_percentage" validate:"required"`
	TimeSpentMinutes     *int     `json:"time_spent_minutes" validate:"required"`
	Notes                *string  `json:"notes,omitempty" validate:"omitempty,max=2000"`
}
