// internal/model/skillmap.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// TrackKind は学習トラックの種類 (ツリー状のスキルマップ / 30日間のスキルプログラム)
type TrackKind string

const (
	TrackSkillMap     TrackKind = "skill-map"
	TrackSkillProgram TrackKind = "skill-program"
)

// SkillResource は学習ノードに紐づく教材情報
type SkillResource struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	URL         string `json:"url,omitempty"`
	Description string `json:"description,omitempty"`
}

// SkillNode はスキルマップを構成する1つの学習単位
type SkillNode struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	EstimatedHours float64         `json:"estimated_hours"`
	ParentID       string          `json:"parent_id,omitempty"`
	Children       []string        `json:"children,omitempty"`
	Resources      []SkillResource `json:"resources,omitempty"`
	Depth          int             `json:"depth"` // ツリーの深さ (0 = ルート)
}

// SkillMap は生成サービスが返した学習トラックを保存するドキュメントです。
// ノード集合は nodeId をキーにしたマップとしてJSONカラムに保持します。
type SkillMap struct {
	SkillMapID             uuid.UUID                              `gorm:"type:uuid;primaryKey" json:"skill_map_id"`
	UserID                 uuid.UUID                              `gorm:"type:uuid;not null;index" json:"user_id"`
	Kind                   TrackKind                              `gorm:"type:varchar(20);not null" json:"kind"`
	RootSkill              string                                 `gorm:"not null" json:"root_skill"`
	Nodes                  datatypes.JSONType[map[string]SkillNode] `gorm:"not null" json:"nodes"`
	TotalEstimatedHours    float64                                `json:"total_estimated_hours"`
	ExpectedCompletionDate time.Time                              `json:"expected_completion_date"`
	CreatedAt              time.Time                              `json:"created_at"`
	UpdatedAt              time.Time                              `json:"updated_at"`
}

func (SkillMap) TableName() string {
	return "skill_maps"
}

// スキルマップ生成リクエストDTO
type CreateSkillMapRequest struct {
	SkillName    string  `json:"skill_name" validate:"required,min=1,max=200"`
	Kind         string  `json:"kind" validate:"omitempty,oneof=skill-map skill-program"`
	HoursPerWeek float64 `json:"hours_per_week" validate:"omitempty,gt=0"`
}
