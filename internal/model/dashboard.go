// internal/model/dashboard.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// ActivityPoint は直近の活動量の1日分 (日付昇順で返す)
type ActivityPoint struct {
	Date    time.Time `json:"date"`
	Minutes int       `json:"minutes"`
}

// SkillMapSummary はダッシュボードに表示するトラックごとの概要
type SkillMapSummary struct {
	SkillMapID     uuid.UUID `json:"skill_map_id"`
	Name           string    `json:"name"` // マップが解決できない場合は "Unknown Skill"
	CompletionRate float64   `json:"completion_rate"`
	DaysCompleted  int       `json:"days_completed"`
	LastActivity   time.Time `json:"last_activity"`
}

// UpcomingSkill は着手済み・未完了ノードのうち完了間近のもの
type UpcomingSkill struct {
	SkillMapID                    uuid.UUID `json:"skill_map_id"`
	NodeID                        string    `json:"node_id"`
	Name                          string    `json:"name"`
	CompletionPercentage          float64   `json:"completion_percentage"`
	EstimatedTimeRemainingMinutes float64   `json:"estimated_time_remaining_minutes"`
}

// SkillCategorySummary はノード深さ別の固定4カテゴリの集計
type SkillCategorySummary struct {
	Name                 string `json:"name"`
	TotalNodes           int    `json:"total_nodes"`
	CompletedNodes       int    `json:"completed_nodes"`
	CompletionPercentage int    `json:"completion_percentage"` // round(100 * completed / total)。total=0なら0
}

// DashboardSummary は全進捗レコードを畳み込んだユーザー単位のサマリです。
// レコードが1件もない場合もエラーにせず、ゼロ値のサマリを返します。
type DashboardSummary struct {
	DaysCompleted         int                    `json:"days_completed"`
	StreakDays            int                    `json:"streak_days"`
	LongestStreak         int                    `json:"longest_streak"`
	BadgeCount            int                    `json:"badge_count"`
	OverallCompletionRate float64                `json:"overall_completion_rate"`
	RecentActivity        []ActivityPoint        `json:"recent_activity"`
	SkillMaps             []SkillMapSummary      `json:"skill_maps"`
	UpcomingSkills        []UpcomingSkill        `json:"upcoming_skills"`
	SkillCategories       []SkillCategorySummary `json:"skill_categories"`
}
