// internal/service/badge.go
package service

import (
	"fmt"
	"time"

	"go_skill_track/internal/model"
)

// awardIfMissing はIDが未登録の場合だけバッジを付与します。
// 付与済みIDに対しては何もしないため、同じイベントが再送されても二重付与になりません。
// 戻り値は新規に付与したかどうかです。
func awardIfMissing(record *model.ProgressRecord, badge model.Badge) bool {
	for i := range record.Badges {
		if record.Badges[i].ID == badge.ID {
			return false
		}
	}
	record.Badges = append(record.Badges, badge)
	return true
}

// newSkillCompleteBadge はノードが初めて100%に達したときのバッジを作ります
func newSkillCompleteBadge(nodeID, nodeName string, earnedAt time.Time) model.Badge {
	if nodeName == "" {
		nodeName = nodeID
	}
	return model.Badge{
		ID:          fmt.Sprintf("skill-complete-%s", nodeID),
		Name:        fmt.Sprintf("Skill Complete: %s", nodeName),
		Description: fmt.Sprintf("Completed 100%% of %s", nodeName),
		Category:    model.BadgeSkillCompletion,
		EarnedAt:    earnedAt,
	}
}

// newStreakBadge は連続学習日数マイルストーンのバッジを作ります
func newStreakBadge(days int, earnedAt time.Time) model.Badge {
	return model.Badge{
		ID:          fmt.Sprintf("streak-%d", days),
		Name:        fmt.Sprintf("%d-Day Streak", days),
		Description: fmt.Sprintf("Reached your daily goal %d days in a row", days),
		Category:    model.BadgeStreak,
		EarnedAt:    earnedAt,
	}
}

// checkStreakBadges は現在の連続日数がトラックのマイルストーンに一致していれば付与します
func checkStreakBadges(record *model.ProgressRecord, cfg TrackConfig, now time.Time) []model.Badge {
	var awarded []model.Badge
	for _, milestone := range cfg.StreakMilestones {
		if record.StreakDays == milestone {
			badge := newStreakBadge(milestone, now)
			if awardIfMissing(record, badge) {
				awarded = append(awarded, badge)
			}
		}
	}
	return awarded
}
