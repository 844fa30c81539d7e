// internal/service/track.go
package service

import (
	"time"

	"go_skill_track/internal/config"
	"go_skill_track/internal/model"
)

// TrackConfig は学習トラックごとの集計パラメータです。
// スキルマップとスキルプログラムで異なるのはこの値だけで、エンジン本体は共通です。
type TrackConfig struct {
	ThresholdMinutes int   // 1日を達成とみなす累計分数
	StreakMilestones []int // 連続日数バッジのマイルストーン
}

func TrackConfigFor(kind model.TrackKind) TrackConfig {
	switch kind {
	case model.TrackSkillProgram:
		return TrackConfig{
			ThresholdMinutes: config.DayCompletionThresholdMinutes,
			StreakMilestones: config.SkillProgramStreakMilestones,
		}
	default:
		return TrackConfig{
			ThresholdMinutes: config.DayCompletionThresholdMinutes,
			StreakMilestones: config.SkillMapStreakMilestones,
		}
	}
}

// truncateToDay は時刻をUTCの暦日 (0時) に切り詰めます。
// 日次バケットと連続日数の判定はすべてこの基準タイムゾーンで行います。
func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
