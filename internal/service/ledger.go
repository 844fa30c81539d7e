// internal/service/ledger.go
package service

import (
	"time"

	"go_skill_track/internal/model"
)

// recordMinutes は「今日」のバケットに学習時間を積み上げ、
// そのバケットが初めて達成閾値を超えた場合に連続日数と達成日数を更新します。
//
// 連続日数の判定は更新時刻ではなく暦日の連続性で行うため、
// 同じ日に何度更新しても結果は変わりません (2回目以降は分数の加算のみ)。
// 戻り値は今日が初めて達成に変わったかどうかです。
func recordMinutes(record *model.ProgressRecord, now time.Time, minutes int, cfg TrackConfig) bool {
	today := truncateToDay(now)

	idx := -1
	for i := range record.DailyActivity {
		if record.DailyActivity[i].Date.Equal(today) {
			idx = i
			break
		}
	}
	if idx == -1 {
		record.DailyActivity = append(record.DailyActivity, model.DayBucket{Date: today})
		idx = len(record.DailyActivity) - 1
	}

	bucket := &record.DailyActivity[idx]
	alreadyCompleted := bucket.Completed
	bucket.MinutesSpent += minutes

	// 達成済みの日は再評価しない (Completedはfalseに戻らない)
	if alreadyCompleted || bucket.MinutesSpent < cfg.ThresholdMinutes {
		return false
	}
	bucket.Completed = true

	// 前日のバケットが達成済みなら連続、そうでなければ1から数え直す
	yesterday := today.AddDate(0, 0, -1)
	if dayCompleted(record.DailyActivity, yesterday) {
		record.StreakDays++
	} else {
		record.StreakDays = 1
	}
	if record.StreakDays > record.LongestStreak {
		record.LongestStreak = record.StreakDays
	}

	// 各暦日は達成日数に一度だけ数える
	record.DaysCompleted++

	return true
}

func dayCompleted(buckets []model.DayBucket, day time.Time) bool {
	for i := range buckets {
		if buckets[i].Date.Equal(day) {
			return buckets[i].Completed
		}
	}
	return false
}
