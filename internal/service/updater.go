// internal/service/updater.go
package service

import (
	"time"

	"go_skill_track/internal/model"

	"gorm.io/datatypes"
)

// updateOutcome は1回のノード更新で起きたことの要約です。
// 通知やログはこれを見て判断します。
type updateOutcome struct {
	NodeCompleted     bool // このノードが今回初めて100%に達した
	DayFirstCompleted bool // 今日のバケットが今回初めて達成に変わった
	AwardedBadges     []model.Badge
}

// applyNodeUpdate は読み込み済みの進捗レコードに1ノード分の更新を適用します。
// 入力の検証はいかなる変更よりも先に行い、不正な入力ではレコードに触れません。
//
// 適用順は ノード状態 → 全体達成率の再計算 → 日次バケット → バッジ です。
// 達成率は差分更新ではなく、ノード集合から毎回計算し直します。
func applyNodeUpdate(record *model.ProgressRecord, nodeID, nodeName string, completion float64, minutes int, notes *string, now time.Time, cfg TrackConfig) (*updateOutcome, error) {
	if completion < 0 || completion > 100 {
		return nil, model.ErrInvalidInput
	}
	if minutes < 0 {
		return nil, model.ErrInvalidInput
	}

	nodes := record.NodeProgress.Data()
	np, ok := nodes[nodeID]
	if !ok {
		return nil, model.ErrNotFound
	}

	outcome := &updateOutcome{}
	previous := np.CompletionPercentage

	np.CompletionPercentage = completion
	np.TimeSpent += minutes // 累計。減算はしない

	// 初めて0%を超えたときだけ着手時刻を記録する
	if np.StartedAt == nil && previous == 0 && completion > 0 {
		startedAt := now
		np.StartedAt = &startedAt
	}

	// 100%への初回到達でのみ完了時刻を記録し、完了バッジを付与する
	if np.CompletedAt == nil && completion >= 100 {
		completedAt := now
		np.CompletedAt = &completedAt
		outcome.NodeCompleted = true

		badge := newSkillCompleteBadge(nodeID, nodeName, now)
		if awardIfMissing(record, badge) {
			outcome.AwardedBadges = append(outcome.AwardedBadges, badge)
		}
	}

	if notes != nil {
		np.Notes = *notes
	}

	nodes[nodeID] = np
	record.NodeProgress = datatypes.NewJSONType(nodes)
	record.OverallCompletionRate = completionRate(nodes)

	// 学習時間を今日の日次バケットへ送る
	outcome.DayFirstCompleted = recordMinutes(record, now, minutes, cfg)
	if outcome.DayFirstCompleted {
		outcome.AwardedBadges = append(outcome.AwardedBadges, checkStreakBadges(record, cfg, now)...)
	}

	record.LastActivity = now

	return outcome, nil
}

// completionRate は100%到達ノードの割合を返します。ノードが無い場合は0。
func completionRate(nodes map[string]model.NodeProgress) float64 {
	if len(nodes) == 0 {
		return 0
	}
	completed := 0
	for _, np := range nodes {
		if np.CompletionPercentage >= 100 {
			completed++
		}
	}
	return 100 * float64(completed) / float64(len(nodes))
}
