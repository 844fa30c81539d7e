// internal/config/constants.go
package config

// アプリケーション情報
const (
	AppName    = "SkillTrack"
	AppVersion = "1.0.0"
)

// デフォルト設定値
const (
	DefaultServerPort       = ":8080"
	DefaultLogLevel         = "info"
	DefaultJWTExpiryMinutes = 60 * 24
)

// 学習トラックの集計定数。
// スキルマップとスキルプログラムは同じエンジンを使い、
// 閾値とマイルストーン集合だけがトラックごとに異なります。
const (
	// 1日を「達成」とみなす累計学習時間 (分)
	DayCompletionThresholdMinutes = 30

	// スキルプログラムの日数
	SkillProgramDays = 30

	// 週あたり学習時間のデフォルト (完了予定日の算出用)
	DefaultHoursPerWeek = 10.0
)

// 連続学習日数のバッジマイルストーン
var (
	SkillMapStreakMilestones     = []int{3, 7, 14, 30}
	SkillProgramStreakMilestones = []int{3, 7, 14, 21, 30}
)

// ダッシュボード集計の定数
const (
	RecentActivityDays = 7
	UpcomingPerRecord  = 3
	UpcomingTotalLimit = 5
)

// ノード深さ別の固定カテゴリ名 (深さ3以上は最後のカテゴリに入る)
var SkillCategoryNames = []string{
	"Core Fundamentals",     // depth 0
	"Practical Application", // depth 1
	"Advanced Techniques",   // depth 2
	"Expert Level",          // depth >= 3
}
