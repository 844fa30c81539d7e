// internal/service/dashboard_service.go
package service

import (
	"context"
	"sort"
	"time"

	"go_skill_track/internal/config"
	"go_skill_track/internal/middleware"
	"go_skill_track/internal/model"
	"go_skill_track/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DashboardService interface {
	GetDashboardData(ctx context.Context, userID uuid.UUID) (*model.DashboardSummary, error)
}

type dashboardService struct {
	db       *gorm.DB
	progRepo repository.ProgressRepository
	mapRepo  repository.SkillMapRepository
	now      func() time.Time
}

func NewDashboardService(db *gorm.DB, progRepo repository.ProgressRepository, mapRepo repository.SkillMapRepository) DashboardService {
	return &dashboardService{
		db:       db,
		progRepo: progRepo,
		mapRepo:  mapRepo,
		now:      time.Now,
	}
}

// GetDashboardData はユーザーの全進捗レコードを1つのサマリに畳み込みます。
// レコードが無いユーザーにはゼロ値のサマリを返します (エラーではありません)。
// スキルマップが解決できないレコードはノード単位の集計からは外れますが、
// スカラー集計 (日数・連続日数・バッジ・達成率) には含まれます。
func (s *dashboardService) GetDashboardData(ctx context.Context, userID uuid.UUID) (*model.DashboardSummary, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID)

	records, err := s.progRepo.FindAllByUser(ctx, s.db, userID)
	if err != nil {
		logger.Error("Failed to load progress records for dashboard", "error", err)
		return nil, model.NewAppError("UPSTREAM_FAILURE", "進捗レコードの取得に失敗しました。", "", model.ErrUpstream)
	}

	summary := &model.DashboardSummary{
		RecentActivity:  []model.ActivityPoint{},
		SkillMaps:       []model.SkillMapSummary{},
		UpcomingSkills:  []model.UpcomingSkill{},
		SkillCategories: newCategorySummaries(),
	}
	if len(records) == 0 {
		return summary, nil
	}

	now := s.now()
	var rateSum float64
	minutesByDay := make(map[time.Time]int)
	var upcomingPool []model.UpcomingSkill

	for _, record := range records {
		summary.DaysCompleted += record.DaysCompleted
		if record.StreakDays > summary.StreakDays {
			summary.StreakDays = record.StreakDays
		}
		if record.LongestStreak > summary.LongestStreak {
			summary.LongestStreak = record.LongestStreak
		}
		summary.BadgeCount += len(record.Badges)
		rateSum += record.OverallCompletionRate

		collectRecentActivity(minutesByDay, record.DailyActivity, now)

		// スキルマップの解決に失敗してもダッシュボード全体は失敗させない
		skillMap, mapErr := s.mapRepo.FindByID(ctx, s.db, record.SkillMapID)
		if mapErr != nil {
			logger.Warn("Skill map unresolvable, skipping node-level enrichment",
				"skill_map_id", record.SkillMapID, "error", mapErr)
			skillMap = nil
		}

		name := "Unknown Skill"
		if skillMap != nil {
			name = skillMap.RootSkill
		}
		summary.SkillMaps = append(summary.SkillMaps, model.SkillMapSummary{
			SkillMapID:     record.SkillMapID,
			Name:           name,
			CompletionRate: record.OverallCompletionRate,
			DaysCompleted:  record.DaysCompleted,
			LastActivity:   record.LastActivity,
		})

		if skillMap != nil {
			catalog := skillMap.Nodes.Data()
			upcomingPool = append(upcomingPool, upcomingFromRecord(record, catalog)...)
			accumulateCategories(summary.SkillCategories, record, catalog)
		}
	}

	summary.OverallCompletionRate = rateSum / float64(len(records))
	summary.RecentActivity = sortedActivity(minutesByDay)
	summary.UpcomingSkills = topUpcoming(upcomingPool)
	finalizeCategories(summary.SkillCategories)

	return summary, nil
}

// collectRecentActivity は直近7日 (今日を含む) に入るバケットを日付ごとに合算します
func collectRecentActivity(minutesByDay map[time.Time]int, buckets []model.DayBucket, now time.Time) {
	today := truncateToDay(now)
	cutoff := today.AddDate(0, 0, -(config.RecentActivityDays - 1))
	for i := range buckets {
		day := truncateToDay(buckets[i].Date)
		if day.Before(cutoff) || day.After(today) {
			continue
		}
		minutesByDay[day] += buckets[i].MinutesSpent
	}
}

func sortedActivity(minutesByDay map[time.Time]int) []model.ActivityPoint {
	points := make([]model.ActivityPoint, 0, len(minutesByDay))
	for day, minutes := range minutesByDay {
		points = append(points, model.ActivityPoint{Date: day, Minutes: minutes})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	return points
}

// upcomingFromRecord は着手済み・未完了ノードからレコードあたり最大3件を取り出します。
// マップのイテレーション順に依存しないよう、ノードIDの辞書順で決定的に選びます。
func upcomingFromRecord(record *model.ProgressRecord, catalog map[string]model.SkillNode) []model.UpcomingSkill {
	nodes := record.NodeProgress.Data()
	nodeIDs := make([]string, 0, len(nodes))
	for nodeID := range nodes {
		nodeIDs = append(nodeIDs, nodeID)
	}
	sort.Strings(nodeIDs)

	var upcoming []model.UpcomingSkill
	for _, nodeID := range nodeIDs {
		if len(upcoming) >= config.UpcomingPerRecord {
			break
		}
		np := nodes[nodeID]
		if np.CompletionPercentage <= 0 || np.CompletionPercentage >= 100 {
			continue
		}
		node, ok := catalog[nodeID]
		if !ok {
			continue
		}
		upcoming = append(upcoming, model.UpcomingSkill{
			SkillMapID:                    record.SkillMapID,
			NodeID:                        nodeID,
			Name:                          node.Name,
			CompletionPercentage:          np.CompletionPercentage,
			EstimatedTimeRemainingMinutes: node.EstimatedHours * (1 - np.CompletionPercentage/100) * 60,
		})
	}
	return upcoming
}

// topUpcoming は全レコードのプールを達成率の昇順に並べ、上位5件だけ返します
func topUpcoming(pool []model.UpcomingSkill) []model.UpcomingSkill {
	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].CompletionPercentage != pool[j].CompletionPercentage {
			return pool[i].CompletionPercentage < pool[j].CompletionPercentage
		}
		return pool[i].NodeID < pool[j].NodeID
	})
	if len(pool) > config.UpcomingTotalLimit {
		pool = pool[:config.UpcomingTotalLimit]
	}
	if pool == nil {
		pool = []model.UpcomingSkill{}
	}
	return pool
}

func newCategorySummaries() []model.SkillCategorySummary {
	categories := make([]model.SkillCategorySummary, len(config.SkillCategoryNames))
	for i, name := range config.SkillCategoryNames {
		categories[i] = model.SkillCategorySummary{Name: name}
	}
	return categories
}

// accumulateCategories はノードを深さ別の固定カテゴリに数え上げます (深さ3以上は最後)
func accumulateCategories(categories []model.SkillCategorySummary, record *model.ProgressRecord, catalog map[string]model.SkillNode) {
	nodes := record.NodeProgress.Data()
	for nodeID, np := range nodes {
		node, ok := catalog[nodeID]
		if !ok {
			continue
		}
		idx := node.Depth
		if idx >= len(categories) {
			idx = len(categories) - 1
		}
		categories[idx].TotalNodes++
		if np.CompletionPercentage >= 100 {
			categories[idx].CompletedNodes++
		}
	}
}

func finalizeCategories(categories []model.SkillCategorySummary) {
	for i := range categories {
		if categories[i].TotalNodes == 0 {
			categories[i].CompletionPercentage = 0
			continue
		}
		rate := 100 * float64(categories[i].CompletedNodes) / float64(categories[i].TotalNodes)
		categories[i].CompletionPercentage = int(rate + 0.5)
	}
}
