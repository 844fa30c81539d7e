// internal/service/ledger_test.go
package service

import (
	"testing"
	"time"

	"go_skill_track/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

// テスト用の進捗レコードを最小構成で作る
func newTestRecord(kind model.TrackKind) *model.ProgressRecord {
	return &model.ProgressRecord{
		Kind:          kind,
		NodeProgress:  datatypes.NewJSONType(map[string]model.NodeProgress{}),
		DailyActivity: datatypes.JSONSlice[model.DayBucket]{},
		Badges:        datatypes.JSONSlice[model.Badge]{},
	}
}

func Test_recordMinutes_Threshold(t *testing.T) {
	cfg := TrackConfigFor(model.TrackSkillMap)
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		minutes       []int
		wantCompleted bool
		wantStreak    int
		wantDays      int
	}{
		{
			name:          "正常系: 閾値未満では達成にならない",
			minutes:       []int{29},
			wantCompleted: false,
			wantStreak:    0,
			wantDays:      0,
		},
		{
			name:          "正常系: 閾値ちょうどで達成",
			minutes:       []int{30},
			wantCompleted: true,
			wantStreak:    1,
			wantDays:      1,
		},
		{
			name:          "正常系: 同日の複数回更新の合算で達成",
			minutes:       []int{10, 10, 10},
			wantCompleted: true,
			wantStreak:    1,
			wantDays:      1,
		},
		{
			name:          "正常系: 0分の更新ではバケットだけ作られる",
			minutes:       []int{0},
			wantCompleted: false,
			wantStreak:    0,
			wantDays:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := newTestRecord(model.TrackSkillMap)
			for _, m := range tt.minutes {
				recordMinutes(record, base, m, cfg)
			}

			require.Len(t, record.DailyActivity, 1)
			assert.Equal(t, tt.wantCompleted, record.DailyActivity[0].Completed)
			assert.Equal(t, tt.wantStreak, record.StreakDays)
			assert.Equal(t, tt.wantDays, record.DaysCompleted)
		})
	}
}

func Test_recordMinutes_SameDayIdempotence(t *testing.T) {
	cfg := TrackConfigFor(model.TrackSkillMap)
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	record := newTestRecord(model.TrackSkillMap)

	first := recordMinutes(record, base, 45, cfg)
	assert.True(t, first, "初回の閾値超えで初達成になるはず")
	assert.Equal(t, 1, record.StreakDays)
	assert.Equal(t, 1, record.DaysCompleted)

	// 同じ日の2回目以降は分数の加算のみで、連続日数や達成日数は動かない
	second := recordMinutes(record, base.Add(3*time.Hour), 40, cfg)
	assert.False(t, second)
	assert.Equal(t, 1, record.StreakDays)
	assert.Equal(t, 1, record.DaysCompleted)
	require.Len(t, record.DailyActivity, 1)
	assert.Equal(t, 85, record.DailyActivity[0].MinutesSpent)
	assert.True(t, record.DailyActivity[0].Completed)
}

func Test_recordMinutes_StreakContiguity(t *testing.T) {
	cfg := TrackConfigFor(model.TrackSkillMap)
	day1 := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	record := newTestRecord(model.TrackSkillMap)

	// 3日連続で閾値を超える
	recordMinutes(record, day1, 30, cfg)
	recordMinutes(record, day1.AddDate(0, 0, 1), 30, cfg)
	recordMinutes(record, day1.AddDate(0, 0, 2), 30, cfg)

	assert.Equal(t, 3, record.StreakDays)
	assert.Equal(t, 3, record.LongestStreak)
	assert.Equal(t, 3, record.DaysCompleted)

	// 1日空くと連続は1から数え直し。最長連続日数は残る
	recordMinutes(record, day1.AddDate(0, 0, 4), 30, cfg)
	assert.Equal(t, 1, record.StreakDays)
	assert.Equal(t, 3, record.LongestStreak)
	assert.Equal(t, 4, record.DaysCompleted)
}

func Test_recordMinutes_ThresholdDayOnlyCountsWhenReached(t *testing.T) {
	cfg := TrackConfigFor(model.TrackSkillMap)
	day1 := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	record := newTestRecord(model.TrackSkillMap)

	// day1 は達成、day2 は閾値未満、day3 は達成
	recordMinutes(record, day1, 30, cfg)
	recordMinutes(record, day1.AddDate(0, 0, 1), 10, cfg)
	recordMinutes(record, day1.AddDate(0, 0, 2), 30, cfg)

	// day2 が未達成なので day3 の連続は1から
	assert.Equal(t, 1, record.StreakDays)
	assert.Equal(t, 2, record.DaysCompleted)
	require.Len(t, record.DailyActivity, 3)
	assert.False(t, record.DailyActivity[1].Completed)
}

func Test_truncateToDay(t *testing.T) {
	// 時刻やタイムゾーンが違っても同じUTC暦日に正規化される
	jst := time.FixedZone("JST", 9*60*60)
	a := truncateToDay(time.Date(2025, 3, 10, 23, 59, 59, 0, time.UTC))
	b := truncateToDay(time.Date(2025, 3, 11, 8, 30, 0, 0, jst)) // UTCでは3/10 23:30

	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), a)
	assert.True(t, a.Equal(b))
}
