// Package scoring 把多来源的遥测数据折叠成统一的按天活动、知识点统计与技能画像。
// 包内函数都是纯函数：没有 I/O，没有全局状态，缺失的输入按零贡献处理。
package scoring

import (
	"devtrack_backend/internal/model"
	"sort"
	"time"
)

// Source 统一活动表里的来源标记。LeetCode 与 Codeforces 共用 SourceCF。
type Source int

const (
	SourceDevTrack Source = iota
	SourceCF
	SourceGH
)

// ActivityMap 日期 -> 统一活动记录。只包含至少一个来源出现过的日期。
type ActivityMap map[string]model.UnifiedActivityRecord

// DailyHistory 把学习记录按本地日期汇总：分钟数求和，知识点取并集
func DailyHistory(sessions []model.StudySession) map[string]model.DailyActivity {
	history := make(map[string]model.DailyActivity)
	for _, s := range sessions {
		date := s.StudiedAt.Format(model.DateLayout)
		day := history[date]
		if s.Minutes > 0 {
			day.Minutes += s.Minutes
		}
		day.Sessions++
		if s.Topic != "" {
			day.Topics = appendUnique(day.Topics, s.Topic)
		}
		history[date] = day
	}
	for date, day := range history {
		sort.Strings(day.Topics)
		history[date] = day
	}
	return history
}

// MarkSource 幂等：重复写入同一个 (日期, 来源) 只会把标记置为 true
func (m ActivityMap) MarkSource(date string, src Source) {
	rec := m.record(date)
	switch src {
	case SourceDevTrack:
		rec.Sources.DevTrack = true
	case SourceCF:
		rec.Sources.CF = true
	case SourceGH:
		rec.Sources.GH = true
	}
	m[date] = rec
}

// AddDates 把一个来源的日期集合并入
func (m ActivityMap) AddDates(src Source, dates map[string]struct{}) {
	for d := range dates {
		if d == "" {
			continue
		}
		m.MarkSource(d, src)
	}
}

// AddDevTrack 写入本地学习记录。按天的汇总值直接覆盖，保证重复合并结果不变。
func (m ActivityMap) AddDevTrack(date string, day model.DailyActivity) {
	if date == "" {
		return
	}
	m.MarkSource(date, SourceDevTrack)
	rec := m[date]
	if day.Minutes > 0 {
		rec.MinutesStudied = day.Minutes
	}
	for _, t := range day.Topics {
		rec.Topics = appendUnique(rec.Topics, t)
	}
	sort.Strings(rec.Topics)
	m[date] = rec
}

func (m ActivityMap) record(date string) model.UnifiedActivityRecord {
	rec, ok := m[date]
	if !ok {
		rec = model.UnifiedActivityRecord{Date: date, Topics: []string{}}
	}
	return rec
}

// MergeActivity 合并本地学习历史与 CF / GH / LC 的活跃日期。
// LC 日期落在 cf 标记上，前端图例只有 devtrack / cf-or-lc / gh 三档。
func MergeActivity(devtrack map[string]model.DailyActivity, cfDates, ghDates, lcDates map[string]struct{}) ActivityMap {
	out := make(ActivityMap)
	for date, day := range devtrack {
		out.AddDevTrack(date, day)
	}
	out.AddDates(SourceCF, cfDates)
	out.AddDates(SourceCF, lcDates)
	out.AddDates(SourceGH, ghDates)
	return out
}

// Window 返回 [now-days+1, now] 内的记录，按日期升序；缺失日期不补零
func (m ActivityMap) Window(now time.Time, days int) []model.UnifiedActivityRecord {
	if days <= 0 {
		return []model.UnifiedActivityRecord{}
	}
	from := now.AddDate(0, 0, -(days - 1)).Format(model.DateLayout)
	to := now.Format(model.DateLayout)

	out := make([]model.UnifiedActivityRecord, 0)
	for date, rec := range m {
		if date >= from && date <= to {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
