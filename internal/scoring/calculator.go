// Package scoring converts achievements into point contributions and
// aggregates them into capped per-student summaries. Every function here is
// pure: no I/O, no clock, and no failure path — malformed metadata scores
// zero rather than erroring, which keeps aggregate totals deterministic even
// with legacy data.
package scoring

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/liuwy-dev/tuimian-go-api/internal/models"
)

// Bucket names one of the two scoring pools.
type Bucket string

const (
	// BucketAcademic is the academic specialty pool, capped at 15.
	BucketAcademic Bucket = "academic"
	// BucketComprehensive is the comprehensive performance pool, capped at 5.
	BucketComprehensive Bucket = "comprehensive"
)

// Label returns the human-readable bucket label used in reason summaries.
func (b Bucket) Label() string {
	if b == BucketAcademic {
		return "学术"
	}
	return "综合"
}

// BaseScore is the outcome of scoring a single achievement.
type BaseScore struct {
	RawScore float64
	Bucket   Bucket
	Notes    string
}

var contestMatrix = map[string]map[string]float64{
	"国际级": {"特等奖": 10, "一等奖": 8, "二等奖": 6, "三等奖": 4, "其他": 2},
	"国家级": {"特等奖": 8, "一等奖": 6, "二等奖": 4, "三等奖": 2, "其他": 1},
	"省级":  {"特等奖": 6, "一等奖": 4, "二等奖": 2, "三等奖": 1, "其他": 0.5},
	"校级":  {"特等奖": 2, "一等奖": 1, "二等奖": 0.5, "三等奖": 0.2, "其他": 0.1},
}

var paperLevelScores = map[string]float64{"A": 10, "B": 6, "C": 1}

var levelScores = map[string]float64{"国家级": 2, "省级": 1.5, "校级": 1}

var sportsLevelBase = map[string]float64{"国际级": 2, "国家级": 1.5, "省级": 1, "校级": 0.5}

// CalculateBase maps one achievement category plus its metadata to a raw point
// value, its fixed bucket, and a note string. The bucket is determined by the
// category alone and cannot be overridden by metadata. Unknown level or award
// combinations score zero.
func CalculateBase(category models.AchievementCategory, metadata map[string]interface{}) BaseScore {
	switch category {
	case models.CategoryPaper:
		level := strings.ToUpper(metaString(metadata, "level", "B"))
		return BaseScore{
			RawScore: paperLevelScores[level],
			Bucket:   BucketAcademic,
			Notes:    "论文等级：" + level,
		}
	case models.CategoryPatent:
		patentType := metaString(metadata, "type", "发明专利")
		raw := 1.0
		if strings.Contains(patentType, "发明") {
			raw = 2
		}
		return BaseScore{
			RawScore: raw,
			Bucket:   BucketAcademic,
			Notes:    "专利类型：" + patentType,
		}
	case models.CategoryContest:
		level := metaString(metadata, "level", "省级")
		award := metaString(metadata, "award", "三等奖")
		return BaseScore{
			RawScore: contestMatrix[level][award],
			Bucket:   BucketAcademic,
			Notes:    "竞赛：" + level + award,
		}
	case models.CategoryInnovation:
		level := metaString(metadata, "level", "省级")
		raw, ok := levelScores[level]
		if !ok {
			raw = 0.5
		}
		return BaseScore{
			RawScore: raw,
			Bucket:   BucketAcademic,
			Notes:    "双创项目：" + level,
		}
	case models.CategoryVolunteer:
		hours := metaFloat(metadata, "hours", 0)
		raw := hours / 200
		if raw > 1 {
			raw = 1
		}
		return BaseScore{
			RawScore: raw,
			Bucket:   BucketComprehensive,
			Notes:    "志愿时长：" + formatNumber(hours) + "h",
		}
	case models.CategoryHonor:
		level := metaString(metadata, "level", "校级")
		raw, ok := levelScores[level]
		if !ok {
			raw = 0.5
		}
		return BaseScore{
			RawScore: raw,
			Bucket:   BucketComprehensive,
			Notes:    "荣誉：" + level,
		}
	case models.CategorySocial:
		months := metaFloat(metadata, "months", 0)
		raw := months * 0.3
		if raw > 2 {
			raw = 2
		}
		return BaseScore{
			RawScore: raw,
			Bucket:   BucketComprehensive,
			Notes:    "社会工作月份：" + formatNumber(months),
		}
	case models.CategorySports:
		level := metaString(metadata, "level", "校级")
		place := metaFloat(metadata, "rank", 3)
		if place <= 0 {
			place = 3
		}
		base, ok := sportsLevelBase[level]
		if !ok {
			base = 0.3
		}
		if base < 0.1 {
			base = 0.1
		}
		return BaseScore{
			RawScore: base / place,
			Bucket:   BucketComprehensive,
			Notes:    fmt.Sprintf("体育：%s 第%s名", level, formatNumber(place)),
		}
	default:
		return BaseScore{RawScore: 0, Bucket: BucketAcademic}
	}
}

func metaString(metadata map[string]interface{}, key, fallback string) string {
	raw, ok := metadata[key]
	if !ok || raw == nil {
		return fallback
	}
	value := strings.TrimSpace(fmt.Sprintf("%v", raw))
	if value == "" {
		return fallback
	}
	return value
}

func metaFloat(metadata map[string]interface{}, key string, fallback float64) float64 {
	raw, ok := metadata[key]
	if !ok || raw == nil {
		return fallback
	}
	switch v := raw.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return fallback
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fallback
		}
		return f
	default:
		return fallback
	}
}

func formatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
