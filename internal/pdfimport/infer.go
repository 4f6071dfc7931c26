// Package pdfimport turns client-extracted transcript text into candidate
// achievement drafts. Classification is keyword-driven; paragraphs no rule
// matches are surfaced as unknown so the student can categorize them by hand.
package pdfimport

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/liuwy-dev/tuimian-go-api/internal/models"
)

// PageText is one page of extracted transcript text.
type PageText struct {
	PageNumber int
	RawText    string
}

// Inferred is one candidate achievement detected in the transcript. Known is
// false when no keyword rule matched; Category is then empty.
type Inferred struct {
	Category       models.AchievementCategory
	Known          bool
	Title          string
	Description    string
	SourcePages    []int
	VolunteerHours float64
	MatchedExcerpt string
}

// categoryKeywords maps each detectable category to its trigger terms.
// Matching is case-insensitive and first-match-wins in declaration order.
var categoryKeywords = []struct {
	category models.AchievementCategory
	keywords []string
}{
	{models.CategoryPaper, []string{"论文", "journal", "conference", "proceedings", "科研", "学术"}},
	{models.CategoryPatent, []string{"专利", "发明", "实用新型"}},
	{models.CategoryContest, []string{"竞赛", "比赛", "大赛", "数学建模", "icpc", "ccpc", "挑战杯", "程序设计"}},
	{models.CategoryInnovation, []string{"双创", "创新创业", "大创", "互联网+"}},
	{models.CategoryVolunteer, []string{"志愿", "志愿服务", "志愿工时"}},
	{models.CategoryHonor, []string{"三好学生", "优秀学生", "荣誉称号", "优秀干部", "奖章"}},
	{models.CategorySocial, []string{"班长", "学生干部", "社长", "团支部书记", "学生会", "部长"}},
	{models.CategorySports, []string{"运动会", "体育", "锦标赛", "田径"}},
}

var hoursPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*小时`)

var paragraphSplit = regexp.MustCompile(`\n{2,}|\r{2,}`)

var whitespace = regexp.MustCompile(`\s+`)

// Infer classifies every paragraph of every page into a candidate
// achievement, in document order.
func Infer(pages []PageText) []Inferred {
	var results []Inferred

	for _, page := range pages {
		for _, paragraph := range splitParagraphs(page.RawText) {
			category, known := detectCategory(paragraph)

			inferred := Inferred{
				Category:       category,
				Known:          known,
				Title:          extractTitle(paragraph, category, known),
				Description:    paragraph,
				SourcePages:    []int{page.PageNumber},
				MatchedExcerpt: truncate(normalizeText(paragraph), 200),
			}
			if category == models.CategoryVolunteer {
				inferred.VolunteerHours = extractVolunteerHours(paragraph)
			}

			results = append(results, inferred)
		}
	}

	return results
}

func splitParagraphs(rawText string) []string {
	var paragraphs []string
	for _, part := range paragraphSplit.Split(rawText, -1) {
		part = strings.TrimSpace(part)
		if part != "" {
			paragraphs = append(paragraphs, part)
		}
	}
	return paragraphs
}

func detectCategory(paragraph string) (models.AchievementCategory, bool) {
	lower := strings.ToLower(paragraph)
	for _, rule := range categoryKeywords {
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, strings.ToLower(keyword)) {
				return rule.category, true
			}
		}
	}
	return "", false
}

func extractTitle(paragraph string, category models.AchievementCategory, known bool) string {
	normalized := normalizeText(paragraph)
	if runeLen(normalized) < 40 {
		return normalized
	}
	if !known {
		return truncate(normalized, 40)
	}
	switch category {
	case models.CategoryPaper:
		return truncate(normalized, 60)
	case models.CategoryVolunteer:
		return "志愿服务记录"
	case models.CategoryHonor:
		return "荣誉称号或奖项"
	case models.CategorySocial:
		return "社会工作/学生干部经历"
	default:
		return truncate(normalized, 40)
	}
}

func extractVolunteerHours(paragraph string) float64 {
	var total float64
	for _, match := range hoursPattern.FindAllStringSubmatch(paragraph, -1) {
		value, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			continue
		}
		total += value
	}
	return total
}

func normalizeText(text string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
}

func runeLen(s string) int {
	return len([]rune(s))
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
