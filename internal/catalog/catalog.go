// Package catalog holds the versioned table of apply-able recommendation
// items. The table is fixed per admission cycle and compiled in, it is not
// runtime-configurable.
package catalog

import "strings"

// CategorySlug identifies a catalog category. Catalog categories are a
// superset of the scoreable achievement categories: special academic talent
// and international internships are adjudicated but scored out of band.
type CategorySlug string

// Catalog categories.
const (
	CategoryPaper                   CategorySlug = "paper"
	CategoryPatent                  CategorySlug = "patent"
	CategoryCompetition             CategorySlug = "competition"
	CategoryInnovation              CategorySlug = "innovation"
	CategoryInternationalInternship CategorySlug = "international_internship"
	CategoryVolunteer               CategorySlug = "volunteer"
	CategoryHonor                   CategorySlug = "honor"
	CategorySocialWork              CategorySlug = "social_work"
	CategorySports                  CategorySlug = "sports"
	CategorySpecialAcademic         CategorySlug = "special_academic"
)

// Flag marks a policy constraint attached to a catalog item.
type Flag string

// Catalog item flags.
const (
	FlagRequiresFirstAuthor          Flag = "requiresFirstAuthor"
	FlagRequiresFirstInstitution     Flag = "requiresFirstInstitution"
	FlagRequiresTeam                 Flag = "requiresTeam"
	FlagRequiresPublicDefense        Flag = "requiresPublicDefense"
	FlagRequiresPublicity            Flag = "requiresPublicity"
	FlagRequiresProfessorEndorsement Flag = "requiresProfessorEndorsement"
	FlagLimitsCount                  Flag = "limitsCount"
	FlagLimitedQuota                 Flag = "limitedQuota"
	FlagScoreCap                     Flag = "scoreCap"
	FlagBreaksThreshold              Flag = "breaksThreshold"
	FlagNSCDoubleA                   Flag = "nscDoubleA"
	FlagSingleSubmissionPerContest   Flag = "singleSubmissionPerContest"
)

// Item describes one apply-able catalog entry and its policy constraints.
type Item struct {
	Slug             string       `json:"slug"`
	Category         CategorySlug `json:"category"`
	Title            string       `json:"title"`
	ShortDescription string       `json:"short_description"`
	MaxScore         *float64     `json:"max_score"`
	ScoreNote        string       `json:"score_note,omitempty"`
	Flags            []Flag       `json:"flags"`
	Keywords         []string     `json:"keywords"`
}

// HasFlag reports whether the item carries the given policy flag.
func (i Item) HasFlag(flag Flag) bool {
	for _, f := range i.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

func score(v float64) *float64 { return &v }

var items = []Item{
	{
		Slug:             "paper-a-tier",
		Category:         CategoryPaper,
		Title:            "论文 A 类（CCF-A / Top 期刊）",
		ShortDescription: "厦大第一单位，学生为前两作者的 A 类论文，独立作者按 100%，共同一作各 50%。",
		MaxScore:         score(10),
		Flags:            []Flag{FlagRequiresFirstAuthor, FlagRequiresFirstInstitution, FlagScoreCap, FlagLimitsCount},
		Keywords:         []string{"CCF A", "Top", "论文", "A 类", "第一作者", "厦大"},
	},
	{
		Slug:             "paper-b-tier",
		Category:         CategoryPaper,
		Title:            "论文 B 类（CCF-B / 重要期刊）",
		ShortDescription: "厦大第一单位，学生为前两作者的 B 类论文。共同第一作者各 50%。",
		MaxScore:         score(6),
		Flags:            []Flag{FlagRequiresFirstAuthor, FlagRequiresFirstInstitution, FlagScoreCap, FlagLimitsCount},
		Keywords:         []string{"CCF B", "论文", "B 类", "厦门大学", "第一作者"},
	},
	{
		Slug:             "paper-c-tier",
		Category:         CategoryPaper,
		Title:            "论文 C 类（CCF-C / 其他核心）",
		ShortDescription: "厦大第一单位，学生为前两作者的 C 类论文，每人最多计 2 篇。",
		MaxScore:         score(1),
		ScoreNote:        "最多录入 2 篇；超过不再累计。",
		Flags:            []Flag{FlagRequiresFirstAuthor, FlagRequiresFirstInstitution, FlagScoreCap, FlagLimitsCount},
		Keywords:         []string{"CCF C", "论文", "C 类", "最多两篇"},
	},
	{
		Slug:             "paper-nsc-top",
		Category:         CategoryPaper,
		Title:            "NSC 系列（Cell 系列 IF≥10）",
		ShortDescription: "Nature/Science/Cell 主刊及子刊且影响因子≥10，等价两篇 A，最高 20 分。",
		MaxScore:         score(20),
		Flags:            []Flag{FlagRequiresFirstAuthor, FlagRequiresFirstInstitution, FlagNSCDoubleA, FlagScoreCap, FlagLimitsCount},
		Keywords:         []string{"NSC", "Nature", "Science", "Cell", "IF≥10"},
	},
	{
		Slug:             "patent-national-invention",
		Category:         CategoryPatent,
		Title:            "国家发明专利授权",
		ShortDescription: "厦大第一单位的国家发明专利授权，除导师外第一发明人按 80% 计，独立发明人按 100%。",
		MaxScore:         score(2),
		Flags:            []Flag{FlagRequiresFirstInstitution, FlagScoreCap},
		Keywords:         []string{"专利", "国家发明", "授权", "厦大第一单位"},
	},
	{
		Slug:             "competition-national-a-plus",
		Category:         CategoryCompetition,
		Title:            "国家级 A+ 类竞赛一等奖",
		ShortDescription: "列入学院竞赛项目库的国家级 A+ 类赛事最高奖，按 30 分基准计入学术专长。",
		MaxScore:         score(30),
		Flags:            []Flag{FlagRequiresTeam, FlagScoreCap, FlagLimitedQuota, FlagSingleSubmissionPerContest},
		Keywords:         []string{"竞赛", "国家级", "A+", "挑战杯", "ICPC", "一等奖"},
	},
	{
		Slug:             "competition-national-a",
		Category:         CategoryCompetition,
		Title:            "国家级 A 类竞赛获奖",
		ShortDescription: "国家级 A 类赛事按等级计分：一等奖 15，二等奖 10，三等奖 5。",
		MaxScore:         score(15),
		Flags:            []Flag{FlagRequiresTeam, FlagScoreCap, FlagLimitedQuota, FlagSingleSubmissionPerContest},
		Keywords:         []string{"竞赛", "国家级", "一等奖", "二等奖", "三等奖", "A 类"},
	},
	{
		Slug:             "competition-provincial-a",
		Category:         CategoryCompetition,
		Title:            "省级 A 类竞赛获奖",
		ShortDescription: "省级赛事按奖项折算，团队需提供分工说明。",
		MaxScore:         score(10),
		Flags:            []Flag{FlagRequiresTeam, FlagScoreCap, FlagLimitedQuota, FlagSingleSubmissionPerContest},
		Keywords:         []string{"省级", "竞赛", "网信柏鹭杯", "程序设计"},
	},
	{
		Slug:             "innovation-training",
		Category:         CategoryInnovation,
		Title:            "创新创业训练计划",
		ShortDescription: "国/省/校级创新创业训练项目，组长最高 2 分，成员按 50% 折算，取项内最高。",
		MaxScore:         score(2),
		ScoreNote:        "项目总分封顶 2 分，可跨项目累计但不超过上限。",
		Flags:            []Flag{FlagRequiresTeam, FlagScoreCap},
		Keywords:         []string{"创新创业", "训练计划", "项目", "结题"},
	},
	{
		Slug:             "international-internship-long-term",
		Category:         CategoryInternationalInternship,
		Title:            "国际组织实习（≥1 学年）",
		ShortDescription: "在国际组织连续实习满 1 学年，提供在岗证明和工作成果，可计 1 分。",
		MaxScore:         score(1),
		Flags:            []Flag{FlagScoreCap},
		Keywords:         []string{"国际组织", "实习", "长期", "学年"},
	},
	{
		Slug:             "volunteer-service",
		Category:         CategoryVolunteer,
		Title:            "志愿服务累计",
		ShortDescription: "志愿服务累计时长达到 200 小时起计，上限 1 分，按时长与表彰折算。",
		MaxScore:         score(1),
		Flags:            []Flag{FlagScoreCap},
		Keywords:         []string{"志愿服务", "200 小时", "工时", "表彰"},
	},
	{
		Slug:             "honor-titles",
		Category:         CategoryHonor,
		Title:            "荣誉称号",
		ShortDescription: "国家级 2 分、省级 1 分、校级 0.2 分，同一年度仅取最高，累计封顶 2 分。",
		MaxScore:         score(2),
		Flags:            []Flag{FlagScoreCap, FlagLimitedQuota},
		Keywords:         []string{"荣誉称号", "国家级", "省级", "校级"},
	},
	{
		Slug:             "social-work",
		Category:         CategorySocialWork,
		Title:            "学生干部社会工作",
		ShortDescription: "按岗位系数 × 导师评分 / 100 折算，同学年取最高，跨学年可累计，上限 2 分。",
		MaxScore:         score(2),
		Flags:            []Flag{FlagScoreCap},
		Keywords:         []string{"学生干部", "社会工作", "岗位系数", "导师评分"},
	},
	{
		Slug:             "sports-competition",
		Category:         CategorySports,
		Title:            "体育比赛成绩",
		ShortDescription: "国际/国家级团体名次按表折算，个人成绩按 1/3，取最高奖项计分。",
		MaxScore:         score(2),
		Flags:            []Flag{FlagScoreCap, FlagSingleSubmissionPerContest},
		Keywords:         []string{"体育", "竞赛", "名次", "团体", "个人"},
	},
	{
		Slug:             "special-academic-excellence",
		Category:         CategorySpecialAcademic,
		Title:            "特殊学术专长申请",
		ShortDescription: "以第一作者在指定目录发表长文，或获国家级 A+/A 竞赛全国一等奖及以上，可申请特殊学术专长。",
		ScoreNote:        "审核通过后可直接赋予学术专长满分 15 或破除排名、外语线限制。",
		Flags:            []Flag{FlagRequiresProfessorEndorsement, FlagRequiresPublicDefense, FlagRequiresPublicity, FlagBreaksThreshold},
		Keywords:         []string{"特殊学术专长", "破外语线", "破排名线", "公开答辩"},
	},
}

// Items returns the full catalog in display order.
func Items() []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

// FindItem looks up a catalog item by slug.
func FindItem(slug string) (Item, bool) {
	for _, item := range items {
		if item.Slug == slug {
			return item, true
		}
	}
	return Item{}, false
}

// SearchFilter narrows a catalog search.
type SearchFilter struct {
	Keyword  string
	Category CategorySlug
	Flags    []Flag
}

// Search returns catalog items matching every filter condition.
func Search(filter SearchFilter) []Item {
	keyword := strings.ToLower(strings.TrimSpace(filter.Keyword))

	var out []Item
	for _, item := range items {
		if filter.Category != "" && item.Category != filter.Category {
			continue
		}
		if !hasAllFlags(item, filter.Flags) {
			continue
		}
		if keyword != "" && !matchesKeyword(item, keyword) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func hasAllFlags(item Item, flags []Flag) bool {
	for _, flag := range flags {
		if !item.HasFlag(flag) {
			return false
		}
	}
	return true
}

func matchesKeyword(item Item, keyword string) bool {
	if strings.Contains(strings.ToLower(item.Title), keyword) {
		return true
	}
	if strings.Contains(strings.ToLower(item.ShortDescription), keyword) {
		return true
	}
	for _, k := range item.Keywords {
		if strings.Contains(strings.ToLower(k), keyword) {
			return true
		}
	}
	return false
}

// IsAcademicCategory reports whether submissions in the category count toward
// the academic specialty cap.
func IsAcademicCategory(category CategorySlug) bool {
	switch category {
	case CategoryPaper, CategoryPatent, CategoryCompetition, CategoryInnovation:
		return true
	}
	return false
}

// IsComprehensiveCategory reports whether submissions in the category count
// toward the comprehensive performance cap.
func IsComprehensiveCategory(category CategorySlug) bool {
	switch category {
	case CategoryInternationalInternship, CategoryVolunteer, CategoryHonor,
		CategorySocialWork, CategorySports:
		return true
	}
	return false
}
