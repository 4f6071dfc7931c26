package pdfimport

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/liuwy-dev/tuimian-go-api/internal/models"
)

func TestInferClassifiesParagraphsByKeyword(t *testing.T) {
	pages := []PageText{
		{
			PageNumber: 1,
			RawText: "在国际会议 proceedings 上发表论文一篇。\n\n" +
				"获得挑战杯省级二等奖。\n\n" +
				"参加社区志愿服务，累计 35.5 小时，另有 12 小时敬老院服务。",
		},
		{
			PageNumber: 2,
			RawText:    "担任团支部书记一年。\n\n获实用新型专利授权一项。",
		},
	}

	results := Infer(pages)
	require.Len(t, results, 5)

	require.Equal(t, models.CategoryPaper, results[0].Category)
	require.True(t, results[0].Known)
	require.Equal(t, []int{1}, results[0].SourcePages)

	require.Equal(t, models.CategoryContest, results[1].Category)

	require.Equal(t, models.CategoryVolunteer, results[2].Category)
	require.InDelta(t, 47.5, results[2].VolunteerHours, 1e-9)

	require.Equal(t, models.CategorySocial, results[3].Category)
	require.Equal(t, []int{2}, results[3].SourcePages)

	require.Equal(t, models.CategoryPatent, results[4].Category)
}

func TestInferMarksUnmatchedParagraphsUnknown(t *testing.T) {
	results := Infer([]PageText{{PageNumber: 1, RawText: "这一段没有任何可识别的关键词。"}})
	require.Len(t, results, 1)
	require.False(t, results[0].Known)
	require.Empty(t, string(results[0].Category))
	require.Equal(t, "这一段没有任何可识别的关键词。", results[0].Title)
}

func TestInferSkipsBlankParagraphsAndKeepsHoursOutOfOtherCategories(t *testing.T) {
	results := Infer([]PageText{{
		PageNumber: 3,
		RawText:    "\n\n   \n\n参加校运动会田径项目，训练 40 小时。",
	}})
	require.Len(t, results, 1)
	require.Equal(t, models.CategorySports, results[0].Category)
	require.Zero(t, results[0].VolunteerHours)
}

func TestInferTruncatesLongPaperTitles(t *testing.T) {
	long := "基于深度学习的图像识别方法研究论文，发表于某重要 journal，" +
		"内容包括模型设计、数据集构建、实验对比以及消融分析等多个部分，篇幅较长。"
	results := Infer([]PageText{{PageNumber: 1, RawText: long}})
	require.Len(t, results, 1)
	require.Equal(t, models.CategoryPaper, results[0].Category)
	require.LessOrEqual(t, len([]rune(results[0].Title)), 60)
}
