package ranking

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/liuwy-dev/tuimian-go-api/internal/models"
	"github.com/liuwy-dev/tuimian-go-api/internal/scoring"
)

func candidate(id uint, name string, academic, comprehensive float64, gpa *float64) Candidate {
	c := Candidate{
		Student: models.User{ID: id, Name: name, StudentNumber: "S" + name},
		Summary: scoring.Summary{
			CappedAcademicScore:      academic,
			CappedComprehensiveScore: comprehensive,
		},
	}
	if gpa != nil {
		c.Record = &models.AcademicRecord{UserID: id, GPA: *gpa, EvidenceURL: "https://cdn.example.com/gpa.png"}
	}
	return c
}

func gpa(v float64) *float64 { return &v }

func TestBuildComputesGPAWeightedTotal(t *testing.T) {
	entries := Build([]Candidate{candidate(1, "甲", 12, 3, gpa(3.6))})
	require.Len(t, entries, 1)

	entry := entries[0]
	require.Equal(t, 90.0, *entry.GPAScore)
	require.Equal(t, 72.0, entry.GPAWeightedScore)
	require.Equal(t, 87.0, entry.TotalScore)
	require.Equal(t, 1, entry.Rank)
}

func TestBuildWithoutAcademicRecord(t *testing.T) {
	entries := Build([]Candidate{candidate(1, "甲", 10, 2, nil)})

	entry := entries[0]
	require.Nil(t, entry.GPA)
	require.Nil(t, entry.GPAScore)
	require.Equal(t, 0.0, entry.GPAWeightedScore)
	require.Equal(t, 12.0, entry.TotalScore)
	require.NotContains(t, entry.ReasonSummary, "绩点")
}

func TestBuildClampsGPA(t *testing.T) {
	entries := Build([]Candidate{candidate(1, "甲", 0, 0, gpa(4.8))})
	require.Equal(t, 100.0, *entries[0].GPAScore)

	entries = Build([]Candidate{candidate(2, "乙", 0, 0, gpa(-1))})
	require.Equal(t, 0.0, *entries[0].GPAScore)
}

func TestBuildSortsAndAssignsSequentialRanks(t *testing.T) {
	entries := Build([]Candidate{
		candidate(1, "低分", 5, 1, nil),
		candidate(2, "高分", 14, 4, gpa(3.9)),
		candidate(3, "中分", 10, 3, gpa(3.0)),
	})

	require.Equal(t, "高分", entries[0].Student.Name)
	require.Equal(t, "中分", entries[1].Student.Name)
	require.Equal(t, "低分", entries[2].Student.Name)
	require.Equal(t, []int{1, 2, 3}, []int{entries[0].Rank, entries[1].Rank, entries[2].Rank})
}

func TestBuildTieBreaksDeterministically(t *testing.T) {
	// Same total, differing academic share: higher academic wins.
	a := candidate(1, "甲", 10, 4, nil)
	b := candidate(2, "乙", 12, 2, nil)
	entries := Build([]Candidate{a, b})
	require.Equal(t, uint(2), entries[0].Student.ID)

	// Fully tied entries keep a stable order and still get distinct ranks.
	c := candidate(3, "丙", 12, 2, nil)
	first := Build([]Candidate{b, c})
	second := Build([]Candidate{c, b})
	require.Equal(t, first[0].Student.ID, second[0].Student.ID)
	require.Equal(t, uint(2), first[0].Student.ID)
	require.Equal(t, 1, first[0].Rank)
	require.Equal(t, 2, first[1].Rank)
}

func TestReasonSummaryFormat(t *testing.T) {
	c := Candidate{
		Student: models.User{ID: 1, Name: "甲"},
		Summary: scoring.Summary{
			CappedAcademicScore:      10,
			CappedComprehensiveScore: 1,
			Details: []scoring.Detail{
				{Title: "CCF-A 论文", RawScore: 10, AppliedScore: 10, Bucket: scoring.BucketAcademic, Notes: "论文等级：A"},
				{Title: "志愿服务", RawScore: 1, AppliedScore: 1, Bucket: scoring.BucketComprehensive, Notes: "志愿时长：350h"},
				{Title: "溢出竞赛", RawScore: 8, AppliedScore: 0, Bucket: scoring.BucketAcademic},
			},
		},
		Record: &models.AcademicRecord{GPA: 3.6, EvidenceURL: "https://cdn.example.com/gpa.png"},
	}

	entries := Build([]Candidate{c})
	summary := entries[0].ReasonSummary

	require.Contains(t, summary, "CCF-A 论文（学术，10.00分，论文等级：A）")
	require.Contains(t, summary, "志愿服务（综合，1.00分，志愿时长：350h）")
	require.Contains(t, summary, "绩点：3.60（折算90.00分，计入72.00分）")
	// Zero-applied achievements are omitted from the narrative.
	require.NotContains(t, summary, "溢出竞赛")
	require.Equal(t, 2, len(splitClauses(summary))-1, "clauses joined by ；")
}

func splitClauses(summary string) []string {
	var clauses []string
	start := 0
	for i, r := range summary {
		if r == '；' {
			clauses = append(clauses, summary[start:i])
			start = i + len("；")
		}
	}
	return append(clauses, summary[start:])
}
