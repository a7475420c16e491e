package analytics

import (
	"errors"
	"sort"

	"resume-analyzer-go/internal/types"
)

// ErrEmptyCorpus 空集合上做聚合时返回，区别于全零统计
var ErrEmptyCorpus = errors.New("候选人集合为空，无数据可聚合")

// topSkillsLimit 技能榜单的长度上限
const topSkillsLimit = 10

// ExperienceBuckets 工作年限分桶统计，边界闭合：恰好5年落在第一桶，恰好10年落在第二桶
type ExperienceBuckets struct {
	UpToFive int `json:"0-5"`
	SixToTen int `json:"5-10"`
	OverTen  int `json:"10+"`
}

// SkillCount 一项技能及其在全部候选人中的出现次数
type SkillCount struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

// CandidateOverview 统计响应中单个候选人的概览行
type CandidateOverview struct {
	ID              int                  `json:"id"`
	Filename        string               `json:"filename"`
	ExperienceYears int                  `json:"experience"`
	Education       types.EducationLevel `json:"education"`
	SkillsCount     int                  `json:"skills_count"`
}

// Summary 候选人语料的全量统计
type Summary struct {
	TotalCandidates       int                          `json:"total_candidates"`
	ExperienceBreakdown   ExperienceBuckets            `json:"experience_breakdown"`
	EducationDistribution map[types.EducationLevel]int `json:"education_distribution"`
	// TopSkills 按出现次数降序的前10项技能；同次数按首次出现顺序稳定排列
	TopSkills []SkillCount `json:"top_skills"`
	// Candidates 全部候选人的概览列表，保持入库顺序
	Candidates []CandidateOverview `json:"candidates"`
}

// Aggregate 对候选人集合计算统计摘要
// 空集合返回ErrEmptyCorpus，由调用方转换为"无数据"响应
func Aggregate(records []*types.CandidateRecord) (*Summary, error) {
	if len(records) == 0 {
		return nil, ErrEmptyCorpus
	}

	summary := &Summary{
		TotalCandidates:       len(records),
		EducationDistribution: make(map[types.EducationLevel]int),
		Candidates:            make([]CandidateOverview, 0, len(records)),
	}

	skillCounts := make(map[string]int)
	skillOrder := make([]string, 0)

	for _, record := range records {
		exp := record.Fields.ExperienceYears
		switch {
		case exp <= 5:
			summary.ExperienceBreakdown.UpToFive++
		case exp <= 10:
			summary.ExperienceBreakdown.SixToTen++
		default:
			summary.ExperienceBreakdown.OverTen++
		}

		summary.EducationDistribution[record.Fields.Education]++

		for _, skill := range record.Fields.Skills {
			if _, seen := skillCounts[skill]; !seen {
				skillOrder = append(skillOrder, skill)
			}
			skillCounts[skill]++
		}

		summary.Candidates = append(summary.Candidates, CandidateOverview{
			ID:              record.ID,
			Filename:        record.Filename,
			ExperienceYears: record.Fields.ExperienceYears,
			Education:       record.Fields.Education,
			SkillsCount:     len(record.Fields.Skills),
		})
	}

	// 按出现次数降序，次数相同时保持首次出现顺序
	sort.SliceStable(skillOrder, func(i, j int) bool {
		return skillCounts[skillOrder[i]] > skillCounts[skillOrder[j]]
	})
	if len(skillOrder) > topSkillsLimit {
		skillOrder = skillOrder[:topSkillsLimit]
	}
	summary.TopSkills = make([]SkillCount, 0, len(skillOrder))
	for _, skill := range skillOrder {
		summary.TopSkills = append(summary.TopSkills, SkillCount{Skill: skill, Count: skillCounts[skill]})
	}

	return summary, nil
}
