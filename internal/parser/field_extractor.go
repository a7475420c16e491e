package parser

import (
	"regexp"
	"strconv"
	"strings"

	"resume-analyzer-go/internal/types"
)

// DefaultSkillVocabulary 技能词表，匹配输出保持此处的声明顺序
var DefaultSkillVocabulary = []string{
	"Python", "Java", "JavaScript", "C++", "C#", "Ruby", "PHP", "Swift",
	"React", "Angular", "Vue", "Node.js", "Django", "Flask", "Spring",
	"SQL", "MongoDB", "PostgreSQL", "MySQL", "Redis",
	"AWS", "Azure", "GCP", "Docker", "Kubernetes",
	"Machine Learning", "Deep Learning", "AI", "Data Analysis",
	"Git", "Agile", "Scrum", "DevOps", "CI/CD",
}

// EducationKeyword 学历关键词与其对应层级
type EducationKeyword struct {
	Keyword string
	Level   types.EducationLevel
}

// DefaultEducationKeywords 学历关键词表
// 表序即优先级：先检查的关键词胜出，与文中出现位置无关
var DefaultEducationKeywords = []EducationKeyword{
	{"phd", types.EducationPhD},
	{"ph.d", types.EducationPhD},
	{"doctorate", types.EducationPhD},
	{"master", types.EducationMaster},
	{"m.s.", types.EducationMaster},
	{"m.s", types.EducationMaster},
	{"mba", types.EducationMaster},
	{"bachelor", types.EducationBachelor},
	{"b.s.", types.EducationBachelor},
	{"b.s", types.EducationBachelor},
	{"b.tech", types.EducationBachelor},
	{"b.e.", types.EducationBachelor},
}

var (
	// 按优先级排列的工作年限模式，命中第一个即返回
	defaultExperiencePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+)\+?\s*years?\s*(?:of)?\s*experience`),
		regexp.MustCompile(`(?i)experience\s*:\s*(\d+)\+?\s*years?`),
	}

	defaultEmailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

	// 刻意宽松的号码模式，长数字串也会命中，属于已记录的启发式噪声
	defaultPhonePattern = regexp.MustCompile(`[\+\(]?[1-9][0-9 .\-\(\)]{6,}[0-9]`)
)

// FieldExtractor 对原始文本运行相互独立的启发式规则，产出结构化字段
// 全部规则表在构造时注入，之后不再变化
type FieldExtractor struct {
	skills             []string
	educationKeywords  []EducationKeyword
	experiencePatterns []*regexp.Regexp
	emailPattern       *regexp.Regexp
	phonePattern       *regexp.Regexp
}

// FieldExtractorOption FieldExtractor的配置选项
type FieldExtractorOption func(*FieldExtractor)

// WithSkillVocabulary 替换技能词表
func WithSkillVocabulary(skills []string) FieldExtractorOption {
	return func(f *FieldExtractor) {
		f.skills = skills
	}
}

// WithEducationKeywords 替换学历关键词表
func WithEducationKeywords(keywords []EducationKeyword) FieldExtractorOption {
	return func(f *FieldExtractor) {
		f.educationKeywords = keywords
	}
}

// WithExperiencePatterns 替换工作年限模式表
func WithExperiencePatterns(patterns []*regexp.Regexp) FieldExtractorOption {
	return func(f *FieldExtractor) {
		f.experiencePatterns = patterns
	}
}

// NewFieldExtractor 创建字段提取器，未指定的规则表使用默认值
func NewFieldExtractor(options ...FieldExtractorOption) *FieldExtractor {
	extractor := &FieldExtractor{
		skills:             DefaultSkillVocabulary,
		educationKeywords:  DefaultEducationKeywords,
		experiencePatterns: defaultExperiencePatterns,
		emailPattern:       defaultEmailPattern,
		phonePattern:       defaultPhonePattern,
	}
	for _, option := range options {
		option(extractor)
	}
	return extractor
}

// Extract 对同一段不可变文本独立运行全部启发式规则
// 任何规则未命中都返回各自的类型化默认值，从不报错
func (f *FieldExtractor) Extract(text string) types.CandidateFields {
	return types.CandidateFields{
		Skills:          f.ExtractSkills(text),
		ExperienceYears: f.ExtractExperienceYears(text),
		Education:       f.ExtractEducation(text),
		Email:           f.ExtractEmail(text),
		Phone:           f.ExtractPhone(text),
	}
}

// ExtractSkills 大小写不敏感的子串匹配
// 子串命中长词内部也算命中，这是有意保留的宽松行为
func (f *FieldExtractor) ExtractSkills(text string) []string {
	textLower := strings.ToLower(text)

	found := []string{}
	for _, skill := range f.skills {
		if strings.Contains(textLower, strings.ToLower(skill)) {
			found = append(found, skill)
		}
	}
	return found
}

// ExtractExperienceYears 按模式优先级提取工作年限
// 两个模式都未命中时返回0；0同时覆盖"未检测到"与"零年"两种含义
func (f *FieldExtractor) ExtractExperienceYears(text string) int {
	for _, pattern := range f.experiencePatterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		years, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		return years
	}
	return 0
}

// ExtractEducation 按关键词表顺序返回第一个命中的学历层级
func (f *FieldExtractor) ExtractEducation(text string) types.EducationLevel {
	textLower := strings.ToLower(text)
	for _, entry := range f.educationKeywords {
		if strings.Contains(textLower, entry.Keyword) {
			return entry.Level
		}
	}
	return types.EducationUnknown
}

// ExtractEmail 返回第一个语法匹配的邮箱
func (f *FieldExtractor) ExtractEmail(text string) *string {
	match := f.emailPattern.FindString(text)
	if match == "" {
		return nil
	}
	return &match
}

// ExtractPhone 返回第一个匹配的号码串
func (f *FieldExtractor) ExtractPhone(text string) *string {
	match := f.phonePattern.FindString(text)
	if match == "" {
		return nil
	}
	return &match
}
