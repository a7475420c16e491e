package types

import "strings"

// DocumentFormat 表示上传文档的声明格式
type DocumentFormat string

const (
	// FormatPDF PDF文档
	FormatPDF DocumentFormat = "pdf"
	// FormatDOCX Word文档 (OOXML)
	FormatDOCX DocumentFormat = "docx"
)

// FormatForExtension 将文件扩展名(不含点，大小写不敏感)解析为支持的文档格式
// 不在支持范围内的扩展名在到达提取器之前就会被调用方拒绝
func FormatForExtension(ext string) (DocumentFormat, bool) {
	switch strings.ToLower(ext) {
	case "pdf":
		return FormatPDF, true
	case "docx":
		return FormatDOCX, true
	default:
		return "", false
	}
}

// EducationLevel 表示从简历文本中识别出的最高学历层级
type EducationLevel string

const (
	// EducationPhD 博士及同等学历
	EducationPhD EducationLevel = "PhD"
	// EducationMaster 硕士及同等学历
	EducationMaster EducationLevel = "Master"
	// EducationBachelor 本科及同等学历
	EducationBachelor EducationLevel = "Bachelor"
	// EducationUnknown 未识别出学历
	EducationUnknown EducationLevel = "Unknown"
)

// CandidateFields 字段提取器从原始文本中得到的结构化属性集合
// 各字段由相互独立的启发式规则产生，未命中时取各自的零值默认
type CandidateFields struct {
	// Skills 命中的技能词，保持技能词表的声明顺序而非文中出现顺序
	Skills []string `json:"skills"`
	// ExperienceYears 工作年限；0 同时表示"未检测到"与"零年"，刻意不区分
	ExperienceYears int `json:"experience_years"`
	// Education 学历层级
	Education EducationLevel `json:"education"`
	// Email 第一个语法匹配的邮箱，未命中为nil
	Email *string `json:"email"`
	// Phone 第一个匹配的电话号码，模式刻意宽松，未命中为nil
	Phone *string `json:"phone"`
}

// CandidateRecord 一份已入库简历的完整记录
// 创建后不再修改，仅在整库重置时被一并丢弃
type CandidateRecord struct {
	// ID 1起始、按插入顺序单调分配的候选人ID
	ID int `json:"id"`
	// Filename 原始文件名，仅用于展示，不参与身份判定
	Filename string `json:"filename"`
	// RawText 提取出的全文文本，提取失败时为空串
	RawText string `json:"-"`
	// Fields 结构化字段
	Fields CandidateFields `json:"fields"`
}

// ScoreResult 一次检索中候选人与其相关度分数的临时配对
// 每次检索都重新计算，从不缓存
type ScoreResult struct {
	Candidate  *CandidateRecord
	MatchScore float64
}
