package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"

	"resume-analyzer-go/internal/analytics"
	"resume-analyzer-go/internal/config"
	"resume-analyzer-go/internal/constants"
	"resume-analyzer-go/internal/logger"
	"resume-analyzer-go/internal/matcher"
	"resume-analyzer-go/internal/processor"
	"resume-analyzer-go/internal/storage"
	"resume-analyzer-go/internal/types"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// CandidateHandler 候选人处理器，负责协调简历的上传、检索与统计流程
type CandidateHandler struct {
	cfg       *config.Config
	storage   *storage.Storage
	processor *processor.CandidateProcessor
	ranker    *matcher.Ranker
}

// NewCandidateHandler 创建一个新的候选人处理器
func NewCandidateHandler(
	cfg *config.Config,
	storage *storage.Storage,
	processorModule *processor.CandidateProcessor,
) *CandidateHandler {
	return &CandidateHandler{
		cfg:       cfg,
		storage:   storage,
		processor: processorModule,
		ranker:    matcher.NewRanker(nil),
	}
}

// CandidateSummary 单份简历的结构化摘要，用于上传与检索响应
type CandidateSummary struct {
	ID              int                  `json:"id"`
	Filename        string               `json:"filename"`
	Skills          []string             `json:"skills"`
	ExperienceYears int                  `json:"experience_years"`
	Education       types.EducationLevel `json:"education"`
	Email           *string              `json:"email"`
	Phone           *string              `json:"phone"`
}

// SkippedFile 上传时被跳过的文件及原因
type SkippedFile struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

// UploadResponse 批量上传响应
type UploadResponse struct {
	Message    string             `json:"message"`
	Candidates []CandidateSummary `json:"candidates"`
	Skipped    []SkippedFile      `json:"skipped,omitempty"`
}

// SearchRequest 检索请求体
// query 必填；job_description 是参与打分的职位描述文本，缺省时退化为 query
type SearchRequest struct {
	Query          string `json:"query"`
	JobDescription string `json:"job_description"`
}

// RankedCandidate 带匹配分的候选人，按分数降序返回
type RankedCandidate struct {
	CandidateSummary
	MatchScore float64 `json:"match_score"`
}

// SearchResponse 检索响应
type SearchResponse struct {
	Query   string            `json:"query"`
	Total   int               `json:"total"`
	Results []RankedCandidate `json:"results"`
}

func readMultipartFile(fileHeader *multipart.FileHeader) ([]byte, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("打开上传文件失败: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("读取上传文件失败: %w", err)
	}
	return data, nil
}

func summarizeCandidate(record *types.CandidateRecord) CandidateSummary {
	return CandidateSummary{
		ID:              record.ID,
		Filename:        record.Filename,
		Skills:          record.Fields.Skills,
		ExperienceYears: record.Fields.ExperienceYears,
		Education:       record.Fields.Education,
		Email:           record.Fields.Email,
		Phone:           record.Fields.Phone,
	}
}

// HandleHealth 健康检查
// GET /api/v1/health
func (h *CandidateHandler) HandleHealth(ctx context.Context, c *app.RequestContext) {
	c.JSON(consts.StatusOK, utils.H{
		"status":     "healthy",
		"message":    "简历分析服务运行中",
		"candidates": h.storage.Candidates.Count(),
	})
}

// HandleUpload 处理批量简历上传请求
// POST /api/v1/candidates/upload
func (h *CandidateHandler) HandleUpload(ctx context.Context, c *app.RequestContext) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(consts.StatusBadRequest, utils.H{"error": "解析 multipart 表单失败"})
		return
	}

	files := form.File[constants.UploadFormFieldFiles]
	if len(files) == 0 {
		c.JSON(consts.StatusBadRequest, utils.H{"error": "未提供文件，请使用 files 字段上传"})
		return
	}

	resp := UploadResponse{
		Candidates: []CandidateSummary{},
		Skipped:    []SkippedFile{},
	}

	for _, fileHeader := range files {
		filename := fileHeader.Filename

		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
		format, ok := types.FormatForExtension(ext)
		if !ok {
			resp.Skipped = append(resp.Skipped, SkippedFile{
				Filename: filename,
				Reason:   "不支持的文件类型，仅接受 pdf 与 docx",
			})
			continue
		}

		if fileHeader.Size > h.cfg.Upload.MaxFileSizeBytes() {
			resp.Skipped = append(resp.Skipped, SkippedFile{
				Filename: filename,
				Reason:   fmt.Sprintf("文件超过大小上限 %d 字节", h.cfg.Upload.MaxFileSizeBytes()),
			})
			continue
		}

		data, err := readMultipartFile(fileHeader)
		if err != nil {
			logger.Warn().Err(err).Str("filename", filename).Msg("读取上传文件内容失败")
			resp.Skipped = append(resp.Skipped, SkippedFile{
				Filename: filename,
				Reason:   "读取文件内容失败",
			})
			continue
		}

		record, err := h.processor.ProcessDocument(ctx, filename, data, format)
		if err != nil {
			if errors.Is(err, processor.ErrDuplicateFile) {
				resp.Skipped = append(resp.Skipped, SkippedFile{
					Filename: filename,
					Reason:   "重复文件，已上传过相同内容",
				})
				continue
			}
			logger.Error().Err(err).Str("filename", filename).Msg("处理简历失败")
			resp.Skipped = append(resp.Skipped, SkippedFile{
				Filename: filename,
				Reason:   "处理失败",
			})
			continue
		}

		resp.Candidates = append(resp.Candidates, summarizeCandidate(record))
	}

	resp.Message = fmt.Sprintf("成功处理 %d 份简历", len(resp.Candidates))
	c.JSON(consts.StatusOK, resp)
}

// HandleSearch 根据职位描述对全部候选人进行匹配度排序
// POST /api/v1/candidates/search
// query 为必填；job_description 是实际参与打分的文本，缺省时取 query
func (h *CandidateHandler) HandleSearch(ctx context.Context, c *app.RequestContext) {
	body, err := c.Body()
	if err != nil {
		c.JSON(consts.StatusBadRequest, utils.H{"error": "读取请求体失败"})
		return
	}

	var req SearchRequest
	if err := json.Unmarshal(body, &req); err != nil {
		c.JSON(consts.StatusBadRequest, utils.H{"error": "请求体不是合法的 JSON"})
		return
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		c.JSON(consts.StatusBadRequest, utils.H{"error": "query 不能为空"})
		return
	}

	scoringText := strings.TrimSpace(req.JobDescription)
	if scoringText == "" {
		scoringText = query
	}

	// 空库按空结果返回，不作为错误
	records := h.storage.Candidates.ListAll()
	ranked := h.ranker.Rank(records, scoringText)
	results := make([]RankedCandidate, 0, len(ranked))
	for _, item := range ranked {
		results = append(results, RankedCandidate{
			CandidateSummary: summarizeCandidate(item.Candidate),
			MatchScore:       item.MatchScore,
		})
	}

	c.JSON(consts.StatusOK, SearchResponse{
		Query:   query,
		Total:   len(results),
		Results: results,
	})
}

// HandleAnalytics 返回整个候选人库的聚合统计
// GET /api/v1/candidates/analytics
func (h *CandidateHandler) HandleAnalytics(ctx context.Context, c *app.RequestContext) {
	records := h.storage.Candidates.ListAll()

	summary, err := analytics.Aggregate(records)
	if err != nil {
		if errors.Is(err, analytics.ErrEmptyCorpus) {
			c.JSON(consts.StatusNotFound, utils.H{"error": "尚未上传任何简历"})
			return
		}
		logger.Error().Err(err).Msg("聚合候选人统计失败")
		c.JSON(consts.StatusInternalServerError, utils.H{"error": "聚合统计失败"})
		return
	}

	c.JSON(consts.StatusOK, summary)
}

// HandleGetCandidate 按 ID 返回单个候选人的结构化字段
// GET /api/v1/candidates/:id
func (h *CandidateHandler) HandleGetCandidate(ctx context.Context, c *app.RequestContext) {
	idParam := c.Param("id")
	id, err := strconv.Atoi(idParam)
	if err != nil {
		c.JSON(consts.StatusBadRequest, utils.H{"error": "id 必须是整数"})
		return
	}

	record, err := h.storage.Candidates.GetByID(id)
	if err != nil {
		if errors.Is(err, storage.ErrCandidateNotFound) {
			c.JSON(consts.StatusNotFound, utils.H{"error": fmt.Sprintf("候选人 %d 不存在", id)})
			return
		}
		logger.Error().Err(err).Int("candidate_id", id).Msg("查询候选人失败")
		c.JSON(consts.StatusInternalServerError, utils.H{"error": "查询候选人失败"})
		return
	}

	c.JSON(consts.StatusOK, summarizeCandidate(record))
}

// HandleReset 清空候选人库及其去重、快照等附属状态
// POST /api/v1/candidates/reset
func (h *CandidateHandler) HandleReset(ctx context.Context, c *app.RequestContext) {
	h.processor.Reset(ctx)
	c.JSON(consts.StatusOK, utils.H{"message": "候选人库已清空"})
}
