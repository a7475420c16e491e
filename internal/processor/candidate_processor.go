package processor

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"resume-analyzer-go/internal/constants"
	"resume-analyzer-go/internal/logger"
	"resume-analyzer-go/internal/parser"
	"resume-analyzer-go/internal/storage"
	"resume-analyzer-go/internal/storage/models"
	"resume-analyzer-go/internal/types"

	"github.com/gofrs/uuid/v5"
	"gorm.io/datatypes"
)

// CandidateProcessor 候选人入库流水线
//
// 一次ProcessDocument调用完成：去重检查 → 文本提取 → 字段提取 → 写入内存集合，
// 然后尽力而为地执行归档与事件发布。内存集合是唯一的事实来源，
// 所有外围副作用失败都只记录日志，不影响已入库的记录
type CandidateProcessor struct {
	textExtractor  TextExtractor
	fieldExtractor FieldExtractor
	storage        *storage.Storage
}

// NewCandidateProcessor 创建入库流水线
// 未通过选项注入的组件使用默认实现
func NewCandidateProcessor(ctx context.Context, storageManager *storage.Storage, options ...Option) (*CandidateProcessor, error) {
	if storageManager == nil {
		return nil, fmt.Errorf("存储管理器不能为空")
	}

	p := &CandidateProcessor{storage: storageManager}
	for _, option := range options {
		option(p)
	}

	if p.textExtractor == nil {
		textExtractor, err := parser.NewTextExtractor(ctx)
		if err != nil {
			return nil, fmt.Errorf("初始化文本提取器失败: %w", err)
		}
		p.textExtractor = textExtractor
	}
	if p.fieldExtractor == nil {
		p.fieldExtractor = parser.NewFieldExtractor()
	}

	return p, nil
}

// ProcessDocument 处理一份上传文档并返回新建的候选人记录
//
// 文本提取失败不是错误：记录以空文本和全默认字段入库。
// 返回错误的情况只有重复上传（ErrDuplicateFile）
func (p *CandidateProcessor) ProcessDocument(ctx context.Context, filename string, data []byte, format types.DocumentFormat) (*types.CandidateRecord, error) {
	submissionUUID := newSubmissionUUID()

	// 上传去重（仅在配置了Redis时启用）
	fileMD5 := calculateMD5(data)
	if p.storage.Redis != nil {
		firstSeen, err := p.storage.Redis.CheckAndRecordFileMD5(ctx, fileMD5)
		if err != nil {
			// 去重通道故障时放行，宁可重复也不丢件
			logger.Warn().Err(err).Str("filename", filename).Msg("文件去重检查失败，跳过去重")
		} else if !firstSeen {
			return nil, NewDuplicateFileError(submissionUUID, fmt.Sprintf("md5=%s filename=%s", fileMD5, filename))
		}
	}

	// 文本提取：失败退化为空文本，原因留在结果里
	extraction := p.textExtractor.Extract(ctx, data, format, filename)
	if extraction.Failed() {
		logger.Warn().
			Str("submission_uuid", submissionUUID).
			Str("filename", filename).
			Err(extraction.Err).
			Msg("文本提取失败，按空文本入库")
	}

	fields := p.fieldExtractor.Extract(extraction.Text)

	record := p.storage.Candidates.Append(filename, extraction.Text, fields)
	logger.Info().
		Int("candidate_id", record.ID).
		Str("submission_uuid", submissionUUID).
		Str("filename", filename).
		Int("skills", len(fields.Skills)).
		Msg("候选人已入库")

	// 外围副作用全部尽力而为
	p.archiveOriginal(ctx, submissionUUID, filename, data)
	p.saveSnapshot(ctx, submissionUUID, record)
	p.publishIngested(ctx, submissionUUID, record)

	return record, nil
}

// Reset 原子地清空候选人集合，并同步清理去重集合与快照归档
func (p *CandidateProcessor) Reset(ctx context.Context) {
	p.storage.Candidates.Clear()

	if p.storage.Redis != nil {
		if err := p.storage.Redis.ClearFileMD5Set(ctx); err != nil {
			logger.Warn().Err(err).Msg("清空文件去重集合失败")
		}
	}
	if p.storage.MySQL != nil {
		if err := p.storage.MySQL.DeleteAllSnapshots(ctx); err != nil {
			logger.Warn().Err(err).Msg("清空候选人快照失败")
		}
	}
	logger.Info().Msg("候选人集合已重置")
}

// archiveOriginal 将原始文件归档到对象存储
func (p *CandidateProcessor) archiveOriginal(ctx context.Context, submissionUUID, filename string, data []byte) {
	if p.storage.MinIO == nil {
		return
	}
	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	if _, err := p.storage.MinIO.UploadOriginal(ctx, submissionUUID, ext, data); err != nil {
		logger.Warn().Err(err).Str("submission_uuid", submissionUUID).Msg("原始文件归档失败")
	}
}

// saveSnapshot 将记录快照写入MySQL
func (p *CandidateProcessor) saveSnapshot(ctx context.Context, submissionUUID string, record *types.CandidateRecord) {
	if p.storage.MySQL == nil {
		return
	}
	snapshot := &models.CandidateSnapshot{
		CandidateID:     record.ID,
		SubmissionUUID:  submissionUUID,
		Filename:        record.Filename,
		RawText:         record.RawText,
		Skills:          skillsToJSON(record.Fields.Skills),
		ExperienceYears: record.Fields.ExperienceYears,
		EducationLevel:  string(record.Fields.Education),
		Email:           record.Fields.Email,
		Phone:           record.Fields.Phone,
	}
	if err := p.storage.MySQL.SaveCandidateSnapshot(ctx, snapshot); err != nil {
		logger.Warn().Err(err).Int("candidate_id", record.ID).Msg("候选人快照写入失败")
	}
}

// publishIngested 发布候选人入库事件
func (p *CandidateProcessor) publishIngested(ctx context.Context, submissionUUID string, record *types.CandidateRecord) {
	if p.storage.RabbitMQ == nil {
		return
	}
	message := storage.CandidateIngestedMessage{
		CandidateID:     record.ID,
		SubmissionUUID:  submissionUUID,
		Filename:        record.Filename,
		SourceChannel:   constants.DefaultSourceChannel,
		Skills:          record.Fields.Skills,
		ExperienceYears: record.Fields.ExperienceYears,
		EducationLevel:  string(record.Fields.Education),
		IngestedAt:      time.Now(),
	}
	if err := p.storage.RabbitMQ.PublishJSON(ctx, constants.CandidateIngestedRoutingKey, message); err != nil {
		logger.Warn().Err(err).Int("candidate_id", record.ID).Msg("入库事件发布失败")
	}
}

// calculateMD5 计算字节切片的MD5十六进制摘要
func calculateMD5(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// newSubmissionUUID 生成本次提交的UUID，生成失败时退化为时间戳标识
func newSubmissionUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
	}
	return id.String()
}

// skillsToJSON 将技能列表编码为JSON列类型
func skillsToJSON(skills []string) datatypes.JSON {
	if len(skills) == 0 {
		return datatypes.JSON("[]")
	}
	data, err := json.Marshal(skills)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(data)
}
