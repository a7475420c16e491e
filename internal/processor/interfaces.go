package processor

import (
	"context"

	"resume-analyzer-go/internal/parser"
	"resume-analyzer-go/internal/types"
)

// TextExtractor 文档字节到纯文本的提取接口
type TextExtractor interface {
	// Extract 按声明格式提取文本，失败退化为空文本而非返回错误
	Extract(ctx context.Context, data []byte, format types.DocumentFormat, uri string) parser.ExtractionResult
}

// FieldExtractor 原始文本到结构化字段的提取接口
type FieldExtractor interface {
	// Extract 独立运行全部启发式规则，未命中取类型化默认值
	Extract(text string) types.CandidateFields
}
