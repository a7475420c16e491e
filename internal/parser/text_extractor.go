package parser

import (
	"context"
	"fmt"

	"resume-analyzer-go/internal/logger"
	"resume-analyzer-go/internal/types"
)

// DocumentTextSource 单一格式的文本提取实现
type DocumentTextSource interface {
	// ExtractTextFromBytes 从文档字节中提取纯文本
	ExtractTextFromBytes(ctx context.Context, data []byte, uri string) (string, error)
}

// ExtractionResult 一次文本提取的结果
// 提取失败不向上传播错误：Text退化为空串，失败原因保留在Err中供日志与测试观察
type ExtractionResult struct {
	Text string
	Err  error
}

// Failed 返回该次提取是否发生了失败退化
func (r ExtractionResult) Failed() bool {
	return r.Err != nil
}

// TextExtractor 按声明格式将文档字节转为纯文本
// PDF各页直接拼接；DOCX各段落以换行符连接，保持两种格式的既有差异
type TextExtractor struct {
	pdf  DocumentTextSource
	docx DocumentTextSource
}

// TextExtractorOption TextExtractor的配置选项
type TextExtractorOption func(*TextExtractor)

// WithPDFSource 替换PDF提取实现
func WithPDFSource(source DocumentTextSource) TextExtractorOption {
	return func(e *TextExtractor) {
		e.pdf = source
	}
}

// WithDocxSource 替换DOCX提取实现
func WithDocxSource(source DocumentTextSource) TextExtractorOption {
	return func(e *TextExtractor) {
		e.docx = source
	}
}

// NewTextExtractor 创建文本提取器
// 默认使用Eino PDF解析器和DOCX段落解析器
func NewTextExtractor(ctx context.Context, options ...TextExtractorOption) (*TextExtractor, error) {
	extractor := &TextExtractor{}

	for _, option := range options {
		option(extractor)
	}

	if extractor.pdf == nil {
		pdfExtractor, err := NewEinoPDFTextExtractor(ctx)
		if err != nil {
			return nil, fmt.Errorf("初始化PDF提取器失败: %w", err)
		}
		extractor.pdf = pdfExtractor
	}
	if extractor.docx == nil {
		extractor.docx = NewDocxTextExtractor()
	}

	return extractor, nil
}

// Extract 按声明格式提取文本
// 任何提取失败都被就地吸收，结果退化为空文本；不支持的格式应由调用方提前拒绝，
// 若仍传入则同样按失败退化处理
func (e *TextExtractor) Extract(ctx context.Context, data []byte, format types.DocumentFormat, uri string) ExtractionResult {
	var source DocumentTextSource
	switch format {
	case types.FormatPDF:
		source = e.pdf
	case types.FormatDOCX:
		source = e.docx
	default:
		err := fmt.Errorf("不支持的文档格式: %q", format)
		logger.Warn().Str("uri", uri).Err(err).Msg("文本提取退化为空文本")
		return ExtractionResult{Err: err}
	}

	text, err := source.ExtractTextFromBytes(ctx, data, uri)
	if err != nil {
		logger.Warn().Str("uri", uri).Str("format", string(format)).Err(err).Msg("文本提取退化为空文本")
		return ExtractionResult{Err: err}
	}
	return ExtractionResult{Text: text}
}
