package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

// DocxTextExtractor 从DOCX文档中提取段落文本
// 各段落按文档顺序以换行符连接
type DocxTextExtractor struct {
	logger *log.Logger
}

// DocxOption DOCX提取器的配置选项
type DocxOption func(*DocxTextExtractor)

// WithDocxLogger 配置自定义日志记录器
func WithDocxLogger(logger *log.Logger) DocxOption {
	return func(d *DocxTextExtractor) {
		d.logger = logger
	}
}

// NewDocxTextExtractor 创建DOCX文本提取器
func NewDocxTextExtractor(options ...DocxOption) *DocxTextExtractor {
	extractor := &DocxTextExtractor{
		logger: log.New(os.Stderr, "[DOCX解析器] ", log.LstdFlags),
	}
	for _, option := range options {
		option(extractor)
	}
	return extractor
}

var (
	// 匹配 w:p 段落块，跨行
	docxParagraphPattern = regexp.MustCompile(`(?s)<w:p[ >].*?</w:p>|<w:p/>`)
	// 段内换行和制表符
	docxBreakPattern = regexp.MustCompile(`<w:(?:br|tab)\s*/>`)
	// 其余所有XML标签
	docxTagPattern = regexp.MustCompile(`<[^>]+>`)

	docxEntityReplacer = strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&apos;", "'",
	)
)

// ExtractTextFromBytes 从字节数组提取DOCX文档的段落文本
// ctx 仅为与其他提取器保持一致的接口形状，解析本身是纯内存操作
func (d *DocxTextExtractor) ExtractTextFromBytes(ctx context.Context, data []byte, uri string) (string, error) {
	_ = ctx

	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		d.logger.Printf("DOCX解析失败 (URI: %s): %s", uri, err)
		return "", fmt.Errorf("failed to parse docx for URI %s: %w", uri, err)
	}
	defer doc.Close()

	content := doc.Editable().GetContent()
	text := docxParagraphsToText(content)
	d.logger.Printf("DOCX提取完成 (URI: %s): 提取了 %d 个字符", uri, len(text))
	return text, nil
}

// ExtractTextFromReader 从 io.Reader 中提取DOCX文本
func (d *DocxTextExtractor) ExtractTextFromReader(ctx context.Context, reader io.Reader, uri string) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read docx stream for URI %s: %w", uri, err)
	}
	return d.ExtractTextFromBytes(ctx, data, uri)
}

// docxParagraphsToText 将document.xml内容还原为纯文本
// 每个 w:p 段落产生一行，空段落保留为空行
func docxParagraphsToText(content string) string {
	paragraphs := docxParagraphPattern.FindAllString(content, -1)
	if len(paragraphs) == 0 {
		// 内容里没有段落标记时退化为整体去标签
		return docxStripTags(content)
	}

	lines := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		lines = append(lines, docxStripTags(p))
	}
	return strings.Join(lines, "\n")
}

func docxStripTags(fragment string) string {
	fragment = docxBreakPattern.ReplaceAllString(fragment, " ")
	fragment = docxTagPattern.ReplaceAllString(fragment, "")
	return docxEntityReplacer.Replace(fragment)
}
