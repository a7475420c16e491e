package parser

import (
	"context"
	"errors"
	"testing"

	"resume-analyzer-go/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTextSource 返回固定文本或固定错误的测试桩
type stubTextSource struct {
	text string
	err  error
}

func (s *stubTextSource) ExtractTextFromBytes(ctx context.Context, data []byte, uri string) (string, error) {
	return s.text, s.err
}

func TestTextExtractorDispatch(t *testing.T) {
	ctx := context.Background()

	extractor, err := NewTextExtractor(ctx,
		WithPDFSource(&stubTextSource{text: "pdf text"}),
		WithDocxSource(&stubTextSource{text: "docx text"}),
	)
	require.NoError(t, err, "创建文本提取器不应失败")

	t.Run("按格式分发到PDF", func(t *testing.T) {
		result := extractor.Extract(ctx, []byte("%PDF"), types.FormatPDF, "a.pdf")
		assert.False(t, result.Failed())
		assert.Equal(t, "pdf text", result.Text)
	})

	t.Run("按格式分发到DOCX", func(t *testing.T) {
		result := extractor.Extract(ctx, []byte("PK"), types.FormatDOCX, "a.docx")
		assert.False(t, result.Failed())
		assert.Equal(t, "docx text", result.Text)
	})

	t.Run("不支持的格式退化为空文本", func(t *testing.T) {
		result := extractor.Extract(ctx, []byte("data"), types.DocumentFormat("txt"), "a.txt")
		assert.True(t, result.Failed(), "不支持的格式应标记为失败")
		assert.Empty(t, result.Text, "失败时文本应为空串")
	})
}

func TestTextExtractorAbsorbsFailures(t *testing.T) {
	ctx := context.Background()
	parseErr := errors.New("corrupt document")

	extractor, err := NewTextExtractor(ctx,
		WithPDFSource(&stubTextSource{err: parseErr}),
		WithDocxSource(&stubTextSource{err: parseErr}),
	)
	require.NoError(t, err)

	result := extractor.Extract(ctx, []byte("junk"), types.FormatPDF, "broken.pdf")
	assert.True(t, result.Failed(), "解析失败应标记为失败")
	assert.Empty(t, result.Text, "失败时文本应退化为空串")
	assert.ErrorIs(t, result.Err, parseErr, "失败原因应保留在Err中")
}

func TestDocxParagraphsToText(t *testing.T) {
	t.Run("段落以换行符连接", func(t *testing.T) {
		content := `<w:body><w:p ><w:r><w:t>John Doe</w:t></w:r></w:p>` +
			`<w:p ><w:r><w:t>Senior </w:t></w:r><w:r><w:t>Engineer</w:t></w:r></w:p></w:body>`
		assert.Equal(t, "John Doe\nSenior Engineer", docxParagraphsToText(content))
	})

	t.Run("空段落保留为空行", func(t *testing.T) {
		content := `<w:p ><w:r><w:t>a</w:t></w:r></w:p><w:p/><w:p ><w:r><w:t>b</w:t></w:r></w:p>`
		assert.Equal(t, "a\n\nb", docxParagraphsToText(content))
	})

	t.Run("段内换行与制表符转为空格", func(t *testing.T) {
		content := `<w:p ><w:r><w:t>line1</w:t><w:br/><w:t>line2</w:t></w:r></w:p>`
		assert.Equal(t, "line1 line2", docxParagraphsToText(content))
	})

	t.Run("还原XML实体", func(t *testing.T) {
		content := `<w:p ><w:r><w:t>R&amp;D &lt;core&gt;</w:t></w:r></w:p>`
		assert.Equal(t, "R&D <core>", docxParagraphsToText(content))
	})

	t.Run("无段落标记时整体去标签", func(t *testing.T) {
		assert.Equal(t, "plain", docxParagraphsToText("<w:t>plain</w:t>"))
	})
}

func TestDocxExtractorRejectsGarbage(t *testing.T) {
	extractor := NewDocxTextExtractor()

	_, err := extractor.ExtractTextFromBytes(context.Background(), []byte("not a zip archive"), "bad.docx")
	assert.Error(t, err, "非ZIP字节应返回解析错误")
}
