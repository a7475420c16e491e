package processor

// Option 候选人处理器的配置选项
type Option func(*CandidateProcessor)

// WithTextExtractor 替换文本提取组件
func WithTextExtractor(extractor TextExtractor) Option {
	return func(p *CandidateProcessor) {
		p.textExtractor = extractor
	}
}

// WithFieldExtractor 替换字段提取组件
func WithFieldExtractor(extractor FieldExtractor) Option {
	return func(p *CandidateProcessor) {
		p.fieldExtractor = extractor
	}
}
