package matcher

import (
	"math"
	"regexp"
	"strings"
)

// TFIDFScorer 计算两段文本的词法相似度分数 (0-100，两位小数)
//
// 每次打分都只对 {文档文本, 查询文本} 这个两元语料做一次独立的TF-IDF向量化，
// 再取两个向量的余弦相似度。IDF每次重新推导、从不跨调用复用，
// 这是刻意保留的简化，换来的是打分之间完全无共享状态
type TFIDFScorer struct{}

// NewTFIDFScorer 创建相似度打分器；打分器无状态，可安全并发使用
func NewTFIDFScorer() *TFIDFScorer {
	return &TFIDFScorer{}
}

// 词法单元：两个及以上字母数字字符的连续串，单字符词被丢弃
var tokenPattern = regexp.MustCompile(`\w\w+`)

// Score 返回documentText与queryText的相似度分数
// 两段文本去停用词后词汇表为空、或任一侧没有有效词时返回0，不报错
func (s *TFIDFScorer) Score(documentText, queryText string) float64 {
	docCounts := termCounts(documentText)
	queryCounts := termCounts(queryText)

	// 两元语料的词汇表
	vocabulary := make(map[string]struct{}, len(docCounts)+len(queryCounts))
	for term := range docCounts {
		vocabulary[term] = struct{}{}
	}
	for term := range queryCounts {
		vocabulary[term] = struct{}{}
	}
	if len(vocabulary) == 0 {
		// 向量化退化：全停用词或空文本
		return 0
	}

	// 平滑IDF: ln((1+n)/(1+df)) + 1，n恒为2
	var dot, docNorm, queryNorm float64
	for term := range vocabulary {
		df := 0
		if docCounts[term] > 0 {
			df++
		}
		if queryCounts[term] > 0 {
			df++
		}
		idf := math.Log(3.0/float64(1+df)) + 1

		docWeight := float64(docCounts[term]) * idf
		queryWeight := float64(queryCounts[term]) * idf

		dot += docWeight * queryWeight
		docNorm += docWeight * docWeight
		queryNorm += queryWeight * queryWeight
	}

	if docNorm == 0 || queryNorm == 0 {
		return 0
	}

	similarity := dot / (math.Sqrt(docNorm) * math.Sqrt(queryNorm))
	// 浮点误差可能让完全相同的文本略超1
	if similarity > 1 {
		similarity = 1
	}

	return math.Round(similarity*100*100) / 100
}

// termCounts 分词、去停用词并统计词频
func termCounts(text string) map[string]int {
	counts := make(map[string]int)
	for _, token := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		if _, stop := englishStopWords[token]; stop {
			continue
		}
		counts[token]++
	}
	return counts
}
