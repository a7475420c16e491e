package matcher

import (
	"sort"

	"resume-analyzer-go/internal/types"
)

// SimilarityScorer 文档-查询相似度打分接口
type SimilarityScorer interface {
	Score(documentText, queryText string) float64
}

// Ranker 将一批候选人按与查询文本的相似度降序排列
type Ranker struct {
	scorer SimilarityScorer
}

// NewRanker 创建排序器；scorer为nil时使用默认的TF-IDF打分器
func NewRanker(scorer SimilarityScorer) *Ranker {
	if scorer == nil {
		scorer = NewTFIDFScorer()
	}
	return &Ranker{scorer: scorer}
}

// Rank 对每条记录计算一次分数并降序稳定排序
// 同分记录保持原集合中的相对顺序；空集合返回空结果而非错误
func (r *Ranker) Rank(records []*types.CandidateRecord, queryText string) []types.ScoreResult {
	results := make([]types.ScoreResult, 0, len(records))
	for _, record := range records {
		results = append(results, types.ScoreResult{
			Candidate:  record,
			MatchScore: r.scorer.Score(record.RawText, queryText),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchScore > results[j].MatchScore
	})
	return results
}
