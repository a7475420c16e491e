package storage

import (
	"errors"
	"sync"

	"resume-analyzer-go/internal/types"
)

// ErrCandidateNotFound 按ID查找未命中时返回，是一种明确定义的结果而非内部错误
var ErrCandidateNotFound = errors.New("候选人不存在")

// CandidateStore 进程内候选人集合
// 追加、整库读取和清空都在同一把锁内完成，杜绝观察到追加了一半的集合；
// 记录在追加后不再被修改，因此读取方可以安全地共享记录指针
type CandidateStore struct {
	mu      sync.Mutex
	records []*types.CandidateRecord
}

// NewCandidateStore 创建空的候选人集合
func NewCandidateStore() *CandidateStore {
	return &CandidateStore{}
}

// Append 分配下一个ID并追加一条记录
// ID从1开始，按插入顺序单调递增，在整库重置前保持无空洞
func (s *CandidateStore) Append(filename, rawText string, fields types.CandidateFields) *types.CandidateRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := &types.CandidateRecord{
		ID:       len(s.records) + 1,
		Filename: filename,
		RawText:  rawText,
		Fields:   fields,
	}
	s.records = append(s.records, record)
	return record
}

// ListAll 返回当前全部记录的快照切片
// 返回的切片是独立副本，调用方遍历期间的并发追加不会影响它
func (s *CandidateStore) ListAll() []*types.CandidateRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make([]*types.CandidateRecord, len(s.records))
	copy(snapshot, s.records)
	return snapshot
}

// GetByID 按ID查找记录，未命中返回ErrCandidateNotFound
func (s *CandidateStore) GetByID(id int) (*types.CandidateRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.records {
		if record.ID == id {
			return record, nil
		}
	}
	return nil, ErrCandidateNotFound
}

// Count 返回当前记录数
func (s *CandidateStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Clear 原子地丢弃全部记录，集合回到初始空状态
func (s *CandidateStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
}
