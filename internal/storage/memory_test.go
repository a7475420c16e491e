package storage

import (
	"fmt"
	"sync"
	"testing"

	"resume-analyzer-go/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidateStoreAppendAssignsSequentialIDs(t *testing.T) {
	store := NewCandidateStore()

	first := store.Append("a.pdf", "text a", types.CandidateFields{})
	second := store.Append("b.docx", "text b", types.CandidateFields{})
	third := store.Append("c.pdf", "text c", types.CandidateFields{})

	assert.Equal(t, 1, first.ID, "ID应从1开始")
	assert.Equal(t, 2, second.ID)
	assert.Equal(t, 3, third.ID)
	assert.Equal(t, 3, store.Count())
}

func TestCandidateStoreGetByID(t *testing.T) {
	store := NewCandidateStore()
	store.Append("a.pdf", "text a", types.CandidateFields{})

	t.Run("命中", func(t *testing.T) {
		record, err := store.GetByID(1)
		require.NoError(t, err)
		assert.Equal(t, "a.pdf", record.Filename)
	})

	t.Run("未命中返回哨兵错误", func(t *testing.T) {
		_, err := store.GetByID(99)
		assert.ErrorIs(t, err, ErrCandidateNotFound)
	})
}

func TestCandidateStoreListAllReturnsSnapshot(t *testing.T) {
	store := NewCandidateStore()
	store.Append("a.pdf", "text a", types.CandidateFields{})

	snapshot := store.ListAll()
	require.Len(t, snapshot, 1)

	// 快照不应感知后续追加
	store.Append("b.pdf", "text b", types.CandidateFields{})
	assert.Len(t, snapshot, 1, "已返回的快照不应随集合增长")
	assert.Len(t, store.ListAll(), 2)
}

func TestCandidateStoreClearResetsIDs(t *testing.T) {
	store := NewCandidateStore()
	store.Append("a.pdf", "text a", types.CandidateFields{})
	store.Append("b.pdf", "text b", types.CandidateFields{})

	store.Clear()
	assert.Equal(t, 0, store.Count(), "清空后集合应为空")

	record := store.Append("c.pdf", "text c", types.CandidateFields{})
	assert.Equal(t, 1, record.ID, "清空后ID应重新从1开始")
}

func TestCandidateStoreConcurrentAppend(t *testing.T) {
	store := NewCandidateStore()

	const workers = 32
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(n int) {
			defer wg.Done()
			store.Append(fmt.Sprintf("cv-%d.pdf", n), "text", types.CandidateFields{})
		}(i)
	}
	wg.Wait()

	require.Equal(t, workers, store.Count())

	// 并发追加后ID仍然是1..N的无空洞序列
	seen := make(map[int]bool)
	for _, record := range store.ListAll() {
		seen[record.ID] = true
	}
	for id := 1; id <= workers; id++ {
		assert.True(t, seen[id], "ID %d 应存在", id)
	}
}
