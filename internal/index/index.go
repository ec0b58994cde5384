// Package index 提供词表倒排索引
//
// 索引的键集合在爬取开始前由Load确定,之后只追加命中URL。
// 每个词的命中列表保持首次出现顺序,同一URL对同一词只计一次。
// Size返回的命中总数即爬取预算计数器。
package index

import (
	"errors"
	"sort"
	"sync"

	"github.com/emirpasic/gods/v2/sets/linkedhashset"
)

// ErrSealed 索引已封存,不能再加载新词
var ErrSealed = errors.New("索引已封存,不能加载新词")

// VocabularyIndex 词表倒排索引,并发安全
type VocabularyIndex struct {
	mu      sync.RWMutex
	entries map[string]*linkedhashset.Set[string]
	total   int
	sealed  bool
}

// New 创建空索引
func New() *VocabularyIndex {
	return &VocabularyIndex{entries: make(map[string]*linkedhashset.Set[string])}
}

// Load 批量加载词表,已存在的词保持原有命中
func (idx *VocabularyIndex) Load(words ...string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.sealed {
		return ErrSealed
	}
	for _, word := range words {
		if _, ok := idx.entries[word]; !ok {
			idx.entries[word] = linkedhashset.New[string]()
		}
	}
	return nil
}

// Seal 封存键集合,爬取开始时调用
func (idx *VocabularyIndex) Seal() {
	idx.mu.Lock()
	idx.sealed = true
	idx.mu.Unlock()
}

// Sealed 是否已封存
func (idx *VocabularyIndex) Sealed() bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.sealed
}

// RecordHit 记录一次命中
// 未知词或重复URL不做任何改变,返回值表示命中总数是否增加
func (idx *VocabularyIndex) RecordHit(word, url string) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	hits, ok := idx.entries[word]
	if !ok || hits.Contains(url) {
		return false
	}
	hits.Add(url)
	idx.total++
	return true
}

// Hits 返回词的命中URL(首次出现顺序)
// 未知词、零命中词、已裁剪词都返回空切片,从不返回nil
func (idx *VocabularyIndex) Hits(word string) []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	hits, ok := idx.entries[word]
	if !ok {
		return []string{}
	}
	return hits.Values()
}

// Size 命中总数(预算计数器)
func (idx *VocabularyIndex) Size() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.total
}

// Len 词表大小
func (idx *VocabularyIndex) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Contains 是否为词表中的词
func (idx *VocabularyIndex) Contains(word string) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	_, ok := idx.entries[word]
	return ok
}

// Words 词表(按字典序)
func (idx *VocabularyIndex) Words() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	words := make([]string, 0, len(idx.entries))
	for word := range idx.entries {
		words = append(words, word)
	}
	sort.Strings(words)
	return words
}

// Prune 删除零命中的词,返回删除数量
// 裁剪不影响查询结果
func (idx *VocabularyIndex) Prune() int {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	pruned := 0
	for word, hits := range idx.entries {
		if hits.Empty() {
			delete(idx.entries, word)
			pruned++
		}
	}
	return pruned
}

// Snapshot 有命中的词及其URL副本
func (idx *VocabularyIndex) Snapshot() map[string][]string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	snapshot := make(map[string][]string)
	for word, hits := range idx.entries {
		if !hits.Empty() {
			snapshot[word] = hits.Values()
		}
	}
	return snapshot
}
