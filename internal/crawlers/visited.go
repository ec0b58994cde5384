package crawlers

import (
	"sync"

	"github.com/emirpasic/gods/v2/sets/hashset"
)

// VisitedSet 已访问URL集合
// 只增不减,按字符串精确匹配,并发安全
type VisitedSet struct {
	mu  sync.RWMutex
	set *hashset.Set[string]
}

// NewVisitedSet 创建已访问集合
func NewVisitedSet() *VisitedSet {
	return &VisitedSet{set: hashset.New[string]()}
}

// Contains 检查URL是否已访问
func (v *VisitedSet) Contains(url string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.set.Contains(url)
}

// Add 标记URL为已访问
// 返回true表示首次加入,检查与插入在同一把锁内完成
func (v *VisitedSet) Add(url string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.set.Contains(url) {
		return false
	}
	v.set.Add(url)
	return true
}

// Len 已访问数量
func (v *VisitedSet) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.set.Size()
}
