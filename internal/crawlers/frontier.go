package crawlers

import (
	"fmt"

	"github.com/RecoveryAshes/wordcrawl/internal/models"
	"github.com/emirpasic/gods/v2/queues/linkedlistqueue"
	"github.com/emirpasic/gods/v2/stacks/arraystack"
)

// Frontier 待爬URL队列
// 职责: 仅负责保存待处理URL,出队顺序由遍历策略决定
// 不检查队列内重复,去重由调用方通过VisitedSet完成
// 非并发安全,由爬取器持锁访问
type Frontier interface {
	// HasNext 是否还有待处理URL
	HasNext() bool

	// Add 入队,队列已满时丢弃并返回false
	Add(url string) bool

	// AddAll 批量入队,返回实际入队数量
	AddAll(urls []string) int

	// Next 出队,队列为空时返回ErrEmptyFrontier
	Next() (string, error)

	// Len 当前待处理数量
	Len() int

	// Cap 容量上限,0表示不限
	Cap() int

	// Resize 调整容量,小于当前待处理数时返回ErrInvalidResize且队列不变
	Resize(capacity int) error

	// Strategy 遍历策略
	Strategy() models.Strategy
}

// NewFrontier 按策略创建队列
func NewFrontier(strategy models.Strategy, capacity int) (Frontier, error) {
	if capacity < 0 {
		return nil, fmt.Errorf("队列容量不能为负数: %d", capacity)
	}

	bounds := bounds{capacity: capacity}
	switch strategy {
	case models.StrategyBreadthFirst:
		return &breadthFirst{bounds: bounds, queue: linkedlistqueue.New[string]()}, nil
	case models.StrategyDepthFirst:
		return &depthFirst{bounds: bounds, stack: arraystack.New[string]()}, nil
	default:
		return nil, fmt.Errorf("无效的遍历策略: %q", strategy)
	}
}

// SwapFrontier 切换遍历策略
// 按旧队列的出队顺序全部转移到新队列,容量保持不变
// 目标策略与当前相同时直接返回原队列
func SwapFrontier(old Frontier, strategy models.Strategy) (Frontier, error) {
	if old.Strategy() == strategy {
		return old, nil
	}

	next, err := NewFrontier(strategy, old.Cap())
	if err != nil {
		return nil, err
	}
	for old.HasNext() {
		url, _ := old.Next()
		next.Add(url)
	}
	return next, nil
}

// bounds 两种队列共用的容量控制
type bounds struct {
	capacity int
}

func (b *bounds) full(size int) bool {
	return b.capacity > 0 && size >= b.capacity
}

func (b *bounds) resize(size, capacity int) error {
	if capacity < 0 {
		return fmt.Errorf("%w: %d", models.ErrInvalidResize, capacity)
	}
	if capacity > 0 && capacity < size {
		return fmt.Errorf("%w: 目标容量 %d, 待处理 %d", models.ErrInvalidResize, capacity, size)
	}
	b.capacity = capacity
	return nil
}

// breadthFirst 广度优先队列(FIFO)
type breadthFirst struct {
	bounds
	queue *linkedlistqueue.Queue[string]
}

func (f *breadthFirst) HasNext() bool { return !f.queue.Empty() }
func (f *breadthFirst) Len() int      { return f.queue.Size() }
func (f *breadthFirst) Cap() int      { return f.capacity }

func (f *breadthFirst) Strategy() models.Strategy { return models.StrategyBreadthFirst }

func (f *breadthFirst) Add(url string) bool {
	if f.full(f.queue.Size()) {
		return false
	}
	f.queue.Enqueue(url)
	return true
}

func (f *breadthFirst) AddAll(urls []string) int {
	return addAll(f, urls)
}

func (f *breadthFirst) Next() (string, error) {
	url, ok := f.queue.Dequeue()
	if !ok {
		return "", models.ErrEmptyFrontier
	}
	return url, nil
}

func (f *breadthFirst) Resize(capacity int) error {
	return f.resize(f.queue.Size(), capacity)
}

// depthFirst 深度优先队列(LIFO)
type depthFirst struct {
	bounds
	stack *arraystack.Stack[string]
}

func (f *depthFirst) HasNext() bool { return !f.stack.Empty() }
func (f *depthFirst) Len() int      { return f.stack.Size() }
func (f *depthFirst) Cap() int      { return f.capacity }

func (f *depthFirst) Strategy() models.Strategy { return models.StrategyDepthFirst }

func (f *depthFirst) Add(url string) bool {
	if f.full(f.stack.Size()) {
		return false
	}
	f.stack.Push(url)
	return true
}

func (f *depthFirst) AddAll(urls []string) int {
	return addAll(f, urls)
}

func (f *depthFirst) Next() (string, error) {
	url, ok := f.stack.Pop()
	if !ok {
		return "", models.ErrEmptyFrontier
	}
	return url, nil
}

func (f *depthFirst) Resize(capacity int) error {
	return f.resize(f.stack.Size(), capacity)
}

func addAll(f Frontier, urls []string) int {
	added := 0
	for _, url := range urls {
		if f.Add(url) {
			added++
		}
	}
	return added
}
