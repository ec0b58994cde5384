package models

import (
	"fmt"
	"strings"
)

// TaskStatus 任务状态
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"   // 待执行
	TaskStatusRunning   TaskStatus = "running"   // 执行中
	TaskStatusCompleted TaskStatus = "completed" // 已完成(队列耗尽或预算用完)
	TaskStatusCancelled TaskStatus = "cancelled" // 已取消
)

// Strategy 遍历策略
type Strategy string

const (
	StrategyBreadthFirst Strategy = "bfs" // 广度优先(FIFO)
	StrategyDepthFirst   Strategy = "dfs" // 深度优先(LIFO)
)

// ParseStrategy 解析遍历策略名称
// 接受 bfs/breadth-first/width-first 与 dfs/depth-first
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "bfs", "breadth", "breadth-first", "width-first":
		return StrategyBreadthFirst, nil
	case "dfs", "depth", "depth-first":
		return StrategyDepthFirst, nil
	default:
		return "", fmt.Errorf("无效的遍历策略: %q (有效值: bfs, dfs)", name)
	}
}

// ReaderMode 页面读取模式
type ReaderMode string

const (
	ReaderStatic  ReaderMode = "static"  // Colly静态抓取
	ReaderDynamic ReaderMode = "dynamic" // go-rod渲染后抓取
)

const (
	// DefaultMaxHits 默认命中预算
	DefaultMaxHits = 5000

	// MaxWorkersLimit 并发抓取上限
	MaxWorkersLimit = 64
)

// TaskStats 任务统计
type TaskStats struct {
	VisitedPages    int     `json:"visited_pages"`    // 已处理页面数
	FailedPages     int     `json:"failed_pages"`     // 抓取失败页面数
	EnqueuedURLs    int     `json:"enqueued_urls"`    // 加入队列的URL数
	DroppedURLs     int     `json:"dropped_urls"`     // 队列已满被丢弃的URL数
	SkippedRevisits int     `json:"skipped_revisits"` // 出队时已访问而跳过的URL数
	TotalHits       int     `json:"total_hits"`       // 命中总数(预算计数器)
	PrunedWords     int     `json:"pruned_words"`     // 结束时裁剪的零命中词数
	Duration        float64 `json:"duration"`         // 总耗时(秒)
}

// CrawlConfig 爬取配置
type CrawlConfig struct {
	MaxHits          int      `mapstructure:"max_hits" json:"max_hits"`                   // 命中预算 (默认:5000)
	Strategy         Strategy `mapstructure:"strategy" json:"strategy"`                   // 遍历策略 (默认:bfs)
	FrontierCapacity int      `mapstructure:"frontier_capacity" json:"frontier_capacity"` // 待爬队列容量,0为不限
	Workers          int      `mapstructure:"workers" json:"workers"`                     // 并发抓取数 (默认:1)
	PruneEmpty       bool     `mapstructure:"prune_empty" json:"prune_empty"`             // 结束时裁剪零命中词
}

// DefaultCrawlConfig 默认爬取配置
func DefaultCrawlConfig() CrawlConfig {
	return CrawlConfig{
		MaxHits:    DefaultMaxHits,
		Strategy:   StrategyBreadthFirst,
		Workers:    1,
		PruneEmpty: true,
	}
}

// Validate 验证配置
func (c *CrawlConfig) Validate() error {
	if c.MaxHits < 1 {
		return fmt.Errorf("命中预算必须大于0,当前值: %d", c.MaxHits)
	}
	if _, err := ParseStrategy(string(c.Strategy)); err != nil {
		return err
	}
	if c.FrontierCapacity < 0 {
		return fmt.Errorf("队列容量不能为负数,当前值: %d", c.FrontierCapacity)
	}
	if c.Workers < 1 || c.Workers > MaxWorkersLimit {
		return fmt.Errorf("并发数必须在1-%d之间,当前值: %d", MaxWorkersLimit, c.Workers)
	}
	return nil
}

// CrawlProgress 单页处理完成后的进度快照
type CrawlProgress struct {
	URL      string // 刚处理的URL
	Visited  int    // 已处理页面数
	Pending  int    // 队列中待处理数
	Hits     int    // 当前命中总数
	MaxHits  int    // 命中预算
	Failed   bool   // 该页是否抓取失败
	Strategy Strategy
}
