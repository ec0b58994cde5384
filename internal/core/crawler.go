package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/RecoveryAshes/wordcrawl/internal/crawlers"
	"github.com/RecoveryAshes/wordcrawl/internal/index"
	"github.com/RecoveryAshes/wordcrawl/internal/models"
	"github.com/RecoveryAshes/wordcrawl/internal/utils"
	"golang.org/x/sync/errgroup"
)

// State 爬取器状态
type State int

const (
	StateIdle      State = iota // 尚未开始
	StateRunning                // 爬取中
	StateExhausted              // 已结束,不可再次爬取
)

// String 实现fmt.Stringer
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateExhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ResourceLimiter 资源限制器,由 crawlers.ResourceMonitor 实现
type ResourceLimiter interface {
	MaxWorkers(requested int) int
	MemoryStatus() crawlers.MemoryStatus
}

// crawlState 单次爬取的状态,仅在Running期间存在
type crawlState struct {
	frontier crawlers.Frontier
	visited  *crawlers.VisitedSet
}

// fetchResult 单个页面的抓取结果
type fetchResult struct {
	url      string
	page     *models.Page
	err      error
	download time.Duration
}

// Crawler 词表爬取器
// 从种子URL出发按策略遍历,将词表中的词与所在页面记入索引,命中总数达到预算时停止
type Crawler struct {
	mu sync.Mutex

	config  models.CrawlConfig
	reader  models.PageReader
	index   *index.VocabularyIndex
	limiter ResourceLimiter

	state State
	run   *crawlState

	taskID     string
	seedURL    string
	status     models.TaskStatus
	startTime  time.Time
	endTime    time.Time
	stats      models.TaskStats
	failed     []models.FailedPage
	onProgress func(models.CrawlProgress)
}

// NewCrawler 创建爬取器
func NewCrawler(config models.CrawlConfig, reader models.PageReader, idx *index.VocabularyIndex) (*Crawler, error) {
	if reader == nil {
		return nil, errors.New("页面读取器不能为空")
	}
	if idx == nil {
		return nil, errors.New("索引不能为空")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("爬取配置无效: %w", err)
	}
	config.Strategy, _ = models.ParseStrategy(string(config.Strategy))

	return &Crawler{
		config: config,
		reader: reader,
		index:  idx,
		state:  StateIdle,
		status: models.TaskStatusPending,
		taskID: models.NewTaskID(),
	}, nil
}

// SetResourceLimiter 设置资源限制器,并发抓取数按当前资源收紧
func (c *Crawler) SetResourceLimiter(limiter ResourceLimiter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.limiter = limiter
}

// OnProgress 注册进度回调
// 回调在每个页面处理完成后调用,调用时不持有内部锁,可在回调中切换策略
func (c *Crawler) OnProgress(fn func(models.CrawlProgress)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onProgress = fn
}

// State 当前状态
func (c *Crawler) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Strategy 当前遍历策略
func (c *Crawler) Strategy() models.Strategy {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.config.Strategy
}

// MaxHits 命中预算
func (c *Crawler) MaxHits() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.config.MaxHits
}

// SetStrategy 切换遍历策略
// 爬取中切换时,待处理URL按旧队列出队顺序全部转入新队列
func (c *Crawler) SetStrategy(strategy models.Strategy) error {
	parsed, err := models.ParseStrategy(string(strategy))
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateIdle:
	case StateRunning:
		frontier, err := crawlers.SwapFrontier(c.run.frontier, parsed)
		if err != nil {
			return err
		}
		if frontier != c.run.frontier {
			utils.Infof("遍历策略切换: %s -> %s (待处理 %d)", c.config.Strategy, parsed, frontier.Len())
		}
		c.run.frontier = frontier
	default:
		return fmt.Errorf("%w: 当前状态 %s", models.ErrCrawlerNotIdle, c.state)
	}
	c.config.Strategy = parsed
	return nil
}

// SetMaxHits 设置命中预算,仅在爬取开始前有效
func (c *Crawler) SetMaxHits(maxHits int) error {
	if maxHits < 1 {
		return fmt.Errorf("命中预算必须大于0,当前值: %d", maxHits)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateIdle {
		return fmt.Errorf("%w: 当前状态 %s", models.ErrCrawlerNotIdle, c.state)
	}
	c.config.MaxHits = maxHits
	return nil
}

// ResizeFrontier 调整待爬队列容量,0为不限
// 爬取中缩容到小于待处理数时返回 models.ErrInvalidResize,队列不变
func (c *Crawler) ResizeFrontier(capacity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateIdle:
		if capacity < 0 {
			return fmt.Errorf("%w: %d", models.ErrInvalidResize, capacity)
		}
	case StateRunning:
		if err := c.run.frontier.Resize(capacity); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: 当前状态 %s", models.ErrCrawlerNotIdle, c.state)
	}
	c.config.FrontierCapacity = capacity
	return nil
}

// Crawl 从种子URL开始爬取,直到队列耗尽或命中预算用完
// 每个实例只能爬取一次,再次调用返回 models.ErrCrawlerNotIdle
// ctx取消时提前结束并返回ctx.Err(),已记录的命中保留
func (c *Crawler) Crawl(ctx context.Context, seedURL string) error {
	workers, err := c.start(seedURL)
	if err != nil {
		return err
	}

	utils.Logger.Info().
		Str("task_id", c.taskID).
		Str("seed", seedURL).
		Str("strategy", string(c.Strategy())).
		Int("max_hits", c.MaxHits()).
		Int("workers", workers).
		Msg("开始爬取")

	err = c.loop(ctx, workers)
	c.finish(err)
	return err
}

// start Idle -> Running
func (c *Crawler) start(seedURL string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateIdle {
		return 0, fmt.Errorf("%w: 当前状态 %s", models.ErrCrawlerNotIdle, c.state)
	}

	frontier, err := crawlers.NewFrontier(c.config.Strategy, c.config.FrontierCapacity)
	if err != nil {
		return 0, err
	}

	// 种子作为第一个待处理URL,与其他页面一样被抓取、标记和索引
	frontier.Add(seedURL)
	c.run = &crawlState{frontier: frontier, visited: crawlers.NewVisitedSet()}
	c.state = StateRunning
	c.status = models.TaskStatusRunning
	c.seedURL = seedURL
	c.startTime = time.Now()
	c.stats.EnqueuedURLs = 1
	c.index.Seal()

	workers := c.config.Workers
	if workers > 1 && c.limiter != nil {
		workers = c.limiter.MaxWorkers(workers)
	}
	return workers, nil
}

// loop 主循环: 出队 -> 抓取 -> 更新队列与索引
func (c *Crawler) loop(ctx context.Context, workers int) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		batch := c.nextBatch(workers)
		if len(batch) == 0 {
			return nil
		}

		results, err := c.fetch(ctx, batch)
		if err != nil {
			return err
		}

		// 按出队顺序依次应用,保证队列插入与索引更新串行
		for _, result := range results {
			progress, notify := c.apply(result)
			if notify != nil {
				notify(progress)
			}
		}
	}
}

// nextBatch 按策略顺序取出至多n个未访问URL,并立即标记为已访问
// 出队时已访问的URL(被多个页面重复加入)直接跳过
func (c *Crawler) nextBatch(n int) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	batch := make([]string, 0, n)
	for len(batch) < n && c.run.frontier.HasNext() && c.index.Size() < c.config.MaxHits {
		url, err := c.run.frontier.Next()
		if err != nil {
			break
		}
		if !c.run.visited.Add(url) {
			c.stats.SkippedRevisits++
			utils.Debugf("跳过已访问URL: %s", url)
			continue
		}
		batch = append(batch, url)
	}
	return batch
}

// fetch 抓取一批页面,单个URL时不启动goroutine
// 单页读取失败记录在结果中,只有ctx取消时返回错误
func (c *Crawler) fetch(ctx context.Context, batch []string) ([]fetchResult, error) {
	results := make([]fetchResult, len(batch))
	read := func(ctx context.Context, i int) error {
		start := time.Now()
		page, err := c.reader.Read(ctx, batch[i])
		results[i] = fetchResult{url: batch[i], page: page, err: err, download: time.Since(start)}
		return ctx.Err()
	}

	if len(batch) == 1 {
		if err := read(ctx, 0); err != nil {
			return nil, err
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range batch {
		g.Go(func() error {
			return read(gctx, i)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// apply 将抓取结果写入队列与索引
// 返回进度快照和回调,由调用方在锁外执行
func (c *Crawler) apply(result fetchResult) (models.CrawlProgress, func(models.CrawlProgress)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	c.stats.VisitedPages++

	failed := result.err != nil
	if failed {
		c.recordFailure(result.url, result.err)
	} else if result.page != nil {
		for _, link := range result.page.Links {
			if c.run.visited.Contains(link) {
				continue
			}
			if c.run.frontier.Add(link) {
				c.stats.EnqueuedURLs++
			} else {
				c.stats.DroppedURLs++
			}
		}

		for _, word := range result.page.Words {
			if c.index.Size() >= c.config.MaxHits {
				break
			}
			c.index.RecordHit(word, result.url)
		}
	}

	hits := c.index.Size()
	c.stats.TotalHits = hits

	utils.Logger.Info().
		Str("url", result.url).
		Int("pending", c.run.frontier.Len()).
		Dur("download", result.download).
		Dur("logic", time.Since(start)).
		Bool("failed", failed).
		Msgf("(%5d/%5d) crawling: %s", hits, c.config.MaxHits, result.url)

	progress := models.CrawlProgress{
		URL:      result.url,
		Visited:  c.stats.VisitedPages,
		Pending:  c.run.frontier.Len(),
		Hits:     hits,
		MaxHits:  c.config.MaxHits,
		Failed:   failed,
		Strategy: c.config.Strategy,
	}
	return progress, c.onProgress
}

// recordFailure 记录抓取失败,不重试,该URL视为已访问且无链接无词语
func (c *Crawler) recordFailure(url string, err error) {
	c.stats.FailedPages++

	failure := models.FailedPage{URL: url, ErrorMsg: err.Error()}
	var fetchErr *models.FetchError
	if errors.As(err, &fetchErr) {
		failure.StatusCode = fetchErr.StatusCode
	}
	c.failed = append(c.failed, failure)

	utils.Logger.Warn().Err(err).Str("url", url).Msg("页面抓取失败,跳过")
}

// finish Running -> Exhausted,释放队列与已访问集合
func (c *Crawler) finish(err error) {
	c.mu.Lock()

	pending := c.run.frontier.Len()
	visited := c.run.visited.Len()
	c.run = nil
	c.state = StateExhausted
	c.endTime = time.Now()

	c.status = models.TaskStatusCompleted
	if err != nil {
		c.status = models.TaskStatusCancelled
	}

	c.stats.TotalHits = c.index.Size()
	c.stats.Duration = c.endTime.Sub(c.startTime).Seconds()
	if c.config.PruneEmpty {
		c.stats.PrunedWords = c.index.Prune()
	}
	stats := c.stats
	limiter := c.limiter
	c.mu.Unlock()

	event := utils.Logger.Info().
		Str("task_id", c.taskID).
		Int("visited", visited).
		Int("discarded_pending", pending).
		Int("hits", stats.TotalHits).
		Int("failed", stats.FailedPages).
		Int("pruned_words", stats.PrunedWords).
		Float64("duration", stats.Duration)
	if limiter != nil {
		mem := limiter.MemoryStatus()
		event = event.
			Uint64("heap_alloc_mb", mem.HeapAlloc/(1024*1024)).
			Uint64("available_mb", mem.AvailableMemory/(1024*1024))
	}
	event.Msg("爬取结束")
}

// Stats 统计快照
func (c *Crawler) Stats() models.TaskStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.stats
	stats.TotalHits = c.index.Size()
	if c.state == StateRunning {
		stats.Duration = time.Since(c.startTime).Seconds()
	}
	return stats
}

// Report 生成爬取报告
func (c *Crawler) Report() models.CrawlReport {
	c.mu.Lock()
	defer c.mu.Unlock()

	failed := make([]models.FailedPage, len(c.failed))
	copy(failed, c.failed)

	stats := c.stats
	stats.TotalHits = c.index.Size()

	return models.CrawlReport{
		TaskID:      c.taskID,
		SeedURL:     c.seedURL,
		Strategy:    c.config.Strategy,
		Status:      c.status,
		StartTime:   c.startTime,
		EndTime:     c.endTime,
		Duration:    stats.Duration,
		Stats:       stats,
		Hits:        c.index.Snapshot(),
		FailedPages: failed,
		Config:      c.config,
	}
}
