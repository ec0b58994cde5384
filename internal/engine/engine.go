// Package engine 搜索引擎门面
//
// SearchEngine 组合词表索引与爬取器:构造时加载词表,CrawlFrom 执行一次爬取,
// 之后通过 SearchHits 查询每个词出现的页面。爬取结束后的查询结果经LRU缓存。
package engine

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/RecoveryAshes/wordcrawl/internal/core"
	"github.com/RecoveryAshes/wordcrawl/internal/index"
	"github.com/RecoveryAshes/wordcrawl/internal/models"
	"github.com/RecoveryAshes/wordcrawl/internal/utils"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize 默认查询缓存条目数
const DefaultCacheSize = 1024

// Option 构造选项
type Option func(*options)

type options struct {
	crawl      models.CrawlConfig
	cacheSize  int
	limiter    core.ResourceLimiter
	onProgress func(models.CrawlProgress)
}

// WithCrawlConfig 使用完整的爬取配置,MaxHits仍以New的参数为准
func WithCrawlConfig(config models.CrawlConfig) Option {
	return func(o *options) { o.crawl = config }
}

// WithCacheSize 设置查询缓存大小
func WithCacheSize(size int) Option {
	return func(o *options) { o.cacheSize = size }
}

// WithResourceLimiter 设置资源限制器
func WithResourceLimiter(limiter core.ResourceLimiter) Option {
	return func(o *options) { o.limiter = limiter }
}

// WithProgress 注册进度回调
func WithProgress(fn func(models.CrawlProgress)) Option {
	return func(o *options) { o.onProgress = fn }
}

// SearchEngine 搜索引擎
type SearchEngine struct {
	crawler *core.Crawler
	index   *index.VocabularyIndex
	cache   *lru.Cache[string, []string]
}

// New 创建搜索引擎并加载词表
// maxHits<=0 时使用默认预算 models.DefaultMaxHits
func New(maxHits int, reader models.PageReader, vocabulary []string, opts ...Option) (*SearchEngine, error) {
	o := options{crawl: models.DefaultCrawlConfig(), cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		opt(&o)
	}

	if maxHits <= 0 {
		maxHits = models.DefaultMaxHits
	}
	o.crawl.MaxHits = maxHits

	idx := index.New()
	if err := idx.Load(vocabulary...); err != nil {
		return nil, fmt.Errorf("加载词表失败: %w", err)
	}
	if idx.Len() == 0 {
		utils.Warn("词表为空,爬取不会产生任何命中")
	}

	crawler, err := core.NewCrawler(o.crawl, reader, idx)
	if err != nil {
		return nil, err
	}
	if o.limiter != nil {
		crawler.SetResourceLimiter(o.limiter)
	}
	if o.onProgress != nil {
		crawler.OnProgress(o.onProgress)
	}

	cache, err := lru.New[string, []string](max(o.cacheSize, 1))
	if err != nil {
		return nil, fmt.Errorf("创建查询缓存失败: %w", err)
	}

	return &SearchEngine{crawler: crawler, index: idx, cache: cache}, nil
}

// SetMax 设置命中预算,仅在爬取前有效
func (e *SearchEngine) SetMax(maxHits int) error {
	return e.crawler.SetMaxHits(maxHits)
}

// SetBreadthFirst 切换为广度优先,爬取中调用时立即生效
func (e *SearchEngine) SetBreadthFirst() bool {
	return e.setStrategy(models.StrategyBreadthFirst)
}

// SetDepthFirst 切换为深度优先,爬取中调用时立即生效
func (e *SearchEngine) SetDepthFirst() bool {
	return e.setStrategy(models.StrategyDepthFirst)
}

func (e *SearchEngine) setStrategy(strategy models.Strategy) bool {
	if err := e.crawler.SetStrategy(strategy); err != nil {
		utils.Warnf("切换遍历策略失败: %v", err)
		return false
	}
	return true
}

// CrawlFrom 从指定地址开始爬取
func (e *SearchEngine) CrawlFrom(ctx context.Context, webAddress string) error {
	if err := models.ValidateURL(webAddress); err != nil {
		return err
	}
	err := e.crawler.Crawl(ctx, webAddress)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("爬取失败: %w", err)
	}
	return err
}

// SearchHits 查询包含该词的页面,按首次命中顺序
// 未知词返回空切片
func (e *SearchEngine) SearchHits(target string) []string {
	word := strings.ToLower(strings.TrimSpace(target))

	// 爬取结束前索引仍在变化,不缓存
	if e.crawler.State() != core.StateExhausted {
		return e.index.Hits(word)
	}

	if hits, ok := e.cache.Get(word); ok {
		return slices.Clone(hits)
	}
	hits := e.index.Hits(word)
	e.cache.Add(word, hits)
	return slices.Clone(hits)
}

// Size 命中总数
func (e *SearchEngine) Size() int {
	return e.index.Size()
}

// Words 词表(按字典序),爬取结束后不含已裁剪的零命中词
func (e *SearchEngine) Words() []string {
	return e.index.Words()
}

// State 爬取器状态
func (e *SearchEngine) State() core.State {
	return e.crawler.State()
}

// Report 爬取报告
func (e *SearchEngine) Report() models.CrawlReport {
	return e.crawler.Report()
}
