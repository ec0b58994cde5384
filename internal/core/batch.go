package core

import (
	"context"
	"fmt"
	"time"

	"github.com/RecoveryAshes/wordcrawl/internal/index"
	"github.com/RecoveryAshes/wordcrawl/internal/models"
	"github.com/RecoveryAshes/wordcrawl/internal/utils"
)

// BatchCrawler 批量爬取器
// 每个种子使用独立的索引与爬取器,共享读取器和词表
type BatchCrawler struct {
	config        models.CrawlConfig
	reader        models.PageReader
	vocabulary    []string
	limiter       ResourceLimiter
	batchDelay    time.Duration
	continueOnErr bool
}

// BatchResult 单个种子的爬取结果
type BatchResult struct {
	URL      string
	Success  bool
	Error    error
	Report   models.CrawlReport
	Duration float64
}

// BatchSummary 批量爬取摘要
type BatchSummary struct {
	TotalURLs     int
	SuccessCount  int
	FailCount     int
	TotalHits     int
	TotalPages    int
	TotalDuration float64
	Results       []BatchResult
}

// NewBatchCrawler 创建批量爬取器
func NewBatchCrawler(config models.CrawlConfig, reader models.PageReader, vocabulary []string, batchDelay time.Duration, continueOnErr bool) *BatchCrawler {
	return &BatchCrawler{
		config:        config,
		reader:        reader,
		vocabulary:    vocabulary,
		batchDelay:    batchDelay,
		continueOnErr: continueOnErr,
	}
}

// SetResourceLimiter 设置资源限制器,传递给每个种子的爬取器
func (bc *BatchCrawler) SetResourceLimiter(limiter ResourceLimiter) {
	bc.limiter = limiter
}

// CrawlBatch 依次爬取种子列表
// ctx取消时停止处理后续种子,已完成的结果保留在摘要中
func (bc *BatchCrawler) CrawlBatch(ctx context.Context, urls []string) (*BatchSummary, error) {
	utils.Infof("开始批量爬取: %d个种子", len(urls))

	summary := &BatchSummary{
		TotalURLs: len(urls),
		Results:   make([]BatchResult, 0, len(urls)),
	}
	startTime := time.Now()

	for i, seedURL := range urls {
		utils.Infof("[%d/%d] 种子: %s", i+1, len(urls), seedURL)

		result := bc.crawlSingleURL(ctx, seedURL)
		summary.Results = append(summary.Results, result)
		summary.TotalPages += result.Report.Stats.VisitedPages

		if result.Success {
			summary.SuccessCount++
			summary.TotalHits += result.Report.Stats.TotalHits
		} else {
			summary.FailCount++
			utils.Errorf("种子爬取失败 [%s]: %v", seedURL, result.Error)
			if !bc.continueOnErr {
				utils.Warn("批量爬取中止 (--continue-on-error=false)")
				break
			}
		}

		if err := ctx.Err(); err != nil {
			summary.TotalDuration = time.Since(startTime).Seconds()
			return summary, err
		}

		if i < len(urls)-1 && bc.batchDelay > 0 {
			select {
			case <-ctx.Done():
				summary.TotalDuration = time.Since(startTime).Seconds()
				return summary, ctx.Err()
			case <-time.After(bc.batchDelay):
			}
		}
	}

	summary.TotalDuration = time.Since(startTime).Seconds()
	utils.Infof("批量爬取完成: 成功 %d, 失败 %d, 命中 %d, 耗时 %.2fs",
		summary.SuccessCount, summary.FailCount, summary.TotalHits, summary.TotalDuration)
	return summary, nil
}

// crawlSingleURL 爬取单个种子
func (bc *BatchCrawler) crawlSingleURL(ctx context.Context, seedURL string) (result BatchResult) {
	result.URL = seedURL
	startTime := time.Now()
	defer func() { result.Duration = time.Since(startTime).Seconds() }()

	if err := models.ValidateURL(seedURL); err != nil {
		result.Error = err
		return result
	}

	idx := index.New()
	if err := idx.Load(bc.vocabulary...); err != nil {
		result.Error = err
		return result
	}

	crawler, err := NewCrawler(bc.config, bc.reader, idx)
	if err != nil {
		result.Error = fmt.Errorf("创建爬取器失败: %w", err)
		return result
	}
	if bc.limiter != nil {
		crawler.SetResourceLimiter(bc.limiter)
	}

	err = crawler.Crawl(ctx, seedURL)
	result.Report = crawler.Report()
	if err != nil {
		result.Error = fmt.Errorf("爬取失败: %w", err)
		return result
	}

	result.Success = true
	return result
}
