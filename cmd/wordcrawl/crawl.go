package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/RecoveryAshes/wordcrawl/internal/config"
	"github.com/RecoveryAshes/wordcrawl/internal/core"
	"github.com/RecoveryAshes/wordcrawl/internal/crawlers"
	"github.com/RecoveryAshes/wordcrawl/internal/engine"
	"github.com/RecoveryAshes/wordcrawl/internal/models"
	"github.com/RecoveryAshes/wordcrawl/internal/utils"
)

const separator = "=================================================="

// crawlEnv 单次运行共享的组件
type crawlEnv struct {
	cfg        *core.Config
	vocabulary []string
	reader     models.PageReader
	monitor    *crawlers.ResourceMonitor
	close      func()
}

// prepare 合并命令行参数并创建读取器、词表与资源监控器
func prepare() (*crawlEnv, error) {
	cfg := appConfig
	if err := cfg.MergeCLIFlags(core.CLIFlags{
		MaxHits:          maxHits,
		Strategy:         strategy,
		FrontierCapacity: frontierCapacity,
		Workers:          workers,
		Mode:             mode,
		Timeout:          time.Duration(timeout) * time.Second,
		WordsFile:        wordsFile,
		StopwordsFile:    stopwordsFile,
		OutputDir:        outputDir,
	}); err != nil {
		return nil, err
	}
	if headlessChanged {
		cfg.Reader.Headless = headless
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("配置无效: %w", err)
	}

	vocabulary, err := loadVocabulary(cfg)
	if err != nil {
		return nil, err
	}

	headerManager, err := core.NewHeaderManager(cfg.Reader.Headers, headers)
	if err != nil {
		return nil, fmt.Errorf("创建HTTP头部管理器失败: %w", err)
	}

	reader, closeReader := newReader(cfg, headerManager)
	monitor := crawlers.NewResourceMonitor(crawlers.ResourceMonitorConfig{
		SafetyReserveMemory: int64(cfg.Resource.SafetyReserveMemory) * 1024 * 1024,
		CPULoadThreshold:    cfg.Resource.CPULoadThreshold,
		MaxWorkersLimit:     cfg.Resource.MaxWorkersLimit,
	})

	utils.Logger.Info().
		Str("mode", string(cfg.Reader.Mode)).
		Str("strategy", string(cfg.Crawl.Strategy)).
		Int("max_hits", cfg.Crawl.MaxHits).
		Str("headers", headerManager.SafeString()).
		Int("vocabulary", len(vocabulary)).
		Msg("任务配置")

	return &crawlEnv{
		cfg:        cfg,
		vocabulary: vocabulary,
		reader:     reader,
		monitor:    monitor,
		close:      closeReader,
	}, nil
}

// runCrawl 从单个种子爬取并输出结果
func runCrawl(ctx context.Context, out io.Writer) error {
	env, err := prepare()
	if err != nil {
		return err
	}
	defer env.close()

	bar := utils.NewProgressBar(env.cfg.Crawl.MaxHits, "crawling")
	searchEngine, err := engine.New(env.cfg.Crawl.MaxHits, env.reader, env.vocabulary,
		engine.WithCrawlConfig(env.cfg.Crawl),
		engine.WithResourceLimiter(env.monitor),
		engine.WithProgress(func(p models.CrawlProgress) {
			_ = bar.Set(p.Hits)
		}),
	)
	if err != nil {
		return err
	}

	crawlErr := searchEngine.CrawlFrom(ctx, targetURL)
	_ = bar.Finish()
	switch {
	case errors.Is(crawlErr, context.Canceled):
		utils.Warn("爬取被中断,输出已有结果")
	case crawlErr != nil:
		return crawlErr
	}

	writeReport(out, env.cfg, searchEngine.Report())

	for _, word := range searchWords {
		printHits(out, word, searchEngine.SearchHits(word))
	}
	if interactive {
		runSearchPrompt(searchEngine, out)
	}
	return nil
}

// runBatch 依次爬取URL文件中的种子
func runBatch(ctx context.Context, out io.Writer) error {
	urls, err := utils.ReadLines(urlFile)
	if err != nil {
		return fmt.Errorf("读取URL文件失败: %w", err)
	}

	env, err := prepare()
	if err != nil {
		return err
	}
	defer env.close()

	batch := core.NewBatchCrawler(env.cfg.Crawl, env.reader, env.vocabulary,
		time.Duration(batchDelay)*time.Second, continueOnError)
	batch.SetResourceLimiter(env.monitor)

	summary, err := batch.CrawlBatch(ctx, urls)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("批量爬取失败: %w", err)
	}

	for _, result := range summary.Results {
		if result.Report.TaskID != "" {
			writeReport(out, env.cfg, result.Report)
		}
		if !result.Success {
			fmt.Fprintf(out, "❌ %s: %v\n", result.URL, result.Error)
		}
	}
	fmt.Fprintf(out, "批量爬取: %d 个种子, 成功 %d, 失败 %d, 命中 %d, 耗时 %.2fs\n",
		summary.TotalURLs, summary.SuccessCount, summary.FailCount, summary.TotalHits, summary.TotalDuration)
	return nil
}

// writeReport 输出摘要并按配置保存JSON报告
func writeReport(out io.Writer, cfg *core.Config, report models.CrawlReport) {
	fmt.Fprintln(out, separator)
	fmt.Fprint(out, utils.FormatSummary(report, top))
	fmt.Fprintln(out, separator)

	if !cfg.Output.Report {
		return
	}
	path, err := utils.NewReporter(cfg.Output.BaseDir).GenerateReport(report)
	if err != nil {
		utils.Error(err, "保存报告失败")
		return
	}
	fmt.Fprintf(out, "报告已保存: %s\n", path)
}

// loadVocabulary --vocab 优先,否则从文件加载
func loadVocabulary(cfg *core.Config) ([]string, error) {
	if vocabList != "" {
		words := config.ParseWordList(vocabList)
		if len(words) == 0 {
			return nil, config.ErrEmptyVocabulary
		}
		return words, nil
	}
	return config.LoadVocabulary(cfg.Vocabulary.WordsFile, cfg.Vocabulary.StopwordsFile)
}

// newReader 按读取模式创建页面读取器,返回的关闭函数总是非nil
func newReader(cfg *core.Config, headerManager *core.HeaderManager) (models.PageReader, func()) {
	if cfg.Reader.Mode == models.ReaderDynamic {
		reader := crawlers.NewDynamicReader(crawlers.DynamicReaderConfig{
			Timeout:  cfg.Reader.Timeout,
			Headless: cfg.Reader.Headless,
			MaxTabs:  cfg.Crawl.Workers,
			Settle:   cfg.Reader.Settle,
		}, headerManager)
		return reader, func() {
			if err := reader.Close(); err != nil {
				utils.Warnf("关闭浏览器失败: %v", err)
			}
		}
	}

	reader := crawlers.NewStaticReader(crawlers.StaticReaderConfig{
		Timeout:     cfg.Reader.Timeout,
		MaxBodySize: cfg.Reader.MaxBodySize,
	}, headerManager)
	return reader, func() {}
}

// printHits 输出单个词的查询结果
func printHits(out io.Writer, word string, hits []string) {
	if len(hits) == 0 {
		fmt.Fprintf(out, "%s: 无结果\n", word)
		return
	}
	fmt.Fprintf(out, "%s: %d 个页面\n", word, len(hits))
	fmt.Fprintf(out, "  %s\n", strings.Join(hits, "\n  "))
}
