package main

import (
	"fmt"

	"github.com/RecoveryAshes/wordcrawl/internal/config"
	"github.com/RecoveryAshes/wordcrawl/internal/core"
	"github.com/RecoveryAshes/wordcrawl/internal/models"
	"github.com/spf13/cobra"
)

// validateFlags 验证命令行标志
func validateFlags() error {
	if targetURL != "" {
		if err := models.ValidateURL(targetURL); err != nil {
			return fmt.Errorf("无效的种子URL: %w", err)
		}
	}
	if targetURL != "" && urlFile != "" {
		return fmt.Errorf("--url 与 --url-file 不能同时使用")
	}
	if batchDelay < 0 {
		return fmt.Errorf("批量延迟不能为负数,当前值: %d", batchDelay)
	}
	if maxHits < 0 {
		return fmt.Errorf("命中预算不能为负数,当前值: %d", maxHits)
	}
	if strategy != "" {
		if _, err := models.ParseStrategy(strategy); err != nil {
			return err
		}
	}
	if workers < 0 || workers > models.MaxWorkersLimit {
		return fmt.Errorf("并发数必须在1-%d之间,当前值: %d", models.MaxWorkersLimit, workers)
	}
	if frontierCapacity < 0 {
		return fmt.Errorf("队列容量不能为负数,当前值: %d", frontierCapacity)
	}
	if timeout < 0 || timeout > 300 {
		return fmt.Errorf("超时必须在0-300秒之间,当前值: %d", timeout)
	}
	switch models.ReaderMode(mode) {
	case "", models.ReaderStatic, models.ReaderDynamic:
	default:
		return fmt.Errorf("无效的读取模式: %s (有效值: static, dynamic)", mode)
	}
	return nil
}

var validateCmd = &cobra.Command{
	Use:   "validate-config",
	Short: "验证配置文件、词表与HTTP头部",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if err := appConfig.Validate(); err != nil {
			return fmt.Errorf("配置验证失败: %w", err)
		}
		fmt.Fprintf(out, "✅ 爬取配置: 预算 %d, 策略 %s, 并发 %d, 读取模式 %s\n",
			appConfig.Crawl.MaxHits, appConfig.Crawl.Strategy, appConfig.Crawl.Workers, appConfig.Reader.Mode)

		headerManager, err := core.NewHeaderManager(appConfig.Reader.Headers, headers)
		if err != nil {
			return fmt.Errorf("HTTP头部验证失败: %w", err)
		}
		fmt.Fprintf(out, "✅ HTTP头部: %s\n", headerManager.SafeString())

		vocabulary, err := config.LoadVocabulary(appConfig.Vocabulary.WordsFile, appConfig.Vocabulary.StopwordsFile)
		if err != nil {
			return fmt.Errorf("词表验证失败: %w", err)
		}
		fmt.Fprintf(out, "✅ 词表: %d 个词 (%s)\n", len(vocabulary), appConfig.Vocabulary.WordsFile)
		return nil
	},
}
