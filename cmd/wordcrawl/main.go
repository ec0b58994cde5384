package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/RecoveryAshes/wordcrawl/internal/core"
	"github.com/RecoveryAshes/wordcrawl/internal/utils"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

// 命令行参数
var (
	// 全局参数
	configFile string
	verbose    bool
	logLevel   string

	// HTTP头部参数
	headers []string

	// 爬取参数
	targetURL        string
	urlFile          string
	maxHits          int
	strategy         string
	workers          int
	frontierCapacity int
	mode             string
	timeout          int
	headless         bool
	headlessChanged  bool
	outputDir        string

	// 词表参数
	wordsFile     string
	stopwordsFile string
	vocabList     string

	// 批量处理参数
	batchDelay      int
	continueOnError bool

	// 查询参数
	searchWords []string
	interactive bool
	top         int
)

// appConfig 由PersistentPreRunE加载
var appConfig *core.Config

var rootCmd = &cobra.Command{
	Use:   "wordcrawl",
	Short: "词表爬虫: 从种子页面出发,记录词表中每个词出现的页面",
	Long: `wordcrawl - 基于词表的网页爬取与检索工具

从种子URL出发按广度优先或深度优先遍历站点,
对词表中的每个词记录其出现的页面,命中总数达到预算时停止。

示例:
  # 广度优先,命中预算40
  wordcrawl -u http://localhost:8080/testcrawl/index.html --max 40

  # 深度优先,指定词表并查询
  wordcrawl -u https://example.com --strategy dfs --words words.txt --search cow --search bird

  # 直接给出词表,爬取结束后进入交互查询
  wordcrawl -u https://example.com --vocab "cow,put,bird" --interactive

  # 批量爬取,每个种子单独出报告
  wordcrawl -f seeds.txt --vocab "cow,bird" --batch-delay 2

  # 渲染JavaScript页面,附加自定义头部
  wordcrawl -u https://example.com --mode dynamic -H "Cookie: session=abc"

版本: ` + Version + `
构建时间: ` + BuildTime,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config, err := core.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("加载配置失败: %w", err)
		}

		if err := config.MergeCLIFlags(core.CLIFlags{LogLevel: logLevel}); err != nil {
			return err
		}
		logConfig := config.LogConfig()
		if verbose {
			logConfig.Level = "debug"
		}
		// 进度条与交互查询占用终端,日志只写文件
		logConfig.Quiet = interactive || (!verbose && !cmd.HasParent() && targetURL != "" && urlFile == "")

		if err := utils.InitLogger(logConfig); err != nil {
			return fmt.Errorf("初始化日志系统失败: %w", err)
		}

		appConfig = config
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if targetURL == "" && urlFile == "" {
			return cmd.Help()
		}
		if err := validateFlags(); err != nil {
			return err
		}
		headlessChanged = cmd.Flags().Changed("headless")
		if urlFile != "" {
			return runBatch(cmd.Context(), cmd.OutOrStdout())
		}
		return runCrawl(cmd.Context(), cmd.OutOrStdout())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("wordcrawl %s\n", Version)
		fmt.Printf("构建时间: %s\n", BuildTime)
	},
}

func init() {
	// 全局参数
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "配置文件路径")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "详细输出模式")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "日志级别 (trace|debug|info|warn|error)")
	rootCmd.PersistentFlags().StringSliceVarP(&headers, "header", "H", []string{}, "自定义HTTP头部,格式: 'Name: Value',可多次指定")

	// 爬取参数
	rootCmd.Flags().StringVarP(&targetURL, "url", "u", "", "种子URL (必需,除非使用 --url-file)")
	rootCmd.Flags().StringVarP(&urlFile, "url-file", "f", "", "种子URL列表文件,每行一个")
	rootCmd.Flags().IntVar(&maxHits, "max", 0, "命中预算 (默认取配置文件, 5000)")
	rootCmd.Flags().StringVarP(&strategy, "strategy", "s", "", "遍历策略 (bfs|dfs)")
	rootCmd.Flags().IntVar(&workers, "threads", 0, "并发抓取数")
	rootCmd.Flags().IntVar(&frontierCapacity, "frontier-cap", 0, "待爬队列容量,0为不限")
	rootCmd.Flags().StringVarP(&mode, "mode", "m", "", "读取模式 (static|dynamic)")
	rootCmd.Flags().IntVarP(&timeout, "timeout", "t", 0, "单页超时(秒)")
	rootCmd.Flags().BoolVar(&headless, "headless", true, "动态模式使用无头浏览器")
	rootCmd.Flags().StringVarP(&outputDir, "output", "o", "", "报告输出目录")

	// 词表参数
	rootCmd.Flags().StringVar(&wordsFile, "words", "", "词表文件,每行一个词")
	rootCmd.Flags().StringVar(&stopwordsFile, "stopwords", "", "停用词文件")
	rootCmd.Flags().StringVar(&vocabList, "vocab", "", "逗号分隔的词表,优先于 --words")

	// 批量处理参数
	rootCmd.Flags().IntVar(&batchDelay, "batch-delay", 1, "批量处理种子间延迟(秒)")
	rootCmd.Flags().BoolVar(&continueOnError, "continue-on-error", true, "遇到错误继续处理")

	// 查询参数
	rootCmd.Flags().StringSliceVar(&searchWords, "search", []string{}, "爬取结束后查询的词,可多次指定")
	rootCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "爬取结束后进入交互查询")
	rootCmd.Flags().IntVar(&top, "top", 10, "摘要中列出的词数")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(validateCmd)
}

func main() {
	// Ctrl+C 结束爬取,已有结果照常输出
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}
