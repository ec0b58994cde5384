package utils

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/RecoveryAshes/wordcrawl/internal/models"
	"github.com/schollz/progressbar/v3"
)

// Reporter 报告生成器
type Reporter struct {
	outputDir string
}

// NewReporter 创建报告生成器
func NewReporter(outputDir string) *Reporter {
	return &Reporter{outputDir: outputDir}
}

// ReportDir 报告目录: <outputDir>/<种子主机名>/reports
func (r *Reporter) ReportDir(seedURL string) string {
	host := "unknown"
	if parsed, err := url.Parse(seedURL); err == nil && parsed.Host != "" {
		host = strings.ReplaceAll(parsed.Host, ":", "_")
	}
	return filepath.Join(r.outputDir, host, "reports")
}

// GenerateReport 生成爬取报告
// 输出 crawl_report_<任务ID>.json(完整报告)与 failed_pages_<任务ID>.json(失败列表)
// 同一主机的多个种子各自保留报告
func (r *Reporter) GenerateReport(report models.CrawlReport) (string, error) {
	reportsDir := r.ReportDir(report.SeedURL)
	if err := os.MkdirAll(reportsDir, 0755); err != nil {
		return "", fmt.Errorf("创建报告目录失败: %w", err)
	}

	if report.FailedPages == nil {
		report.FailedPages = []models.FailedPage{}
	}
	if report.Hits == nil {
		report.Hits = map[string][]string{}
	}

	data, err := report.ToJSON()
	if err != nil {
		return "", fmt.Errorf("序列化报告失败: %w", err)
	}
	suffix := reportSuffix(report.TaskID)
	reportPath := filepath.Join(reportsDir, "crawl_report"+suffix+".json")
	if err := os.WriteFile(reportPath, data, 0644); err != nil {
		return "", fmt.Errorf("写入报告文件失败: %w", err)
	}

	if err := r.saveJSONReport(reportsDir, "failed_pages"+suffix+".json", report.FailedPages); err != nil {
		return "", err
	}

	Infof("报告已生成: %s", reportsDir)
	return reportPath, nil
}

// reportSuffix 报告文件名后缀,任务ID为空时无后缀
func reportSuffix(taskID string) string {
	if taskID == "" {
		return ""
	}
	return "_" + taskID
}

// saveJSONReport 保存JSON报告
func (r *Reporter) saveJSONReport(dir string, filename string, data interface{}) error {
	path := filepath.Join(dir, filename)

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化JSON失败: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return fmt.Errorf("写入报告文件失败: %w", err)
	}

	Debugf("保存报告: %s", path)
	return nil
}

// FormatSummary 生成控制台摘要
// 按命中数降序列出各词,最多top个
func FormatSummary(report models.CrawlReport, top int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "任务: %s\n", report.TaskID)
	fmt.Fprintf(&sb, "种子: %s (策略: %s)\n", report.SeedURL, report.Strategy)
	fmt.Fprintf(&sb, "页面: %d 已处理, %d 失败, %d 重复跳过\n",
		report.Stats.VisitedPages, report.Stats.FailedPages, report.Stats.SkippedRevisits)
	fmt.Fprintf(&sb, "命中: %d / %d, 耗时 %.2fs\n",
		report.Stats.TotalHits, report.Config.MaxHits, report.Duration)

	words := make([]string, 0, len(report.Hits))
	for word := range report.Hits {
		words = append(words, word)
	}
	sort.Slice(words, func(i, j int) bool {
		li, lj := len(report.Hits[words[i]]), len(report.Hits[words[j]])
		if li != lj {
			return li > lj
		}
		return words[i] < words[j]
	})
	if top > 0 && len(words) > top {
		words = words[:top]
	}
	for _, word := range words {
		fmt.Fprintf(&sb, "  %-20s %d\n", word, len(report.Hits[word]))
	}
	return sb.String()
}

// NewProgressBar 创建进度条
func NewProgressBar(max int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(max,
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("hits"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}
