package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/RecoveryAshes/wordcrawl/internal/crawlers"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "检查运行环境",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		allOK := true

		fmt.Fprintf(out, "✅ Go运行时: %s (%s/%s)\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)

		if path, found := launcher.LookPath(); found {
			fmt.Fprintf(out, "✅ 浏览器: %s\n", path)
		} else {
			fmt.Fprintln(out, "⚠️  未找到Chrome/Chromium - 动态读取模式(--mode dynamic)将不可用")
		}

		monitor := crawlers.NewResourceMonitor(crawlers.ResourceMonitorConfig{
			SafetyReserveMemory: int64(appConfig.Resource.SafetyReserveMemory) * 1024 * 1024,
			CPULoadThreshold:    appConfig.Resource.CPULoadThreshold,
			MaxWorkersLimit:     appConfig.Resource.MaxWorkersLimit,
		})
		mem := monitor.MemoryStatus()
		fmt.Fprintf(out, "✅ 内存: 可用 %d MB / 总计 %d MB (%.1f%%)\n",
			mem.AvailableMemory/(1024*1024), mem.TotalMemory/(1024*1024), mem.UsedPercent)
		fmt.Fprintf(out, "✅ 建议并发: %d (配置 %d)\n",
			monitor.MaxWorkers(appConfig.Crawl.Workers), appConfig.Crawl.Workers)

		for _, file := range []struct {
			path     string
			required bool
		}{
			{appConfig.Vocabulary.WordsFile, true},
			{appConfig.Vocabulary.StopwordsFile, false},
		} {
			_, err := os.Stat(file.path)
			switch {
			case err == nil:
				fmt.Fprintf(out, "✅ %s\n", file.path)
			case errors.Is(err, os.ErrNotExist) && !file.required:
				fmt.Fprintf(out, "⚠️  %s 不存在,不做停用词过滤\n", file.path)
			case errors.Is(err, os.ErrNotExist):
				fmt.Fprintf(out, "❌ %s 不存在 - 使用 --words 指定词表或 --vocab 直接给出\n", file.path)
				allOK = false
			default:
				fmt.Fprintf(out, "❌ %s: %v\n", file.path, err)
				allOK = false
			}
		}

		if !allOK {
			return errors.New("环境检查未通过")
		}
		fmt.Fprintln(out, "✅ 环境检查通过")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
