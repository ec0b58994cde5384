package utils

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/RecoveryAshes/wordcrawl/internal/models"
)

func TestValidateHeader(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		value     string
		wantErr   bool
		wantField string
	}{
		{"合法头部", "User-Agent", "WordCrawl/1.0", false, ""},
		{"空名称", "", "x", true, "name"},
		{"禁止头部", "host", "example.com", true, "name"},
		{"名称含空格", "X Bad", "x", true, "name"},
		{"值含换行", "X-Test", "a\nb", true, "value"},
		{"值过长", "X-Test", strings.Repeat("a", MaxHeaderValueLength+1), true, "value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHeader(tt.header, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateHeader() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			var verr *models.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("应该返回ValidationError, got %T", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestValidateHeaders(t *testing.T) {
	headers := http.Header{}
	headers.Set("Accept", "text/html")
	if err := ValidateHeaders(headers); err != nil {
		t.Fatalf("ValidateHeaders() error = %v", err)
	}
	headers.Set("Connection", "close")
	if err := ValidateHeaders(headers); err == nil {
		t.Error("包含禁止头部时应该返回错误")
	}
}

func TestRedactHeaders(t *testing.T) {
	headers := http.Header{}
	headers.Set("Authorization", "Bearer abcdefghijkl")
	headers.Set("X-Api-Key", "1234567890abcdef")
	headers.Set("Cookie", "sid=1")
	headers.Set("Accept", "text/html")

	got := RedactHeaders(headers)
	want := "Accept: text/html, Authorization: Bearer ***, Cookie: ***, X-Api-Key: 1234***cdef"
	if got != want {
		t.Errorf("RedactHeaders() = %q, want %q", got, want)
	}
}

func TestReadLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	content := "# 注释\ncow\n\n  bird  \nput\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	lines, err := ReadLines(path)
	if err != nil {
		t.Fatalf("ReadLines() error = %v", err)
	}
	if strings.Join(lines, ",") != "cow,bird,put" {
		t.Errorf("ReadLines() = %v", lines)
	}

	if _, err := ReadLines(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("文件不存在时应该返回错误")
	}
}

func TestReporter_GenerateReport(t *testing.T) {
	outputDir := t.TempDir()
	reporter := NewReporter(outputDir)

	report := models.CrawlReport{
		TaskID:    models.NewTaskID(),
		SeedURL:   "http://127.0.0.1:8080/index.html",
		Strategy:  models.StrategyBreadthFirst,
		Status:    models.TaskStatusCompleted,
		StartTime: time.Now(),
		EndTime:   time.Now(),
		Stats:     models.TaskStats{VisitedPages: 3, TotalHits: 2},
		Hits:      map[string][]string{"cow": {"http://127.0.0.1:8080/a.html"}},
		Config:    models.DefaultCrawlConfig(),
	}

	path, err := reporter.GenerateReport(report)
	if err != nil {
		t.Fatalf("GenerateReport() error = %v", err)
	}
	if want := filepath.Join(outputDir, "127.0.0.1_8080", "reports", "crawl_report_"+report.TaskID+".json"); path != want {
		t.Errorf("报告路径 = %s, want %s", path, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var decoded models.CrawlReport
	if err := decoded.FromJSON(data); err != nil {
		t.Fatalf("报告不是合法JSON: %v", err)
	}
	if decoded.FailedPages == nil {
		t.Error("failed_pages应该输出为空数组")
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(path), "failed_pages_"+report.TaskID+".json")); err != nil {
		t.Errorf("缺少failed_pages: %v", err)
	}
}

func TestReporter_SameHostSeeds(t *testing.T) {
	reporter := NewReporter(t.TempDir())

	seeds := []string{"http://a.test/x", "http://a.test/y"}
	paths := make([]string, 0, len(seeds))
	for _, seed := range seeds {
		path, err := reporter.GenerateReport(models.CrawlReport{
			TaskID:  models.NewTaskID(),
			SeedURL: seed,
			Config:  models.DefaultCrawlConfig(),
		})
		if err != nil {
			t.Fatalf("GenerateReport(%s) error = %v", seed, err)
		}
		paths = append(paths, path)
	}

	if paths[0] == paths[1] {
		t.Fatalf("同一主机的两个种子写入了同一文件: %s", paths[0])
	}
	if filepath.Dir(paths[0]) != filepath.Dir(paths[1]) {
		t.Errorf("同一主机应共用报告目录: %s vs %s", paths[0], paths[1])
	}
	for i, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("读取报告失败: %v", err)
		}
		var decoded models.CrawlReport
		if err := decoded.FromJSON(data); err != nil {
			t.Fatalf("报告不是合法JSON: %v", err)
		}
		if decoded.SeedURL != seeds[i] {
			t.Errorf("报告 %s 的种子 = %s, want %s", path, decoded.SeedURL, seeds[i])
		}
	}
}

func TestFormatSummary(t *testing.T) {
	report := models.CrawlReport{
		Hits: map[string][]string{
			"cow":  {"a"},
			"put":  {"a", "b"},
			"bird": {"c"},
		},
		Config: models.DefaultCrawlConfig(),
	}

	summary := FormatSummary(report, 2)
	putIdx := strings.Index(summary, "put")
	birdIdx := strings.Index(summary, "bird")
	if putIdx < 0 || birdIdx < 0 || putIdx > birdIdx {
		t.Errorf("摘要应按命中数降序: %s", summary)
	}
	if strings.Contains(summary, "cow") {
		t.Errorf("top=2时不应包含第三个词: %s", summary)
	}
}
