package models

import (
	"encoding/json"
	"time"
)

// CrawlReport 爬取报告
type CrawlReport struct {
	// 任务信息
	TaskID   string     `json:"task_id"`
	SeedURL  string     `json:"seed_url"`
	Strategy Strategy   `json:"strategy"`
	Status   TaskStatus `json:"status"`

	// 时间信息
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Duration  float64   `json:"duration"` // 秒

	// 统计信息
	Stats TaskStats `json:"stats"`

	// 词 -> 命中URL(首次出现顺序),仅包含有命中的词
	Hits map[string][]string `json:"hits"`

	// 失败页面
	FailedPages []FailedPage `json:"failed_pages"`

	// 配置快照
	Config CrawlConfig `json:"config"`
}

// FailedPage 失败页面信息
type FailedPage struct {
	URL        string `json:"url"`
	StatusCode int    `json:"status_code,omitempty"`
	ErrorMsg   string `json:"error_msg"`
}

// ToJSON 序列化为JSON
func (r *CrawlReport) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// FromJSON 从JSON反序列化
func (r *CrawlReport) FromJSON(data []byte) error {
	return json.Unmarshal(data, r)
}
