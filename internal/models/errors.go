package models

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyFrontier 队列为空时调用Next
	ErrEmptyFrontier = errors.New("待爬队列为空")

	// ErrInvalidResize 缩容后的容量小于当前待处理数
	ErrInvalidResize = errors.New("队列容量不能小于当前待处理URL数")

	// ErrCrawlerNotIdle 爬取器已运行或已耗尽,不能再次爬取
	ErrCrawlerNotIdle = errors.New("爬取器不处于空闲状态")
)

// FetchError 单个页面抓取失败
type FetchError struct {
	URL        string
	StatusCode int // HTTP状态码,未知时为0
	Cause      error
}

// Error 实现error接口
func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("抓取页面失败 [%s] (状态码 %d): %v", e.URL, e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("抓取页面失败 [%s]: %v", e.URL, e.Cause)
}

// Unwrap 支持errors.Unwrap
func (e *FetchError) Unwrap() error {
	return e.Cause
}
