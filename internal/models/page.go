package models

import "context"

// Page 页面读取结果
// Links和Words均由读取器提取,核心逻辑不做任何解析或规范化
type Page struct {
	URL   string   `json:"url"`
	Links []string `json:"links"` // 页面中的外链(绝对URL,文档顺序)
	Words []string `json:"words"` // 页面文本中的词(出现顺序,可重复)
}

// PageReader 页面读取器接口
// 给定URL,返回该页的外链和词序列
type PageReader interface {
	// Read 抓取并解析单个页面
	// 实现需要自行处理超时,失败时返回 *FetchError
	Read(ctx context.Context, url string) (*Page, error)
}

// PageReaderFunc 函数适配器
type PageReaderFunc func(ctx context.Context, url string) (*Page, error)

// Read 实现PageReader接口
func (f PageReaderFunc) Read(ctx context.Context, url string) (*Page, error) {
	return f(ctx, url)
}
