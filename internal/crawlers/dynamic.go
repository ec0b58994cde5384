package crawlers

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/RecoveryAshes/wordcrawl/internal/models"
	"github.com/RecoveryAshes/wordcrawl/internal/utils"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DynamicReaderConfig 动态读取器配置
type DynamicReaderConfig struct {
	Timeout  time.Duration // 单页超时(含导航与加载)
	Headless bool          // 是否无头模式
	MaxTabs  int           // 最大标签页数
	Settle   time.Duration // 加载完成后额外等待,用于异步渲染
}

// DynamicReader 动态页面读取器(使用Rod)
// 浏览器在首次Read时启动,页面渲染后再提取链接与词语
type DynamicReader struct {
	config         DynamicReaderConfig
	headerProvider models.HeaderProvider

	mu      sync.Mutex
	browser *rod.Browser
	pool    *PagePool
}

// NewDynamicReader 创建动态读取器
func NewDynamicReader(config DynamicReaderConfig, headerProvider models.HeaderProvider) *DynamicReader {
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if config.MaxTabs < 1 {
		config.MaxTabs = 1
	}
	return &DynamicReader{config: config, headerProvider: headerProvider}
}

// ensureBrowser 启动并连接浏览器
func (dr *DynamicReader) ensureBrowser() (*PagePool, error) {
	dr.mu.Lock()
	defer dr.mu.Unlock()

	if dr.pool != nil {
		return dr.pool, nil
	}

	l := launcher.New().Headless(dr.config.Headless)
	if path, found := launcher.LookPath(); found {
		l = l.Bin(path)
	}
	// 允许访问自签名、过期或主机名不匹配的HTTPS站点
	l = l.Set("ignore-certificate-errors")

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("启动浏览器失败: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("连接浏览器失败: %w", err)
	}

	utils.Debugf("浏览器已启动: %s", controlURL)
	dr.browser = browser
	dr.pool = NewPagePool(browser, dr.config.MaxTabs)
	return dr.pool, nil
}

// extraHeaders 转换为rod的SetExtraHeaders参数
// Accept-Encoding由浏览器自行协商
func (dr *DynamicReader) extraHeaders() []string {
	if dr.headerProvider == nil {
		return nil
	}
	headers, err := dr.headerProvider.GetHeaders()
	if err != nil {
		utils.Warnf("获取HTTP头部失败: %v", err)
		return nil
	}

	dict := make([]string, 0, len(headers)*2)
	for name, values := range headers {
		if len(values) == 0 || strings.EqualFold(name, "Accept-Encoding") {
			continue
		}
		dict = append(dict, name, values[0])
	}
	return dict
}

// Read 渲染并解析页面
func (dr *DynamicReader) Read(ctx context.Context, pageURL string) (result *models.Page, err error) {
	pool, err := dr.ensureBrowser()
	if err != nil {
		return nil, &models.FetchError{URL: pageURL, Cause: err}
	}

	page, err := pool.AcquirePage(ctx)
	if err != nil {
		return nil, &models.FetchError{URL: pageURL, Cause: err}
	}

	broken := false
	defer func() {
		// rod在浏览器异常时可能panic
		if r := recover(); r != nil {
			utils.Errorf("捕获panic: URL=%s, 错误=%v", pageURL, r)
			err = &models.FetchError{URL: pageURL, Cause: fmt.Errorf("页面渲染panic: %v", r)}
			result = nil
			broken = true
		}
		pool.ReleasePage(page, broken)
	}()

	tctx, cancel := context.WithTimeout(ctx, dr.config.Timeout)
	defer cancel()
	p := page.Context(tctx)

	if dict := dr.extraHeaders(); len(dict) > 0 {
		restore, err := p.SetExtraHeaders(dict)
		if err != nil {
			utils.Warnf("设置HTTP头部失败 [%s]: %v", pageURL, err)
		} else {
			defer restore()
		}
	}

	if err := p.Navigate(pageURL); err != nil {
		broken = tctx.Err() != nil
		return nil, &models.FetchError{URL: pageURL, Cause: fmt.Errorf("导航失败: %w", err)}
	}
	if err := p.WaitLoad(); err != nil {
		broken = true
		return nil, &models.FetchError{URL: pageURL, Cause: fmt.Errorf("等待页面加载失败: %w", err)}
	}
	if dr.config.Settle > 0 {
		select {
		case <-time.After(dr.config.Settle):
		case <-tctx.Done():
		}
	}

	html, err := p.HTML()
	if err != nil {
		broken = true
		return nil, &models.FetchError{URL: pageURL, Cause: fmt.Errorf("读取页面内容失败: %w", err)}
	}

	// 相对链接按跳转后的最终地址解析
	baseURL := pageURL
	if info, err := p.Info(); err == nil && info.URL != "" {
		baseURL = info.URL
	}

	links, err := ExtractLinks(html, baseURL)
	if err != nil {
		utils.Warnf("提取链接失败 [%s]: %v", pageURL, err)
	}

	return &models.Page{URL: pageURL, Links: links, Words: ExtractWords(html)}, nil
}

// Close 关闭浏览器
func (dr *DynamicReader) Close() error {
	dr.mu.Lock()
	defer dr.mu.Unlock()

	if dr.browser == nil {
		return nil
	}
	dr.pool.Close()
	err := dr.browser.Close()
	dr.browser, dr.pool = nil, nil
	utils.Debugf("浏览器已关闭")
	return err
}
