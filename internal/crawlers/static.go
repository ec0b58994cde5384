package crawlers

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/RecoveryAshes/wordcrawl/internal/models"
	"github.com/RecoveryAshes/wordcrawl/internal/utils"
	"github.com/andybalholm/brotli"
	"github.com/gocolly/colly/v2"
)

// StaticReaderConfig 静态读取器配置
type StaticReaderConfig struct {
	Timeout     time.Duration // 单页超时
	MaxBodySize int           // 响应体上限(字节),0使用colly默认值
}

// StaticReader 静态页面读取器(使用Colly)
// 实现 models.PageReader,可被多个goroutine同时调用
type StaticReader struct {
	client         *http.Client
	config         StaticReaderConfig
	headerProvider models.HeaderProvider
}

// NewStaticReader 创建静态读取器
func NewStaticReader(config StaticReaderConfig, headerProvider models.HeaderProvider) *StaticReader {
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}

	// 跳过证书验证,允许访问自签名、过期或主机名不匹配的HTTPS站点
	client := &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			TLSClientConfig:     &tls.Config{InsecureSkipVerify: true},
			MaxIdleConnsPerHost: 16,
		},
		Timeout: config.Timeout,
	}
	utils.Debugf("静态读取器: HTTP超时 %s, TLS证书验证已禁用", config.Timeout)

	return &StaticReader{
		client:         client,
		config:         config,
		headerProvider: headerProvider,
	}
}

// newCollector 每次读取使用独立collector,共享同一HTTP客户端
func (sr *StaticReader) newCollector(ctx context.Context) *colly.Collector {
	options := []colly.CollectorOption{
		colly.AllowURLRevisit(),
		colly.StdlibContext(ctx),
	}
	if sr.config.MaxBodySize > 0 {
		options = append(options, colly.MaxBodySize(sr.config.MaxBodySize))
	}

	c := colly.NewCollector(options...)
	c.SetClient(sr.client)
	return c
}

// Read 抓取并解析页面
// 非2xx响应或网络错误返回 *models.FetchError
func (sr *StaticReader) Read(ctx context.Context, pageURL string) (*models.Page, error) {
	page := &models.Page{URL: pageURL}
	c := sr.newCollector(ctx)

	var statusCode int

	// 应用自定义HTTP头部
	c.OnRequest(func(r *colly.Request) {
		if sr.headerProvider == nil {
			return
		}
		headers, err := sr.headerProvider.GetHeaders()
		if err != nil {
			utils.Warnf("获取HTTP头部失败: %v", err)
			return
		}
		for name, values := range headers {
			if len(values) > 0 {
				r.Headers.Set(name, values[0])
			}
		}
	})

	c.OnResponse(func(r *colly.Response) {
		statusCode = r.StatusCode
		if !isTextContent(r.Headers.Get("Content-Type")) {
			utils.Debugf("跳过非文本内容 [%s]: %s", pageURL, r.Headers.Get("Content-Type"))
			return
		}

		body := r.Body
		if encoding := r.Headers.Get("Content-Encoding"); encoding != "" {
			decompressed, err := decompressBody(encoding, r.Body)
			if err != nil {
				// 解压失败,仍然使用原始body
				utils.Warnf("解压响应失败 [%s] (编码=%s): %v", pageURL, encoding, err)
			} else {
				body = decompressed
			}
		}
		page.Words = ExtractWords(string(body))

		// colly的OnHTML只处理未压缩的HTML,br/deflate压缩的页面在这里提取链接
		if !bytes.Equal(body, r.Body) {
			links, err := ExtractLinks(string(body), r.Request.URL.String())
			if err != nil {
				utils.Debugf("提取链接失败 [%s]: %v", pageURL, err)
				return
			}
			page.Links = links
		}
	})

	// 提取页面链接(<base>由colly处理)
	c.OnHTML("a[href]", func(e *colly.HTMLElement) {
		link := e.Request.AbsoluteURL(e.Attr("href"))
		if link == "" || !isFollowable(link) {
			return
		}
		page.Links = append(page.Links, stripFragment(link))
	})

	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			statusCode = r.StatusCode
		}
	})

	if err := c.Visit(pageURL); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return nil, &models.FetchError{URL: pageURL, StatusCode: statusCode, Cause: err}
	}

	return page, nil
}

// isTextContent 是否为可提取词语的内容类型
// 未声明Content-Type时按HTML处理
func isTextContent(contentType string) bool {
	if contentType == "" {
		return true
	}
	contentType = strings.ToLower(contentType)
	return strings.Contains(contentType, "html") || strings.HasPrefix(contentType, "text/")
}

// decompressBody 根据Content-Encoding头部解压响应体
// colly已处理的gzip响应按魔数识别,避免重复解压
func decompressBody(contentEncoding string, body []byte) ([]byte, error) {
	var reader io.Reader
	switch strings.ToLower(strings.TrimSpace(contentEncoding)) {
	case "gzip":
		if len(body) < 2 || body[0] != 0x1f || body[1] != 0x8b {
			return body, nil
		}
		gz, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("gzip解压失败: %w", err)
		}
		defer gz.Close()
		reader = gz
	case "deflate":
		fl := flate.NewReader(bytes.NewReader(body))
		defer fl.Close()
		reader = fl
	case "br":
		reader = brotli.NewReader(bytes.NewReader(body))
	case "", "identity":
		return body, nil
	default:
		return nil, errors.New("未知的Content-Encoding: " + contentEncoding)
	}

	decompressed, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%s读取失败: %w", contentEncoding, err)
	}
	return decompressed, nil
}
