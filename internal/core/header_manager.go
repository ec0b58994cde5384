package core

import (
	"net/http"

	"github.com/RecoveryAshes/wordcrawl/internal/models"
	"github.com/RecoveryAshes/wordcrawl/internal/utils"
)

const (
	// DefaultUserAgent 默认User-Agent
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/120.0.0.0 Safari/537.36"
)

// HeaderManager 管理HTTP请求头部
// 优先级: 默认 < 配置文件(reader.headers) < 命令行(-H)
// 实现 models.HeaderProvider 接口
type HeaderManager struct {
	merged http.Header
}

// NewHeaderManager 创建头部管理器
// 构造时完成解析、验证与合并,之后只读
func NewHeaderManager(configHeaders map[string]string, cliHeaders []string) (*HeaderManager, error) {
	config := make(http.Header, len(configHeaders))
	for name, value := range configHeaders {
		config.Set(name, value)
	}

	cli, err := models.CliHeaders(cliHeaders).Parse()
	if err != nil {
		return nil, err
	}

	for source, headers := range map[string]http.Header{"配置文件": config, "命令行": cli} {
		if err := utils.ValidateHeaders(headers); err != nil {
			utils.Errorf("%s头部验证失败: %v", source, err)
			return nil, err
		}
	}

	merged := defaultHeaders()
	for _, layer := range []http.Header{config, cli} {
		for name, values := range layer {
			merged[name] = values
		}
	}

	utils.Debugf("HTTP头部: %s", utils.RedactHeaders(merged))
	return &HeaderManager{merged: merged}, nil
}

// defaultHeaders 系统默认头部
func defaultHeaders() http.Header {
	return http.Header{
		"User-Agent":      []string{DefaultUserAgent},
		"Accept":          []string{"text/html,application/xhtml+xml,*/*;q=0.8"},
		"Accept-Encoding": []string{"gzip, deflate, br"},
	}
}

// GetHeaders 实现 HeaderProvider 接口
// 返回副本,调用方可自由修改
func (hm *HeaderManager) GetHeaders() (http.Header, error) {
	return hm.merged.Clone(), nil
}

// SafeString 脱敏后的头部字符串(用于日志)
func (hm *HeaderManager) SafeString() string {
	return utils.RedactHeaders(hm.merged)
}
