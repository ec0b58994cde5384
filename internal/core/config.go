package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/RecoveryAshes/wordcrawl/internal/models"
	"github.com/RecoveryAshes/wordcrawl/internal/utils"
	"github.com/spf13/viper"
)

// Config 应用程序配置
type Config struct {
	Crawl      models.CrawlConfig `mapstructure:"crawl"`
	Reader     ReaderConfig       `mapstructure:"reader"`
	Vocabulary VocabularyConfig   `mapstructure:"vocabulary"`
	Logging    LoggingConfig      `mapstructure:"logging"`
	Output     OutputConfig       `mapstructure:"output"`
	Resource   ResourceConfig     `mapstructure:"resource"`
}

// ReaderConfig 页面读取配置
type ReaderConfig struct {
	Mode        models.ReaderMode `mapstructure:"mode"`          // static | dynamic
	Timeout     time.Duration     `mapstructure:"timeout"`       // 单页超时
	Headless    bool              `mapstructure:"headless"`      // 动态模式是否无头
	Settle      time.Duration     `mapstructure:"settle"`        // 动态模式加载完成后额外等待
	MaxBodySize int               `mapstructure:"max_body_size"` // 响应体上限(字节)
	Headers     map[string]string `mapstructure:"headers"`       // 自定义请求头
}

// VocabularyConfig 词表配置
type VocabularyConfig struct {
	WordsFile     string `mapstructure:"words_file"`
	StopwordsFile string `mapstructure:"stopwords_file"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level    string         `mapstructure:"level"`
	LogDir   string         `mapstructure:"log_dir"`
	Rotation RotationConfig `mapstructure:"rotation"`
}

// RotationConfig 日志轮转配置
type RotationConfig struct {
	MaxSize    int  `mapstructure:"max_size"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAge     int  `mapstructure:"max_age"`
	Compress   bool `mapstructure:"compress"`
}

// OutputConfig 输出配置
type OutputConfig struct {
	BaseDir string `mapstructure:"base_dir"`
	Report  bool   `mapstructure:"report"`
}

// ResourceConfig 资源限制配置
type ResourceConfig struct {
	SafetyReserveMemory int     `mapstructure:"safety_reserve_memory"` // 系统预留内存(MB)
	CPULoadThreshold    float64 `mapstructure:"cpu_load_threshold"`    // CPU负载阈值(%)
	MaxWorkersLimit     int     `mapstructure:"max_workers_limit"`     // 并发上限
}

// LoadConfig 加载配置文件
// configPath为空时搜索 ./configs, . 和 ~/.wordcrawl 下的 config.yaml,找不到则使用默认值
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".wordcrawl"))
		}
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, &models.ConfigError{FilePath: v.ConfigFileUsed(), Cause: err}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	strategy, err := models.ParseStrategy(string(config.Crawl.Strategy))
	if err != nil {
		return nil, &models.ConfigError{FilePath: v.ConfigFileUsed(), Cause: err}
	}
	config.Crawl.Strategy = strategy

	return &config, nil
}

// setDefaults 设置默认配置值
func setDefaults(v *viper.Viper) {
	// 爬取
	v.SetDefault("crawl.max_hits", models.DefaultMaxHits)
	v.SetDefault("crawl.strategy", string(models.StrategyBreadthFirst))
	v.SetDefault("crawl.frontier_capacity", 0)
	v.SetDefault("crawl.workers", 1)
	v.SetDefault("crawl.prune_empty", true)

	// 页面读取
	v.SetDefault("reader.mode", string(models.ReaderStatic))
	v.SetDefault("reader.timeout", "10s")
	v.SetDefault("reader.headless", true)
	v.SetDefault("reader.settle", "0s")
	v.SetDefault("reader.max_body_size", 10*1024*1024)

	// 词表
	v.SetDefault("vocabulary.words_file", "words.txt")
	v.SetDefault("vocabulary.stopwords_file", "stopwords.txt")

	// 日志
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.log_dir", "logs")
	v.SetDefault("logging.rotation.max_size", 10)
	v.SetDefault("logging.rotation.max_backups", 3)
	v.SetDefault("logging.rotation.max_age", 28)
	v.SetDefault("logging.rotation.compress", true)

	// 输出
	v.SetDefault("output.base_dir", "output")
	v.SetDefault("output.report", true)

	// 资源
	v.SetDefault("resource.safety_reserve_memory", 512)
	v.SetDefault("resource.cpu_load_threshold", 85.0)
	v.SetDefault("resource.max_workers_limit", 16)
}

// CLIFlags 命令行覆盖项,零值表示未指定
type CLIFlags struct {
	MaxHits          int
	Strategy         string
	FrontierCapacity int
	Workers          int
	Mode             string
	Timeout          time.Duration
	WordsFile        string
	StopwordsFile    string
	OutputDir        string
	LogLevel         string
}

// MergeCLIFlags 合并命令行参数到配置
// 命令行参数优先于配置文件
func (c *Config) MergeCLIFlags(flags CLIFlags) error {
	if flags.MaxHits > 0 {
		c.Crawl.MaxHits = flags.MaxHits
	}
	if flags.Strategy != "" {
		strategy, err := models.ParseStrategy(flags.Strategy)
		if err != nil {
			return err
		}
		c.Crawl.Strategy = strategy
	}
	if flags.FrontierCapacity > 0 {
		c.Crawl.FrontierCapacity = flags.FrontierCapacity
	}
	if flags.Workers > 0 {
		c.Crawl.Workers = flags.Workers
	}
	if flags.Mode != "" {
		c.Reader.Mode = models.ReaderMode(flags.Mode)
	}
	if flags.Timeout > 0 {
		c.Reader.Timeout = flags.Timeout
	}
	if flags.WordsFile != "" {
		c.Vocabulary.WordsFile = flags.WordsFile
	}
	if flags.StopwordsFile != "" {
		c.Vocabulary.StopwordsFile = flags.StopwordsFile
	}
	if flags.OutputDir != "" {
		c.Output.BaseDir = flags.OutputDir
	}
	if flags.LogLevel != "" {
		c.Logging.Level = flags.LogLevel
	}
	return nil
}

// Validate 验证完整配置
func (c *Config) Validate() error {
	if err := c.Crawl.Validate(); err != nil {
		return err
	}
	switch c.Reader.Mode {
	case models.ReaderStatic, models.ReaderDynamic:
	default:
		return fmt.Errorf("无效的读取模式: %q (有效值: static, dynamic)", c.Reader.Mode)
	}
	if c.Reader.Timeout <= 0 {
		return fmt.Errorf("读取超时必须大于0,当前值: %s", c.Reader.Timeout)
	}
	if c.Resource.MaxWorkersLimit < 0 {
		return fmt.Errorf("并发上限不能为负数,当前值: %d", c.Resource.MaxWorkersLimit)
	}
	return nil
}

// LogConfig 转换为日志系统配置
func (c *Config) LogConfig() utils.LogConfig {
	return utils.LogConfig{
		Level:      c.Logging.Level,
		LogDir:     c.Logging.LogDir,
		MaxSize:    c.Logging.Rotation.MaxSize,
		MaxBackups: c.Logging.Rotation.MaxBackups,
		MaxAge:     c.Logging.Rotation.MaxAge,
		Compress:   c.Logging.Rotation.Compress,
	}
}
