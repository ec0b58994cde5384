// Package config 加载爬取词表
package config

import (
	"errors"
	"os"
	"strings"

	"github.com/RecoveryAshes/wordcrawl/internal/models"
	"github.com/RecoveryAshes/wordcrawl/internal/utils"
)

// ErrEmptyVocabulary 去除停用词后词表为空
var ErrEmptyVocabulary = errors.New("词表为空")

// LoadVocabulary 加载词表并去除停用词
// 每行一个词,统一转为小写,跳过空行和#注释,按文件顺序去重
// stopwordsFile为空或不存在时不做过滤
func LoadVocabulary(wordsFile, stopwordsFile string) ([]string, error) {
	words, err := utils.ReadLines(wordsFile)
	if err != nil {
		return nil, &models.ConfigError{FilePath: wordsFile, Cause: err}
	}

	stopwords := make(map[string]struct{})
	if stopwordsFile != "" {
		lines, err := utils.ReadLines(stopwordsFile)
		switch {
		case errors.Is(err, os.ErrNotExist):
			utils.Warnf("停用词文件不存在,跳过过滤: %s", stopwordsFile)
		case err != nil:
			return nil, &models.ConfigError{FilePath: stopwordsFile, Cause: err}
		}
		for _, line := range lines {
			stopwords[strings.ToLower(line)] = struct{}{}
		}
	}

	vocabulary := FilterVocabulary(words, stopwords)
	if len(vocabulary) == 0 {
		return nil, &models.ConfigError{FilePath: wordsFile, Cause: ErrEmptyVocabulary}
	}

	utils.Infof("词表加载完成: %d 个词 (原始 %d, 停用词 %d)", len(vocabulary), len(words), len(stopwords))
	return vocabulary, nil
}

// FilterVocabulary 小写化、去重并去除停用词,保持原有顺序
func FilterVocabulary(words []string, stopwords map[string]struct{}) []string {
	seen := make(map[string]struct{}, len(words))
	result := make([]string, 0, len(words))
	for _, word := range words {
		word = strings.ToLower(strings.TrimSpace(word))
		if word == "" {
			continue
		}
		if _, stop := stopwords[word]; stop {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		result = append(result, word)
	}
	return result
}

// ParseWordList 解析逗号分隔的词列表(命令行 --vocab 使用)
func ParseWordList(list string) []string {
	return FilterVocabulary(strings.Split(list, ","), nil)
}
