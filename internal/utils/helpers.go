package utils

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ReadLines 读取按行组织的列表文件
// 跳过空行和#开头的注释行,每行去除首尾空白
func ReadLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开文件失败: %w", err)
	}
	defer file.Close()

	lines := make([]string, 0)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("读取文件失败: %w", err)
	}

	Debugf("从 %s 读取了 %d 行", path, len(lines))
	return lines, nil
}
