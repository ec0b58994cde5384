package crawlers

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// stripPolicy 去除全部标签,script/style内容一并丢弃
	// 被去除的标签替换为空格,相邻元素的词不会粘连
	stripPolicy = bluemonday.StripTagsPolicy().AddSpaceWhenStrippingTag(true)

	wordPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)
)

// ExtractWords 从HTML中提取正文词语
// 输出为小写,保持出现顺序,同一词可能重复出现
func ExtractWords(htmlContent string) []string {
	text := stripPolicy.Sanitize(htmlContent)
	text = html.UnescapeString(text)
	text = strings.ToLower(text)
	return wordPattern.FindAllString(text, -1)
}
