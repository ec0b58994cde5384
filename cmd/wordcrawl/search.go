package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/RecoveryAshes/wordcrawl/internal/engine"
	"github.com/c-bata/go-prompt"
)

// runSearchPrompt 交互查询,输入词语回车查询,:q 或 Ctrl+D 退出
func runSearchPrompt(searchEngine *engine.SearchEngine, out io.Writer) {
	fmt.Fprintf(out, "交互查询: 共 %d 个命中, 输入 :q 退出\n", searchEngine.Size())

	suggestions := make([]prompt.Suggest, 0)
	for _, word := range searchEngine.Words() {
		suggestions = append(suggestions, prompt.Suggest{
			Text:        word,
			Description: fmt.Sprintf("%d", len(searchEngine.SearchHits(word))),
		})
	}

	executor := func(input string) {
		for _, word := range strings.Fields(input) {
			if word == ":q" {
				return
			}
			printHits(out, word, searchEngine.SearchHits(word))
		}
	}
	completer := func(d prompt.Document) []prompt.Suggest {
		if d.TextBeforeCursor() == "" {
			return nil
		}
		return prompt.FilterHasPrefix(suggestions, d.GetWordBeforeCursor(), true)
	}

	p := prompt.New(executor, completer,
		prompt.OptionPrefix("search> "),
		prompt.OptionTitle("wordcrawl"),
		prompt.OptionMaxSuggestion(8),
		prompt.OptionSetExitCheckerOnInput(func(in string, breakline bool) bool {
			return breakline && strings.TrimSpace(in) == ":q"
		}),
	)
	p.Run()
}
