package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/RecoveryAshes/wordcrawl/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadVocabulary(t *testing.T) {
	dir := t.TempDir()
	words := writeFile(t, dir, "words.txt", "# 目标词\nCow\nthe\nput\n\ncow\nbird\nand\n")
	stopwords := writeFile(t, dir, "stopwords.txt", "THE\nand\n")

	vocabulary, err := LoadVocabulary(words, stopwords)
	require.NoError(t, err)
	assert.Equal(t, []string{"cow", "put", "bird"}, vocabulary)
}

func TestLoadVocabulary_MissingStopwords(t *testing.T) {
	dir := t.TempDir()
	words := writeFile(t, dir, "words.txt", "cow\nthe\n")

	vocabulary, err := LoadVocabulary(words, filepath.Join(dir, "missing.txt"))
	require.NoError(t, err)
	assert.Equal(t, []string{"cow", "the"}, vocabulary)

	vocabulary, err = LoadVocabulary(words, "")
	require.NoError(t, err)
	assert.Len(t, vocabulary, 2)
}

func TestLoadVocabulary_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadVocabulary(filepath.Join(dir, "missing.txt"), "")
	var configErr *models.ConfigError
	require.True(t, errors.As(err, &configErr))
	assert.ErrorIs(t, err, os.ErrNotExist)

	words := writeFile(t, dir, "words.txt", "the\n")
	stopwords := writeFile(t, dir, "stopwords.txt", "the\n")
	_, err = LoadVocabulary(words, stopwords)
	assert.ErrorIs(t, err, ErrEmptyVocabulary)
}

func TestParseWordList(t *testing.T) {
	assert.Equal(t, []string{"cow", "put", "bird"}, ParseWordList("Cow, put,,bird,cow"))
	assert.Empty(t, ParseWordList(""))
}
