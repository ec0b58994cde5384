package crawlers

import (
	"testing"

	"github.com/RecoveryAshes/wordcrawl/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, f Frontier) []string {
	t.Helper()
	var out []string
	for f.HasNext() {
		url, err := f.Next()
		require.NoError(t, err)
		out = append(out, url)
	}
	return out
}

func TestFrontier_Order(t *testing.T) {
	tests := []struct {
		strategy models.Strategy
		want     []string
	}{
		{models.StrategyBreadthFirst, []string{"a", "b", "c"}},
		{models.StrategyDepthFirst, []string{"c", "b", "a"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.strategy), func(t *testing.T) {
			f, err := NewFrontier(tt.strategy, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.strategy, f.Strategy())
			assert.Equal(t, 3, f.AddAll([]string{"a", "b", "c"}))
			assert.Equal(t, 3, f.Len())
			assert.Equal(t, tt.want, drain(t, f))
		})
	}
}

func TestFrontier_EmptyNext(t *testing.T) {
	for _, strategy := range []models.Strategy{models.StrategyBreadthFirst, models.StrategyDepthFirst} {
		f, err := NewFrontier(strategy, 0)
		require.NoError(t, err)
		assert.False(t, f.HasNext())
		_, err = f.Next()
		assert.ErrorIs(t, err, models.ErrEmptyFrontier)
	}
}

func TestFrontier_KeepsDuplicates(t *testing.T) {
	f, err := NewFrontier(models.StrategyBreadthFirst, 0)
	require.NoError(t, err)
	f.AddAll([]string{"a", "a"})
	assert.Equal(t, []string{"a", "a"}, drain(t, f))
}

func TestFrontier_CapacityDropsOverflow(t *testing.T) {
	f, err := NewFrontier(models.StrategyBreadthFirst, 2)
	require.NoError(t, err)

	assert.Equal(t, 2, f.AddAll([]string{"a", "b", "c"}))
	assert.False(t, f.Add("d"))
	assert.Equal(t, []string{"a", "b"}, drain(t, f))
	assert.True(t, f.Add("e"))
}

func TestFrontier_Resize(t *testing.T) {
	f, err := NewFrontier(models.StrategyDepthFirst, 4)
	require.NoError(t, err)
	f.AddAll([]string{"a", "b", "c"})

	err = f.Resize(2)
	assert.ErrorIs(t, err, models.ErrInvalidResize)
	assert.Equal(t, 4, f.Cap(), "失败的Resize不应改变容量")
	assert.Equal(t, 3, f.Len())

	require.NoError(t, f.Resize(3))
	assert.False(t, f.Add("d"))

	require.NoError(t, f.Resize(0))
	assert.True(t, f.Add("d"))

	assert.ErrorIs(t, f.Resize(-1), models.ErrInvalidResize)
}

func TestNewFrontier_Invalid(t *testing.T) {
	_, err := NewFrontier("random", 0)
	assert.Error(t, err)
	_, err = NewFrontier(models.StrategyBreadthFirst, -1)
	assert.Error(t, err)
}

func TestSwapFrontier(t *testing.T) {
	bfs, err := NewFrontier(models.StrategyBreadthFirst, 10)
	require.NoError(t, err)
	bfs.AddAll([]string{"a", "b", "c"})

	dfs, err := SwapFrontier(bfs, models.StrategyDepthFirst)
	require.NoError(t, err)
	assert.Equal(t, models.StrategyDepthFirst, dfs.Strategy())
	assert.Equal(t, 10, dfs.Cap())
	assert.False(t, bfs.HasNext(), "旧队列应被清空")
	// BFS按a,b,c出队后依次压栈,DFS弹出为c,b,a
	assert.Equal(t, []string{"c", "b", "a"}, drain(t, dfs))

	same, err := SwapFrontier(dfs, models.StrategyDepthFirst)
	require.NoError(t, err)
	assert.Same(t, dfs, same)
}

func TestVisitedSet(t *testing.T) {
	v := NewVisitedSet()
	assert.False(t, v.Contains("http://a"))
	assert.True(t, v.Add("http://a"))
	assert.False(t, v.Add("http://a"))
	assert.True(t, v.Contains("http://a"))
	assert.False(t, v.Contains("http://a/"), "按字符串精确匹配")
	assert.Equal(t, 1, v.Len())
}
